package yulpack

import (
	"context"
	goerrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/yulpack/artifact"
	"github.com/deepnoodle-ai/yulpack/digest"
	"github.com/deepnoodle-ai/yulpack/errors"
	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/deepnoodle-ai/yulpack/internal/solctest"
	"github.com/deepnoodle-ai/yulpack/section"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// Compiled decision stub stand-in carrying both length placeholders.
const stubHex = "625f5ff35f5261ffee806033015f395ff3"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeSources(t *testing.T, bodies ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var sources []string
	for i, body := range bodies {
		p, err := solctest.WriteModule(dir, "Mod"+string(rune('A'+i)), body)
		require.NoError(t, err)
		sources = append(sources, p)
	}
	return sources
}

func TestBuild(t *testing.T) {
	sources := writeSources(t, "5a5f5260205ff3", "485f80f3")
	out := filepath.Join(t.TempDir(), "build")

	res, err := Build(context.Background(), sources,
		WithCompiler(&solctest.Compiler{Stub: stubHex}),
		WithWorkDir(t.TempDir()),
		WithStore(artifact.Dir(out)),
	)
	require.NoError(t, err)

	require.Equal(t, 64, res.SectionLength)
	require.Len(t, res.RuntimeWithPush0, 192)
	require.Len(t, res.RuntimeWithoutPush0, 192)
	require.Len(t, res.Initcode, hexutil.Len(stubHex)+384)
	require.Equal(t, res.RuntimeWithPush0, res.Initcode[hexutil.Len(stubHex):hexutil.Len(stubHex)+192])
	require.Equal(t, res.RuntimeWithoutPush0, res.Initcode[hexutil.Len(stubHex)+192:])
	require.Equal(t, "0x"+hexutil.Encode(digest.Sum(res.Initcode)), res.Digest)

	// The PUSH0 DUP1 pair is only rewritten in the PUSH0 runtime.
	require.Equal(t, "5b485f5ff3", hexutil.Encode(res.RuntimeWithPush0[128:133]))
	require.Equal(t, "5b485f80f3", hexutil.Encode(res.RuntimeWithoutPush0[128:133]))

	require.Equal(t, []section.Stat{
		{Source: sources[0], Section: 1, Length: 8},
		{Source: sources[1], Section: 2, Length: 5},
	}, res.StatsWithPush0)

	saved, err := os.ReadFile(filepath.Join(out, artifact.Initcode))
	require.NoError(t, err)
	require.Equal(t, hexutil.Encode(res.Initcode), string(saved))
	saved, err = os.ReadFile(filepath.Join(out, artifact.RuntimeWithoutPush0))
	require.NoError(t, err)
	require.Equal(t, hexutil.Encode(res.RuntimeWithoutPush0), string(saved))
}

func TestBuildOversizedWritesNothing(t *testing.T) {
	sources := writeSources(t, "5a5f5260205ff3", strings.Repeat("00", 64))
	out := filepath.Join(t.TempDir(), "build")

	_, err := Build(context.Background(), sources,
		WithCompiler(&solctest.Compiler{Stub: stubHex}),
		WithWorkDir(t.TempDir()),
		WithStore(artifact.Dir(out)),
	)
	var oe *errors.OversizedModuleError
	require.True(t, goerrors.As(err, &oe))
	require.Equal(t, 2, oe.Section)

	_, err = os.Stat(out)
	require.True(t, os.IsNotExist(err), "no artifacts may be written")
}

func TestBuildSeedIndependent(t *testing.T) {
	sources := writeSources(t, "5a5f5260205ff3", "485f5260205ff3", "3a5f5260205ff3")
	build := func(seed uint64) *Result {
		res, err := Build(context.Background(), sources,
			WithCompiler(&solctest.Compiler{Stub: stubHex}),
			WithWorkDir(t.TempDir()),
			WithSeed(seed),
		)
		require.NoError(t, err)
		return res
	}
	a, b := build(1), build(99)
	require.Equal(t, a.Initcode, b.Initcode)
	require.Equal(t, a.Digest, b.Digest)
}

func TestBuildSectionShift(t *testing.T) {
	sources := writeSources(t, "5a5f5260205ff3")
	res, err := Build(context.Background(), sources,
		WithCompiler(&solctest.Compiler{Stub: stubHex}),
		WithWorkDir(t.TempDir()),
		WithSectionShift(7),
		WithJobs(1),
	)
	require.NoError(t, err)
	require.Equal(t, 128, res.SectionLength)
	require.Len(t, res.RuntimeWithPush0, 256)
}

func TestBuildInvalidSectionShift(t *testing.T) {
	sources := writeSources(t, "5a5f5260205ff3")
	for _, shift := range []int{-1, 0, 4, 13, 16} {
		compiler := &solctest.Compiler{Stub: stubHex}
		out := filepath.Join(t.TempDir(), "build")
		_, err := Build(context.Background(), sources,
			WithCompiler(compiler),
			WithWorkDir(t.TempDir()),
			WithSectionShift(shift),
			WithStore(artifact.Dir(out)),
		)
		var se *errors.SectionShiftError
		require.True(t, goerrors.As(err, &se), "shift %d", shift)
		require.Empty(t, compiler.Calls())
		_, err = os.Stat(out)
		require.True(t, os.IsNotExist(err))
	}
}

func TestBuildStubFailure(t *testing.T) {
	sources := writeSources(t, "5a5f5260205ff3")
	_, err := Build(context.Background(), sources,
		WithCompiler(&solctest.Compiler{Stub: "00"}),
		WithWorkDir(t.TempDir()),
	)
	var pe *errors.PlaceholderPatchError
	require.True(t, goerrors.As(err, &pe))
}

func TestBuildDigestFailure(t *testing.T) {
	sources := writeSources(t, "5a5f5260205ff3")
	out := filepath.Join(t.TempDir(), "build")
	_, err := Build(context.Background(), sources,
		WithCompiler(&solctest.Compiler{Stub: stubHex}),
		WithWorkDir(t.TempDir()),
		WithDigester(failingDigester{}),
		WithStore(artifact.Dir(out)),
	)
	require.ErrorContains(t, err, "digest: cast not installed")
	_, err = os.Stat(out)
	require.True(t, os.IsNotExist(err))
}

type failingDigester struct{}

func (failingDigester) Digest(context.Context, []byte) (string, error) {
	return "", goerrors.New("cast not installed")
}

func TestBuildRequiresCompilerAndSources(t *testing.T) {
	_, err := Build(context.Background(), []string{"a.yul"})
	require.ErrorContains(t, err, "no compiler")

	_, err = Build(context.Background(), nil, WithCompiler(&solctest.Compiler{}))
	require.ErrorContains(t, err, "no modules")
}

func TestSingle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Zero.yul")
	src := solctest.Module("Zero", "5f80f3") + "// london: 6000600080f3\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	res, err := Single(context.Background(), path, WithCompiler(&solctest.Compiler{}))
	require.NoError(t, err)
	require.Equal(t, solctest.CreationPrefix+"5f80f3", hexutil.Encode(res.InitcodeWithPush0))
	require.Equal(t, solctest.CreationPrefix+"6000600080f3", hexutil.Encode(res.InitcodeWithoutPush0))
	require.Equal(t, "5f80f3", hexutil.Encode(res.RuntimeWithPush0))
	require.Equal(t, "6000600080f3", hexutil.Encode(res.RuntimeWithoutPush0))
}

func TestSingleCompilerFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Bad.yul")
	require.NoError(t, os.WriteFile(path, []byte("// fail\n"), 0o644))
	_, err := Single(context.Background(), path, WithCompiler(&solctest.Compiler{}))
	var pe *errors.ExternalProcessError
	require.True(t, goerrors.As(err, &pe))
}
