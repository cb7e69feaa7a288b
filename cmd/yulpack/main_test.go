package main

import (
	"bytes"
	"context"
	"encoding/json"
	goerrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deepnoodle-ai/yulpack/artifact"
	"github.com/deepnoodle-ai/yulpack/combiner"
	"github.com/deepnoodle-ai/yulpack/errors"
	"github.com/deepnoodle-ai/yulpack/internal/solctest"
	"github.com/deepnoodle-ai/yulpack/report"
	"github.com/stretchr/testify/require"
)

const stubHex = "625f5ff35f5261ffee806033015f395ff3"

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := newApp(&stdout, &stderr)
	a.compiler = func(context.Context) (combiner.Compiler, error) {
		return &solctest.Compiler{Stub: stubHex}, nil
	}
	cmd := a.rootCmd()
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeModules(t *testing.T, bodies ...string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for i, body := range bodies {
		p, err := solctest.WriteModule(dir, "Mod"+string(rune('A'+i)), body)
		require.NoError(t, err)
		paths = append(paths, p)
	}
	return dir, paths
}

func TestBuildText(t *testing.T) {
	_, sources := writeModules(t, "5a5f5260205ff3", "485f5260205ff3")
	out := filepath.Join(t.TempDir(), "build")

	r := run(t, append([]string{"build", "--out", out, "--seed", "7"}, sources...)...)
	require.NoError(t, r.err)
	require.Contains(t, r.stdout, "Sections with PUSH0")
	require.Contains(t, r.stdout, "Sections without PUSH0")
	require.Contains(t, r.stdout, "Runtime with PUSH0 (192 bytes):")
	require.Contains(t, r.stdout, "Runtime without PUSH0 (192 bytes):")
	require.Contains(t, r.stdout, "Initcode (401 bytes):")
	require.Contains(t, r.stdout, "Initcode hash: 0x")
	require.Contains(t, r.stdout, "ModA.yul")

	for _, name := range []string{artifact.RuntimeWithPush0, artifact.RuntimeWithoutPush0, artifact.Initcode} {
		_, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
	}
}

func TestBuildJSON(t *testing.T) {
	_, sources := writeModules(t, "5a5f5260205ff3")
	r := run(t, append([]string{"build", "-o", "json"}, sources...)...)
	require.NoError(t, r.err)

	var s report.Summary
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &s))
	require.Equal(t, 64, s.SectionLength)
	require.Len(t, s.RuntimeWithPush0, 2*128)
	require.Len(t, s.Initcode, 2*(len(stubHex)/2+256))
	require.True(t, strings.HasPrefix(s.InitcodeHash, "0x"))
	require.Len(t, s.StatsWithoutPush0, 1)
}

func TestBuildManifest(t *testing.T) {
	dir, _ := writeModules(t, "5a5f5260205ff3", "485f5260205ff3")
	path := filepath.Join(dir, "yulpack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
modules:
  - ModA.yul
  - ModB.yul
section_shift: 7
output: out
`), 0o644))

	r := run(t, "build", "--manifest", path)
	require.NoError(t, r.err)
	require.Contains(t, r.stdout, "Runtime with PUSH0 (384 bytes):")

	data, err := os.ReadFile(filepath.Join(dir, "out", artifact.RuntimeWithPush0))
	require.NoError(t, err)
	require.Len(t, data, 2*384)
}

func TestBuildFlagOverridesManifest(t *testing.T) {
	dir, _ := writeModules(t, "5a5f5260205ff3")
	path := filepath.Join(dir, "yulpack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("modules: [ModA.yul]\nsection_shift: 7\n"), 0o644))

	r := run(t, "build", "--manifest", path, "--section-shift", "6")
	require.NoError(t, r.err)
	require.Contains(t, r.stdout, "Runtime with PUSH0 (128 bytes):")
}

func TestBuildInvalidSectionShift(t *testing.T) {
	dir, sources := writeModules(t, "5a5f5260205ff3")
	for _, shift := range []string{"-1", "4", "13", "16"} {
		r := run(t, "build", "--section-shift="+shift, sources[0])
		var se *errors.SectionShiftError
		require.True(t, goerrors.As(r.err, &se), "shift %s", shift)
		require.Empty(t, r.stdout)
	}

	path := filepath.Join(dir, "yulpack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("modules: [ModA.yul]\nsection_shift: 13\n"), 0o644))
	r := run(t, "build", "--manifest", path)
	require.ErrorContains(t, r.err, "out of range [5, 12]")
}

func TestBuildErrors(t *testing.T) {
	_, sources := writeModules(t, strings.Repeat("00", 64))
	out := filepath.Join(t.TempDir(), "build")

	r := run(t, "build", "--out", out, sources[0])
	var oe *errors.OversizedModuleError
	require.True(t, goerrors.As(r.err, &oe))
	_, err := os.Stat(out)
	require.True(t, os.IsNotExist(err))

	r = run(t, "build", "--output", "yaml", sources[0])
	require.ErrorContains(t, r.err, "unknown output format")

	r = run(t, "build", "--digest", "md5", sources[0])
	require.ErrorContains(t, r.err, "unknown digest")

	r = run(t, "build", "--manifest", "x.yaml", sources[0])
	require.ErrorContains(t, r.err, "mutually exclusive")
}

func TestSingle(t *testing.T) {
	_, sources := writeModules(t, "5f5ff3")
	r := run(t, "single", sources[0])
	require.NoError(t, r.err)
	require.Equal(t, strings.Join([]string{
		"Initcode with PUSH0:", solctest.CreationPrefix + "5f5ff3", "",
		"Initcode without PUSH0:", solctest.CreationPrefix + "5f5ff3", "",
		"Runtime with PUSH0 (3 bytes):", "5f5ff3", "",
		"Runtime without PUSH0 (3 bytes):", "5f5ff3", "",
	}, "\n")+"\n", r.stdout)
}

func TestSingleUsage(t *testing.T) {
	tests := [][]string{
		{"single"},
		{"single", "module.sol"},
		{"single", "a.yul", "b.yul"},
	}
	for _, args := range tests {
		r := run(t, args...)
		require.NoError(t, r.err, args)
		require.Empty(t, r.stdout)
		require.Contains(t, r.stderr, singleUsage)
	}
}

func TestSingleExtensionIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Upper.YUL")
	require.NoError(t, os.WriteFile(path, []byte(solctest.Module("Upper", "00")), 0o644))
	r := run(t, "single", path)
	require.NoError(t, r.err)
	require.Contains(t, r.stdout, "Runtime with PUSH0 (1 bytes):")
}

func TestDis(t *testing.T) {
	r := run(t, "dis", "--code", "0x5f5ff3")
	require.NoError(t, r.err)
	require.Contains(t, r.stdout, "| PUSH0  |")
	require.Contains(t, r.stdout, "| RETURN |")

	path := filepath.Join(t.TempDir(), "runtime.txt")
	require.NoError(t, os.WriteFile(path, []byte("3d353d1a60061b56\n"), 0o644))
	r = run(t, "dis", "--section-shift", "6", path)
	require.NoError(t, r.err)
	require.Contains(t, r.stdout, "dispatcher")
	require.Contains(t, r.stdout, "| 0x06    |")

	r = run(t, "dis", "--section-shift=-1", path)
	var se *errors.SectionShiftError
	require.True(t, goerrors.As(r.err, &se))

	r = run(t, "dis")
	require.ErrorContains(t, r.err, "no input provided")
}

func TestWrap(t *testing.T) {
	r := run(t, "wrap", "-c", "5f5ff3")
	require.NoError(t, r.err)
	require.Equal(t, "61000380600a3d393df35f5ff3\n", r.stdout)

	r = run(t, "wrap", "-c", "abc")
	require.ErrorContains(t, r.err, "odd length")
}

func TestVersion(t *testing.T) {
	r := run(t, "version")
	require.NoError(t, r.err)
	require.Equal(t, "yulpack dev (commit unknown, built unknown)\n", r.stdout)

	r = run(t, "version", "-o", "json")
	require.NoError(t, r.err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &info))
	require.Equal(t, "dev", info["version"])
}

func TestInvalidLogLevel(t *testing.T) {
	r := run(t, "--log-level", "chatty", "version")
	require.ErrorContains(t, r.err, "invalid log level")
}

func TestWatchRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A.yul")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	rebuilt := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, []string{path}, 20*time.Millisecond, func() { rebuilt <- struct{}{} })
	}()

	// Give the watcher time to register before changing files.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after change")
	}
	cancel()
	require.NoError(t, <-done)
}
