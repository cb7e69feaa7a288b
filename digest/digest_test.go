package digest

import (
	"context"
	goerrors "errors"
	"testing"

	"github.com/deepnoodle-ai/yulpack/errors"
	"github.com/deepnoodle-ai/yulpack/process"
	"github.com/stretchr/testify/require"
)

const emptyKeccak = "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"

func TestKeccak256(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{nil, emptyKeccak},
		{[]byte("abc"), "0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"},
	}
	for _, tt := range tests {
		got, err := Keccak256{}.Digest(context.Background(), tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestExternal(t *testing.T) {
	var gotArgs []string
	runner := process.Func(func(ctx context.Context, name string, args ...string) (string, error) {
		require.Equal(t, "cast", name)
		gotArgs = args
		return emptyKeccak + "\n", nil
	})
	got, err := External{Runner: runner}.Digest(context.Background(), []byte{0x5f, 0xf3})
	require.NoError(t, err)
	require.Equal(t, emptyKeccak, got)
	require.Equal(t, []string{"keccak", "0x5ff3"}, gotArgs)
}

func TestExternalErrors(t *testing.T) {
	failing := process.Func(func(ctx context.Context, name string, args ...string) (string, error) {
		return "", &errors.ExternalProcessError{Command: name, ExitCode: 2, Stderr: "boom"}
	})
	_, err := External{Runner: failing}.Digest(context.Background(), nil)
	var pe *errors.ExternalProcessError
	require.True(t, goerrors.As(err, &pe))

	garbage := process.Func(func(ctx context.Context, name string, args ...string) (string, error) {
		return "not a hash", nil
	})
	_, err = External{Runner: garbage, Binary: "mycast"}.Digest(context.Background(), nil)
	require.ErrorContains(t, err, "mycast keccak")
}

func TestNew(t *testing.T) {
	d, err := New("", nil)
	require.NoError(t, err)
	require.IsType(t, Keccak256{}, d)

	d, err = New("cast", nil)
	require.NoError(t, err)
	require.IsType(t, External{}, d)

	_, err = New("sha256", nil)
	require.Error(t, err)
}
