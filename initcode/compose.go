package initcode

import (
	"context"
	_ "embed"
	goerrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deepnoodle-ai/yulpack/errors"
	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
)

// StubEVMVersion is the target the decision stub is compiled for. The stub
// must run on chains without PUSH0.
const StubEVMVersion = "london"

//go:embed ConditionalInitcode.yul
var defaultStub []byte

// DefaultStub returns the built-in decision stub source.
func DefaultStub() []byte {
	return append([]byte(nil), defaultStub...)
}

// Compiler compiles the Yul source at path for an EVM version and returns
// the bytecode as hex.
type Compiler interface {
	Compile(ctx context.Context, path, evmVersion string) (string, error)
}

// Composer compiles the decision stub and joins it with two runtimes.
type Composer struct {
	Compiler Compiler

	// StubPath overrides the built-in stub source when set.
	StubPath string

	// WorkDir receives the temporary copy of the built-in stub.
	// Defaults to os.TempDir().
	WorkDir string
}

// Compose returns the conditional initcode for the two runtimes.
func (c *Composer) Compose(ctx context.Context, withPush0, withoutPush0 []byte) ([]byte, error) {
	if len(withPush0) != len(withoutPush0) {
		return nil, &errors.LengthMismatchError{A: len(withPush0), B: len(withoutPush0)}
	}
	stub, err := c.compileStub(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := Combine(stub, withPush0, withoutPush0)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("stub_bytes", len(stub)).
		Int("runtime_bytes", len(withPush0)).
		Int("bytes", len(payload)).
		Msg("composed initcode")
	return payload, nil
}

func (c *Composer) compileStub(ctx context.Context) (stub []byte, err error) {
	path := c.StubPath
	if path == "" {
		path, err = c.writeStub()
		if err != nil {
			return nil, err
		}
		defer func() {
			if rmErr := os.Remove(path); rmErr != nil && !goerrors.Is(rmErr, os.ErrNotExist) {
				err = multierror.Append(err, rmErr).ErrorOrNil()
			}
		}()
	}
	bin, err := c.Compiler.Compile(ctx, path, StubEVMVersion)
	if err != nil {
		return nil, fmt.Errorf("decision stub: %w", err)
	}
	code, err := hexutil.Decode(bin)
	if err != nil {
		return nil, fmt.Errorf("decision stub: compiler output: %w", err)
	}
	stub, ok := RuntimeOf(code)
	if !ok {
		return nil, fmt.Errorf("decision stub: no runtime object in compiler output")
	}
	return stub, nil
}

func (c *Composer) writeStub() (string, error) {
	dir := c.WorkDir
	if dir == "" {
		dir = os.TempDir()
	}
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "tmp_"+id.String()+".yul")
	if err := os.WriteFile(path, defaultStub, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
