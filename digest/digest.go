// Package digest computes the keccak256 digest of build payloads.
package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/deepnoodle-ai/yulpack/process"
	"golang.org/x/crypto/sha3"
)

// Digester returns the 0x-prefixed keccak256 digest of data.
type Digester interface {
	Digest(ctx context.Context, data []byte) (string, error)
}

// Keccak256 hashes in process.
type Keccak256 struct{}

// Digest implements Digester.
func (Keccak256) Digest(_ context.Context, data []byte) (string, error) {
	return "0x" + hexutil.Encode(Sum(data)), nil
}

// Sum returns the legacy (pre-NIST) keccak256 of data, as used by the EVM.
func Sum(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// External delegates hashing to `cast keccak`.
type External struct {
	Runner process.Runner
	// Binary defaults to "cast".
	Binary string
}

// Digest implements Digester.
func (e External) Digest(ctx context.Context, data []byte) (string, error) {
	bin := e.Binary
	if bin == "" {
		bin = "cast"
	}
	runner := e.Runner
	if runner == nil {
		runner = process.Exec{}
	}
	out, err := runner.Run(ctx, bin, "keccak", "0x"+hexutil.Encode(data))
	if err != nil {
		return "", err
	}
	sum := hexutil.LastRun(strings.TrimPrefix(strings.TrimSpace(out), "0x"))
	if hexutil.Len(sum) != 32 {
		return "", fmt.Errorf("%s keccak: unexpected output %q", bin, strings.TrimSpace(out))
	}
	return "0x" + strings.ToLower(sum), nil
}

// New returns the Digester for a --digest flag value: "keccak" (or "")
// hashes in process, "cast" shells out.
func New(kind string, runner process.Runner) (Digester, error) {
	switch kind {
	case "", "keccak":
		return Keccak256{}, nil
	case "cast":
		return External{Runner: runner}, nil
	default:
		return nil, fmt.Errorf("unknown digest %q (want keccak or cast)", kind)
	}
}
