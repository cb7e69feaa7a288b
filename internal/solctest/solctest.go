// Package solctest provides a stand-in for solc that understands just enough
// Yul to exercise the assembly pipeline in tests.
//
// A module source declares its compiled body in a comment:
//
//	// body: 5f3560005260206000f3
//	// london: 600035600052602060f3
//
// The "london" line, when present, is used for the london target instead of
// the "body" line. Sources containing "// fail" make the compiler fail. The
// decision stub (any source naming the ConditionalInitcode object) compiles
// to Stub.
package solctest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/deepnoodle-ai/yulpack/errors"
	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/deepnoodle-ai/yulpack/op"
)

// CreationPrefix is emitted ahead of every runtime, the way solc emits the
// code that deploys a "runtime" sub-object.
const CreationPrefix = "6020600d5f395f80f3f3fe"

var (
	storePattern  = regexp.MustCompile(`mstore\(0x([0-9a-fA-F]+),0x([0-9a-fA-F]+)\)`)
	bodyPattern   = regexp.MustCompile(`//\s*body:\s*([0-9a-fA-F]*)`)
	londonPattern = regexp.MustCompile(`//\s*london:\s*([0-9a-fA-F]*)`)
)

// Call records one compilation.
type Call struct {
	Source     string
	EVMVersion string
}

// Compiler is a fake solc. It is safe for concurrent use.
type Compiler struct {
	// Stub is the hex returned (after CreationPrefix) for the decision stub.
	Stub string

	mu    sync.Mutex
	calls []Call
}

// Compile reads the source at path and returns its "compiled" hex.
func (c *Compiler) Compile(ctx context.Context, path, evmVersion string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	src := string(data)
	c.mu.Lock()
	c.calls = append(c.calls, Call{Source: src, EVMVersion: evmVersion})
	c.mu.Unlock()

	if strings.Contains(src, "// fail") {
		return "", &errors.ExternalProcessError{
			Command:  "solc",
			ExitCode: 1,
			Stderr:   "Error: forced failure",
		}
	}
	if strings.Contains(src, `"ConditionalInitcode"`) {
		return CreationPrefix + c.Stub, nil
	}

	var runtime strings.Builder
	for _, m := range storePattern.FindAllStringSubmatch(src, -1) {
		offset, value := m[1], m[2]
		fmt.Fprintf(&runtime, "%02x%s%02x%s%02x",
			byte(op.PushN(hexutil.Len(value))), value, byte(op.Push1), offset, byte(op.MStore))
	}
	body := ""
	if m := bodyPattern.FindStringSubmatch(src); m != nil {
		body = m[1]
	}
	if evmVersion == "london" {
		if m := londonPattern.FindStringSubmatch(src); m != nil {
			body = m[1]
		}
	}
	runtime.WriteString(strings.ToLower(body))
	return CreationPrefix + runtime.String(), nil
}

// Calls returns the compilations performed so far.
func (c *Compiler) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Module returns a minimal Yul module whose compiled body is the given hex.
func Module(name, body string) string {
	return fmt.Sprintf(`object "%s" {
    code {
        datacopy(0, dataoffset("runtime"), datasize("runtime"))
        return(0, datasize("runtime"))
    }
    object "runtime" {
        code {
            // body: %s
            mstore(0x00, calldataload(0x01))
            return(0x00, 0x20)
        }
    }
}
`, name, body)
}

// WriteModule writes Module(name, body) to dir/name.yul and returns its path.
func WriteModule(dir, name, body string) (string, error) {
	path := filepath.Join(dir, name+".yul")
	return path, os.WriteFile(path, []byte(Module(name, body)), 0o644)
}
