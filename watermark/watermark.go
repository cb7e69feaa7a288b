// Package watermark locates the real start of a module inside compiler output.
//
// Before compilation the module's runtime code block is prefixed with a run of
// mstore statements carrying random values. The compiler emits those stores
// verbatim ahead of the module's own logic, so the bytes following the last
// store are the module body, whatever the compiler placed before them. The
// stores also take up exactly as many bytes as precede the module's section
// in the combined runtime, which keeps absolute jump targets inside the body
// valid once it is moved there.
package watermark

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/deepnoodle-ai/yulpack/internal/lexer"
	"github.com/deepnoodle-ai/yulpack/internal/token"
	"github.com/deepnoodle-ai/yulpack/op"
)

// ErrNoRuntimeObject is returned when a source has no runtime code block.
var ErrNoRuntimeObject = errors.New(`source has no object "runtime" { code { ... } } block`)

const (
	// StoreWidth is the byte width of the random value in each store.
	StoreWidth = 28

	// storeSize is the compiled size of one store:
	// PUSH28 <value> PUSH1 <offset> MSTORE.
	storeSize = 1 + StoreWidth + 2 + 1

	runtimeHeader = `object "runtime" { code {`
)

var runtimeHeaderTokens = []struct {
	typ     token.Type
	literal string
}{
	{token.OBJECT, "object"},
	{token.STRING, "runtime"},
	{token.LBRACE, "{"},
	{token.CODE, "code"},
	{token.LBRACE, "{"},
}

// findRuntimeHeader returns the byte range of the first runtime code block
// header in src, from the object keyword to the brace opening the code.
// Comments and string literals are never matched.
func findRuntimeHeader(src string) (int, int, error) {
	l := lexer.New(src)
	var window []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return 0, 0, fmt.Errorf("lex source: %w", err)
		}
		if tok.Type == token.EOF {
			return 0, 0, ErrNoRuntimeObject
		}
		window = append(window, tok)
		if len(window) > len(runtimeHeaderTokens) {
			window = window[1:]
		}
		if len(window) < len(runtimeHeaderTokens) {
			continue
		}
		matched := true
		for i, want := range runtimeHeaderTokens {
			if window[i].Type != want.typ || window[i].Literal != want.literal {
				matched = false
				break
			}
		}
		if matched {
			return window[0].StartPosition.Char, tok.EndPosition.Char, nil
		}
	}
}

// Patch rewrites src so that its runtime code block starts with section
// groups of sectionLength/32 stores. It returns the patched source and the
// marker: the compiled form of the last store minus its push opcode.
//
// The first store carries one extra random byte. Together with the
// JUMPDEST that Extract prepends, the body ends up at offset
// section*sectionLength in both the compiled output and the combined runtime.
func Patch(src string, section, sectionLength int, r *rand.Rand) (string, []byte, error) {
	if section < 1 {
		return "", nil, fmt.Errorf("section index must be positive (got %d)", section)
	}
	// Store offsets count down from 0xff; a zero offset would compile to
	// PUSH0 under shanghai and break the marker.
	if sectionLength < storeSize || sectionLength%storeSize != 0 || sectionLength/storeSize > 0xff {
		return "", nil, fmt.Errorf("invalid section length %d", sectionLength)
	}
	start, end, err := findRuntimeHeader(src)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString(src[:start])
	b.WriteString(runtimeHeader)

	var marker []byte
	stores := sectionLength / storeSize
	for i := 0; i < section; i++ {
		for j := 0; j < stores; j++ {
			width := StoreWidth
			if i == 0 && j == 0 {
				width++
			}
			value := hexutil.Random(r, width)
			offset := byte(0xff - j)
			fmt.Fprintf(&b, " mstore(0x%02x,0x%s)", offset, hexutil.Encode(value))

			marker = append(value, byte(op.Push1), offset, byte(op.MStore))
		}
	}
	b.WriteString(src[end:])
	return b.String(), marker, nil
}

// Extract returns the module body found after the last occurrence of marker
// in the compiled output, prefixed with a JUMPDEST so the dispatcher can jump
// to it. It returns false when the marker does not occur.
func Extract(output, marker []byte) ([]byte, bool) {
	rest, ok := hexutil.After(output, marker)
	if !ok {
		return nil, false
	}
	body := make([]byte, 0, len(rest)+1)
	body = append(body, byte(op.JumpDest))
	return append(body, rest...), true
}

// InjectedLength returns the number of bytes the stores injected for the
// given section occupy in compiled code.
func InjectedLength(section, sectionLength int) int {
	return section*sectionLength + 1
}
