// Package hexutil converts between raw bytecode and the hex strings that
// compilers and artifact files use to carry it.
package hexutil

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
)

var hexRun = regexp.MustCompile(`[0-9a-fA-F]+`)

// Decode returns the bytes of a hex string. An optional "0x" prefix and
// surrounding whitespace are ignored.
func Decode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd length hex string (%d digits)", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}
	return b, nil
}

// Encode returns the lower-case hex encoding of b without a prefix.
func Encode(b []byte) string {
	return hex.EncodeToString(b)
}

// Len returns the number of bytes represented by the hex string s.
func Len(s string) int {
	return len(s) >> 1
}

// FixedUint encodes x big-endian into exactly width bytes.
func FixedUint(x uint64, width int) ([]byte, error) {
	if width <= 0 || width > 8 {
		return nil, fmt.Errorf("invalid width %d", width)
	}
	if width < 8 && x >= 1<<(8*uint(width)) {
		return nil, fmt.Errorf("value %d does not fit in %d bytes", x, width)
	}
	b := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		b[i] = byte(x)
		x >>= 8
	}
	return b, nil
}

// Random returns n random bytes in which no nibble is zero. A compiler can
// therefore never encode the value with a shorter push than n bytes.
func Random(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		hi := byte(1 + r.IntN(15))
		lo := byte(1 + r.IntN(15))
		b[i] = hi<<4 | lo
	}
	return b
}

// LastRun returns the last run of hex digits found in text, or "" when
// there is none. Tools such as solc and cast print their result last.
func LastRun(text string) string {
	runs := hexRun.FindAllString(text, -1)
	if len(runs) == 0 {
		return ""
	}
	return runs[len(runs)-1]
}

// After returns the bytes following the last occurrence of marker in buf.
func After(buf, marker []byte) ([]byte, bool) {
	if len(marker) == 0 {
		return nil, false
	}
	i := bytes.LastIndex(buf, marker)
	if i < 0 {
		return nil, false
	}
	rest := buf[i+len(marker):]
	out := make([]byte, len(rest))
	copy(out, rest)
	return out, true
}
