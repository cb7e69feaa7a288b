// Package initcode turns runtimes into deployment payloads.
//
// Compose joins the runtimes of both variants behind a small decision stub
// that, at contract creation, checks for PUSH0 support and deploys the
// matching runtime. Wrap produces plain initcode for a single runtime.
package initcode

import (
	"bytes"
	"fmt"

	"github.com/deepnoodle-ai/yulpack/errors"
	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/deepnoodle-ai/yulpack/op"
)

var (
	// StubLengthPlaceholder is PUSH1 0x33 in the compiled stub; its
	// immediate becomes the stub length.
	StubLengthPlaceholder = []byte{byte(op.Push1), 0x33}

	// RuntimeLengthPlaceholder is PUSH2 0xffee in the compiled stub; its
	// immediate becomes the length of one runtime.
	RuntimeLengthPlaceholder = []byte{byte(op.Push2), 0xff, 0xee}

	// boundary separates creation code from runtime code in solc output.
	boundary = []byte{byte(op.Return), byte(op.Invalid)}
)

// Patch replaces the single occurrence of placeholder in code with value.
// The placeholder must occur exactly once and value must have the same
// length. code is not modified.
func Patch(code, placeholder, value []byte) ([]byte, error) {
	name := hexutil.Encode(placeholder)
	if len(value) != len(placeholder) {
		return nil, &errors.PlaceholderPatchError{
			Placeholder: name,
			Reason:      fmt.Sprintf("replacement is %d bytes, placeholder is %d", len(value), len(placeholder)),
		}
	}
	if n := bytes.Count(code, placeholder); n != 1 {
		return nil, &errors.PlaceholderPatchError{Placeholder: name, Count: n}
	}
	i := bytes.Index(code, placeholder)
	out := make([]byte, len(code))
	copy(out, code)
	copy(out[i:], value)
	return out, nil
}

// patchImmediate patches the immediate of a PUSHn placeholder with x.
func patchImmediate(code, placeholder []byte, x int) ([]byte, error) {
	imm, err := hexutil.FixedUint(uint64(x), len(placeholder)-1)
	if err != nil {
		return nil, &errors.PlaceholderPatchError{
			Placeholder: hexutil.Encode(placeholder),
			Reason:      err.Error(),
		}
	}
	return Patch(code, placeholder, append(placeholder[:1:1], imm...))
}

// Combine returns stub ++ withPush0 ++ withoutPush0 with the stub's length
// placeholders patched. Both runtimes must have the same length.
func Combine(stub, withPush0, withoutPush0 []byte) ([]byte, error) {
	if len(withPush0) != len(withoutPush0) {
		return nil, &errors.LengthMismatchError{A: len(withPush0), B: len(withoutPush0)}
	}
	patched, err := patchImmediate(stub, StubLengthPlaceholder, len(stub))
	if err != nil {
		return nil, err
	}
	patched, err = patchImmediate(patched, RuntimeLengthPlaceholder, len(withPush0))
	if err != nil {
		return nil, err
	}
	payload := make([]byte, 0, len(patched)+2*len(withPush0))
	payload = append(payload, patched...)
	payload = append(payload, withPush0...)
	return append(payload, withoutPush0...), nil
}

// RuntimeOf returns the runtime part of solc's output for an object with a
// "runtime" sub-object: everything after the first RETURN INVALID.
func RuntimeOf(initcode []byte) ([]byte, bool) {
	i := bytes.Index(initcode, boundary)
	if i < 0 {
		return nil, false
	}
	rest := initcode[i+len(boundary):]
	out := make([]byte, len(rest))
	copy(out, rest)
	return out, true
}

// Wrap returns initcode that deploys runtime as is:
//
//	PUSH2 <len> DUP1 PUSH1 0x0a RETURNDATASIZE CODECOPY RETURNDATASIZE RETURN
func Wrap(runtime []byte) ([]byte, error) {
	n, err := hexutil.FixedUint(uint64(len(runtime)), 2)
	if err != nil {
		return nil, fmt.Errorf("runtime too large: %w", err)
	}
	code := []byte{
		byte(op.Push2), n[0], n[1],
		byte(op.Dup1),
		byte(op.Push1), 0x0a,
		byte(op.ReturnDataSize),
		byte(op.CodeCopy),
		byte(op.ReturnDataSize),
		byte(op.Return),
	}
	return append(code, runtime...), nil
}
