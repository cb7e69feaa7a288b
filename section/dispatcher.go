package section

import "github.com/deepnoodle-ai/yulpack/op"

// Dispatcher returns the body of section 0. It reads the first calldata
// byte, multiplies it by the section length and jumps there:
//
//	RETURNDATASIZE CALLDATALOAD RETURNDATASIZE BYTE PUSH1 <shift> SHL JUMP
//
// RETURNDATASIZE pushes zero for one byte less than PUSH1 0x00, and works on
// every target, so the dispatcher is the same for both variants.
func Dispatcher(shift int) []byte {
	return []byte{
		byte(op.ReturnDataSize),
		byte(op.CallDataLoad),
		byte(op.ReturnDataSize),
		byte(op.Byte),
		byte(op.Push1), byte(shift),
		byte(op.Shl),
		byte(op.Jump),
	}
}
