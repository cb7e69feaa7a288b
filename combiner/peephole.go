package combiner

import "github.com/deepnoodle-ai/yulpack/op"

// Push0Peephole rewrites every PUSH0 DUP1 pair in code into PUSH0 PUSH0,
// which leaves the same two zeros on the stack for less gas. Only pairs that
// start on an instruction boundary are rewritten, so push immediates are
// never altered. The code length does not change. The input is not modified.
//
// Earlier builds of this tool rewrote only the first 5f80 byte pair, so
// runtimes with more than one pair differ byte for byte from artifacts
// produced by them while behaving identically.
func Push0Peephole(code []byte) []byte {
	out := make([]byte, len(code))
	copy(out, code)
	for pc := 0; pc < len(out); {
		c := op.Code(out[pc])
		if c == op.Push0 && pc+1 < len(out) && op.Code(out[pc+1]) == op.Dup1 {
			out[pc+1] = byte(op.Push0)
			// The rewritten PUSH0 may itself start the next pair.
			pc++
			continue
		}
		pc += 1 + op.GetInfo(c).OperandCount
	}
	return out
}
