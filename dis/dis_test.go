package dis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/deepnoodle-ai/yulpack/op"
	"github.com/deepnoodle-ai/yulpack/section"
	"github.com/stretchr/testify/require"
)

func TestDisassemble(t *testing.T) {
	code, err := hexutil.Decode("61000380600a3d393df30c")
	require.NoError(t, err)
	instructions := Disassemble(code)

	var names []string
	for _, instr := range instructions {
		names = append(names, instr.Name)
	}
	require.Equal(t, []string{
		"PUSH2", "DUP1", "PUSH1", "RETURNDATASIZE", "CODECOPY",
		"RETURNDATASIZE", "RETURN", "INVALID(0x0c)",
	}, names)
	require.Equal(t, []byte{0x00, 0x03}, instructions[0].Operand)
	require.Equal(t, 3, instructions[1].Offset)
	require.Equal(t, op.Push1, instructions[2].Opcode)
}

func TestDisassembleTruncatedPush(t *testing.T) {
	instructions := Disassemble([]byte{0x5b, 0x62, 0xaa})
	require.Len(t, instructions, 2)
	require.True(t, instructions[1].Truncated)
	require.Equal(t, []byte{0xaa}, instructions[1].Operand)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	code, err := hexutil.Decode("6020600d5ff3")
	require.NoError(t, err)
	require.NoError(t, Print(Disassemble(code), &buf, 0))

	expected := strings.TrimSpace(`
+--------+--------+---------+------+
| OFFSET | OPCODE | OPERAND | INFO |
+--------+--------+---------+------+
|      0 | PUSH1  | 0x20    |      |
|      2 | PUSH1  | 0x0d    |      |
|      4 | PUSH0  |         |      |
|      5 | RETURN |         |      |
+--------+--------+---------+------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestPrintSections(t *testing.T) {
	code := make([]byte, 3*32)
	copy(code, section.Dispatcher(5))
	code[32] = byte(op.JumpDest)
	code[64] = byte(op.JumpDest)

	var buf bytes.Buffer
	require.NoError(t, Print(Disassemble(code), &buf, 32))
	out := buf.String()
	require.Contains(t, out, "dispatcher")
	require.Contains(t, out, "section 1")
	require.Contains(t, out, "section 2")
	require.NotContains(t, out, "section 3")
}
