// Package dis disassembles EVM bytecode for inspection of built artifacts.
package dis

import (
	"fmt"
	"io"
	"strconv"

	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/deepnoodle-ai/yulpack/internal/table"
	"github.com/deepnoodle-ai/yulpack/op"
)

// Instruction is one decoded instruction.
type Instruction struct {
	Offset  int
	Name    string
	Opcode  op.Code
	Operand []byte
	// Truncated is set on a PUSH whose immediate runs past the end of the
	// code. Operand then holds the bytes that were present.
	Truncated bool
}

// Disassemble decodes code with a linear sweep. Bytes that are not defined
// opcodes decode as INVALID(0x..).
func Disassemble(code []byte) []Instruction {
	var out []Instruction
	for pc := 0; pc < len(code); {
		c := op.Code(code[pc])
		info := op.GetInfo(c)
		instr := Instruction{Offset: pc, Name: info.Name, Opcode: c}
		if !info.Defined() {
			instr.Name = fmt.Sprintf("INVALID(0x%02x)", byte(c))
		}
		end := pc + 1 + info.OperandCount
		if end > len(code) {
			end = len(code)
			instr.Truncated = true
		}
		if info.OperandCount > 0 {
			instr.Operand = code[pc+1 : end]
		}
		out = append(out, instr)
		pc = pc + 1 + info.OperandCount
	}
	return out
}

// Print writes instructions as a table. When sectionLength is positive,
// instructions that start a section are marked in the INFO column.
func Print(instructions []Instruction, w io.Writer, sectionLength int) error {
	tbl := table.NewTable(w).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERAND", "INFO"}).
		WithHeaderAlignment([]table.Alignment{table.AlignCenter, table.AlignCenter, table.AlignCenter, table.AlignCenter}).
		WithColumnAlignment([]table.Alignment{table.AlignRight, table.AlignLeft, table.AlignLeft, table.AlignLeft})
	for _, instr := range instructions {
		operand := ""
		if len(instr.Operand) > 0 {
			operand = "0x" + hexutil.Encode(instr.Operand)
		}
		tbl.Append([]string{
			strconv.Itoa(instr.Offset),
			instr.Name,
			operand,
			info(instr, sectionLength),
		})
	}
	return tbl.Render()
}

func info(instr Instruction, sectionLength int) string {
	if instr.Truncated {
		return "truncated"
	}
	if sectionLength <= 0 || instr.Offset%sectionLength != 0 {
		return ""
	}
	if instr.Offset == 0 {
		return "dispatcher"
	}
	return "section " + strconv.Itoa(instr.Offset/sectionLength)
}
