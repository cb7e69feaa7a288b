// Package op defines the EVM opcodes that yulpack emits, rewrites and
// disassembles.
package op

import "strconv"

// Code is a single EVM opcode byte.
type Code byte

const (
	// Arithmetic
	Stop       Code = 0x00
	Add        Code = 0x01
	Mul        Code = 0x02
	Sub        Code = 0x03
	Div        Code = 0x04
	SDiv       Code = 0x05
	Mod        Code = 0x06
	SMod       Code = 0x07
	AddMod     Code = 0x08
	MulMod     Code = 0x09
	Exp        Code = 0x0a
	SignExtend Code = 0x0b

	// Comparison and bitwise
	Lt     Code = 0x10
	Gt     Code = 0x11
	SLt    Code = 0x12
	SGt    Code = 0x13
	Eq     Code = 0x14
	IsZero Code = 0x15
	And    Code = 0x16
	Or     Code = 0x17
	Xor    Code = 0x18
	Not    Code = 0x19
	Byte   Code = 0x1a
	Shl    Code = 0x1b
	Shr    Code = 0x1c
	Sar    Code = 0x1d

	Keccak256 Code = 0x20

	// Environment
	Address        Code = 0x30
	Balance        Code = 0x31
	Origin         Code = 0x32
	Caller         Code = 0x33
	CallValue      Code = 0x34
	CallDataLoad   Code = 0x35
	CallDataSize   Code = 0x36
	CallDataCopy   Code = 0x37
	CodeSize       Code = 0x38
	CodeCopy       Code = 0x39
	GasPrice       Code = 0x3a
	ExtCodeSize    Code = 0x3b
	ExtCodeCopy    Code = 0x3c
	ReturnDataSize Code = 0x3d
	ReturnDataCopy Code = 0x3e
	ExtCodeHash    Code = 0x3f

	// Block
	BlockHash   Code = 0x40
	Coinbase    Code = 0x41
	Timestamp   Code = 0x42
	Number      Code = 0x43
	PrevRandao  Code = 0x44
	GasLimit    Code = 0x45
	ChainID     Code = 0x46
	SelfBalance Code = 0x47
	BaseFee     Code = 0x48
	BlobHash    Code = 0x49
	BlobBaseFee Code = 0x4a

	// Stack, memory, storage and flow
	Pop      Code = 0x50
	MLoad    Code = 0x51
	MStore   Code = 0x52
	MStore8  Code = 0x53
	SLoad    Code = 0x54
	SStore   Code = 0x55
	Jump     Code = 0x56
	JumpI    Code = 0x57
	PC       Code = 0x58
	MSize    Code = 0x59
	Gas      Code = 0x5a
	JumpDest Code = 0x5b
	TLoad    Code = 0x5c
	TStore   Code = 0x5d
	MCopy    Code = 0x5e

	// Push0 is only available from the shanghai hard fork onwards.
	Push0  Code = 0x5f
	Push1  Code = 0x60
	Push2  Code = 0x61
	Push28 Code = 0x7b
	Push29 Code = 0x7c
	Push32 Code = 0x7f
	Dup1   Code = 0x80
	Dup16  Code = 0x8f
	Swap1  Code = 0x90
	Swap16 Code = 0x9f

	Log0 Code = 0xa0
	Log4 Code = 0xa4

	// System
	Create       Code = 0xf0
	Call         Code = 0xf1
	CallCode     Code = 0xf2
	Return       Code = 0xf3
	DelegateCall Code = 0xf4
	Create2      Code = 0xf5
	StaticCall   Code = 0xfa
	Revert       Code = 0xfd
	Invalid      Code = 0xfe
	SelfDestruct Code = 0xff
)

// Info contains information about an opcode. OperandCount is the number of
// immediate bytes that follow the opcode in the code stream.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
}

// Defined reports whether the opcode is known.
func (i Info) Defined() bool {
	return i.Name != ""
}

var infos [256]Info

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{Stop, "STOP", 0},
		{Add, "ADD", 0},
		{Mul, "MUL", 0},
		{Sub, "SUB", 0},
		{Div, "DIV", 0},
		{SDiv, "SDIV", 0},
		{Mod, "MOD", 0},
		{SMod, "SMOD", 0},
		{AddMod, "ADDMOD", 0},
		{MulMod, "MULMOD", 0},
		{Exp, "EXP", 0},
		{SignExtend, "SIGNEXTEND", 0},
		{Lt, "LT", 0},
		{Gt, "GT", 0},
		{SLt, "SLT", 0},
		{SGt, "SGT", 0},
		{Eq, "EQ", 0},
		{IsZero, "ISZERO", 0},
		{And, "AND", 0},
		{Or, "OR", 0},
		{Xor, "XOR", 0},
		{Not, "NOT", 0},
		{Byte, "BYTE", 0},
		{Shl, "SHL", 0},
		{Shr, "SHR", 0},
		{Sar, "SAR", 0},
		{Keccak256, "KECCAK256", 0},
		{Address, "ADDRESS", 0},
		{Balance, "BALANCE", 0},
		{Origin, "ORIGIN", 0},
		{Caller, "CALLER", 0},
		{CallValue, "CALLVALUE", 0},
		{CallDataLoad, "CALLDATALOAD", 0},
		{CallDataSize, "CALLDATASIZE", 0},
		{CallDataCopy, "CALLDATACOPY", 0},
		{CodeSize, "CODESIZE", 0},
		{CodeCopy, "CODECOPY", 0},
		{GasPrice, "GASPRICE", 0},
		{ExtCodeSize, "EXTCODESIZE", 0},
		{ExtCodeCopy, "EXTCODECOPY", 0},
		{ReturnDataSize, "RETURNDATASIZE", 0},
		{ReturnDataCopy, "RETURNDATACOPY", 0},
		{ExtCodeHash, "EXTCODEHASH", 0},
		{BlockHash, "BLOCKHASH", 0},
		{Coinbase, "COINBASE", 0},
		{Timestamp, "TIMESTAMP", 0},
		{Number, "NUMBER", 0},
		{PrevRandao, "PREVRANDAO", 0},
		{GasLimit, "GASLIMIT", 0},
		{ChainID, "CHAINID", 0},
		{SelfBalance, "SELFBALANCE", 0},
		{BaseFee, "BASEFEE", 0},
		{BlobHash, "BLOBHASH", 0},
		{BlobBaseFee, "BLOBBASEFEE", 0},
		{Pop, "POP", 0},
		{MLoad, "MLOAD", 0},
		{MStore, "MSTORE", 0},
		{MStore8, "MSTORE8", 0},
		{SLoad, "SLOAD", 0},
		{SStore, "SSTORE", 0},
		{Jump, "JUMP", 0},
		{JumpI, "JUMPI", 0},
		{PC, "PC", 0},
		{MSize, "MSIZE", 0},
		{Gas, "GAS", 0},
		{JumpDest, "JUMPDEST", 0},
		{TLoad, "TLOAD", 0},
		{TStore, "TSTORE", 0},
		{MCopy, "MCOPY", 0},
		{Push0, "PUSH0", 0},
		{Create, "CREATE", 0},
		{Call, "CALL", 0},
		{CallCode, "CALLCODE", 0},
		{Return, "RETURN", 0},
		{DelegateCall, "DELEGATECALL", 0},
		{Create2, "CREATE2", 0},
		{StaticCall, "STATICCALL", 0},
		{Revert, "REVERT", 0},
		{Invalid, "INVALID", 0},
		{SelfDestruct, "SELFDESTRUCT", 0},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
		}
	}
	for i := 0; i < 32; i++ {
		c := Push1 + Code(i)
		infos[c] = Info{Code: c, Name: "PUSH" + strconv.Itoa(i+1), OperandCount: i + 1}
	}
	for i := 0; i < 16; i++ {
		dup := Dup1 + Code(i)
		infos[dup] = Info{Code: dup, Name: "DUP" + strconv.Itoa(i+1)}
		swap := Swap1 + Code(i)
		infos[swap] = Info{Code: swap, Name: "SWAP" + strconv.Itoa(i+1)}
	}
	for i := 0; i <= 4; i++ {
		c := Log0 + Code(i)
		infos[c] = Info{Code: c, Name: "LOG" + strconv.Itoa(i)}
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	return infos[op]
}

// PushN returns the PUSHn opcode for an immediate of n bytes (1 to 32).
func PushN(n int) Code {
	if n < 1 || n > 32 {
		panic("op: push width out of range")
	}
	return Push1 + Code(n-1)
}

// IsPush reports whether c is PUSH1 through PUSH32.
func IsPush(c Code) bool {
	return c >= Push1 && c <= Push32
}
