package vm

import "fmt"

// Opcode identifies one of the sixteen possible 4-bit operation codes.
// Values 14 and 15 never name a real operation; decoding them produces
// an Op whose Code holds that value, which the execution core rejects.
type Opcode uint32

// The following constants name the fourteen defined opcodes, in the
// order the UM specification assigns them.
const (
	OpCondMove Opcode = iota
	OpArrayIndex
	OpArrayAmend
	OpAdd
	OpMul
	OpDiv
	OpNAND
	OpHalt
	OpAlloc
	OpDealloc
	OpOutput
	OpInput
	OpLoadProgram
	OpOrthography
)

var opcodeNames = [...]string{
	OpCondMove:    "cmov",
	OpArrayIndex:  "aidx",
	OpArrayAmend:  "aamd",
	OpAdd:         "add",
	OpMul:         "mul",
	OpDiv:         "div",
	OpNAND:        "nand",
	OpHalt:        "halt",
	OpAlloc:       "alloc",
	OpDealloc:     "dealloc",
	OpOutput:      "output",
	OpInput:       "input",
	OpLoadProgram: "loadprog",
	OpOrthography: "ortho",
}

// String implements fmt.Stringer.
func (c Opcode) String() string {
	if int(c) < len(opcodeNames) && opcodeNames[c] != "" {
		return opcodeNames[c]
	}
	return fmt.Sprintf("illegal(%d)", uint32(c))
}

// Op is a decoded instruction: an opcode plus whichever operand
// fields are meaningful for it. For every opcode except Orthography,
// A, B, and C hold 3-bit register indices. For Orthography, A holds
// a register index and V holds the 25-bit zero-extended immediate.
type Op struct {
	Code    Opcode
	A, B, C uint32
	V       uint32
}

// String renders the operation roughly as assembly, for diagnostics
// and for the standalone disassembler.
func (o Op) String() string {
	if o.Code == OpOrthography {
		return fmt.Sprintf("%s r%d, %d", o.Code, o.A, o.V)
	}
	if o.Code > 13 {
		return o.Code.String()
	}
	switch o.Code {
	case OpHalt:
		return o.Code.String()
	case OpDealloc, OpOutput, OpInput:
		return fmt.Sprintf("%s r%d", o.Code, o.C)
	case OpAlloc:
		return fmt.Sprintf("%s r%d, r%d", o.Code, o.B, o.C)
	case OpLoadProgram:
		return fmt.Sprintf("%s r%d, r%d", o.Code, o.B, o.C)
	default:
		return fmt.Sprintf("%s r%d, r%d, r%d", o.Code, o.A, o.B, o.C)
	}
}

// word25Mask isolates the 25-bit immediate field of an Orthography
// instruction.
const word25Mask = 1<<25 - 1

// noFetchOp names the placeholder Op used in a fault that occurred
// while fetching an instruction, before any word could be decoded.
const noFetchOp Opcode = 0xff

// Decode decodes a single 32-bit instruction word. It is a pure
// function: the same word always decodes to an equal Op, and decoding
// never fails (opcodes 14 and 15 decode to an Op whose Code names
// them), letting the execution core raise ErrIllegalOp uniformly with
// everything else that can go wrong while dispatching.
func Decode(word uint32) Op {
	code := Opcode(word >> 28)
	if code == OpOrthography {
		return Op{
			Code: code,
			A:    (word >> 25) & 0x7,
			V:    word & word25Mask,
		}
	}
	return Op{
		Code: code,
		A:    (word >> 6) & 0x7,
		B:    (word >> 3) & 0x7,
		C:    word & 0x7,
	}
}

// Encode re-assembles a word from a decoded Op. It is the left
// inverse of Decode on the bits Decode itself examines: for any Op
// produced by Decode, Decode(o.Encode()) == o.
func (o Op) Encode() uint32 {
	if o.Code == OpOrthography {
		return uint32(o.Code)<<28 | (o.A&0x7)<<25 | (o.V & word25Mask)
	}
	return uint32(o.Code)<<28 | (o.A&0x7)<<6 | (o.B&0x7)<<3 | (o.C & 0x7)
}
