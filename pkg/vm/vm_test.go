package vm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asm assembles a tiny program from Op values into a big-endian word
// image, mirroring how LoadImage would have read it from disk.
func asm(ops ...Op) []uint32 {
	words := make([]uint32, len(ops))
	for i, op := range ops {
		words[i] = op.Encode()
	}
	return words
}

func newTestVM(program []uint32, in string) (*VM, *bytes.Buffer) {
	out := &bytes.Buffer{}
	con := NewConsole(strings.NewReader(in), out)
	return New(program, con), out
}

// TestHaltOnly verifies a program containing only Halt exits cleanly
// with no output.
func TestHaltOnly(t *testing.T) {
	vm, out := newTestVM(asm(Op{Code: OpHalt}), "")
	require.NoError(t, vm.Run())
	assert.Empty(t, out.String())
}

// TestPrintSingleCharacter verifies that loading a register via
// Orthography and then Outputting it writes the expected byte.
func TestPrintSingleCharacter(t *testing.T) {
	vm, out := newTestVM(asm(
		Op{Code: OpOrthography, A: 0, V: 'A'},
		Op{Code: OpOutput, C: 0},
		Op{Code: OpHalt},
	), "")
	require.NoError(t, vm.Run())
	assert.Equal(t, "A", out.String())
}

// TestPrintGreeting verifies a short fixed string assembled from
// repeated Orthography+Output pairs is printed in order.
func TestPrintGreeting(t *testing.T) {
	var ops []Op
	for _, ch := range "hi" {
		ops = append(ops,
			Op{Code: OpOrthography, A: 0, V: uint32(ch)},
			Op{Code: OpOutput, C: 0},
		)
	}
	ops = append(ops, Op{Code: OpHalt})
	vm, out := newTestVM(asm(ops...), "")
	require.NoError(t, vm.Run())
	assert.Equal(t, "hi", out.String())
}

// TestEcho verifies a byte read from the console is written back out
// unchanged.
func TestEcho(t *testing.T) {
	vm, out := newTestVM(asm(Op{Code: OpInput, C: 0}), "X")
	require.NoError(t, vm.Step())
	assert.EqualValues(t, 'X', vm.Regs[0])

	require.NoError(t, vm.Con.WriteByte(byte(vm.Regs[0])))
	assert.Equal(t, "X", out.String())
}

// TestEOFSentinel verifies Input at end of stream sets the target
// register to 0xFFFFFFFF rather than faulting.
func TestEOFSentinel(t *testing.T) {
	vm, _ := newTestVM(asm(Op{Code: OpInput, C: 3}), "")
	require.NoError(t, vm.Step())
	assert.EqualValues(t, 0xFFFFFFFF, vm.Regs[3])
}

// TestAllocatorReuseEndToEnd verifies, at the VM level, that Alloc
// following a Dealloc reuses the just-freed identifier.
func TestAllocatorReuseEndToEnd(t *testing.T) {
	vm, _ := newTestVM(asm(
		Op{Code: OpOrthography, A: 1, V: 4}, // r1 = size
		Op{Code: OpAlloc, B: 0, C: 1}, // r0 = alloc(4)
		Op{Code: OpDealloc, C: 0},
		Op{Code: OpAlloc, B: 2, C: 1}, // r2 = alloc(4), should reuse r0's id
		Op{Code: OpHalt},
	), "")
	require.NoError(t, vm.Run())
	assert.Equal(t, vm.Regs[0], vm.Regs[2])
}

// TestArithmeticClosure verifies Add and Mul wrap modulo 2^32 instead
// of overflowing, and that NAND operates on the raw bit pattern.
func TestArithmeticClosure(t *testing.T) {
	vm, _ := newTestVM(nil, "")
	vm.Regs[1] = 0xFFFFFFFF
	vm.Regs[2] = 2
	require.NoError(t, vm.execute(Op{Code: OpAdd, A: 0, B: 1, C: 2}))
	assert.EqualValues(t, 1, vm.Regs[0], "Add must wrap modulo 2^32")

	vm.Regs[1] = 0x80000000
	vm.Regs[2] = 4
	require.NoError(t, vm.execute(Op{Code: OpMul, A: 0, B: 1, C: 2}))
	assert.EqualValues(t, 0, vm.Regs[0], "Mul must wrap modulo 2^32")

	vm.Regs[1] = 0xF0F0F0F0
	vm.Regs[2] = 0x0F0F0F0F
	require.NoError(t, vm.execute(Op{Code: OpNAND, A: 0, B: 1, C: 2}))
	assert.EqualValues(t, 0xFFFFFFFF, vm.Regs[0])
}

func TestDivByZeroFaults(t *testing.T) {
	vm, _ := newTestVM(nil, "")
	vm.Regs[2] = 0
	err := vm.execute(Op{Code: OpDiv, A: 0, B: 1, C: 2})
	assert.ErrorIs(t, err, ErrDivByZero)
}

func TestCondMove(t *testing.T) {
	vm, _ := newTestVM(nil, "")
	vm.Regs[1] = 42
	vm.Regs[2] = 0
	require.NoError(t, vm.execute(Op{Code: OpCondMove, A: 0, B: 1, C: 2}))
	assert.EqualValues(t, 0, vm.Regs[0], "C==0 must not move")

	vm.Regs[2] = 1
	require.NoError(t, vm.execute(Op{Code: OpCondMove, A: 0, B: 1, C: 2}))
	assert.EqualValues(t, 42, vm.Regs[0])
}

func TestOutputRejectsNonByteValue(t *testing.T) {
	vm, _ := newTestVM(nil, "")
	vm.Regs[0] = 256
	err := vm.execute(Op{Code: OpOutput, C: 0})
	assert.ErrorIs(t, err, ErrBadOutput)
}

func TestIllegalOpcodeFaults(t *testing.T) {
	vm, _ := newTestVM(asm(Op{Code: 14}), "")
	err := vm.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalOp))
	var f *Fault
	require.True(t, errors.As(err, &f))
	assert.EqualValues(t, 0, f.IP)
}

// TestLoadProgramJump verifies that Load Program with a zero source
// register only retargets IP, without copying segment 0, implementing
// an unconditional jump.
func TestLoadProgramJump(t *testing.T) {
	vm, out := newTestVM(asm(
		Op{Code: OpOrthography, A: 7, V: 4}, // r7 = target offset (the Halt)
		Op{Code: OpOrthography, A: 0, V: 'Z'},
		Op{Code: OpLoadProgram, B: 1, C: 7}, // jump to offset 4 (r1==0 -> no copy)
		Op{Code: OpOutput, C: 0},            // must be skipped by the jump
		Op{Code: OpHalt},
	), "")
	require.NoError(t, vm.Run())
	assert.Empty(t, out.String(), "jump must skip the Output at offset 3")
}

func TestFaultOnFetchOutOfBounds(t *testing.T) {
	vm, _ := newTestVM([]uint32{}, "")
	err := vm.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	var f *Fault
	require.True(t, errors.As(err, &f))
	assert.Equal(t, noFetchOp, f.Op.Code)
}
