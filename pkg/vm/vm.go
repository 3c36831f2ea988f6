// Package vm implements the Universal Machine: a register-based
// virtual machine whose memory is an address space of independently
// sized, identifier-addressed platters rather than a single flat
// array.
//
// Instruction format
//
// Each instruction is 32 bits wide, big-endian in the program image.
// Standard form (opcodes 0-12):
//
//	<Opcode:4><Reserved:19><A:3><B:3><C:3>
//
// Orthography (opcode 13):
//
//	<Opcode:4><A:3><Immediate:25>
package vm

import (
	"errors"
	"fmt"
	"io"
)

// NumRegisters is the number of general-purpose registers.
const NumRegisters = 8

// VM is a Universal Machine instance. It is not goroutine safe; a
// single goroutine should drive Run/Step.
type VM struct {
	Regs [NumRegisters]uint32
	IP   uint32
	Mem  *Memory
	Con  Console
}

// New constructs a VM whose segment 0 is program and whose console
// is con. Registers start at zero and IP starts at 0, per spec.
func New(program []uint32, con Console) *VM {
	return &VM{
		Mem: NewMemory(program),
		Con: con,
	}
}

// Run drives the dispatch loop until Halt or a fault. It returns nil
// on a clean halt and a *Fault wrapping one of the Err* sentinels
// otherwise. Run never returns io.EOF: end of input is handled inside
// Input and is not a fault.
func (vm *VM) Run() error {
	for {
		if err := vm.Step(); err != nil {
			if errors.Is(err, ErrHalted) {
				return nil
			}
			return err
		}
	}
}

// Step fetches, decodes, and executes exactly one instruction,
// advancing IP by one word before the opcode runs (so Load Program
// and the conditional jumps it implements see IP already pointing
// past the instruction that dispatched them). It returns a *Fault on
// any error, including the terminal ErrHalted case.
func (vm *VM) Step() error {
	faultIP := vm.IP
	word, err := vm.Mem.Fetch(vm.IP)
	if err != nil {
		return newFault(faultIP, Op{Code: noFetchOp}, err)
	}
	op := Decode(word)
	vm.IP++

	if err := vm.execute(op); err != nil {
		return newFault(faultIP, op, err)
	}
	return nil
}

// execute runs the semantics of a single decoded instruction.
func (vm *VM) execute(op Op) error {
	r := &vm.Regs
	switch op.Code {
	case OpCondMove:
		if r[op.C] != 0 {
			r[op.A] = r[op.B]
		}
	case OpArrayIndex:
		v, err := vm.Mem.Read(r[op.B], r[op.C])
		if err != nil {
			return err
		}
		r[op.A] = v
	case OpArrayAmend:
		if err := vm.Mem.Write(r[op.A], r[op.B], r[op.C]); err != nil {
			return err
		}
	case OpAdd:
		r[op.A] = r[op.B] + r[op.C]
	case OpMul:
		r[op.A] = r[op.B] * r[op.C]
	case OpDiv:
		if r[op.C] == 0 {
			return ErrDivByZero
		}
		r[op.A] = r[op.B] / r[op.C]
	case OpNAND:
		r[op.A] = ^(r[op.B] & r[op.C])
	case OpHalt:
		return ErrHalted
	case OpAlloc:
		r[op.B] = vm.Mem.Alloc(r[op.C])
	case OpDealloc:
		return vm.Mem.Dealloc(r[op.C])
	case OpOutput:
		v := r[op.C]
		if v > 0xff {
			return fmt.Errorf("%w: %d", ErrBadOutput, v)
		}
		if err := vm.Con.WriteByte(byte(v)); err != nil {
			return fmt.Errorf("%w: %s", ErrIO, err)
		}
	case OpInput:
		b, err := vm.Con.ReadByte()
		switch {
		case errors.Is(err, io.EOF):
			r[op.C] = 0xFFFFFFFF
		case err != nil:
			return fmt.Errorf("%w: %s", ErrIO, err)
		default:
			r[op.C] = uint32(b)
		}
	case OpLoadProgram:
		if r[op.B] != 0 {
			if err := vm.Mem.LoadProgram(r[op.B]); err != nil {
				return err
			}
		}
		vm.IP = r[op.C]
	case OpOrthography:
		r[op.A] = op.V
	default:
		return fmt.Errorf("%w: %d", ErrIllegalOp, uint32(op.Code))
	}
	return nil
}
