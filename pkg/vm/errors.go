package vm

import (
	"errors"
	"fmt"
)

// The following sentinel errors identify the fault taxonomy a run can
// terminate with. Use errors.Is against these, not against *Fault directly.
var (
	// ErrBadImage indicates that a program image's byte length is not
	// a multiple of 4 and therefore cannot be grouped into words.
	ErrBadImage = errors.New("vm: image length is not a multiple of 4")

	// ErrHalted indicates that the halt instruction has run. Callers
	// should treat this as successful termination, not a fault.
	ErrHalted = errors.New("vm: halted")

	// ErrIllegalOp indicates opcode 14 or 15 was fetched.
	ErrIllegalOp = errors.New("vm: illegal opcode")

	// ErrBadIdentifier indicates an operation targeted an identifier
	// that is not currently associated with a live platter.
	ErrBadIdentifier = errors.New("vm: bad identifier")

	// ErrOutOfBounds indicates an offset at or beyond the length of
	// the targeted platter, including a fetch beyond segment 0.
	ErrOutOfBounds = errors.New("vm: offset out of bounds")

	// ErrDivByZero indicates a Div instruction with a zero divisor.
	ErrDivByZero = errors.New("vm: division by zero")

	// ErrBadOutput indicates an Output instruction whose register
	// held a value greater than 255.
	ErrBadOutput = errors.New("vm: output value exceeds one byte")

	// ErrIO indicates that a console read or write failed for a
	// reason other than end-of-stream.
	ErrIO = errors.New("vm: console i/o error")
)

// Fault is a terminal execution error. It names the faulting
// instruction pointer and the decoded operation so the host can print
// the single diagnostic line the interpreter's contract requires.
type Fault struct {
	IP  uint32
	Op  Op
	Err error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("fault at ip=%d op=%s: %s", f.IP, f.Op, f.Err)
}

// Unwrap lets errors.Is/errors.As see through to the sentinel error.
func (f *Fault) Unwrap() error {
	return f.Err
}

// newFault wraps err, naming the faulting ip and decoded instruction.
func newFault(ip uint32, op Op, err error) *Fault {
	return &Fault{IP: ip, Op: op, Err: err}
}
