package vm

import (
	"bufio"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Console is the byte-oriented sink/source the I/O Adapter wraps.
// Output is a single unbuffered byte write; Input is a single
// blocking byte read, with io.EOF signaling end of stream. The
// execution core never reads or writes more than one byte per
// instruction and never treats Console as anything else.
type Console interface {
	ReadByte() (byte, error)
	WriteByte(b byte) error
}

// bufConsole adapts a buffered reader/writer pair to Console. It is
// used both for the real stdin/stdout and for in-memory tests.
type bufConsole struct {
	in  *bufio.Reader
	out *bufio.Writer
}

// NewConsole wraps an arbitrary reader/writer pair as a Console. The
// writer is flushed after every byte, matching the "unbuffered at the
// semantic level" contract: callers may observe output immediately
// after the instruction that produced it completes.
func NewConsole(in io.Reader, out io.Writer) Console {
	return &bufConsole{in: bufio.NewReader(in), out: bufio.NewWriter(out)}
}

func (c *bufConsole) ReadByte() (byte, error) {
	return c.in.ReadByte()
}

func (c *bufConsole) WriteByte(b byte) error {
	if err := c.out.WriteByte(b); err != nil {
		return err
	}
	return c.out.Flush()
}

// StdConsole is a Console backed by the process's real stdin/stdout.
// When stdin is attached to an interactive terminal, StdConsole puts
// it into raw mode for the lifetime of the console so that Input
// observes one raw byte at a time instead of waiting on the
// terminal's own line discipline; Restore must be called before the
// process exits to leave the terminal in a sane state. When stdin is
// not a terminal (the common case: a redirected file or a pipe
// feeding a recorded trace), raw mode is skipped entirely.
type StdConsole struct {
	Console
	fd       int
	oldState *term.State
}

// NewStdConsole constructs a StdConsole over os.Stdin/os.Stdout.
func NewStdConsole() *StdConsole {
	sc := &StdConsole{
		Console: NewConsole(os.Stdin, os.Stdout),
		fd:      int(os.Stdin.Fd()),
	}
	if isatty.IsTerminal(uintptr(sc.fd)) {
		if state, err := term.MakeRaw(sc.fd); err == nil {
			sc.oldState = state
		}
	}
	return sc
}

// Restore returns the controlling terminal to its original mode, if
// StdConsole put it into raw mode in the first place. It is a no-op
// otherwise, and safe to call unconditionally on shutdown.
func (sc *StdConsole) Restore() {
	if sc.oldState != nil {
		term.Restore(sc.fd, sc.oldState)
	}
}
