package console

import (
	"bufio"
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// Term is a raw-mode terminal console. While open, the input terminal
// has canonical processing and echo disabled; Restore puts the saved
// attributes back and must run on every exit path.
type Term struct {
	in    *os.File
	out   *bufio.Writer
	saved unix.Termios
}

var _ Console = (*Term)(nil)

// NewTerm places the input terminal in raw mode and returns a console
// over the input and output files.
func NewTerm(in *os.File, out *os.File) (term *Term, err error) {
	fd := int(in.Fd())

	saved, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		err = errors.Join(ErrNotTerminal, err)
		return
	}

	raw := *saved
	raw.Lflag &^= unix.ICANON | unix.ECHO
	err = unix.IoctlSetTermios(fd, unix.TCSETS, &raw)
	if err != nil {
		err = errors.Join(ErrNotTerminal, err)
		return
	}

	term = &Term{
		in:    in,
		out:   bufio.NewWriter(out),
		saved: *saved,
	}

	return
}

// Restore flushes pending output and puts the saved terminal
// attributes back.
func (term *Term) Restore() (err error) {
	term.out.Flush()
	err = unix.IoctlSetTermios(int(term.in.Fd()), unix.TCSETS, &term.saved)

	return
}

// Poll returns one pending input byte, if any, without blocking.
func (term *Term) Poll() (b byte, ok bool) {
	fds := []unix.PollFd{{Fd: int32(term.in.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil || n == 0 {
		return
	}

	var one [1]byte
	rn, err := term.in.Read(one[:])
	if err != nil || rn == 0 {
		return
	}

	b = one[0]
	ok = true

	return
}

// ReadByte blocks until one input byte is available. Buffered output
// is flushed first so prompts appear before the read.
func (term *Term) ReadByte() (b byte, err error) {
	term.out.Flush()

	var one [1]byte
	n, err := term.in.Read(one[:])
	if err != nil {
		err = errors.Join(ErrInputEmpty, err)
		return
	}
	if n == 0 {
		err = ErrInputEmpty
		return
	}

	b = one[0]

	return
}

// WriteByte writes a single byte to the buffered output.
func (term *Term) WriteByte(b byte) (err error) {
	return term.out.WriteByte(b)
}

// WriteString writes a string to the buffered output.
func (term *Term) WriteString(s string) (err error) {
	_, err = term.out.WriteString(s)

	return
}

// Flush drains the buffered output to the terminal.
func (term *Term) Flush() (err error) {
	return term.out.Flush()
}
