package console

import (
	"io"
)

// Buffer is a console over a plain io.Reader and io.Writer, used for
// tests and for stream redirection. Poll and ReadByte both consume
// from the same input stream.
//
// Poll issues a plain Read, so it only honors the non-blocking
// contract for inputs that never stall: in-memory buffers and
// redirected files. Interactive inputs need Term, which polls the
// file descriptor before reading.
type Buffer struct {
	Input  io.Reader
	Output io.Writer
}

var _ Console = (*Buffer)(nil)

// Poll consumes one byte from the input. An exhausted or missing
// input reports no pending byte rather than an error. The read is a
// plain Read, so the input must be one that returns immediately.
func (buf *Buffer) Poll() (b byte, ok bool) {
	if buf.Input == nil {
		return
	}

	var one [1]byte
	n, _ := buf.Input.Read(one[:])
	if n == 1 {
		b = one[0]
		ok = true
	}

	return
}

// ReadByte consumes one byte from the input.
func (buf *Buffer) ReadByte() (b byte, err error) {
	b, ok := buf.Poll()
	if !ok {
		err = ErrInputEmpty
	}

	return
}

// WriteByte writes a single byte to the output.
func (buf *Buffer) WriteByte(b byte) (err error) {
	_, err = buf.Output.Write([]byte{b})

	return
}

// WriteString writes a string to the output.
func (buf *Buffer) WriteString(s string) (err error) {
	_, err = io.WriteString(buf.Output, s)

	return
}

// Flush is a no-op as the output is unbuffered.
func (buf *Buffer) Flush() (err error) {
	return
}
