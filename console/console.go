// Package console models the host side of the LC-3's character I/O:
// blocking single-byte reads for the input traps, a non-blocking poll
// for the memory-mapped keyboard registers, and flushed byte output.
//
// Term drives a raw-mode terminal for interactive use; Buffer adapts
// plain reader/writer streams for tests and redirection.
package console

// Console is the host I/O collaborator attached to the machine.
type Console interface {
	// Poll returns a pending input byte without blocking.
	Poll() (b byte, ok bool)
	// ReadByte blocks until one input byte is available.
	ReadByte() (b byte, err error)
	// WriteByte writes a single byte of output.
	WriteByte(b byte) error
	// WriteString writes a string of output.
	WriteString(s string) error
	// Flush drains any buffered output to the host.
	Flush() error
}
