package emulator

import (
	"github.com/jaredgorski/lc3-vm/translate"
)

var f = translate.From

// ErrRuntime locates a fault by program counter and, when the program
// was assembled locally, by source line.
type ErrRuntime struct {
	PC     uint16
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("pc 0x%04x line %d %v", err.PC, err.LineNo, err.Err)
	}

	return f("pc 0x%04x %v", err.PC, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
