// Package mem implements the LC-3 memory subsystem: a 65,536-word
// address space with two addresses aliased to memory-mapped keyboard
// registers.
//
// A read of the keyboard status register polls the attached Poller
// for pending host input and latches the result into the status and
// data registers before the read completes. All other addresses are
// plain storage.
package mem

import (
	"fmt"
	"iter"
	"maps"
)

// Memory-mapped device registers.
const (
	MR_KBSR = uint16(0xfe00) // Keyboard status register.
	MR_KBDR = uint16(0xfe02) // Keyboard data register.

	FL_KBSR_READY = uint16(1 << 15) // Ready bit in MR_KBSR.
)

var _mem_defines = map[string]string{
	"KBSR": fmt.Sprintf("%#x", MR_KBSR),
	"KBDR": fmt.Sprintf("%#x", MR_KBDR),
}

// Poller supplies pending host input for the memory-mapped keyboard
// registers. Poll must never block.
type Poller interface {
	Poll() (b byte, ok bool)
}

// Memory is the full 16-bit word-addressed address space.
type Memory struct {
	Keyboard Poller // Host input poller for MR_KBSR reads. May be nil.

	cell [1 << 16]uint16
}

// Defines for the memory subsystem.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(_mem_defines)
}

// Read returns the word at address. A read of MR_KBSR polls the
// keyboard and latches the pending byte, if any, into MR_KBDR.
func (mem *Memory) Read(address uint16) (value uint16) {
	if address == MR_KBSR {
		mem.pollKeyboard()
	}

	value = mem.cell[address]

	return
}

// Write stores value at address.
func (mem *Memory) Write(address uint16, value uint16) {
	mem.cell[address] = value
}

func (mem *Memory) pollKeyboard() {
	if mem.Keyboard == nil {
		mem.cell[MR_KBSR] = 0
		return
	}

	b, ok := mem.Keyboard.Poll()
	if ok {
		mem.cell[MR_KBSR] = FL_KBSR_READY
		mem.cell[MR_KBDR] = uint16(b)
	} else {
		mem.cell[MR_KBSR] = 0
	}
}
