// Package emulator wires the LC-3 CPU core to a host console and
// loaded program images, and drives the fetch-execute loop.
package emulator

import (
	"bytes"
	"iter"

	"github.com/jaredgorski/lc3-vm/cpu"
	"github.com/jaredgorski/lc3-vm/internal"
)

// Emulator is the machine state: the CPU core plus the listing of a
// locally assembled program, kept for runtime error attribution.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU core.
	Program  *cpu.Program
}

// NewEmulator creates a new machine attached to a console.
func NewEmulator(con cpu.Console) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(con),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		emu.Cpu.Mem.Defines(),
	)
}

// LoadImage loads a binary object image into memory.
func (emu *Emulator) LoadImage(image []byte) (err error) {
	return emu.Cpu.Mem.LoadImage(bytes.NewReader(image))
}

// LoadFile loads a binary object image from a file path.
func (emu *Emulator) LoadFile(path string) (err error) {
	return emu.Cpu.Mem.LoadFile(path)
}

// LoadProgram loads an assembled listing into memory and keeps it for
// error attribution.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	emu.Program = prog

	return emu.LoadImage(prog.Binary())
}

// Reset restarts execution at the entry point.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
}

// LineNo returns the source line number for the instruction at the
// program counter, or 0 when unknown.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.PC)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Step executes a single instruction. done is set once the machine
// has halted.
func (emu *Emulator) Step() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.PC
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{PC: pc, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Step()
	if err != nil {
		return
	}

	done = !emu.Cpu.Running

	return
}

// Run steps the machine until it halts or faults. A halted machine
// performs no further fetches.
func (emu *Emulator) Run() (err error) {
	for emu.Cpu.Running {
		_, err = emu.Step()
		if err != nil {
			return
		}
	}

	return
}
