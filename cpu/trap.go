package cpu

import (
	"errors"
)

const (
	// TRAP_IN_PROMPT is printed by the IN service before reading.
	TRAP_IN_PROMPT = "Enter a character: "
	// TRAP_HALT_NOTICE is printed by the HALT service.
	TRAP_HALT_NOTICE = "HALT\n"
)

// trap services the TRAP instruction. R7 is linked to the return
// address and the vector selects a built-in I/O service. An
// unrecognized vector is a fault.
func (cpu *Cpu) trap(vector TrapVector) (err error) {
	cpu.Reg[7] = cpu.PC

	switch vector {
	case TRAP_GETC:
		var b byte
		b, err = cpu.console.ReadByte()
		if err != nil {
			err = errors.Join(ErrConsoleInput, err)
			return
		}
		cpu.Reg[0] = uint16(b)
	case TRAP_OUT:
		err = cpu.console.WriteByte(byte(cpu.Reg[0]))
		if err == nil {
			err = cpu.console.Flush()
		}
		if err != nil {
			err = errors.Join(ErrConsoleOutput, err)
		}
	case TRAP_PUTS:
		err = cpu.puts()
	case TRAP_IN:
		var b byte
		err = cpu.console.WriteString(TRAP_IN_PROMPT)
		if err != nil {
			err = errors.Join(ErrConsoleOutput, err)
			return
		}
		b, err = cpu.console.ReadByte()
		if err != nil {
			err = errors.Join(ErrConsoleInput, err)
			return
		}
		err = cpu.console.WriteByte(b)
		if err == nil {
			err = cpu.console.Flush()
		}
		if err != nil {
			err = errors.Join(ErrConsoleOutput, err)
			return
		}
		cpu.Reg[0] = uint16(b)
	case TRAP_PUTSP:
		err = cpu.putsp()
	case TRAP_HALT:
		err = cpu.console.WriteString(TRAP_HALT_NOTICE)
		if err == nil {
			err = cpu.console.Flush()
		}
		if err != nil {
			err = errors.Join(ErrConsoleOutput, err)
			return
		}
		cpu.Running = false
	default:
		err = ErrTrapUnknown(vector)
	}

	return
}

// puts writes the zero-terminated word string at r0, one character
// per word.
func (cpu *Cpu) puts() (err error) {
	for addr := cpu.Reg[0]; ; addr++ {
		word := cpu.Mem.Read(addr)
		if word == 0 {
			break
		}
		err = cpu.console.WriteByte(byte(word))
		if err != nil {
			err = errors.Join(ErrConsoleOutput, err)
			return
		}
	}

	err = cpu.console.Flush()

	return
}

// putsp writes the zero-terminated packed byte string at r0, low byte
// first, skipping a zero high byte.
func (cpu *Cpu) putsp() (err error) {
	for addr := cpu.Reg[0]; ; addr++ {
		word := cpu.Mem.Read(addr)
		if word == 0 {
			break
		}
		err = cpu.console.WriteByte(byte(word))
		if err == nil {
			if hi := byte(word >> 8); hi != 0 {
				err = cpu.console.WriteByte(hi)
			}
		}
		if err != nil {
			err = errors.Join(ErrConsoleOutput, err)
			return
		}
	}

	err = cpu.console.Flush()

	return
}
