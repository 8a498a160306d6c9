package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/jaredgorski/lc3-vm/console"
	"github.com/jaredgorski/lc3-vm/mem"
)

// Console is the host character I/O interface.
type Console console.Console

// PC_START is the fixed program entry point.
const PC_START = uint16(0x3000)

var _cpu_defines = map[string]string{
	"PC_START": fmt.Sprintf("%#x", PC_START),
}

// Cpu is the LC-3 execution engine: register file, condition flags,
// memory, and the attached console. Each instance owns its own
// memory and register allocation.
type Cpu struct {
	Verbose bool // Set to enable verbose execution tracing.

	Reg  [8]uint16 // General-purpose registers r0-r7.
	PC   uint16    // Program counter.
	Cond CondFlag  // Condition flags. Exactly one of POS/ZRO/NEG.

	Running bool // Cleared by the HALT trap.

	Mem *mem.Memory // Full 65,536-word address space.

	console Console
}

// NewCpu creates a new CPU with its own memory, attached to a console.
func NewCpu(con Console) (cpu *Cpu) {
	cpu = &Cpu{
		Mem:     &mem.Memory{},
		Cond:    FL_ZRO,
		console: con,
	}
	cpu.Mem.Keyboard = con

	return
}

// Defines for the cpu.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	for n, val := range cpu.Reg {
		text += fmt.Sprintf("  r%d: %04X\n", n, val)
	}
	text += fmt.Sprintf("  pc: %04X\n", cpu.PC)
	text += fmt.Sprintf("cond: %v\n", cpu.Cond)

	return
}

// Reset clears the register file and restarts execution at the entry
// point. Memory contents are preserved.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset to %#04x", PC_START)
	}

	clear(cpu.Reg[:])
	cpu.PC = PC_START
	cpu.Cond = FL_ZRO
	cpu.Running = true
}

// setFlags updates COND from a destination register's final value.
func (cpu *Cpu) setFlags(value uint16) {
	switch {
	case value == 0:
		cpu.Cond = FL_ZRO
	case value&0x8000 != 0:
		cpu.Cond = FL_NEG
	default:
		cpu.Cond = FL_POS
	}
}

// Step fetches, decodes, and executes one instruction. The PC is
// advanced past the instruction before it executes, so PC-relative
// offsets are taken from the next-instruction address.
func (cpu *Cpu) Step() (err error) {
	ins := Instruction(cpu.Mem.Read(cpu.PC))

	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.PC, ins)
	}

	cpu.PC++

	err = cpu.Execute(ins)

	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrInstruction(ins), err)
		}
	}()

	switch ins.Op() {
	case OP_ADD:
		dst := ins.Dst()
		cpu.Reg[dst] = cpu.Reg[ins.Base()] + cpu.operand(ins)
		cpu.setFlags(cpu.Reg[dst])
	case OP_AND:
		dst := ins.Dst()
		cpu.Reg[dst] = cpu.Reg[ins.Base()] & cpu.operand(ins)
		cpu.setFlags(cpu.Reg[dst])
	case OP_NOT:
		dst := ins.Dst()
		cpu.Reg[dst] = ^cpu.Reg[ins.Base()]
		cpu.setFlags(cpu.Reg[dst])
	case OP_BR:
		if ins.CondMask()&cpu.Cond != 0 {
			cpu.PC += ins.Offset9()
		}
	case OP_JMP:
		cpu.PC = cpu.Reg[ins.Base()]
	case OP_JSR:
		cpu.Reg[7] = cpu.PC
		if ins.Relative() {
			cpu.PC += ins.Offset11()
		} else {
			cpu.PC = cpu.Reg[ins.Base()]
		}
	case OP_LD:
		dst := ins.Dst()
		cpu.Reg[dst] = cpu.Mem.Read(cpu.PC + ins.Offset9())
		cpu.setFlags(cpu.Reg[dst])
	case OP_LDI:
		dst := ins.Dst()
		cpu.Reg[dst] = cpu.Mem.Read(cpu.Mem.Read(cpu.PC + ins.Offset9()))
		cpu.setFlags(cpu.Reg[dst])
	case OP_LDR:
		dst := ins.Dst()
		cpu.Reg[dst] = cpu.Mem.Read(cpu.Reg[ins.Base()] + ins.Offset6())
		cpu.setFlags(cpu.Reg[dst])
	case OP_LEA:
		dst := ins.Dst()
		cpu.Reg[dst] = cpu.PC + ins.Offset9()
		cpu.setFlags(cpu.Reg[dst])
	case OP_ST:
		cpu.Mem.Write(cpu.PC+ins.Offset9(), cpu.Reg[ins.Dst()])
	case OP_STI:
		cpu.Mem.Write(cpu.Mem.Read(cpu.PC+ins.Offset9()), cpu.Reg[ins.Dst()])
	case OP_STR:
		cpu.Mem.Write(cpu.Reg[ins.Base()]+ins.Offset6(), cpu.Reg[ins.Dst()])
	case OP_TRAP:
		err = cpu.trap(ins.Vector())
	case OP_RTI, OP_RES:
		err = ErrOpcodeReserved
	}

	return
}

// operand returns the second ALU operand: either the second source
// register or the sign-extended 5-bit immediate.
func (cpu *Cpu) operand(ins Instruction) (value uint16) {
	if ins.Immediate() {
		value = ins.Imm5()
	} else {
		value = cpu.Reg[ins.Src2()]
	}

	return
}
