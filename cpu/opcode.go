package cpu

import (
	"fmt"
)

// Op is the 4-bit operation selector in bits 15-12 of an
// instruction word.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_BR   = Op(0)  // BR
	OP_ADD  = Op(1)  // ADD
	OP_LD   = Op(2)  // LD
	OP_ST   = Op(3)  // ST
	OP_JSR  = Op(4)  // JSR
	OP_AND  = Op(5)  // AND
	OP_LDR  = Op(6)  // LDR
	OP_STR  = Op(7)  // STR
	OP_RTI  = Op(8)  // RTI
	OP_NOT  = Op(9)  // NOT
	OP_LDI  = Op(10) // LDI
	OP_STI  = Op(11) // STI
	OP_JMP  = Op(12) // JMP
	OP_RES  = Op(13) // RES
	OP_LEA  = Op(14) // LEA
	OP_TRAP = Op(15) // TRAP
)

// CondFlag is a set of condition-flag bits. The COND register holds
// exactly one flag; a BR condition mask may hold any combination.
type CondFlag uint16

const (
	FL_POS = CondFlag(1 << 0) // Positive
	FL_ZRO = CondFlag(1 << 1) // Zero
	FL_NEG = CondFlag(1 << 2) // Negative
)

// String renders the flag set as a BR condition suffix.
func (fl CondFlag) String() (out string) {
	if fl&FL_NEG != 0 {
		out += "n"
	}
	if fl&FL_ZRO != 0 {
		out += "z"
	}
	if fl&FL_POS != 0 {
		out += "p"
	}

	return
}

// TrapVector selects a built-in system service.
type TrapVector int

//go:generate go tool stringer -linecomment -type=TrapVector
const (
	TRAP_GETC  = TrapVector(0x20) // GETC
	TRAP_OUT   = TrapVector(0x21) // OUT
	TRAP_PUTS  = TrapVector(0x22) // PUTS
	TRAP_IN    = TrapVector(0x23) // IN
	TRAP_PUTSP = TrapVector(0x24) // PUTSP
	TRAP_HALT  = TrapVector(0x25) // HALT
)

// SignExtend widens the low bits of x to a 16-bit two's-complement
// value, replicating the sign bit.
func SignExtend(x uint16, bits uint) uint16 {
	if (x>>(bits-1))&1 != 0 {
		x |= 0xffff << bits
	}

	return x
}

// Instruction is a single 16-bit instruction word.
type Instruction uint16

// Op returns the opcode from bits 15-12.
func (ins Instruction) Op() Op {
	return Op(ins >> 12)
}

// Dst returns the destination (or store source) register index from
// bits 11-9.
func (ins Instruction) Dst() int {
	return int(ins>>9) & 0x7
}

// Base returns the first source or base register index from bits 8-6.
func (ins Instruction) Base() int {
	return int(ins>>6) & 0x7
}

// Src2 returns the second source register index from bits 2-0.
func (ins Instruction) Src2() int {
	return int(ins) & 0x7
}

// Immediate reports whether bit 5 selects the register-immediate form
// of ADD and AND.
func (ins Instruction) Immediate() bool {
	return (ins>>5)&1 != 0
}

// Imm5 returns the sign-extended 5-bit immediate from bits 4-0.
func (ins Instruction) Imm5() uint16 {
	return SignExtend(uint16(ins)&0x1f, 5)
}

// Offset6 returns the sign-extended 6-bit offset from bits 5-0.
func (ins Instruction) Offset6() uint16 {
	return SignExtend(uint16(ins)&0x3f, 6)
}

// Offset9 returns the sign-extended 9-bit offset from bits 8-0.
func (ins Instruction) Offset9() uint16 {
	return SignExtend(uint16(ins)&0x1ff, 9)
}

// Offset11 returns the sign-extended 11-bit offset from bits 10-0.
func (ins Instruction) Offset11() uint16 {
	return SignExtend(uint16(ins)&0x7ff, 11)
}

// Relative reports whether bit 11 selects the PC-relative form of JSR.
func (ins Instruction) Relative() bool {
	return (ins>>11)&1 != 0
}

// CondMask returns the BR condition mask from bits 11-9.
func (ins Instruction) CondMask() CondFlag {
	return CondFlag(ins>>9) & 0x7
}

// Vector returns the trap vector from bits 7-0.
func (ins Instruction) Vector() TrapVector {
	return TrapVector(ins & 0xff)
}

// makeReg packs the common dst/base register fields of an instruction.
func makeReg(op Op, dst, base int, low uint16) Instruction {
	return Instruction(uint16(op)<<12 | uint16(dst&0x7)<<9 | uint16(base&0x7)<<6 | low)
}

// MakeBr creates a BR instruction with a condition mask and offset.
func MakeBr(mask CondFlag, offset9 uint16) Instruction {
	return Instruction(uint16(OP_BR)<<12 | uint16(mask&0x7)<<9 | offset9&0x1ff)
}

// MakeAdd creates a register-register ADD instruction.
func MakeAdd(dst, sr1, sr2 int) Instruction {
	return makeReg(OP_ADD, dst, sr1, uint16(sr2&0x7))
}

// MakeAddImm creates a register-immediate ADD instruction.
func MakeAddImm(dst, sr1 int, imm5 uint16) Instruction {
	return makeReg(OP_ADD, dst, sr1, 1<<5|imm5&0x1f)
}

// MakeAnd creates a register-register AND instruction.
func MakeAnd(dst, sr1, sr2 int) Instruction {
	return makeReg(OP_AND, dst, sr1, uint16(sr2&0x7))
}

// MakeAndImm creates a register-immediate AND instruction.
func MakeAndImm(dst, sr1 int, imm5 uint16) Instruction {
	return makeReg(OP_AND, dst, sr1, 1<<5|imm5&0x1f)
}

// MakeNot creates a NOT instruction.
func MakeNot(dst, src int) Instruction {
	return makeReg(OP_NOT, dst, src, 0x3f)
}

// MakeJmp creates a JMP instruction. Base register 7 is RET.
func MakeJmp(base int) Instruction {
	return makeReg(OP_JMP, 0, base, 0)
}

// MakeRet creates a subroutine return.
func MakeRet() Instruction {
	return MakeJmp(7)
}

// MakeJsr creates a PC-relative JSR instruction.
func MakeJsr(offset11 uint16) Instruction {
	return Instruction(uint16(OP_JSR)<<12 | 1<<11 | offset11&0x7ff)
}

// MakeJsrr creates a register-indirect JSRR instruction.
func MakeJsrr(base int) Instruction {
	return makeReg(OP_JSR, 0, base, 0)
}

// MakePcRel creates a PC-relative memory-access instruction
// (LD, LDI, LEA, ST, STI).
func MakePcRel(op Op, dst int, offset9 uint16) Instruction {
	return Instruction(uint16(op)<<12 | uint16(dst&0x7)<<9 | offset9&0x1ff)
}

// MakeBase creates a base+offset memory-access instruction (LDR, STR).
func MakeBase(op Op, dst, base int, offset6 uint16) Instruction {
	return makeReg(op, dst, base, offset6&0x3f)
}

// MakeTrap creates a TRAP instruction.
func MakeTrap(vector TrapVector) Instruction {
	return Instruction(uint16(OP_TRAP)<<12 | uint16(vector)&0xff)
}

// String returns the assembly rendering of the instruction word.
func (ins Instruction) String() (out string) {
	op := ins.Op()

	switch op {
	case OP_BR:
		out = fmt.Sprintf("%v%v #%d", op, ins.CondMask(), int16(ins.Offset9()))
	case OP_ADD, OP_AND:
		if ins.Immediate() {
			out = fmt.Sprintf("%v R%d, R%d, #%d", op, ins.Dst(), ins.Base(), int16(ins.Imm5()))
		} else {
			out = fmt.Sprintf("%v R%d, R%d, R%d", op, ins.Dst(), ins.Base(), ins.Src2())
		}
	case OP_NOT:
		out = fmt.Sprintf("%v R%d, R%d", op, ins.Dst(), ins.Base())
	case OP_JMP:
		if ins.Base() == 7 {
			out = "RET"
		} else {
			out = fmt.Sprintf("%v R%d", op, ins.Base())
		}
	case OP_JSR:
		if ins.Relative() {
			out = fmt.Sprintf("%v #%d", op, int16(ins.Offset11()))
		} else {
			out = fmt.Sprintf("JSRR R%d", ins.Base())
		}
	case OP_LD, OP_LDI, OP_LEA, OP_ST, OP_STI:
		out = fmt.Sprintf("%v R%d, #%d", op, ins.Dst(), int16(ins.Offset9()))
	case OP_LDR, OP_STR:
		out = fmt.Sprintf("%v R%d, R%d, #%d", op, ins.Dst(), ins.Base(), int16(ins.Offset6()))
	case OP_TRAP:
		vector := ins.Vector()
		switch vector {
		case TRAP_GETC, TRAP_OUT, TRAP_PUTS, TRAP_IN, TRAP_PUTSP, TRAP_HALT:
			out = vector.String()
		default:
			out = fmt.Sprintf("%v x%02X", op, int(vector))
		}
	case OP_RTI, OP_RES:
		out = fmt.Sprintf("%v x%04X", op, uint16(ins))
	}

	return
}
