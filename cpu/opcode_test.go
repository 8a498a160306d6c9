package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignExtend(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		bits uint
		sign uint16 // sign bit of the field
		fill uint16 // high bits replicated for negatives
	}){
		{5, 0x0010, 0xffe0},
		{6, 0x0020, 0xffc0},
		{9, 0x0100, 0xfe00},
		{11, 0x0400, 0xf800},
	}

	for _, entry := range table {
		limit := entry.sign << 1
		for x := uint16(0); x < limit; x++ {
			want := x
			if x&entry.sign != 0 {
				want = x | entry.fill
			}
			assert.Equal(want, SignExtend(x, entry.bits), "bits=%d x=%#x", entry.bits, x)
		}
	}
}

func TestInstructionFields(t *testing.T) {
	assert := assert.New(t)

	ins := Instruction(0x1042) // ADD R0, R1, R2
	assert.Equal(OP_ADD, ins.Op())
	assert.Equal(0, ins.Dst())
	assert.Equal(1, ins.Base())
	assert.Equal(2, ins.Src2())
	assert.False(ins.Immediate())

	ins = Instruction(0x103f) // ADD R0, R0, #-1
	assert.True(ins.Immediate())
	assert.Equal(uint16(0xffff), ins.Imm5())

	ins = MakeBr(FL_NEG|FL_ZRO, 0x1fb)
	assert.Equal(Instruction(0x0dfb), ins)
	assert.Equal(FL_NEG|FL_ZRO, ins.CondMask())

	assert.Equal(TRAP_HALT, MakeTrap(TRAP_HALT).Vector())
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		ins Instruction
		out string
	}){
		{MakeAdd(0, 1, 2), "ADD R0, R1, R2"},
		{MakeAddImm(0, 0, 0x1f), "ADD R0, R0, #-1"},
		{MakeAndImm(3, 3, 0), "AND R3, R3, #0"},
		{MakeNot(4, 5), "NOT R4, R5"},
		{MakeBr(FL_NEG|FL_ZRO, 0x1fb), "BRnz #-5"},
		{MakeBr(FL_NEG|FL_ZRO|FL_POS, 1), "BRnzp #1"},
		{MakeJmp(2), "JMP R2"},
		{MakeRet(), "RET"},
		{MakeJsr(2), "JSR #2"},
		{MakeJsrr(3), "JSRR R3"},
		{MakePcRel(OP_LEA, 0, 2), "LEA R0, #2"},
		{MakePcRel(OP_LD, 1, 0x1fd), "LD R1, #-3"},
		{MakePcRel(OP_ST, 5, 7), "ST R5, #7"},
		{MakeBase(OP_STR, 1, 2, 0x3e), "STR R1, R2, #-2"},
		{MakeBase(OP_LDR, 6, 0, 1), "LDR R6, R0, #1"},
		{MakeTrap(TRAP_PUTS), "PUTS"},
		{MakeTrap(TRAP_HALT), "HALT"},
		{MakeTrap(0x7f), "TRAP x7F"},
		{Instruction(0x8000), "RTI x8000"},
		{Instruction(0xd123), "RES xD123"},
	}

	for _, entry := range table {
		assert.Equal(entry.out, entry.ins.String(), "%#04x", uint16(entry.ins))
	}
}

func TestCondFlagString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("p", FL_POS.String())
	assert.Equal("z", FL_ZRO.String())
	assert.Equal("n", FL_NEG.String())
	assert.Equal("nzp", (FL_NEG | FL_ZRO | FL_POS).String())
	assert.Equal("", CondFlag(0).String())
}
