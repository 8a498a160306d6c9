package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrapGetc(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu([]byte("g"))

	err := cpu.Execute(MakeTrap(TRAP_GETC))
	assert.NoError(err)
	assert.Equal(uint16('g'), cpu.Reg[0])
	// GETC never echoes.
	assert.Equal("", output.String())
	// R7 links the return address.
	assert.Equal(cpu.PC, cpu.Reg[7])
}

func TestTrapGetcEmpty(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(nil)

	err := cpu.Execute(MakeTrap(TRAP_GETC))
	assert.ErrorIs(err, ErrConsoleInput)
}

func TestTrapOut(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu(nil)
	cpu.Reg[0] = uint16('!')

	err := cpu.Execute(MakeTrap(TRAP_OUT))
	assert.NoError(err)
	assert.Equal("!", output.String())
}

func TestTrapOutLowByte(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu(nil)
	cpu.Reg[0] = 0xff00 | uint16('x')

	err := cpu.Execute(MakeTrap(TRAP_OUT))
	assert.NoError(err)
	assert.Equal("x", output.String())
}

func TestTrapPuts(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu(nil)
	cpu.Reg[0] = 0x4000
	cpu.Mem.Write(0x4000, uint16('H'))
	cpu.Mem.Write(0x4001, uint16('I'))
	cpu.Mem.Write(0x4002, 0)

	err := cpu.Execute(MakeTrap(TRAP_PUTS))
	assert.NoError(err)
	assert.Equal("HI", output.String())
}

func TestTrapPutsEmpty(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu(nil)
	cpu.Reg[0] = 0x4000

	err := cpu.Execute(MakeTrap(TRAP_PUTS))
	assert.NoError(err)
	assert.Equal("", output.String())
}

func TestTrapIn(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu([]byte("k"))

	err := cpu.Execute(MakeTrap(TRAP_IN))
	assert.NoError(err)
	assert.Equal(uint16('k'), cpu.Reg[0])
	// IN prompts and echoes.
	assert.Equal(TRAP_IN_PROMPT+"k", output.String())
}

func TestTrapPutsp(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu(nil)
	cpu.Reg[0] = 0x4000
	// "abc" packed two characters per word, low byte first.
	cpu.Mem.Write(0x4000, uint16('b')<<8|uint16('a'))
	cpu.Mem.Write(0x4001, uint16('c'))
	cpu.Mem.Write(0x4002, 0)

	err := cpu.Execute(MakeTrap(TRAP_PUTSP))
	assert.NoError(err)
	assert.Equal("abc", output.String())
}

func TestTrapHalt(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu(nil)

	err := cpu.Execute(MakeTrap(TRAP_HALT))
	assert.NoError(err)
	assert.False(cpu.Running)
	assert.Equal(TRAP_HALT_NOTICE, output.String())
}

func TestTrapUnknown(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(nil)

	err := cpu.Execute(Instruction(0xf0ff))
	assert.ErrorIs(err, ErrTrapUnknown(0))
	assert.True(cpu.Running)
}
