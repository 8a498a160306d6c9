package cpu

import (
	"errors"

	"github.com/jaredgorski/lc3-vm/translate"
)

var f = translate.From

var (
	// Engine errors
	ErrOpcodeReserved = errors.New(f("opcode reserved"))
	ErrConsoleInput   = errors.New(f("console input"))
	ErrConsoleOutput  = errors.New(f("console output"))

	// Assembler errors
	ErrOriginMissing      = errors.New(f(".ORIG missing"))
	ErrOriginDuplicate    = errors.New(f(".ORIG duplicated"))
	ErrEndMissing         = errors.New(f(".END missing"))
	ErrEquateSyntax       = errors.New(f(".EQU syntax"))
	ErrEquateDuplicate    = errors.New(f(".EQU duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
	ErrOffsetRange        = errors.New(f("offset out of range"))
	ErrVectorRange        = errors.New(f("trap vector out of range"))
	ErrStringSyntax       = errors.New(f(".STRINGZ syntax"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrInstruction Instruction

func (ei ErrInstruction) Error() string {
	return f("bad instruction 0x%04x %v", uint16(ei), Instruction(ei).String())
}

func (ei ErrInstruction) Is(err error) (ok bool) {
	_, ok = err.(ErrInstruction)
	return
}

type ErrTrapUnknown TrapVector

func (et ErrTrapUnknown) Error() string {
	return f("trap vector 0x%02x unknown", int(et))
}

func (et ErrTrapUnknown) Is(err error) (ok bool) {
	_, ok = err.(ErrTrapUnknown)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
