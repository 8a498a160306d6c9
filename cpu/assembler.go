package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/jaredgorski/lc3-vm/mem"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":   "0",
	"PC_START": fmt.Sprintf("%#x", PC_START),
	"KBSR":     fmt.Sprintf("%#x", mem.MR_KBSR),
	"KBDR":     fmt.Sprintf("%#x", mem.MR_KBDR),
}

// Assembler is a single-pass assembler with label back-patching for
// the LC-3 instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Origin    int               // Load origin set by .ORIG; -1 until seen.
	Label     map[string]int    // Map of labels to word addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register indexes.
var regMap = map[string]int{
	"R0": 0,
	"R1": 1,
	"R2": 2,
	"R3": 3,
	"R4": 4,
	"R5": 5,
	"R6": 6,
	"R7": 7,
}

// pcRelMap maps the PC-relative memory-access mnemonics.
var pcRelMap = map[string]Op{
	"LD":  OP_LD,
	"LDI": OP_LDI,
	"LEA": OP_LEA,
	"ST":  OP_ST,
	"STI": OP_STI,
}

// trapMap maps the trap service alias mnemonics.
var trapMap = map[string]TrapVector{
	"GETC":  TRAP_GETC,
	"OUT":   TRAP_OUT,
	"PUTS":  TRAP_PUTS,
	"IN":    TRAP_IN,
	"PUTSP": TRAP_PUTSP,
	"HALT":  TRAP_HALT,
}

// valueOf returns the value of a literal word. Accepts '#'-prefixed
// decimal, 'x'-prefixed hex, and Go literal forms.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word)
		return
	}

	text := word
	switch {
	case text[0] == '#':
		text = text[1:]
	case (text[0] == 'x' || text[0] == 'X') && len(text) > 1:
		text = "0x" + text[1:]
	}

	v64, err := strconv.ParseInt(text, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)

	return
}

// getRegister returns the register index for a word.
func (asm *Assembler) getRegister(word string) (reg int, err error) {
	reg, ok := regMap[strings.ToUpper(word)]
	if !ok {
		err = ErrRegisterInvalid
	}

	return
}

// getValue parses a single numeric operand within [lo, hi].
func (asm *Assembler) getValue(args []string, lo, hi int) (value int, err error) {
	if len(args) < 1 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > 1 {
		err = ErrOpcodeExtraArgs
		return
	}

	value, err = asm.valueOf(args[0])
	if err != nil {
		return
	}

	if value < lo || value > hi {
		err = ErrImmediateRange
		return
	}

	return
}

// fitOffset range-checks a signed offset for an N-bit field.
func fitOffset(value int, bits uint) (offset uint16, err error) {
	limit := 1 << (bits - 1)
	if value < -limit || value >= limit {
		err = ErrOffsetRange
		return
	}

	offset = uint16(value) & (1<<bits - 1)

	return
}

// getRelative parses a label or numeric PC-relative offset operand.
// Label references are patched at link time.
func (asm *Assembler) getRelative(word string, bits uint) (offset uint16, label string, err error) {
	value, verr := asm.valueOf(word)
	if verr == nil {
		offset, err = fitOffset(value, bits)
		return
	}

	label = word

	return
}

// parenEval does compile-time $(...) evaluations.
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		val, verr := asm.valueOf(str)
		if verr != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt(val)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)

	return
}

// parseLine parses a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Split off a quoted string literal before comment stripping and
	// word splitting.
	var literal string
	qn := strings.IndexByte(line, '"')
	cn := strings.IndexByte(line, ';')
	switch {
	case qn >= 0 && (cn < 0 || qn < cn):
		literal, err = strconv.QuotedPrefix(line[qn:])
		if err != nil {
			err = ErrStringSyntax
			return
		}
		line = line[:qn]
	case cn >= 0:
		line = line[:cn]
	}

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "0":
				str = "\000"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	line = strings.ReplaceAll(line, ",", " ")

	words = strings.Fields(line)
	if len(literal) != 0 {
		words = append(words, literal)
	}

	if len(words) == 0 {
		return
	}

	// .EQU CONST VALUE
	if strings.EqualFold(words[0], ".EQU") {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		if strings.HasPrefix(word, `"`) {
			continue
		}

		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		if asm.Origin < 0 {
			err = ErrOriginMissing
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentAddr gets the word address following the last generated code.
func (asm *Assembler) currentAddr() int {
	if len(asm.Opcode) == 0 {
		return asm.Origin
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Addr + len(last.Codes)
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.Origin = -1
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	ended := false
	for scanner.Scan() && !ended {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(text)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		ended, err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if asm.Origin < 0 {
		err = ErrOriginMissing
		return
	}
	if !ended {
		err = ErrEndMissing
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}

		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		addr, ok := asm.Label[op.LinkLabel]
		if !ok {
			err = ErrLabelMissing(op.LinkLabel)
			return
		}

		linked := &op.Codes[len(op.Codes)-1]
		switch op.LinkKind {
		case LINK_ABS:
			*linked = Instruction(uint16(addr))
		case LINK_REL9, LINK_REL11:
			bits := uint(9)
			if op.LinkKind == LINK_REL11 {
				bits = 11
			}
			// Offsets are relative to the post-increment PC.
			var offset uint16
			offset, err = fitOffset(addr-(op.Addr+len(op.Codes)), bits)
			if err != nil {
				return
			}
			*linked |= Instruction(offset)
		}
	}

	prog = &Program{
		Origin:  uint16(asm.Origin),
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (ended bool, err error) {
	var codes []Instruction
	var label string
	var kind LinkKind

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Addr: asm.currentAddr(), Words: initial_words, Codes: codes, LinkLabel: label, LinkKind: kind}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	mnemonic := strings.ToUpper(words[0])
	args := words[1:]

	if mnemonic != ".ORIG" && asm.Origin < 0 {
		err = ErrOriginMissing
		return
	}

	switch mnemonic {
	case ".ORIG":
		if asm.Origin >= 0 {
			err = ErrOriginDuplicate
			return
		}
		var value int
		value, err = asm.getValue(args, 0, 0xffff)
		if err != nil {
			return
		}
		asm.Origin = value
	case ".END":
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		ended = true
	case ".FILL":
		if len(args) != 1 {
			err = ErrOpcodeValueMissing
			if len(args) > 1 {
				err = ErrOpcodeExtraArgs
			}
			return
		}
		value, verr := asm.valueOf(args[0])
		if verr == nil {
			if value < -0x8000 || value > 0xffff {
				err = ErrImmediateRange
				return
			}
			codes = append(codes, Instruction(uint16(value)))
		} else {
			// A label reference fills with the absolute address.
			label = args[0]
			kind = LINK_ABS
			codes = append(codes, Instruction(0))
		}
	case ".BLKW":
		var count int
		count, err = asm.getValue(args, 1, 0xffff)
		if err != nil {
			return
		}
		codes = append(codes, make([]Instruction, count)...)
	case ".STRINGZ":
		if len(args) != 1 {
			err = ErrStringSyntax
			return
		}
		var str string
		str, err = strconv.Unquote(args[0])
		if err != nil {
			err = ErrStringSyntax
			return
		}
		for _, b := range []byte(str) {
			codes = append(codes, Instruction(b))
		}
		codes = append(codes, Instruction(0))
	case "ADD", "AND":
		if len(args) != 3 {
			err = ErrOpcodeValueMissing
			if len(args) > 3 {
				err = ErrOpcodeExtraArgs
			}
			return
		}
		var dst, sr1 int
		dst, err = asm.getRegister(args[0])
		if err != nil {
			return
		}
		sr1, err = asm.getRegister(args[1])
		if err != nil {
			return
		}
		sr2, rerr := asm.getRegister(args[2])
		if rerr == nil {
			if mnemonic == "ADD" {
				codes = append(codes, MakeAdd(dst, sr1, sr2))
			} else {
				codes = append(codes, MakeAnd(dst, sr1, sr2))
			}
			break
		}
		var value int
		value, err = asm.valueOf(args[2])
		if err != nil {
			return
		}
		if value < -16 || value > 15 {
			err = ErrImmediateRange
			return
		}
		if mnemonic == "ADD" {
			codes = append(codes, MakeAddImm(dst, sr1, uint16(value)))
		} else {
			codes = append(codes, MakeAndImm(dst, sr1, uint16(value)))
		}
	case "NOT":
		if len(args) != 2 {
			err = ErrOpcodeValueMissing
			if len(args) > 2 {
				err = ErrOpcodeExtraArgs
			}
			return
		}
		var dst, src int
		dst, err = asm.getRegister(args[0])
		if err != nil {
			return
		}
		src, err = asm.getRegister(args[1])
		if err != nil {
			return
		}
		codes = append(codes, MakeNot(dst, src))
	case "BR", "BRN", "BRZ", "BRP", "BRNZ", "BRNP", "BRZP", "BRNZP":
		var mask CondFlag
		for _, c := range mnemonic[2:] {
			switch c {
			case 'N':
				mask |= FL_NEG
			case 'Z':
				mask |= FL_ZRO
			case 'P':
				mask |= FL_POS
			}
		}
		if mask == 0 {
			mask = FL_NEG | FL_ZRO | FL_POS
		}
		if len(args) != 1 {
			err = ErrOpcodeValueMissing
			if len(args) > 1 {
				err = ErrOpcodeExtraArgs
			}
			return
		}
		var offset uint16
		offset, label, err = asm.getRelative(args[0], 9)
		if err != nil {
			return
		}
		if len(label) != 0 {
			kind = LINK_REL9
		}
		codes = append(codes, MakeBr(mask, offset))
	case "JMP", "JSRR":
		if len(args) != 1 {
			err = ErrOpcodeValueMissing
			if len(args) > 1 {
				err = ErrOpcodeExtraArgs
			}
			return
		}
		var base int
		base, err = asm.getRegister(args[0])
		if err != nil {
			return
		}
		if mnemonic == "JMP" {
			codes = append(codes, MakeJmp(base))
		} else {
			codes = append(codes, MakeJsrr(base))
		}
	case "RET":
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		codes = append(codes, MakeRet())
	case "JSR":
		if len(args) != 1 {
			err = ErrOpcodeValueMissing
			if len(args) > 1 {
				err = ErrOpcodeExtraArgs
			}
			return
		}
		var offset uint16
		offset, label, err = asm.getRelative(args[0], 11)
		if err != nil {
			return
		}
		if len(label) != 0 {
			kind = LINK_REL11
		}
		codes = append(codes, MakeJsr(offset))
	case "LD", "LDI", "LEA", "ST", "STI":
		if len(args) != 2 {
			err = ErrOpcodeValueMissing
			if len(args) > 2 {
				err = ErrOpcodeExtraArgs
			}
			return
		}
		var dst int
		dst, err = asm.getRegister(args[0])
		if err != nil {
			return
		}
		var offset uint16
		offset, label, err = asm.getRelative(args[1], 9)
		if err != nil {
			return
		}
		if len(label) != 0 {
			kind = LINK_REL9
		}
		codes = append(codes, MakePcRel(pcRelMap[mnemonic], dst, offset))
	case "LDR", "STR":
		if len(args) != 3 {
			err = ErrOpcodeValueMissing
			if len(args) > 3 {
				err = ErrOpcodeExtraArgs
			}
			return
		}
		var dst, base int
		dst, err = asm.getRegister(args[0])
		if err != nil {
			return
		}
		base, err = asm.getRegister(args[1])
		if err != nil {
			return
		}
		var value int
		value, err = asm.valueOf(args[2])
		if err != nil {
			return
		}
		var offset uint16
		offset, err = fitOffset(value, 6)
		if err != nil {
			return
		}
		op := OP_LDR
		if mnemonic == "STR" {
			op = OP_STR
		}
		codes = append(codes, MakeBase(op, dst, base, offset))
	case "TRAP":
		var value int
		value, err = asm.getValue(args, 0, 0xff)
		if err != nil {
			if errors.Is(err, ErrImmediateRange) {
				err = ErrVectorRange
			}
			return
		}
		codes = append(codes, MakeTrap(TrapVector(value)))
	case "GETC", "OUT", "PUTS", "IN", "PUTSP", "HALT":
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		codes = append(codes, MakeTrap(trapMap[mnemonic]))
	default:
		err = ErrInstructionInvalid
		return
	}

	return
}
