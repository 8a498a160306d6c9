package cpu

import (
	"encoding/binary"
	"iter"
)

// LinkKind selects how a label reference is patched into an assembled
// word at link time.
type LinkKind int

const (
	LINK_NONE  = LinkKind(0) // No label reference.
	LINK_REL9  = LinkKind(1) // 9-bit PC-relative offset field.
	LINK_REL11 = LinkKind(2) // 11-bit PC-relative offset field.
	LINK_ABS   = LinkKind(3) // Whole word holds the label address.
)

// Opcode is one assembled source line: its address, source words, and
// the generated instruction or data words.
type Opcode struct {
	LineNo    int
	Addr      int           // Word address of the first generated word.
	Words     []string      // Parsed source words.
	Codes     []Instruction // Generated words.
	LinkLabel string        // Label reference patched at link time.
	LinkKind  LinkKind
}

// Program is an assembled listing with its load origin.
type Program struct {
	Origin  uint16
	Opcodes []Opcode
}

// Debug locates the source line generating a word address.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the source line information for the word at addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if addr >= uint16(op.Addr) && addr < uint16(op.Addr)+uint16(len(op.Codes)) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr - uint16(op.Addr)),
			}
			break
		}
	}

	return
}

// Codes iterates the assembled words with their load addresses.
func (prog *Program) Codes() iter.Seq2[uint16, Instruction] {
	return func(yield func(addr uint16, code Instruction) bool) {
		for _, op := range prog.Opcodes {
			addr := uint16(op.Addr)
			for n, code := range op.Codes {
				if !yield(addr+uint16(n), code) {
					return
				}
			}
		}
	}
}

// Binary emits the program as a loadable big-endian object image: the
// origin word followed by the payload words.
func (prog *Program) Binary() (image []byte) {
	image = binary.BigEndian.AppendUint16(image, prog.Origin)
	for _, code := range prog.Codes() {
		image = binary.BigEndian.AppendUint16(image, uint16(code))
	}

	return
}
