// Package cpu implements the LC-3 processor and assembler.
//
// The CPU consists of eight 16-bit general-purpose registers (r0-r7),
// a program counter, and a condition-flag register holding exactly
// one of the POS/ZRO/NEG flags. Instructions are fixed 16-bit words
// with a 4-bit opcode; built-in system services are reached through
// TRAP vectors, and two memory addresses alias the keyboard status
// and data registers.
//
// The assembler provides a classic LC-3 assembly syntax with labels,
// equates, and compile-time expression evaluation.
package cpu
