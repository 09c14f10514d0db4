// Package chip8 implements the CHIP-8 virtual machine and its instruction codec.
//
// The machine owns 4KB of memory (the first 512 bytes hold the hexadecimal
// glyph table), sixteen 8-bit registers, a 16-bit index register, a 16-entry
// return stack, two countdown timers, a 64x32 monochrome pixel buffer, and a
// 16-key pad. Step performs one fetch-decode-execute cycle; timers tick at a
// caller-chosen cadence independent of Step.
//
// The assembler and disassembler are exact duals over the same opcode table
// the executor dispatches on: disassembler output re-assembles to the
// original bytes, except for the two shift instructions, whose unused Vy
// nibble is dropped by the textual form.
package chip8
