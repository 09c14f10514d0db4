package chip8

import (
	"fmt"
)

// CodeOp is a decoded instruction variant. Several variants share a
// mnemonic (the encoder disambiguates them by operand shape); the
// linecomment string is the mnemonic the textual form uses.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_NOP     = CodeOp(0)  // NOP
	OP_CLS     = CodeOp(1)  // CLS
	OP_RET     = CodeOp(2)  // RET
	OP_JP      = CodeOp(3)  // JP
	OP_CALL    = CodeOp(4)  // CALL
	OP_SE_KK   = CodeOp(5)  // SE
	OP_SNE_KK  = CodeOp(6)  // SNE
	OP_SE_REG  = CodeOp(7)  // SE
	OP_LD_KK   = CodeOp(8)  // LD
	OP_ADD_KK  = CodeOp(9)  // ADD
	OP_LD_REG  = CodeOp(10) // LD
	OP_OR      = CodeOp(11) // OR
	OP_AND     = CodeOp(12) // AND
	OP_XOR     = CodeOp(13) // XOR
	OP_ADD_REG = CodeOp(14) // ADD
	OP_SUB     = CodeOp(15) // SUB
	OP_SHR     = CodeOp(16) // SHR
	OP_SUBN    = CodeOp(17) // SUBN
	OP_SHL     = CodeOp(18) // SHL
	OP_SNE_REG = CodeOp(19) // SNE
	OP_LD_I    = CodeOp(20) // LD
	OP_JP_V0   = CodeOp(21) // JP
	OP_RND     = CodeOp(22) // RND
	OP_DRW     = CodeOp(23) // DRW
	OP_SKP     = CodeOp(24) // SKP
	OP_SKNP    = CodeOp(25) // SKNP
	OP_LD_DT   = CodeOp(26) // LD
	OP_LD_KEY  = CodeOp(27) // LD
	OP_ST_DT   = CodeOp(28) // LD
	OP_ST_ST   = CodeOp(29) // LD
	OP_ADD_I   = CodeOp(30) // ADD
	OP_LD_FONT = CodeOp(31) // LD
	OP_LD_BCD  = CodeOp(32) // LD
	OP_ST_REGS = CodeOp(33) // LD
	OP_LD_REGS = CodeOp(34) // LD
	OP_UNKNOWN = CodeOp(35) // ???
)

// Code is a single 16-bit instruction word, big-endian on the wire.
type Code uint16

// CodeFrom assembles an instruction word from its two bytes.
func CodeFrom(hi, lo byte) Code {
	return Code(uint16(hi)<<8 | uint16(lo))
}

// Bytes returns the big-endian wire form of the instruction word.
func (code Code) Bytes() (hi, lo byte) {
	return byte(code >> 8), byte(code)
}

// X returns the register selector in the second nibble.
func (code Code) X() byte {
	return byte(code>>8) & 0xF
}

// Y returns the register selector in the third nibble.
func (code Code) Y() byte {
	return byte(code>>4) & 0xF
}

// N returns the low nibble.
func (code Code) N() byte {
	return byte(code) & 0xF
}

// KK returns the low byte.
func (code Code) KK() byte {
	return byte(code)
}

// NNN returns the low 12 bits, used as an address.
func (code Code) NNN() uint16 {
	return uint16(code) & 0x0FFF
}

// Op classifies the instruction word into one of the 35 defined variants,
// or OP_UNKNOWN for words with no defined meaning.
func (code Code) Op() (op CodeOp) {
	op = OP_UNKNOWN

	switch code & 0xF000 {
	case 0x0000:
		switch code {
		case 0x0000:
			op = OP_NOP
		case 0x00E0:
			op = OP_CLS
		case 0x00EE:
			op = OP_RET
		}
	case 0x1000:
		op = OP_JP
	case 0x2000:
		op = OP_CALL
	case 0x3000:
		op = OP_SE_KK
	case 0x4000:
		op = OP_SNE_KK
	case 0x5000:
		if code&0x000F == 0x0 {
			op = OP_SE_REG
		}
	case 0x6000:
		op = OP_LD_KK
	case 0x7000:
		op = OP_ADD_KK
	case 0x8000:
		switch code & 0x000F {
		case 0x0:
			op = OP_LD_REG
		case 0x1:
			op = OP_OR
		case 0x2:
			op = OP_AND
		case 0x3:
			op = OP_XOR
		case 0x4:
			op = OP_ADD_REG
		case 0x5:
			op = OP_SUB
		case 0x6:
			op = OP_SHR
		case 0x7:
			op = OP_SUBN
		case 0xE:
			op = OP_SHL
		}
	case 0x9000:
		if code&0x000F == 0x0 {
			op = OP_SNE_REG
		}
	case 0xA000:
		op = OP_LD_I
	case 0xB000:
		op = OP_JP_V0
	case 0xC000:
		op = OP_RND
	case 0xD000:
		op = OP_DRW
	case 0xE000:
		switch code & 0x00FF {
		case 0x9E:
			op = OP_SKP
		case 0xA1:
			op = OP_SKNP
		}
	case 0xF000:
		switch code & 0x00FF {
		case 0x07:
			op = OP_LD_DT
		case 0x0A:
			op = OP_LD_KEY
		case 0x15:
			op = OP_ST_DT
		case 0x18:
			op = OP_ST_ST
		case 0x1E:
			op = OP_ADD_I
		case 0x29:
			op = OP_LD_FONT
		case 0x33:
			op = OP_LD_BCD
		case 0x55:
			op = OP_ST_REGS
		case 0x65:
			op = OP_LD_REGS
		}
	}

	return
}

// String renders the instruction word in the assembly grammar: mnemonic
// followed by space-separated uppercase hex operands, no commas. The
// output re-assembles to the same word, except for SHR/SHL whose Vy
// nibble has no textual form.
func (code Code) String() (out string) {
	op := code.Op()

	switch op {
	case OP_NOP, OP_CLS, OP_RET, OP_UNKNOWN:
		out = op.String()
	case OP_JP, OP_CALL:
		out = fmt.Sprintf("%v %X", op, code.NNN())
	case OP_JP_V0:
		out = fmt.Sprintf("%v V0 %X", op, code.NNN())
	case OP_SE_KK, OP_SNE_KK, OP_LD_KK, OP_ADD_KK, OP_RND:
		out = fmt.Sprintf("%v V%X %X", op, code.X(), code.KK())
	case OP_SE_REG, OP_SNE_REG, OP_LD_REG, OP_OR, OP_AND, OP_XOR,
		OP_ADD_REG, OP_SUB, OP_SUBN:
		out = fmt.Sprintf("%v V%X V%X", op, code.X(), code.Y())
	case OP_SHR, OP_SHL, OP_SKP, OP_SKNP:
		out = fmt.Sprintf("%v V%X", op, code.X())
	case OP_DRW:
		out = fmt.Sprintf("%v V%X V%X %X", op, code.X(), code.Y(), code.N())
	case OP_LD_I:
		out = fmt.Sprintf("%v I %X", op, code.NNN())
	case OP_LD_DT:
		out = fmt.Sprintf("%v V%X DT", op, code.X())
	case OP_LD_KEY:
		out = fmt.Sprintf("%v V%X K", op, code.X())
	case OP_ST_DT:
		out = fmt.Sprintf("%v DT V%X", op, code.X())
	case OP_ST_ST:
		out = fmt.Sprintf("%v ST V%X", op, code.X())
	case OP_ADD_I:
		out = fmt.Sprintf("%v I V%X", op, code.X())
	case OP_LD_FONT:
		out = fmt.Sprintf("%v F V%X", op, code.X())
	case OP_LD_BCD:
		out = fmt.Sprintf("%v B V%X", op, code.X())
	case OP_ST_REGS:
		out = fmt.Sprintf("%v [I] V%X", op, code.X())
	case OP_LD_REGS:
		out = fmt.Sprintf("%v V%X [I]", op, code.X())
	}

	return
}
