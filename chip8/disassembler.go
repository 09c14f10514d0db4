package chip8

import (
	"iter"
	"strings"
)

// Codes iterates the instruction words of a program image, keyed by
// byte offset. A trailing odd byte is ignored.
func Codes(program []byte) iter.Seq2[int, Code] {
	return func(yield func(offset int, code Code) bool) {
		for at := 0; at+1 < len(program); at += 2 {
			if !yield(at, CodeFrom(program[at], program[at+1])) {
				return
			}
		}
	}
}

// Disassemble renders a program image as mnemonic text, one line per
// instruction word. Words with no defined meaning render as "???"; the
// output is otherwise an exact encoder input for the same bytes, apart
// from the shift instructions' dropped Vy nibble.
func Disassemble(program []byte) string {
	var sb strings.Builder

	for _, code := range Codes(program) {
		sb.WriteString(code.String())
		sb.WriteString("\n")
	}

	return sb.String()
}
