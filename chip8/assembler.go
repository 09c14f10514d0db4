package chip8

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler is a single pass assembler for the CHIP-8 mnemonic grammar.
//
// Encoding never fails: a malformed hex operand becomes the 0xF
// sentinel value, and a line whose mnemonic is not recognized emits no
// bytes at all. With Extensions off, Parse can only fail on an input
// scanner error; the ; comment, .equ directive, and $() expression
// extensions introduce directive errors, so they are opt-in.
type Assembler struct {
	Verbose    bool              // If set, verbosely logs the assembler actions.
	Extensions bool              // Enable ; comments, .equ directives, and $() expressions.
	Equate     map[string]string // Map of equates.

	predefine map[string]string // Predefines
}

// Predefine defines a new equate or redefines an existing equate, and
// enables the extensions.
func (asm *Assembler) Predefine(equ string, value string) {
	asm.Extensions = true
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// hexByte parses an uppercase hex byte, or returns the sentinel.
func hexByte(word string) (value byte) {
	v64, err := strconv.ParseUint(word, 16, 8)
	if err != nil {
		return 0xF
	}

	return byte(v64)
}

// hexAddr parses an uppercase hex address, or returns the sentinel.
// Callers mask to the 12 bits an address encoding can carry.
func hexAddr(word string) (value uint16) {
	v64, err := strconv.ParseUint(word, 16, 16)
	if err != nil {
		return 0xF
	}

	return uint16(v64)
}

// regOf parses a register token ("V0".."VF"). The leading character is
// dropped without inspection; too-short or malformed tokens yield the
// sentinel.
func regOf(word string) (value byte) {
	if len(word) < 2 {
		return 0xF
	}

	return hexByte(word[1:])
}

// parenEval does compile-time $(...) evaluations.
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, _err := strconv.ParseUint(str, 16, 16)
		if _err != nil {
			// Ignore non-numeric equates.
			continue
		}
		pred[key] = starlark.MakeInt(int(v64))
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
	value = uint16(st_int64)
	return
}

// parseLine splits a line into mnemonic words. With Extensions on, the
// words are taken after comment stripping, $() evaluation, directive
// handling, and equate substitution.
func (asm *Assembler) parseLine(line string) (words []string, err error) {
	if !asm.Extensions {
		words = strings.Fields(line)
		return
	}

	// Strip comments.
	line, _, _ = strings.Cut(line, ";")

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%X", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
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
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// Parse assembles an input stream into a program image, two bytes per
// encoded line. Lines that encode nothing add nothing, so the image is
// not proportional to the line count.
func (asm *Assembler) Parse(input io.Reader) (rom []byte, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Equate = maps.Clone(asm.predefine)
	if asm.Equate == nil {
		asm.Equate = map[string]string{}
	}

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, line)
		}

		var words []string
		words, err = asm.parseLine(line)
		if err != nil {
			return
		}

		if len(words) == 0 {
			continue
		}

		hi, lo, ok := asm.encodeWords(words)
		if ok {
			rom = append(rom, hi, lo)
		}
	}

	err = scanner.Err()

	return
}

// encodeWords encodes one mnemonic line as an instruction word.
// Operand shape selects between variants sharing a mnemonic, by prefix,
// in the same order the executor dispatches them. A line that matches
// no variant reports ok == false and is silently skipped.
func (asm *Assembler) encodeWords(words []string) (hi, lo byte, ok bool) {
	arg := func(n int) string {
		if n < len(words) {
			return words[n]
		}
		return ""
	}

	a1 := arg(1)
	a2 := arg(2)
	a3 := arg(3)

	ok = true

	switch words[0] {
	case "NOP":
		// zero word
	case "CLS":
		lo = 0xE0
	case "RET":
		lo = 0xEE
	case "JP":
		if strings.HasPrefix(a1, "V") {
			addr := hexAddr(a2)
			hi, lo = 0xB0|byte((addr&0xF00)>>8), byte(addr&0x0FF)
		} else {
			addr := hexAddr(a1)
			hi, lo = 0x10|byte((addr&0xF00)>>8), byte(addr&0x0FF)
		}
	case "CALL":
		addr := hexAddr(a1)
		hi, lo = 0x20|byte((addr&0xF00)>>8), byte(addr&0x0FF)
	case "SE":
		if strings.HasPrefix(a2, "V") {
			hi, lo = 0x50|regOf(a1), regOf(a2)<<4
		} else {
			hi, lo = 0x30|regOf(a1), hexByte(a2)
		}
	case "SNE":
		if strings.HasPrefix(a2, "V") {
			hi, lo = 0x90|regOf(a1), regOf(a2)<<4
		} else {
			hi, lo = 0x40|regOf(a1), hexByte(a2)
		}
	case "LD":
		switch {
		case strings.HasPrefix(a1, "V"):
			x := regOf(a1)
			switch {
			case strings.HasPrefix(a2, "V"):
				hi, lo = 0x80|x, regOf(a2)<<4
			case strings.HasPrefix(a2, "DT"):
				hi, lo = 0xF0|x, 0x07
			case strings.HasPrefix(a2, "K"):
				hi, lo = 0xF0|x, 0x0A
			case strings.HasPrefix(a2, "[I]"):
				hi, lo = 0xF0|x, 0x65
			default:
				hi, lo = 0x60|x, hexByte(a2)
			}
		case strings.HasPrefix(a1, "I"):
			addr := hexAddr(a2)
			hi, lo = 0xA0|byte((addr&0xF00)>>8), byte(addr&0x0FF)
		case strings.HasPrefix(a1, "DT"):
			hi, lo = 0xF0|regOf(a2), 0x15
		case strings.HasPrefix(a1, "ST"):
			hi, lo = 0xF0|regOf(a2), 0x18
		case strings.HasPrefix(a1, "F"):
			hi, lo = 0xF0|regOf(a2), 0x29
		case strings.HasPrefix(a1, "B"):
			hi, lo = 0xF0|regOf(a2), 0x33
		case strings.HasPrefix(a1, "[I]"):
			hi, lo = 0xF0|regOf(a2), 0x55
		default:
			ok = false
		}
	case "ADD":
		switch {
		case strings.HasPrefix(a1, "V"):
			x := regOf(a1)
			if strings.HasPrefix(a2, "V") {
				hi, lo = 0x80|x, regOf(a2)<<4|0x04
			} else {
				hi, lo = 0x70|x, hexByte(a2)
			}
		case strings.HasPrefix(a1, "I"):
			hi, lo = 0xF0|regOf(a2), 0x1E
		default:
			ok = false
		}
	case "OR":
		hi, lo = 0x80|regOf(a1), regOf(a2)<<4|0x01
	case "AND":
		hi, lo = 0x80|regOf(a1), regOf(a2)<<4|0x02
	case "XOR":
		hi, lo = 0x80|regOf(a1), regOf(a2)<<4|0x03
	case "SUB":
		hi, lo = 0x80|regOf(a1), regOf(a2)<<4|0x05
	case "SHR":
		// The word has a Vy nibble, but it is unused; encode V0.
		hi, lo = 0x80|regOf(a1), 0x06
	case "SUBN":
		hi, lo = 0x80|regOf(a1), regOf(a2)<<4|0x07
	case "SHL":
		hi, lo = 0x80|regOf(a1), 0x0E
	case "RND":
		hi, lo = 0xC0|regOf(a1), hexByte(a2)
	case "DRW":
		hi, lo = 0xD0|regOf(a1), regOf(a2)<<4|hexByte(a3)
	case "SKP":
		hi, lo = 0xE0|regOf(a1), 0x9E
	case "SKNP":
		hi, lo = 0xE0|regOf(a1), 0xA1
	default:
		ok = false
	}

	return
}
