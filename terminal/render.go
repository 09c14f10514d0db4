// Package terminal renders a chip8.Machine onto a text terminal and
// hosts a raw-mode keyboard for it.
package terminal

import (
	"strings"

	"github.com/ezrec/chip8/chip8"
)

// Keypad cell labels, in display order.
var keyLabel = [16]rune{
	'1', '↑', '3', 'C',
	'←', '5', '→', 'D',
	'7', '↓', '9', 'E',
	'A', '0', 'B', 'F',
}

// Pad key index behind each display cell.
var keyIndex = [16]int{
	0x1, 0x2, 0x3, 0xC,
	0x4, 0x5, 0x6, 0xD,
	0x7, 0x8, 0x9, 0xE,
	0xA, 0x0, 0xB, 0xF,
}

// SMPTE color bar escape codes.
var smpteColor = [8]string{
	"\x1b[37m", "\x1b[33m", "\x1b[36m", "\x1b[32m",
	"\x1b[35m", "\x1b[31m", "\x1b[34m", "\x1b[37m",
}

// Options selects the optional parts of the rendered frame.
type Options struct {
	HideKeypad bool // Omit the keypad boxes below the screen.
	Smpte      bool // Cycle SMPTE bar colors across the screen cells.
}

// MinRows returns the terminal height a rendered frame needs.
func MinRows(opts Options) int {
	if opts.HideKeypad {
		return chip8.SCREEN_HEIGHT/4 + 5
	}

	return chip8.SCREEN_HEIGHT/4 + 14
}

// Render draws the machine state as a framed Braille-cell image with
// lines terminated for a raw mode terminal. Each Braille rune covers a
// 2x4 pixel block; the keypad shows held keys in reverse video and the
// BEEP indicator follows the sound timer.
func Render(m *chip8.Machine, opts Options) string {
	var sb strings.Builder

	const cells = chip8.SCREEN_WIDTH / 2 // Braille cells per row.
	pad := strings.Repeat(" ", chip8.SCREEN_WIDTH/4-9)

	// Outer top border with title and beep indicator.
	sb.WriteString("╭─CHIP-8")
	sb.WriteString(strings.Repeat("─", cells-12))
	sb.WriteString("BEEP─")
	if m.SoundTimer > 0 {
		sb.WriteString("●─")
	} else {
		sb.WriteString("○─")
	}
	sb.WriteString("╮\r\n")

	sb.WriteString("│╭")
	sb.WriteString(strings.Repeat("─", cells))
	sb.WriteString("╮│\r\n")

	colorAt := 0
	for y := 0; y < chip8.SCREEN_HEIGHT/4; y++ {
		sb.WriteString("││")

		for x := 0; x < cells; x++ {
			cell := m.Screen[(y*4+0)*chip8.SCREEN_WIDTH+x*2]<<7 |
				m.Screen[(y*4+0)*chip8.SCREEN_WIDTH+x*2+1]<<3 |
				m.Screen[(y*4+1)*chip8.SCREEN_WIDTH+x*2]<<6 |
				m.Screen[(y*4+1)*chip8.SCREEN_WIDTH+x*2+1]<<2 |
				m.Screen[(y*4+2)*chip8.SCREEN_WIDTH+x*2]<<5 |
				m.Screen[(y*4+2)*chip8.SCREEN_WIDTH+x*2+1]<<1 |
				m.Screen[(y*4+3)*chip8.SCREEN_WIDTH+x*2]<<4 |
				m.Screen[(y*4+3)*chip8.SCREEN_WIDTH+x*2+1]

			if opts.Smpte && x%4 == 0 {
				sb.WriteString(smpteColor[colorAt])
				colorAt = (colorAt + 1) % len(smpteColor)
			}
			sb.WriteRune(brailleCell[cell])
		}

		sb.WriteString("\x1b[0m")
		sb.WriteString("││\r\n")
	}

	sb.WriteString("│╰")
	sb.WriteString(strings.Repeat("─", cells))
	sb.WriteString("╯│\r\n")

	if !opts.HideKeypad {
		sb.WriteString("│")
		sb.WriteString(pad)
		sb.WriteString("╭───╮╭───╮╭───╮╭───╮")
		sb.WriteString(pad)
		sb.WriteString("│\r\n")

		for y := range 4 {
			sb.WriteString("│")
			sb.WriteString(pad)
			for x := range 4 {
				pressed := m.Keypad[keyIndex[y*4+x]]

				sb.WriteString("│")
				if pressed {
					sb.WriteString("\x1b[7m")
				}
				sb.WriteString(" ")
				sb.WriteRune(keyLabel[y*4+x])
				sb.WriteString(" ")
				if pressed {
					sb.WriteString("\x1b[0m")
				}
				sb.WriteString("│")
			}
			sb.WriteString(pad)
			sb.WriteString("│\r\n")

			sb.WriteString("│")
			sb.WriteString(pad)
			if y < 3 {
				sb.WriteString("├───┤├───┤├───┤├───┤")
			} else {
				sb.WriteString("╰───╯╰───╯╰───╯╰───╯")
			}
			sb.WriteString(pad)
			sb.WriteString("│\r\n")
		}
	}

	sb.WriteString("│")
	sb.WriteString(strings.Repeat(" ", cells+2))
	sb.WriteString("│\r\n")

	sb.WriteString("╰")
	sb.WriteString(strings.Repeat("─", cells+2))
	sb.WriteString("╯\r\n")

	return sb.String()
}
