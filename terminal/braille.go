package terminal

// A Braille rune shows a 2x4 pixel block. A cell encoding packs the
// left column top to bottom in bits 7..4 and the right column top to
// bottom in bits 3..0, so the bottom-right pixel is the least
// significant bit. dotMask maps each encoding bit to its Braille dot.
var dotMask = [8]rune{
	0x80, // bit 0: row 3, right column (dot 8)
	0x20, // bit 1: row 2, right column (dot 6)
	0x10, // bit 2: row 1, right column (dot 5)
	0x08, // bit 3: row 0, right column (dot 4)
	0x40, // bit 4: row 3, left column (dot 7)
	0x04, // bit 5: row 2, left column (dot 3)
	0x02, // bit 6: row 1, left column (dot 2)
	0x01, // bit 7: row 0, left column (dot 1)
}

// brailleCell maps a cell encoding to its rune, U+2800 plus the dots.
var brailleCell [256]rune

func init() {
	for cell := range brailleCell {
		dots := rune(0x2800)
		for bit := range dotMask {
			if cell&(1<<bit) != 0 {
				dots |= dotMask[bit]
			}
		}
		brailleCell[cell] = dots
	}
}
