package emulator

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

// ErrRomSize indicates a program image too large to load.
type ErrRomSize struct {
	Name string
	Size int
}

func (err *ErrRomSize) Error() string {
	return f("rom '%v' is %d bytes, limit is %d", err.Name, err.Size, ROM_SIZE_LIMIT)
}
