// Package emulator drives a chip8.Machine at frame granularity.
package emulator

import (
	"os"

	"github.com/ezrec/chip8/chip8"
)

const (
	DEFAULT_CYCLES_PER_FRAME = 8 // Machine steps per rendered frame.

	// Largest program image that fits above the boot sector.
	ROM_SIZE_LIMIT = chip8.MEMORY_SIZE - chip8.BOOT_SECTOR
)

// Emulator wraps a machine with the per-frame cadence the terminal
// frontend runs at: several instruction steps, then one timer tick.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.
	*chip8.Machine

	CyclesPerFrame int // Machine steps per frame.
}

// NewEmulator creates an emulator around a freshly reset machine.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine:        chip8.NewMachine(),
		CyclesPerFrame: DEFAULT_CYCLES_PER_FRAME,
	}

	return
}

// LoadRomFile loads a program image from a file into the boot sector.
// Images too large for memory are rejected before any state changes.
func (emu *Emulator) LoadRomFile(name string) (err error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return
	}

	if len(data) > ROM_SIZE_LIMIT {
		err = &ErrRomSize{Name: name, Size: len(data)}
		return
	}

	emu.Machine.LoadRom(data)

	return
}

// Frame runs one frame: CyclesPerFrame machine steps followed by a
// single timer tick. It returns the diagnostic text of each step.
func (emu *Emulator) Frame() (texts []string) {
	emu.Machine.Verbose = emu.Verbose

	for range emu.CyclesPerFrame {
		texts = append(texts, emu.Machine.Step())
	}

	emu.Machine.UpdateTimers()

	return
}

// Beeping reports whether the sound timer is running.
func (emu *Emulator) Beeping() bool {
	return emu.Machine.SoundTimer > 0
}
