// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/terminal"
)

func main() {
	var rom string
	var framerate int
	var cycles int
	var noKeypad bool
	var smpte bool
	var verbose bool

	flag.StringVar(&rom, "rom", "", "ROM file to run")
	flag.IntVar(&framerate, "frames", 100, "Frames to render per second")
	flag.IntVar(&cycles, "cycles", emulator.DEFAULT_CYCLES_PER_FRAME, "Instructions to execute per frame")
	flag.BoolVar(&noKeypad, "no-keypad", false, "Disable keypad rendering")
	flag.BoolVar(&smpte, "smpte", false, "Enable SMPTE color mode")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(rom) == 0 {
		log.Fatalf("%v: no ROM specified (-rom)", os.Args[0])
	}

	opts := terminal.Options{HideKeypad: noKeypad, Smpte: smpte}

	_, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err == nil && rows < terminal.MinRows(opts) {
		bare := terminal.Options{HideKeypad: true}
		if !noKeypad && rows >= terminal.MinRows(bare) {
			log.Fatalf("terminal has %d rows, needs at least %d; resize it or run with -no-keypad", rows, terminal.MinRows(opts))
		}
		log.Fatalf("terminal has %d rows, needs at least %d; resize it", rows, terminal.MinRows(opts))
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.CyclesPerFrame = cycles

	err = emu.LoadRomFile(rom)
	if err != nil {
		log.Fatalf("%v: %v", rom, err)
	}

	kb := terminal.NewKeyboard()
	err = kb.Start()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	defer kb.Stop()

	fmt.Print("\x1b[?25l")
	defer fmt.Print("\x1b[?25h")

	fmt.Printf("Running ROM %v at %v FPS\r\n", rom, framerate)
	fmt.Print("Keybindings:\r\n")
	fmt.Print("\t1 2 3 4\r\n")
	fmt.Print("\tq w e r\r\n")
	fmt.Print("\ta s d f\r\n")
	fmt.Print("\tz x c v\r\n")
	fmt.Print("Press Esc to quit\r\n")
	fmt.Print("Press any key to start\r\n")

	for {
		key, ok := kb.Poll()
		if ok {
			if key == terminal.KEY_ESCAPE {
				return
			}
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	frameDuration := time.Second / time.Duration(framerate)

	for {
		emu.ClearKeypad()
		for key, ok := kb.Poll(); ok; key, ok = kb.Poll() {
			if key == terminal.KEY_ESCAPE {
				return
			}
			if button, ok := terminal.Button(key); ok {
				emu.SetKeypress(button)
			}
		}

		emu.Frame()

		fmt.Print("\x1b[2J\x1b[1;1H")
		fmt.Print(terminal.Render(emu.Machine, opts))

		time.Sleep(frameDuration)
	}
}
