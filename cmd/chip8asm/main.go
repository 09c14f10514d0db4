// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ezrec/chip8/chip8"
)

func main() {
	var input string
	var output string
	var plain bool
	var verbose bool

	flag.StringVar(&input, "i", "-", "Assembly text input")
	flag.StringVar(&output, "o", "out.ch8", "ROM output")
	flag.BoolVar(&plain, "plain", false, "Disable ; comments, .equ, and $() expressions")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	inf := os.Stdin
	if input != "-" {
		var err error
		inf, err = os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
	}

	asm := &chip8.Assembler{Verbose: verbose, Extensions: !plain}

	start := time.Now()
	rom, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	err = os.WriteFile(output, rom, 0o644)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	fmt.Printf("Assembled %d bytes in %v. Output: %v\n", len(rom), time.Since(start), output)
}
