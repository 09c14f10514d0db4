// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/ezrec/chip8/chip8"
)

func main() {
	var input string
	var output string

	flag.StringVar(&input, "i", "-", "ROM input")
	flag.StringVar(&output, "o", "-", "Assembly text output")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	var rom []byte
	var err error
	if input == "-" {
		rom, err = io.ReadAll(os.Stdin)
	} else {
		rom, err = os.ReadFile(input)
	}
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	start := time.Now()
	text := chip8.Disassemble(rom)

	if output == "-" {
		fmt.Print(text)
		return
	}

	err = os.WriteFile(output, []byte(text), 0o644)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	fmt.Printf("Disassembled %d codes in %v. Output: %v\n", len(rom)/2, time.Since(start), output)
}
