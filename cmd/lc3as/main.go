package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/jaredgorski/lc3-vm/cpu"
	"github.com/jaredgorski/lc3-vm/emulator"
)

func main() {
	var output string
	var verbose bool

	flag.StringVar(&output, "o", "", "output .obj file")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [-o file.obj] file.asm", os.Args[0])
	}

	input := flag.Arg(0)
	if len(output) == 0 {
		output = strings.TrimSuffix(input, ".asm") + ".obj"
	}

	inf, err := os.Open(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	for attr, val := range emulator.NewEmulator(nil).Defines() {
		asm.Predefine(attr, val)
	}

	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	err = os.WriteFile(output, prog.Binary(), 0o644)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}
