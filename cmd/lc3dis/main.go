package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jaredgorski/lc3-vm/cpu"
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v file.obj", os.Args[0])
	}

	path := flag.Arg(0)
	image, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if len(image) < 2 || len(image)%2 != 0 {
		log.Fatalf("%v: truncated image", path)
	}

	origin := binary.BigEndian.Uint16(image)
	fmt.Printf(".ORIG x%04X\n", origin)

	addr := origin
	for n := 2; n < len(image); n += 2 {
		word := binary.BigEndian.Uint16(image[n:])
		fmt.Printf("x%04X: %04x  %v\n", addr, word, cpu.Instruction(word))
		addr++
	}

	fmt.Printf(".END\n")
}
