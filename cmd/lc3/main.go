package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/jaredgorski/lc3-vm/console"
	"github.com/jaredgorski/lc3-vm/cpu"
	"github.com/jaredgorski/lc3-vm/emulator"
)

func main() {
	os.Exit(run())
}

func run() (rc int) {
	var compile string
	var save string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble and run")
	flag.StringVar(&save, "s", "", "save assembled image to an .obj file, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if len(compile) == 0 && flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %v [-c file.asm [-s file.obj]] [image-file ...]\n", os.Args[0])
		return 2
	}

	var con cpu.Console
	term, err := console.NewTerm(os.Stdin, os.Stdout)
	if err == nil {
		con = term
		defer term.Restore()

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		go func() {
			<-interrupt
			term.Restore()
			fmt.Println()
			os.Exit(130)
		}()
	} else {
		// Not a terminal. Plain stream I/O.
		con = &console.Buffer{Input: os.Stdin, Output: os.Stdout}
	}

	emu := emulator.NewEmulator(con)
	emu.Verbose = verbose

	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Printf("%v: %v", compile, err)
			return 1
		}
		defer inf.Close()

		asm := &cpu.Assembler{}
		for attr, val := range emu.Defines() {
			asm.Predefine(attr, val)
		}

		prog, err := asm.Parse(inf)
		if err != nil {
			log.Printf("%v: %v", compile, err)
			return 1
		}

		if len(save) != 0 {
			err = os.WriteFile(save, prog.Binary(), 0o644)
			if err != nil {
				log.Printf("%v: %v", save, err)
				return 1
			}
			return 0
		}

		err = emu.LoadProgram(prog)
		if err != nil {
			log.Printf("%v: %v", compile, err)
			return 1
		}
	}

	for _, path := range flag.Args() {
		err := emu.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load image: %v: %v\n", path, err)
			return 1
		}
	}

	emu.Reset()

	err = emu.Run()
	if err != nil {
		if term != nil {
			term.Restore()
		}
		fmt.Fprintln(os.Stderr, err)
		if verbose {
			fmt.Fprint(os.Stderr, emu.Cpu.String())
		}
		return 3
	}

	return 0
}
