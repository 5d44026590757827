// Command zephyrcpu is the process-entry-point collaborator described by
// the CPU core's external contract: it loads a raw memory image from
// disk, resets the CPU, and runs it until a halt is requested or the bus
// faults, then prints a final register snapshot.
//
// Usage:
//
//	zephyrcpu <rom-file>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/beevik/cmd"
	"github.com/beevik/term"

	go6502 "github.com/arlecossec/zephyrdx82-cpu"
)

// session bundles the state a dispatched command needs: the CPU under
// test and the writer commands should report results to.
type session struct {
	cpu *go6502.CPU
	out *os.File
}

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "zephyrcpu"})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "run",
		Brief:       "Load a memory image and run it to completion",
		Description: "Load the given raw memory image at $0000, reset the CPU, and step it until a halt or bus fault occurs.",
		Usage:       "run <rom-file>",
		Data:        (*session).cmdRun,
	})
	cmds = root
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements the CLI collaborator contract: exit 0 on a clean halt,
// 1 for a usage error, -1 for a load or execution failure. It mirrors
// original_source/src/main.cpp's exit-code convention.
func run(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: zephyrcpu <rom-file>\n")
		return 1
	}

	sel, err := cmds.Lookup("run " + args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "zephyrcpu: %v\n", err)
		return 1
	}

	mem := go6502.NewFlatMemory()
	s := &session{
		cpu: go6502.NewCPU(mem),
		out: os.Stdout,
	}

	if _, err := loadROM(mem, args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "zephyrcpu: %v\n", err)
		return -1
	}

	if err := s.cpu.Reset(); err != nil {
		fmt.Fprintf(os.Stderr, "zephyrcpu: %v\n", err)
		return -1
	}

	handler := sel.Command.Data.(func(*session, cmd.Selection) error)
	if err := handler(s, sel); err != nil && !errors.Is(err, go6502.ErrHaltRequested) {
		fmt.Fprintf(os.Stderr, "zephyrcpu: %v\n", err)
		return -1
	}

	s.printSnapshot()
	return 0
}

// cmdRun steps the CPU until it halts or the bus faults.
func (s *session) cmdRun(_ cmd.Selection) error {
	for {
		if _, err := s.cpu.Step(); err != nil {
			return err
		}
	}
}

// printSnapshot writes the final register state, colorized when stdout
// is attached to a terminal.
func (s *session) printSnapshot() {
	reg := s.cpu.Snapshot()
	format := "PC=%04X A=%02X X=%02X Y=%02X SP=%02X\n"
	if term.IsTerminal(int(s.out.Fd())) {
		format = "\x1b[1mPC=%04X A=%02X X=%02X Y=%02X SP=%02X\x1b[0m\n"
	}
	fmt.Fprintf(s.out, format, reg.PC, reg.A, reg.X, reg.Y, reg.SP)
}
