// Command chip8 runs a CHIP-8 ROM in an OpenGL window.
package main

import (
	"errors"
	"os"
	"runtime"

	"github.com/p47t/chip8vm/internal/config"
	"github.com/retroenv/retrogolib/log"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

func main() {
	opts, err := config.ParseFlags("chip8", os.Args[1:])
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage(os.Stderr)
			os.Exit(2)
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	sys, err := config.NewSystem(opts, logger)
	if err != nil {
		logger.Fatal(err.Error())
	}

	emu := NewEmulator(sys, opts, logger)
	if err := emu.Initialize(); err != nil {
		logger.Fatal(err.Error())
	}
	defer emu.Terminate()

	if err := emu.Loop(); err != nil {
		logger.Error("Emulation stopped", err, log.Int("cycles", int(sys.Cycles())))
	}
}
