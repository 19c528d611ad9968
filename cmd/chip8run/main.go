// Command chip8run executes a CHIP-8 ROM without a window and draws the
// machine state to the terminal.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tm "github.com/buger/goterm"
	chip8 "github.com/p47t/chip8vm"
	"github.com/p47t/chip8vm/internal/config"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	opts, err := config.ParseFlags("chip8run", os.Args[1:])
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

	if err := run(sys, opts, dashboard, true); err != nil {
		logger.Error("Emulation stopped", err, log.Int("cycles", int(sys.Cycles())))
		os.Exit(1)
	}
}

// run steps the machine opts.Steps times, or until it faults when Steps is 0.
// draw is called after every 60 Hz frame that changed the screen and once at
// the end; throttle paces the loop to opts.Hz.
func run(sys *chip8.System, opts config.Options, draw func(*chip8.System), throttle bool) error {
	stepsPerFrame := opts.Hz / chip8.TimerHz
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}

	for done := 0; opts.Steps == 0 || done < opts.Steps; {
		start := time.Now()
		for i := 0; i < stepsPerFrame && (opts.Steps == 0 || done < opts.Steps); i++ {
			if err := sys.Step(); err != nil {
				return err
			}
			done++
		}

		if sys.IsDirty() || done == opts.Steps {
			draw(sys)
			sys.SetDirty(false)
		}

		if !throttle {
			continue
		}
		if elapsed, slice := time.Since(start), time.Second/chip8.TimerHz; elapsed < slice {
			time.Sleep(slice - elapsed)
		}
	}
	return nil
}

func dashboard(sys *chip8.System) {
	tm.Clear()
	tm.MoveCursor(1, 1)

	cpu := sys.CPU()
	regs := tm.NewTable(0, 4, 2, ' ', 0)
	fmt.Fprintf(regs, "CYCLES\tPC\tI\tSP\tDT\tST\n")
	fmt.Fprintf(regs, "%d\t%03X\t%03X\t%d\t%d\t%d\n",
		sys.Cycles(), cpu.PC, cpu.I, cpu.SP, sys.DelayTimer(), sys.SoundTimer())
	for i := range cpu.V {
		fmt.Fprintf(regs, "V%X\t", i)
	}
	fmt.Fprintln(regs)
	for _, v := range cpu.V {
		fmt.Fprintf(regs, "%02X\t", v)
	}
	fmt.Fprintln(regs)
	tm.Println(tm.Bold("Registers"))
	tm.Println(regs)

	tm.Println(tm.Bold("Screen"))
	renderFrame(tm.Screen, sys)
	tm.Flush()
}

// renderFrame draws the frame buffer with two pixel rows per text line.
func renderFrame(w io.Writer, sys *chip8.System) {
	border := "+" + strings.Repeat("-", chip8.GfxWidth) + "+\n"
	fmt.Fprint(w, border)

	var line strings.Builder
	for y := 0; y < chip8.GfxHeight; y += 2 {
		line.Reset()
		line.WriteByte('|')
		for x := 0; x < chip8.GfxWidth; x++ {
			top := sys.GetPixel(uint8(x), uint8(y)) == chip8.PixelOn
			bottom := sys.GetPixel(uint8(x), uint8(y+1)) == chip8.PixelOn
			switch {
			case top && bottom:
				line.WriteRune('█')
			case top:
				line.WriteRune('▀')
			case bottom:
				line.WriteRune('▄')
			default:
				line.WriteByte(' ')
			}
		}
		line.WriteString("|\n")
		fmt.Fprint(w, line.String())
	}
	fmt.Fprint(w, border)
}
