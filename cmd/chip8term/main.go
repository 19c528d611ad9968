// Command chip8term runs a CHIP-8 ROM inside the terminal.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jroimartin/gocui"
	chip8 "github.com/p47t/chip8vm"
	"github.com/p47t/chip8vm/internal/config"
	"github.com/retroenv/retrogolib/log"
)

const (
	screenView    = "screen"
	registersView = "registers"
)

func main() {
	opts, err := config.ParseFlags("chip8term", os.Args[1:])
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage(os.Stderr)
			os.Exit(2)
		}
		os.Exit(1)
	}

	// the terminal belongs to gocui, keep the log quiet unless asked for
	if !opts.Debug {
		opts.Quiet = true
	}
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	sys, err := config.NewSystem(opts, logger)
	if err != nil {
		logger.Fatal(err.Error())
	}

	if err := runGui(newMachine(sys, opts.Hz)); err != nil {
		logger.Error("Emulation stopped", err, log.Int("cycles", int(sys.Cycles())))
		os.Exit(1)
	}
}

func runGui(m *machine) error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("creating gui: %w", err)
	}
	defer g.Close()

	g.SetManagerFunc(layout)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyEsc, gocui.ModNone, quit); err != nil {
		return err
	}
	for r, key := range config.KeyLayout {
		key := key
		handler := func(*gocui.Gui, *gocui.View) error {
			m.press(key)
			return nil
		}
		if err := g.SetKeybinding("", r, gocui.ModNone, handler); err != nil {
			return err
		}
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	faults := make(chan error, 1)
	go func() {
		defer close(stopped)
		emulate(g, m, done, faults)
	}()

	err = g.MainLoop()
	close(done)
	<-stopped
	if err != nil && err != gocui.ErrQuit {
		return err
	}
	select {
	case fault := <-faults:
		return fault
	default:
		return nil
	}
}

// updater queues a function on the gui event loop.
type updater interface {
	Update(f func(*gocui.Gui) error)
}

// emulate ticks the machine at 60 Hz until done is closed or it faults.
func emulate(ui updater, m *machine, done <-chan struct{}, faults chan<- error) {
	ticker := time.NewTicker(time.Second / chip8.TimerHz)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		screen, regs, changed, err := m.tick()
		if err != nil {
			faults <- err
			post(ui, done, func(*gocui.Gui) error { return gocui.ErrQuit })
			return
		}
		if !changed {
			continue
		}
		post(ui, done, func(g *gocui.Gui) error {
			return redraw(g, screen, regs)
		})
	}
}

// post hands f to the gui unless the main loop is already gone, where the
// queued event would never be received.
func post(ui updater, done <-chan struct{}, f func(*gocui.Gui) error) bool {
	select {
	case <-done:
		return false
	default:
		ui.Update(f)
		return true
	}
}

func redraw(g *gocui.Gui, screen, regs string) error {
	v, err := g.View(screenView)
	if err != nil {
		return err
	}
	v.Clear()
	fmt.Fprint(v, screen)

	v, err = g.View(registersView)
	if err != nil {
		return err
	}
	v.Clear()
	fmt.Fprint(v, regs)
	return nil
}

func layout(g *gocui.Gui) error {
	if v, err := g.SetView(screenView, 0, 0, chip8.GfxWidth+1, chip8.GfxHeight/2+1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "CHIP-8"
	}
	if v, err := g.SetView(registersView, chip8.GfxWidth+2, 0, chip8.GfxWidth+50, chip8.GfxHeight/2+1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Registers"
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
