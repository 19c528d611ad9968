package main

import (
	"bytes"
	"sync"

	chip8 "github.com/p47t/chip8vm"
)

// keyHoldFrames is how long a key stays down after a terminal key press;
// terminals report presses only, never releases.
const keyHoldFrames = 6

// machine serialises access to the system between the emulation goroutine
// and the gocui key handlers.
type machine struct {
	mu sync.Mutex

	sys           *chip8.System
	stepsPerFrame int
	frame         int64
	releaseAt     [chip8.KeyCount]int64
}

func newMachine(sys *chip8.System, hz int) *machine {
	steps := hz / chip8.TimerHz
	if steps < 1 {
		steps = 1
	}
	return &machine{sys: sys, stepsPerFrame: steps}
}

// press holds key down for the next keyHoldFrames frames.
func (m *machine) press(key int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sys.OnKeyDown(key)
	m.releaseAt[key] = m.frame + keyHoldFrames
}

// tick runs one 60 Hz frame worth of steps. It returns the rendered screen
// and register dump when the screen changed.
func (m *machine) tick() (screen, regs string, changed bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frame++
	for key, at := range m.releaseAt {
		if at != 0 && at <= m.frame {
			m.sys.OnKeyUp(key)
			m.releaseAt[key] = 0
		}
	}

	for i := 0; i < m.stepsPerFrame; i++ {
		if err := m.sys.Step(); err != nil {
			return "", "", false, err
		}
	}

	if !m.sys.IsDirty() {
		return "", "", false, nil
	}
	m.sys.SetDirty(false)

	var buf bytes.Buffer
	m.sys.Print(&buf)
	return render(m.sys), buf.String(), true, nil
}

// render returns the frame buffer as text, one character cell per pixel pair.
func render(sys *chip8.System) string {
	var buf bytes.Buffer
	for y := 0; y < chip8.GfxHeight; y += 2 {
		for x := 0; x < chip8.GfxWidth; x++ {
			top := sys.GetPixel(uint8(x), uint8(y)) == chip8.PixelOn
			bottom := sys.GetPixel(uint8(x), uint8(y+1)) == chip8.PixelOn
			switch {
			case top && bottom:
				buf.WriteRune('█')
			case top:
				buf.WriteRune('▀')
			case bottom:
				buf.WriteRune('▄')
			default:
				buf.WriteByte(' ')
			}
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}
