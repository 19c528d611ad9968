// Package chip8 implements a CHIP-8 virtual machine: machine state, ROM
// loading and a fetch-decode-execute cycle engine. Hosts set the keypad,
// call Step and read the frame buffer back between steps.
package chip8

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
)

// TimerHz is the rate hosts conventionally drive Step at when they want the
// delay and sound timers to run at their nominal 60 Hz.
const TimerHz = 60

// System is a complete CHIP-8 machine. It is not safe for concurrent use;
// hosts change the keypad only between calls to Step.
type System struct {
	cpu CPU
	mem Memory
	gfx Graphics

	keys Keypad

	delayTimer uint8
	soundTimer uint8

	rng    RandomSource
	logger *log.Logger
	trace  bool
}

// Option configures a System created by New.
type Option func(*System)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(sys *System) {
		sys.logger = logger
	}
}

// WithRandom sets the byte source used by CXNN.
func WithRandom(rng RandomSource) Option {
	return func(sys *System) {
		sys.rng = rng
	}
}

// WithTrace logs every executed instruction at debug level.
func WithTrace(trace bool) Option {
	return func(sys *System) {
		sys.trace = trace
	}
}

// New returns a powered-on machine with the font loaded and PC at StartAddress.
func New(opts ...Option) *System {
	sys := &System{}
	for _, opt := range opts {
		opt(sys)
	}
	sys.Initialize()
	return sys
}

// Initialize resets the machine and fills in defaults for anything not
// configured, so a zero System is usable after calling it.
func (sys *System) Initialize() {
	if sys.rng == nil {
		sys.rng = NewSeededRandom(0)
	}
	if sys.logger == nil {
		cfg := log.DefaultConfig()
		cfg.Level = log.ErrorLevel
		sys.logger = log.NewWithConfig(cfg)
	}
	sys.Reset()
}

// fillDefaults covers a System that skipped New and Initialize, which has
// neither a logger nor a random source.
func (sys *System) fillDefaults() {
	if sys.logger == nil {
		sys.logger = log.NewNop()
	}
	if sys.rng == nil {
		sys.rng = NewSeededRandom(0)
	}
}

// Reset restores the power-on state. Memory is cleared, so the ROM has to be
// loaded again.
func (sys *System) Reset() {
	sys.cpu.reset()
	sys.mem.clear()
	sys.gfx.clear()
	sys.keys.release()

	sys.delayTimer = 0
	sys.soundTimer = 0
}

// Step executes one instruction and then ticks the timers. Unknown opcodes are
// logged and skipped. A *StackFault is returned for calls with a full stack
// and returns with an empty one; the machine stays consistent and the host
// decides whether to continue. Step expects a System from New or Initialize,
// a zero System runs from address 0 with an empty memory.
func (sys *System) Step() error {
	sys.fillDefaults()

	opc := sys.cpu.fetch(&sys.mem)
	in := Decode(opc)
	if sys.trace {
		sys.logger.Debug("exec",
			log.String("pc", fmt.Sprintf("0x%03X", sys.cpu.PC-2)),
			log.String("opcode", fmt.Sprintf("0x%04X", opc)),
			log.String("instr", in.String()))
	}

	err := sys.cpu.execute(sys, in)
	sys.updateTimer()
	sys.cpu.cycles++

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnknownOpcode):
		sys.logger.Info("Skipping unknown opcode", log.Err(err))
		return nil
	default:
		return err
	}
}

func (sys *System) updateTimer() {
	if sys.delayTimer > 0 {
		sys.delayTimer--
	}
	if sys.soundTimer > 0 {
		sys.soundTimer--
	}
}

// LoadROM copies rom into memory at StartAddress. A ROM that does not fit is
// rejected with a *LoadError and memory is left untouched.
func (sys *System) LoadROM(rom []byte) error {
	if err := sys.mem.loadROM(rom); err != nil {
		return err
	}
	sys.fillDefaults()
	sys.logger.Info("Loaded rom", log.Int("size", len(rom)))
	return nil
}

// Load reads a ROM file and loads it.
func (sys *System) Load(filename string) error {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return &LoadError{Path: filename, Err: err}
	}
	if err := sys.LoadROM(bytes); err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = filename
		}
		return err
	}
	return nil
}

// Print writes a register dump to w.
func (sys *System) Print(w io.Writer) {
	sys.cpu.Print(w)
	fmt.Fprintf(w, "DT = %d, ST = %d\n", sys.delayTimer, sys.soundTimer)
}

func (sys *System) CPU() CPU {
	return sys.cpu
}

func (sys *System) Cycles() int64 {
	return sys.cpu.cycles
}

func (sys *System) DelayTimer() uint8 {
	return sys.delayTimer
}

func (sys *System) SoundTimer() uint8 {
	return sys.soundTimer
}

// ReadMemory returns the byte at addr, wrapping at the 4K boundary.
func (sys *System) ReadMemory(addr uint16) uint8 {
	return sys.mem.read(addr)
}

func (sys *System) GetPixel(x, y uint8) uint32 {
	return sys.gfx.getPixel(x, y)
}

// Pixels returns the frame buffer in row-major order. The slice aliases the
// machine state and is only valid until the next Step.
func (sys *System) Pixels() []uint32 {
	return sys.gfx.buffer[:]
}

// Frame returns a copy of the frame buffer.
func (sys *System) Frame() [GfxWidth * GfxHeight]uint32 {
	return sys.gfx.buffer
}

func (sys *System) IsDirty() bool {
	return sys.gfx.isDirty()
}

func (sys *System) SetDirty(dirty bool) {
	sys.gfx.setDirty(dirty)
}

// SetKey sets the pressed state of a hex key; keys above 0xF are ignored.
func (sys *System) SetKey(key int, pressed bool) {
	if key < 0 || key >= KeyCount {
		return
	}
	sys.keys[key] = pressed
}

func (sys *System) OnKeyDown(key int) {
	sys.SetKey(key, true)
}

func (sys *System) OnKeyUp(key int) {
	sys.SetKey(key, false)
}

// SetKeypad replaces the whole keypad state.
func (sys *System) SetKeypad(keys Keypad) {
	sys.keys = keys
}

func (sys *System) Keypad() Keypad {
	return sys.keys
}
