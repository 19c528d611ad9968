package config

import (
	chip8 "github.com/p47t/chip8vm"
	"github.com/retroenv/retrogolib/log"
)

// NewSystem creates a machine configured from opts and loads its ROM.
func NewSystem(opts Options, logger *log.Logger) (*chip8.System, error) {
	sys := chip8.New(
		chip8.WithLogger(logger),
		chip8.WithRandom(chip8.NewSeededRandom(opts.Seed)),
		chip8.WithTrace(opts.Trace),
	)
	if err := sys.Load(opts.ROM); err != nil {
		return nil, err
	}
	return sys, nil
}
