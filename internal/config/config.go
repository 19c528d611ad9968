// Package config handles command line options and logger setup shared by the
// emulator front ends.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/log"
)

// Options holds the settings of one emulator session.
type Options struct {
	ROM string

	Scale int   // window scale factor
	Hz    int   // steps per second
	Steps int   // steps to run headless, 0 runs until the program faults
	Seed  int64 // CXNN seed, 0 picks a time based one

	Trace bool
	Debug bool
	Quiet bool
}

const (
	DefaultScale = 10
	DefaultHz    = 500
)

// UsageError is returned when the command line is incomplete or invalid and
// the usage text should be shown.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage writes the usage text and flag defaults to w.
func (e *UsageError) ShowUsage(w io.Writer) {
	if e.msg != "" {
		fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	fmt.Fprintf(w, "usage: %s [options] <rom file>\n\n", e.flags.Name())
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// ParseFlags parses args, without the program name, into Options. name is
// used in the usage text.
func ParseFlags(name string, args []string) (Options, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Options
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "window scale factor")
	flags.IntVar(&opts.Hz, "hz", DefaultHz, "instructions executed per second")
	flags.IntVar(&opts.Steps, "steps", 0, "number of instructions to run headless (0 = until fault)")
	flags.Int64Var(&opts.Seed, "seed", 0, "random seed for CXNN (0 = time based)")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction (implies -debug)")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, &UsageError{flags: flags}
		}
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return opts, &UsageError{flags: flags, msg: "no rom file given"}
	case len(rest) > 1:
		return opts, &UsageError{flags: flags, msg: fmt.Sprintf("unexpected argument %s after rom file", rest[1])}
	}
	opts.ROM = rest[0]

	if opts.Trace {
		opts.Debug = true
	}
	if err := opts.validate(); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	return opts, nil
}

func (opts Options) validate() error {
	if opts.Scale < 1 {
		return fmt.Errorf("invalid scale %d", opts.Scale)
	}
	if opts.Hz < 1 {
		return fmt.Errorf("invalid hz %d", opts.Hz)
	}
	if opts.Steps < 0 {
		return fmt.Errorf("invalid steps %d", opts.Steps)
	}
	if opts.Debug && opts.Quiet {
		return errors.New("-debug and -q are mutually exclusive")
	}
	return nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
