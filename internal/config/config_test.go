package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chip8 "github.com/p47t/chip8vm"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Options
	}{
		{
			name: "defaults",
			args: []string{"pong.ch8"},
			want: Options{ROM: "pong.ch8", Scale: DefaultScale, Hz: DefaultHz},
		},
		{
			name: "all options",
			args: []string{"-scale", "4", "-hz", "60", "-steps", "100", "-seed", "7", "-q", "pong.ch8"},
			want: Options{ROM: "pong.ch8", Scale: 4, Hz: 60, Steps: 100, Seed: 7, Quiet: true},
		},
		{
			name: "trace implies debug",
			args: []string{"-trace", "pong.ch8"},
			want: Options{ROM: "pong.ch8", Scale: DefaultScale, Hz: DefaultHz, Trace: true, Debug: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseFlags("chip8", tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, opts)
		})
	}
}

func TestParseFlagsUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"no rom", nil, "no rom file given"},
		{"extra argument", []string{"a.ch8", "-q"}, "unexpected argument -q"},
		{"bad scale", []string{"-scale", "0", "a.ch8"}, "invalid scale 0"},
		{"bad hz", []string{"-hz", "-5", "a.ch8"}, "invalid hz -5"},
		{"debug and quiet", []string{"-debug", "-q", "a.ch8"}, "mutually exclusive"},
		{"unknown flag", []string{"-bogus", "a.ch8"}, "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags("chip8", tt.args)
			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))
			assert.True(t, strings.Contains(err.Error(), tt.msg))

			var buf bytes.Buffer
			usageErr.ShowUsage(&buf)
			assert.True(t, strings.Contains(buf.String(), "usage: chip8 [options] <rom file>"))
			assert.True(t, strings.Contains(buf.String(), "-hz"))
		})
	}
}

func TestCreateLogger(t *testing.T) {
	assert.True(t, CreateLogger(false, false) != nil)
	assert.True(t, CreateLogger(true, false) != nil)
	assert.True(t, CreateLogger(false, true) != nil)
}

func TestKeyLayoutCoversKeypad(t *testing.T) {
	seen := map[int]bool{}
	for _, key := range KeyLayout {
		seen[key] = true
	}
	assert.Equal(t, 16, len(seen))
}

func TestNewSystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rom.ch8")
	assert.NoError(t, os.WriteFile(path, []byte{0x60, 0x2A}, 0o600))

	sys, err := NewSystem(Options{ROM: path, Seed: 1}, log.NewTestLogger(t))
	assert.NoError(t, err)
	assert.NoError(t, sys.Step())
	assert.Equal(t, uint8(0x2A), sys.CPU().V[0])

	_, err = NewSystem(Options{ROM: filepath.Join(dir, "missing.ch8")}, log.NewTestLogger(t))
	var loadErr *chip8.LoadError
	assert.True(t, errors.As(err, &loadErr))
}
