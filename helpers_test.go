package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// program encodes opcode words as a big-endian ROM image.
func program(ops ...uint16) []byte {
	rom := make([]byte, 0, len(ops)*2)
	for _, op := range ops {
		rom = append(rom, uint8(op>>8), uint8(op))
	}
	return rom
}

func newTestSystem(t *testing.T, ops ...uint16) *System {
	t.Helper()
	sys := New(
		WithLogger(log.NewTestLogger(t)),
		WithRandom(&SequenceRandom{Values: []uint8{0xFF}}),
	)
	assert.NoError(t, sys.LoadROM(program(ops...)))
	return sys
}

// run executes n steps and fails the test on any returned error.
func run(t *testing.T, sys *System, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		assert.NoError(t, sys.Step())
	}
}
