package chip8

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// drawLoop clears the screen, draws every font glyph across the screen and
// jumps back to the start.
var drawLoop = program(
	0x00E0, // 0x200: CLS
	0x6000, // 0x202: LD V0, 0
	0x6100, // 0x204: LD V1, 0
	0x6200, // 0x206: LD V2, 0
	0xF029, // 0x208: LD F, V0
	0xD125, // 0x20A: DRW V1, V2, 5
	0x7001, // 0x20C: ADD V0, 1
	0x7105, // 0x20E: ADD V1, 5
	0x3010, // 0x210: SE V0, 16
	0x1208, // 0x212: JP 0x208
	0x1200, // 0x214: JP 0x200
)

// arithLoop exercises the ALU and a subroutine call.
var arithLoop = program(
	0x6A03, // 0x200: LD VA, 3
	0x6B07, // 0x202: LD VB, 7
	0x8AB4, // 0x204: ADD VA, VB
	0x8AB5, // 0x206: SUB VA, VB
	0x8AB7, // 0x208: SUBN VA, VB
	0x8A06, // 0x20A: SHR VA
	0x8A0E, // 0x20C: SHL VA
	0x2212, // 0x20E: CALL 0x212
	0x1200, // 0x210: JP 0x200
	0xA300, // 0x212: LD I, 0x300
	0xFA33, // 0x214: LD B, VA
	0x00EE, // 0x216: RET
)

func BenchmarkDrawLoop(b *testing.B) {
	benchmarkRom(b, drawLoop, 10000)
}

func BenchmarkArithLoop(b *testing.B) {
	benchmarkRom(b, arithLoop, 10000)
}

func benchmarkRom(b *testing.B, rom []byte, cycles int) {
	b.Helper()
	var sys System
	sys.Initialize()
	if err := sys.LoadROM(rom); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for i := 0; i < cycles; i++ {
			if err := sys.Step(); err != nil {
				b.Fatal(err)
			}
		}
	}
}

func TestTimersCountDown(t *testing.T) {
	// JP 0x200 spins without touching the timers
	sys := newTestSystem(t, 0x1200)
	sys.delayTimer = 5

	for i := 4; i >= 0; i-- {
		run(t, sys, 1)
		assert.Equal(t, uint8(i), sys.DelayTimer())
		assert.Equal(t, uint8(0), sys.SoundTimer())
	}
	run(t, sys, 3)
	assert.Equal(t, uint8(0), sys.DelayTimer())
	assert.Equal(t, uint8(0), sys.SoundTimer())
	assert.Equal(t, int64(8), sys.Cycles())
}

func TestDrawLoopRendersAllGlyphs(t *testing.T) {
	sys := New()
	assert.NoError(t, sys.LoadROM(drawLoop))

	// 4 setup instructions plus 16 iterations of 6 instructions, minus the
	// final jump back that is not taken
	run(t, sys, 4+16*6-1)
	assert.Equal(t, uint16(0x214), sys.CPU().PC)

	// glyphs 13-15 start past column 64 and wrap over 0-2
	for digit := 3; digit <= 12; digit++ {
		for row := 0; row < GlyphSize; row++ {
			bits := fontSet[digit*GlyphSize+row]
			for col := 0; col < 4; col++ {
				want := PixelOff
				if bits&(0x80>>col) != 0 {
					want = PixelOn
				}
				assert.Equal(t, want, sys.GetPixel(uint8(digit*5+col), uint8(row)))
			}
		}
	}
}

func TestReset(t *testing.T) {
	sys := newTestSystem(t, 0x6042, 0xA123, 0x2300)
	sys.delayTimer = 9
	sys.soundTimer = 9
	sys.OnKeyDown(3)
	run(t, sys, 3)

	sys.Reset()
	cpu := sys.CPU()
	assert.Equal(t, uint16(StartAddress), cpu.PC)
	assert.Equal(t, uint16(0), cpu.I)
	assert.Equal(t, uint16(0), cpu.SP)
	assert.Equal(t, uint8(0), cpu.V[0])
	assert.Equal(t, int64(0), sys.Cycles())
	assert.Equal(t, uint8(0), sys.DelayTimer())
	assert.Equal(t, uint8(0), sys.SoundTimer())
	assert.Equal(t, Keypad{}, sys.Keypad())
	assert.Equal(t, uint8(0), sys.ReadMemory(StartAddress))
	assert.Equal(t, fontSet[0], sys.ReadMemory(FontAddress))
}

func TestKeypad(t *testing.T) {
	sys := New()
	sys.OnKeyDown(0xF)
	sys.SetKey(16, true)
	sys.SetKey(-1, true)
	keys := sys.Keypad()
	assert.True(t, keys[0xF])

	sys.OnKeyUp(0xF)
	keys = sys.Keypad()
	assert.False(t, keys[0xF])

	var all Keypad
	for i := range all {
		all[i] = true
	}
	sys.SetKeypad(all)
	assert.Equal(t, all, sys.Keypad())
}

func TestPrint(t *testing.T) {
	sys := newTestSystem(t, 0x6A42)
	run(t, sys, 1)

	var buf bytes.Buffer
	sys.Print(&buf)
	out := buf.String()
	assert.True(t, strings.Contains(out, "Cycles #1"))
	assert.True(t, strings.Contains(out, "PC = 0x0202"))
	assert.True(t, strings.Contains(out, "VA = 0x42"))
}

func TestZeroSystemInitialize(t *testing.T) {
	var sys System
	sys.Initialize()
	assert.NoError(t, sys.LoadROM(program(0xC0FF)))
	assert.NoError(t, sys.Step())
	assert.Equal(t, uint16(StartAddress+2), sys.CPU().PC)
}

func TestZeroSystemStep(t *testing.T) {
	var sys System
	// RND V0, 0xFF followed by an unknown opcode, at address 0
	sys.mem.write(0, 0xC0)
	sys.mem.write(1, 0xFF)
	sys.mem.write(2, 0x5A)
	sys.mem.write(3, 0xB1)

	assert.NoError(t, sys.Step())
	assert.NoError(t, sys.Step())
	assert.Equal(t, uint16(4), sys.CPU().PC)
	assert.Equal(t, int64(2), sys.Cycles())
}
