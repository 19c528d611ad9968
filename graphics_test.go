package chip8

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func litPixels(sys *System) map[[2]int]bool {
	lit := map[[2]int]bool{}
	for y := 0; y < GfxHeight; y++ {
		for x := 0; x < GfxWidth; x++ {
			if sys.GetPixel(uint8(x), uint8(y)) == PixelOn {
				lit[[2]int{x, y}] = true
			}
		}
	}
	return lit
}

func TestClearThenDraw(t *testing.T) {
	sys := newTestSystem(t,
		0x00E0, // CLS
		0xA300, // LD I, 0x300
		0xD012, // DRW V0, V1, 2
	)
	sys.mem[0x300] = 0x81
	sys.mem[0x301] = 0x40
	sys.cpu.V[0] = 10
	sys.cpu.V[1] = 4
	sys.cpu.V[RegCarry] = 1
	run(t, sys, 3)

	want := map[[2]int]bool{
		{10, 4}: true,
		{17, 4}: true,
		{11, 5}: true,
	}
	if diff := cmp.Diff(want, litPixels(sys)); diff != "" {
		t.Errorf("pixels: (-want, +got)\n%s", diff)
	}
	assert.Equal(t, uint8(0), sys.cpu.V[RegCarry])
	assert.True(t, sys.IsDirty())
}

func TestDrawTwiceRestores(t *testing.T) {
	sys := newTestSystem(t,
		0xF029, // LD F, V0
		0xD125, // DRW V1, V2, 5
		0xD125, // DRW V1, V2, 5
	)
	sys.cpu.V[0] = 0x8
	sys.cpu.V[1] = 20
	sys.cpu.V[2] = 7
	run(t, sys, 1)
	before := sys.Frame()

	run(t, sys, 1)
	assert.Equal(t, uint8(0), sys.cpu.V[RegCarry])
	assert.Equal(t, 16, len(litPixels(sys))) // glyph 8 has 16 lit pixels

	run(t, sys, 1)
	assert.Equal(t, uint8(1), sys.cpu.V[RegCarry])
	if diff := cmp.Diff(before, sys.Frame()); diff != "" {
		t.Errorf("frame: (-want, +got)\n%s", diff)
	}
}

func TestDrawWrapsOriginAndClips(t *testing.T) {
	sys := newTestSystem(t, 0xA300, 0xD013)
	sys.mem[0x300] = 0xFF
	sys.mem[0x301] = 0xFF
	sys.mem[0x302] = 0xFF
	sys.cpu.V[0] = 64 + 60 // wraps to column 60
	sys.cpu.V[1] = 32 + 30 // wraps to row 30
	run(t, sys, 2)

	lit := litPixels(sys)
	assert.Equal(t, 8, len(lit))
	for y := 30; y < 32; y++ {
		for x := 60; x < 64; x++ {
			assert.True(t, lit[[2]int{x, y}])
		}
	}
	assert.False(t, lit[[2]int{0, 30}])
	assert.False(t, lit[[2]int{60, 0}])
}

func TestGetPixelOutOfRange(t *testing.T) {
	var g Graphics
	g.buffer[0] = PixelOn
	assert.Equal(t, PixelOn, g.getPixel(0, 0))
	assert.Equal(t, PixelOff, g.getPixel(GfxWidth, 0))
	assert.Equal(t, PixelOff, g.getPixel(0, GfxHeight))
}

func TestDirtyFlag(t *testing.T) {
	sys := newTestSystem(t, 0x6000, 0x00E0)
	sys.SetDirty(false)
	run(t, sys, 1)
	assert.False(t, sys.IsDirty())
	run(t, sys, 1)
	assert.True(t, sys.IsDirty())
}
