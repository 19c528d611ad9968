package chip8

const (
	GfxWidth  = 64
	GfxHeight = 32

	PixelOn  uint32 = 0xFFFFFFFF
	PixelOff uint32 = 0
)

// Graphics holds the monochrome frame buffer. Pixels are stored one uint32 each
// so the buffer can be uploaded as an RGBA texture without conversion.
type Graphics struct {
	buffer [GfxWidth * GfxHeight]uint32
	dirty  bool
}

func (g *Graphics) isDirty() bool {
	return g.dirty
}

func (g *Graphics) setDirty(dirty bool) {
	g.dirty = dirty
}

func (g *Graphics) clear() {
	for i := 0; i < len(g.buffer); i++ {
		g.buffer[i] = PixelOff
	}
	g.dirty = true
}

func (g *Graphics) getPixel(x, y uint8) uint32 {
	if int(x) >= GfxWidth || int(y) >= GfxHeight {
		return PixelOff
	}
	return g.buffer[int(y)*GfxWidth+int(x)]
}

// draw XORs an 8xh sprite read from mem at I onto the buffer. The origin wraps
// around the screen, rows and columns running past the edge are clipped.
// It reports whether any lit pixel was turned off.
func (g *Graphics) draw(mem *Memory, I uint16, x, y, h uint8) bool {
	hit := false
	x0 := int(x) % GfxWidth
	y0 := int(y) % GfxHeight
	for r := 0; r < int(h); r++ {
		row := y0 + r
		if row >= GfxHeight {
			break
		}
		pixels := mem.read(I + uint16(r))
		for c := 0; c < 8; c++ {
			col := x0 + c
			if col >= GfxWidth {
				break
			}
			if pixels&(0x80>>c) == 0 {
				continue
			}
			offset := row*GfxWidth + col
			if g.buffer[offset] == PixelOn {
				hit = true
			}
			g.buffer[offset] ^= PixelOn
		}
	}
	g.dirty = true
	return hit
}
