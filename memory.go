package chip8

const (
	MemorySize  = 4096
	FontAddress = 0x050
	GlyphSize   = 5
)

// Memory is the 4K address space shared by the interpreter font and the program.
type Memory [MemorySize]uint8

var fontSet = [16 * GlyphSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// clear zeroes the whole address space and seeds the font glyphs.
func (mem *Memory) clear() {
	for i := 0; i < len(mem); i++ {
		mem[i] = 0
	}
	copy(mem[FontAddress:], fontSet[:])
}

func (mem *Memory) fetchOpcode(pc uint16) uint16 {
	return uint16(mem.read(pc))<<8 | uint16(mem.read(pc+1))
}

// read and write wrap addresses at the 4K boundary.
func (mem *Memory) read(addr uint16) uint8 {
	return mem[addr&(MemorySize-1)]
}

func (mem *Memory) write(addr uint16, val uint8) {
	mem[addr&(MemorySize-1)] = val
}

func (mem *Memory) loadROM(rom []byte) error {
	if StartAddress+len(rom) > MemorySize {
		return &LoadError{Size: len(rom), Err: ErrROMTooLarge}
	}
	copy(mem[StartAddress:], rom)
	return nil
}
