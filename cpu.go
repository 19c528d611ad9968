package chip8

import (
	"fmt"
	"io"
)

const (
	StartAddress = 0x200
	RegCarry     = 0xF
	StackDepth   = 16
)

type CPU struct {
	V     [16]uint8 // general-purpose registers
	I     uint16    // Index register
	PC    uint16    // program counter
	SP    uint16    // stack pointer
	Stack [StackDepth]uint16

	cycles int64
}

func (cpu *CPU) Print(w io.Writer) {
	fmt.Fprintf(w, "Cycles #%d\n", cpu.cycles)
	fmt.Fprintf(w, "PC = 0x%04x, SP = %d, I = 0x%04x\n", cpu.PC, cpu.SP, cpu.I)
	for i := 0; i < len(cpu.V); i += 4 {
		fmt.Fprintf(w, "V%X = 0x%02x, V%X = 0x%02x, V%X = 0x%02x, V%X = 0x%02x\n",
			i, cpu.V[i], i+1, cpu.V[i+1], i+2, cpu.V[i+2], i+3, cpu.V[i+3])
	}
}

func (cpu *CPU) reset() {
	cpu.PC = StartAddress
	cpu.I = 0
	cpu.SP = 0
	cpu.cycles = 0

	// clear stack
	for i := 0; i < len(cpu.Stack); i++ {
		cpu.Stack[i] = 0
	}

	// clear register V0-VF
	for i := 0; i < len(cpu.V); i++ {
		cpu.V[i] = 0
	}
}

// fetch reads the opcode at PC and moves PC to the next instruction.
func (cpu *CPU) fetch(mem *Memory) uint16 {
	opc := mem.fetchOpcode(cpu.PC)
	cpu.PC += 2
	return opc
}

// execute runs a decoded instruction. PC already points past it.
func (cpu *CPU) execute(sys *System, in Instruction) error {
	x, y := in.X, in.Y

	switch in.Op {
	case OpCLS: // 00E0: Clears the screen
		cpu.cls(&sys.gfx)
	case OpRET: // 00EE: Returns from subroutine
		return cpu.ret(in)
	case OpSYS: // 0NNN: Calls RCA 1802 program at NNN, ignored by modern interpreters
	case OpJP: // 1NNN: Jumps to address NNN
		cpu.jpAddr(in.NNN)
	case OpCALL: // 2NNN: Calls subroutine at NNN
		return cpu.callAddr(in)
	case OpSEVxByte: // 3XNN: Skips the next instruction if VX equals NN
		cpu.seVxByte(x, in.NN)
	case OpSNEVxByte: // 4XNN: Skips the next instruction if VX doesn't equal NN
		cpu.sneVxByte(x, in.NN)
	case OpSEVxVy: // 5XY0: Skips the next instruction if VX equals VY
		cpu.seVxVy(x, y)
	case OpLDVxByte: // 6XNN: Sets VX to NN
		cpu.ldVxByte(x, in.NN)
	case OpADDVxByte: // 7XNN: Adds NN to VX, VF is not affected
		cpu.addVxByte(x, in.NN)
	case OpLDVxVy: // 8XY0: Sets VX to the value of VY
		cpu.ldVxVy(x, y)
	case OpOR: // 8XY1: Sets VX to "VX OR VY"
		cpu.orVxVy(x, y)
	case OpAND: // 8XY2: Sets VX to "VX AND VY"
		cpu.andVxVy(x, y)
	case OpXOR: // 8XY3: Sets VX to "VX XOR VY"
		cpu.xorVxVy(x, y)
	case OpADDVxVy: // 8XY4: Adds VY to VX. VF is set to 1 when there's a carry, and to 0 when there isn't
		cpu.addVxVy(x, y)
	case OpSUB: // 8XY5: VY is subtracted from VX. VF is set to 0 when there's a borrow, and 1 when there isn't
		cpu.subVxVy(x, y)
	case OpSHR: // 8XY6: Shifts VX right by one. VF is set to the least significant bit of VX before the shift
		cpu.shrVx(x)
	case OpSUBN: // 8XY7: Sets VX to VY minus VX. VF is set to 0 when there's a borrow, and 1 when there isn't
		cpu.subnVxVy(x, y)
	case OpSHL: // 8XYE: Shifts VX left by one. VF is set to the most significant bit of VX before the shift
		cpu.shlVx(x)
	case OpSNEVxVy: // 9XY0: Skips the next instruction if VX doesn't equal VY
		cpu.sneVxVy(x, y)
	case OpLDIAddr: // ANNN: Sets I to the address NNN
		cpu.ldIAddr(in.NNN)
	case OpJPV0: // BNNN: Jumps to the address NNN plus V0
		cpu.jpV0Addr(in.NNN)
	case OpRND: // CXNN: Sets VX to a random number and NN
		cpu.rndVxByte(sys.rng, x, in.NN)
	case OpDRW: // DXYN: Draws an 8xN sprite from memory at I to (VX, VY)
		cpu.drwVxVyNibble(&sys.mem, &sys.gfx, x, y, in.N)
	case OpSKP: // EX9E: Skips the next instruction if the key stored in VX is pressed
		cpu.skpVx(&sys.keys, x)
	case OpSKNP: // EXA1: Skips the next instruction if the key stored in VX isn't pressed
		cpu.sknpVx(&sys.keys, x)
	case OpLDVxDT: // FX07: Sets VX to the value of the delay timer
		cpu.ldVxDT(sys, x)
	case OpLDVxK: // FX0A: A key press is awaited, and then stored in VX
		cpu.ldVxK(&sys.keys, x)
	case OpLDDTVx: // FX15: Sets the delay timer to VX
		cpu.ldDTVx(sys, x)
	case OpLDSTVx: // FX18: Sets the sound timer to VX
		cpu.ldSTVx(sys, x)
	case OpADDIVx: // FX1E: Adds VX to I
		cpu.addIVx(x)
	case OpLDFVx: // FX29: Sets I to the location of the font glyph for the digit in VX
		cpu.ldFVx(x)
	case OpLDBVx: // FX33: Stores the BCD representation of VX at I, I+1 and I+2
		cpu.ldBVx(&sys.mem, x)
	case OpLDIVx: // FX55: Stores V0 to VX in memory starting at address I
		cpu.ldIVx(&sys.mem, x)
	case OpLDVxI: // FX65: Fills V0 to VX with values from memory starting at address I
		cpu.ldVxI(&sys.mem, x)
	default:
		return cpu.unknownOp(in.Raw)
	}
	return nil
}

func (cpu *CPU) jpAddr(addr uint16) {
	cpu.PC = addr
}

func (cpu *CPU) callAddr(in Instruction) error {
	if int(cpu.SP) >= len(cpu.Stack) {
		return &StackFault{PC: cpu.PC - 2, Opcode: in.Raw, Err: ErrStackOverflow}
	}
	cpu.Stack[cpu.SP] = cpu.PC
	cpu.SP++
	cpu.PC = in.NNN
	return nil
}

func (cpu *CPU) ret(in Instruction) error {
	if cpu.SP == 0 {
		return &StackFault{PC: cpu.PC - 2, Opcode: in.Raw, Err: ErrStackUnderflow}
	}
	cpu.SP--
	cpu.PC = cpu.Stack[cpu.SP]
	return nil
}

func (cpu *CPU) cls(gfx *Graphics) {
	gfx.clear()
}

func (cpu *CPU) skipIf(cond bool) {
	if cond {
		cpu.PC += 2
	}
}

func (cpu *CPU) seVxByte(x, val uint8) {
	cpu.skipIf(cpu.V[x] == val)
}

func (cpu *CPU) sneVxByte(x, val uint8) {
	cpu.skipIf(cpu.V[x] != val)
}

func (cpu *CPU) seVxVy(x, y uint8) {
	cpu.skipIf(cpu.V[x] == cpu.V[y])
}

func (cpu *CPU) ldVxByte(x, val uint8) {
	cpu.V[x] = val
}

func (cpu *CPU) addVxByte(x, val uint8) {
	cpu.V[x] += val
}

func (cpu *CPU) ldVxVy(x, y uint8) {
	cpu.V[x] = cpu.V[y]
}

func (cpu *CPU) orVxVy(x, y uint8) {
	cpu.V[x] |= cpu.V[y]
}

func (cpu *CPU) andVxVy(x, y uint8) {
	cpu.V[x] &= cpu.V[y]
}

func (cpu *CPU) xorVxVy(x, y uint8) {
	cpu.V[x] ^= cpu.V[y]
}

// The flag-producing ops compute from the operands first and write VF last,
// so with X = F the register ends up holding the flag.

func (cpu *CPU) addVxVy(x, y uint8) {
	sum := uint16(cpu.V[x]) + uint16(cpu.V[y])
	cpu.V[x] = uint8(sum)
	if sum > 0xFF {
		cpu.setCarry(1)
	} else {
		cpu.setCarry(0)
	}
}

func (cpu *CPU) subVxVy(x, y uint8) {
	vx, vy := cpu.V[x], cpu.V[y]
	cpu.V[x] = vx - vy
	if vy > vx {
		cpu.setCarry(0)
	} else {
		cpu.setCarry(1)
	}
}

func (cpu *CPU) setCarry(carry uint8) {
	cpu.V[RegCarry] = carry
}

func (cpu *CPU) shrVx(x uint8) {
	vx := cpu.V[x]
	cpu.V[x] = vx >> 1
	cpu.setCarry(vx & 0x01)
}

func (cpu *CPU) subnVxVy(x, y uint8) {
	vx, vy := cpu.V[x], cpu.V[y]
	cpu.V[x] = vy - vx
	if vx > vy {
		cpu.setCarry(0)
	} else {
		cpu.setCarry(1)
	}
}

func (cpu *CPU) shlVx(x uint8) {
	vx := cpu.V[x]
	cpu.V[x] = vx << 1
	cpu.setCarry(vx >> 7)
}

func (cpu *CPU) sneVxVy(x, y uint8) {
	cpu.skipIf(cpu.V[x] != cpu.V[y])
}

func (cpu *CPU) ldIAddr(index uint16) {
	cpu.I = index
}

func (cpu *CPU) jpV0Addr(addr uint16) {
	cpu.PC = addr + uint16(cpu.V[0])
}

func (cpu *CPU) rndVxByte(rng RandomSource, x, val uint8) {
	cpu.V[x] = rng.Byte() & val
}

func (cpu *CPU) drwVxVyNibble(mem *Memory, gfx *Graphics, x, y, h uint8) {
	// Each row of 8 pixels is read as bit-coded starting from memory location I;
	// I value doesn't change after the execution of this instruction.
	// VF is set to 1 if any screen pixels are flipped from set to unset when the sprite is drawn,
	// and to 0 if that doesn't happen
	if hit := gfx.draw(mem, cpu.I, cpu.V[x], cpu.V[y], h); hit {
		cpu.setCarry(1)
	} else {
		cpu.setCarry(0)
	}
}

func (cpu *CPU) skpVx(keys *Keypad, x uint8) {
	cpu.skipIf(keys.isPressed(cpu.V[x]))
}

func (cpu *CPU) sknpVx(keys *Keypad, x uint8) {
	cpu.skipIf(!keys.isPressed(cpu.V[x]))
}

func (cpu *CPU) unknownOp(opc uint16) error {
	return fmt.Errorf("0x%04x at 0x%03x: %w", opc, cpu.PC-2, ErrUnknownOpcode)
}

func (cpu *CPU) ldVxDT(sys *System, x uint8) {
	cpu.V[x] = sys.delayTimer
}

func (cpu *CPU) ldVxK(keys *Keypad, x uint8) {
	if key, ok := keys.firstPressed(); ok {
		cpu.V[x] = key
		return
	}
	cpu.PC -= 2 // try again in next cycle
}

func (cpu *CPU) ldDTVx(sys *System, x uint8) {
	sys.delayTimer = cpu.V[x]
}

func (cpu *CPU) ldSTVx(sys *System, x uint8) {
	sys.soundTimer = cpu.V[x]
}

func (cpu *CPU) addIVx(x uint8) {
	cpu.I += uint16(cpu.V[x])
}

func (cpu *CPU) ldFVx(x uint8) {
	cpu.I = FontAddress + uint16(cpu.V[x]&0xF)*GlyphSize
}

func (cpu *CPU) ldBVx(mem *Memory, x uint8) {
	mem.write(cpu.I, cpu.V[x]/100)
	mem.write(cpu.I+1, (cpu.V[x]/10)%10)
	mem.write(cpu.I+2, cpu.V[x]%10)
}

func (cpu *CPU) ldIVx(mem *Memory, x uint8) {
	for i := uint8(0); i <= x; i++ {
		mem.write(cpu.I+uint16(i), cpu.V[i])
	}
}

func (cpu *CPU) ldVxI(mem *Memory, x uint8) {
	for i := uint8(0); i <= x; i++ {
		cpu.V[i] = mem.read(cpu.I + uint16(i))
	}
}
