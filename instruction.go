package chip8

import "fmt"

// Op identifies a decoded CHIP-8 instruction.
type Op uint8

const (
	OpUnknown Op = iota
	OpSYS        // 0NNN
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1NNN
	OpCALL       // 2NNN
	OpSEVxByte   // 3XNN
	OpSNEVxByte  // 4XNN
	OpSEVxVy     // 5XY0
	OpLDVxByte   // 6XNN
	OpADDVxByte  // 7XNN
	OpLDVxVy     // 8XY0
	OpOR         // 8XY1
	OpAND        // 8XY2
	OpXOR        // 8XY3
	OpADDVxVy    // 8XY4
	OpSUB        // 8XY5
	OpSHR        // 8XY6
	OpSUBN       // 8XY7
	OpSHL        // 8XYE
	OpSNEVxVy    // 9XY0
	OpLDIAddr    // ANNN
	OpJPV0       // BNNN
	OpRND        // CXNN
	OpDRW        // DXYN
	OpSKP        // EX9E
	OpSKNP       // EXA1
	OpLDVxDT     // FX07
	OpLDVxK      // FX0A
	OpLDDTVx     // FX15
	OpLDSTVx     // FX18
	OpADDIVx     // FX1E
	OpLDFVx      // FX29
	OpLDBVx      // FX33
	OpLDIVx      // FX55
	OpLDVxI      // FX65
)

var opNames = [...]string{
	OpUnknown:   "???",
	OpSYS:       "SYS",
	OpCLS:       "CLS",
	OpRET:       "RET",
	OpJP:        "JP",
	OpCALL:      "CALL",
	OpSEVxByte:  "SE",
	OpSNEVxByte: "SNE",
	OpSEVxVy:    "SE",
	OpLDVxByte:  "LD",
	OpADDVxByte: "ADD",
	OpLDVxVy:    "LD",
	OpOR:        "OR",
	OpAND:       "AND",
	OpXOR:       "XOR",
	OpADDVxVy:   "ADD",
	OpSUB:       "SUB",
	OpSHR:       "SHR",
	OpSUBN:      "SUBN",
	OpSHL:       "SHL",
	OpSNEVxVy:   "SNE",
	OpLDIAddr:   "LD",
	OpJPV0:      "JP",
	OpRND:       "RND",
	OpDRW:       "DRW",
	OpSKP:       "SKP",
	OpSKNP:      "SKNP",
	OpLDVxDT:    "LD",
	OpLDVxK:     "LD",
	OpLDDTVx:    "LD",
	OpLDSTVx:    "LD",
	OpADDIVx:    "ADD",
	OpLDFVx:     "LD",
	OpLDBVx:     "LD",
	OpLDIVx:     "LD",
	OpLDVxI:     "LD",
}

// String returns the instruction mnemonic.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return opNames[OpUnknown]
}

// Instruction is an opcode word split into its operation and operand fields.
// Fields that the operation does not use are still extracted from Raw.
type Instruction struct {
	Op  Op
	Raw uint16

	X   uint8  // register selector, bits 8-11
	Y   uint8  // register selector, bits 4-7
	N   uint8  // nibble, bits 0-3
	NN  uint8  // immediate byte
	NNN uint16 // address
}

// Decode splits an opcode word into an Instruction. Unrecognised words decode
// to OpUnknown.
func Decode(opc uint16) Instruction {
	in := Instruction{
		Raw: opc,
		X:   uint8((opc & 0x0F00) >> 8),
		Y:   uint8((opc & 0x00F0) >> 4),
		N:   uint8(opc & 0x000F),
		NN:  uint8(opc & 0x00FF),
		NNN: opc & 0x0FFF,
	}
	in.Op = decodeOp(opc)
	return in
}

func decodeOp(opc uint16) Op {
	switch opc & 0xF000 {
	case 0x0000:
		switch opc {
		case 0x00E0:
			return OpCLS
		case 0x00EE:
			return OpRET
		default:
			return OpSYS
		}
	case 0x1000:
		return OpJP
	case 0x2000:
		return OpCALL
	case 0x3000:
		return OpSEVxByte
	case 0x4000:
		return OpSNEVxByte
	case 0x5000:
		if opc&0x000F == 0 {
			return OpSEVxVy
		}
	case 0x6000:
		return OpLDVxByte
	case 0x7000:
		return OpADDVxByte
	case 0x8000:
		switch opc & 0x000F {
		case 0x0:
			return OpLDVxVy
		case 0x1:
			return OpOR
		case 0x2:
			return OpAND
		case 0x3:
			return OpXOR
		case 0x4:
			return OpADDVxVy
		case 0x5:
			return OpSUB
		case 0x6:
			return OpSHR
		case 0x7:
			return OpSUBN
		case 0xE:
			return OpSHL
		}
	case 0x9000:
		if opc&0x000F == 0 {
			return OpSNEVxVy
		}
	case 0xA000:
		return OpLDIAddr
	case 0xB000:
		return OpJPV0
	case 0xC000:
		return OpRND
	case 0xD000:
		return OpDRW
	case 0xE000:
		switch opc & 0x00FF {
		case 0x9E:
			return OpSKP
		case 0xA1:
			return OpSKNP
		}
	case 0xF000:
		switch opc & 0x00FF {
		case 0x07:
			return OpLDVxDT
		case 0x0A:
			return OpLDVxK
		case 0x15:
			return OpLDDTVx
		case 0x18:
			return OpLDSTVx
		case 0x1E:
			return OpADDIVx
		case 0x29:
			return OpLDFVx
		case 0x33:
			return OpLDBVx
		case 0x55:
			return OpLDIVx
		case 0x65:
			return OpLDVxI
		}
	}
	return OpUnknown
}

// String formats the instruction in the usual Cowgod assembler notation,
// e.g. "DRW V1, V2, 5".
func (in Instruction) String() string {
	name := in.Op.String()
	switch in.Op {
	case OpCLS, OpRET:
		return name
	case OpSYS, OpJP, OpCALL:
		return fmt.Sprintf("%s 0x%03X", name, in.NNN)
	case OpSEVxByte, OpSNEVxByte, OpLDVxByte, OpADDVxByte, OpRND:
		return fmt.Sprintf("%s V%X, 0x%02X", name, in.X, in.NN)
	case OpSEVxVy, OpLDVxVy, OpOR, OpAND, OpXOR, OpADDVxVy, OpSUB, OpSUBN, OpSNEVxVy:
		return fmt.Sprintf("%s V%X, V%X", name, in.X, in.Y)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("%s V%X", name, in.X)
	case OpLDIAddr:
		return fmt.Sprintf("%s I, 0x%03X", name, in.NNN)
	case OpJPV0:
		return fmt.Sprintf("%s V0, 0x%03X", name, in.NNN)
	case OpDRW:
		return fmt.Sprintf("%s V%X, V%X, %d", name, in.X, in.Y, in.N)
	case OpLDVxDT:
		return fmt.Sprintf("%s V%X, DT", name, in.X)
	case OpLDVxK:
		return fmt.Sprintf("%s V%X, K", name, in.X)
	case OpLDDTVx:
		return fmt.Sprintf("%s DT, V%X", name, in.X)
	case OpLDSTVx:
		return fmt.Sprintf("%s ST, V%X", name, in.X)
	case OpADDIVx:
		return fmt.Sprintf("%s I, V%X", name, in.X)
	case OpLDFVx:
		return fmt.Sprintf("%s F, V%X", name, in.X)
	case OpLDBVx:
		return fmt.Sprintf("%s B, V%X", name, in.X)
	case OpLDIVx:
		return fmt.Sprintf("%s [I], V%X", name, in.X)
	case OpLDVxI:
		return fmt.Sprintf("%s V%X, [I]", name, in.X)
	}
	return fmt.Sprintf("%s 0x%04X", name, in.Raw)
}
