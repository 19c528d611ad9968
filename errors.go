package chip8

import (
	"errors"
	"fmt"
)

var (
	ErrROMTooLarge    = errors.New("rom does not fit into memory")
	ErrStackOverflow  = errors.New("call stack overflow")
	ErrStackUnderflow = errors.New("call stack underflow")
	ErrUnknownOpcode  = errors.New("unknown opcode")
)

// LoadError is returned when a ROM image cannot be read or placed into memory.
type LoadError struct {
	Path string // empty when loading from bytes
	Size int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("loading rom %s (%d bytes): %v", e.Path, e.Size, e.Err)
	}
	return fmt.Sprintf("loading rom (%d bytes): %v", e.Size, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// StackFault reports a subroutine call with a full stack or a return with an
// empty one. PC is the address of the faulting instruction.
type StackFault struct {
	PC     uint16
	Opcode uint16
	Err    error
}

func (e *StackFault) Error() string {
	return fmt.Sprintf("opcode 0x%04x at 0x%03x: %v", e.Opcode, e.PC, e.Err)
}

func (e *StackFault) Unwrap() error {
	return e.Err
}
