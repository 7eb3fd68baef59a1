package chip8

import "fmt"

// A ProgramTooLargeError is returned when a ROM image does not fit in the
// memory above the interpreter area.
type ProgramTooLargeError struct {
	Size int
}

func (e *ProgramTooLargeError) Error() string {
	return fmt.Sprintf("program too large for memory (size %d, capacity %d)",
		e.Size, MemorySize-ProgramStart)
}

// An OutOfBoundsError is returned when the PC or a memory operand leaves the
// addressable space, or when an instruction writes into the interpreter area
// below 0x200.
type OutOfBoundsError struct {
	Addr uint16
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("memory access out of bounds at %04x", e.Addr)
}

// An UnknownOpcodeError is returned when a fetched word decodes to no
// CHIP-8 instruction. Addr is the address the word was fetched from.
type UnknownOpcodeError struct {
	Opcode uint16
	Addr   uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %04x at %04x", e.Opcode, e.Addr)
}

// A StackOverflowError is returned by CALL when the call stack is full.
type StackOverflowError struct{}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow (depth %d)", StackDepth)
}

// A StackUnderflowError is returned by RET when the call stack is empty.
type StackUnderflowError struct{}

func (e *StackUnderflowError) Error() string {
	return "stack underflow"
}
