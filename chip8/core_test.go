package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// loadAndRun installs a ROM and executes the given number of instructions,
// failing the test on any machine fault.
func loadAndRun(t *testing.T, rom []byte, ops int) *Chip8 {
	t.Helper()
	m := New(false)
	assert.NoError(t, m.LoadProgram(rom))
	for i := 0; i < ops; i++ {
		assert.NoError(t, m.RunOp())
	}
	return m
}

func TestLoadAndAdd(t *testing.T) {
	// LD V0, 5 then ADD V0, 3.
	m := loadAndRun(t, []byte{0x60, 0x05, 0x70, 0x03}, 2)
	assert.Equal(t, uint8(8), m.Registers()[0])
	assert.Equal(t, uint16(ProgramStart+4), m.PC())
}

func TestLoadProgramTooLarge(t *testing.T) {
	m := New(false)
	err := m.LoadProgram(make([]byte, MemorySize-ProgramStart+1))
	var tooLarge *ProgramTooLargeError
	assert.True(t, errors.As(err, &tooLarge))

	assert.NoError(t, m.LoadProgram(make([]byte, MemorySize-ProgramStart)))
}

func TestArithmeticFlags(t *testing.T) {
	tests := []struct {
		name   string
		op     byte // low byte of the 8XY_ instruction
		a, b   uint8
		want   uint8
		wantVF uint8
	}{
		{"add no carry", 0x14, 5, 3, 8, 0},
		{"add carry", 0x14, 200, 100, 44, 1},
		{"add carry boundary", 0x14, 255, 1, 0, 1},
		{"add no carry boundary", 0x14, 254, 1, 255, 0},
		{"sub no borrow", 0x15, 9, 4, 5, 1},
		{"sub equal is no borrow", 0x15, 7, 7, 0, 1},
		{"sub borrow", 0x15, 4, 9, 251, 0},
		{"subn no borrow", 0x17, 4, 9, 5, 1},
		{"subn borrow", 0x17, 9, 4, 251, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// LD V0,a ; LD V1,b ; 8 01 op.
			m := loadAndRun(t, []byte{0x60, tt.a, 0x61, tt.b, 0x80, tt.op}, 3)
			assert.Equal(t, tt.want, m.Registers()[0])
			assert.Equal(t, tt.wantVF, m.Registers()[0xF])
		})
	}
}

func TestShifts(t *testing.T) {
	tests := []struct {
		name   string
		op     byte
		a      uint8
		want   uint8
		wantVF uint8
	}{
		{"shr even", 0x06, 0x08, 0x04, 0},
		{"shr odd", 0x06, 0x09, 0x04, 1},
		{"shl low", 0x0E, 0x41, 0x82, 0},
		{"shl high bit out", 0x0E, 0x81, 0x02, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadAndRun(t, []byte{0x60, tt.a, 0x80, tt.op}, 2)
			assert.Equal(t, tt.want, m.Registers()[0])
			assert.Equal(t, tt.wantVF, m.Registers()[0xF])
		})
	}
}

// The flag write lands after the primary result, so an arithmetic op whose
// destination is VF ends up holding the flag.
func TestFlagOverwritesVFDestination(t *testing.T) {
	// LD VF,200 ; LD V1,100 ; ADD VF,V1.
	m := loadAndRun(t, []byte{0x6F, 200, 0x61, 100, 0x8F, 0x14}, 3)
	assert.Equal(t, uint8(1), m.Registers()[0xF])

	// Same without carry: VF holds 0, not the sum.
	m = loadAndRun(t, []byte{0x6F, 10, 0x61, 10, 0x8F, 0x14}, 3)
	assert.Equal(t, uint8(0), m.Registers()[0xF])
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name    string
		rom     []byte
		ops     int
		wantPC  uint16
	}{
		{"SE imm taken", []byte{0x60, 0x05, 0x30, 0x05}, 2, 0x206},
		{"SE imm not taken", []byte{0x60, 0x05, 0x30, 0x06}, 2, 0x204},
		{"SNE imm taken", []byte{0x60, 0x05, 0x40, 0x06}, 2, 0x206},
		{"SNE imm not taken", []byte{0x60, 0x05, 0x40, 0x05}, 2, 0x204},
		{"SE reg taken", []byte{0x60, 0x05, 0x61, 0x05, 0x50, 0x10}, 3, 0x208},
		{"SNE reg taken", []byte{0x60, 0x05, 0x61, 0x06, 0x90, 0x10}, 3, 0x208},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadAndRun(t, tt.rom, tt.ops)
			assert.Equal(t, tt.wantPC, m.PC())
		})
	}
}

func TestJumps(t *testing.T) {
	m := loadAndRun(t, []byte{0x12, 0x34}, 1)
	assert.Equal(t, uint16(0x234), m.PC())

	// JP V0, nnn.
	m = loadAndRun(t, []byte{0x60, 0x10, 0xB3, 0x00}, 2)
	assert.Equal(t, uint16(0x310), m.PC())
}

func TestCallStackDiscipline(t *testing.T) {
	// CALL 0x204 ; (pad) ; CALL 0x208 ; RET ; RET.
	rom := []byte{
		0x22, 0x04,
		0x00, 0x00,
		0x22, 0x08,
		0x00, 0xEE,
		0x00, 0xEE,
	}
	m := New(false)
	assert.NoError(t, m.LoadProgram(rom))

	assert.NoError(t, m.RunOp()) // CALL 0x204
	assert.NoError(t, m.RunOp()) // CALL 0x208
	assert.Equal(t, 2, len(m.Stack()))

	assert.NoError(t, m.RunOp()) // RET
	assert.NoError(t, m.RunOp()) // RET
	assert.Equal(t, 0, len(m.Stack()))
	assert.Equal(t, uint16(0x202), m.PC())
}

func TestStackOverflow(t *testing.T) {
	// A chain of CALLs to the next instruction; the 17th overflows.
	rom := make([]byte, 0, 2*(StackDepth+1))
	for i := 0; i <= StackDepth; i++ {
		target := ProgramStart + 2*(i+1)
		rom = append(rom, 0x20|byte(target>>8), byte(target))
	}

	m := New(false)
	assert.NoError(t, m.LoadProgram(rom))
	for i := 0; i < StackDepth; i++ {
		assert.NoError(t, m.RunOp())
	}

	err := m.RunOp()
	var overflow *StackOverflowError
	assert.True(t, errors.As(err, &overflow))
}

func TestStackUnderflow(t *testing.T) {
	m := New(false)
	assert.NoError(t, m.LoadProgram([]byte{0x00, 0xEE}))

	err := m.RunOp()
	var underflow *StackUnderflowError
	assert.True(t, errors.As(err, &underflow))
}

func TestUnknownOpcode(t *testing.T) {
	m := New(false)
	assert.NoError(t, m.LoadProgram([]byte{0xFF, 0xFF}))

	err := m.RunOp()
	var unknown *UnknownOpcodeError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, uint16(0xFFFF), unknown.Opcode)
	assert.Equal(t, uint16(ProgramStart), unknown.Addr)
}

func TestPCOutOfBounds(t *testing.T) {
	// JP 0xFFE runs the zero word at the end of memory (SYS, a no-op) and
	// leaves the PC past the last fetchable address.
	m := loadAndRun(t, []byte{0x1F, 0xFE}, 2)

	err := m.RunOp()
	var oob *OutOfBoundsError
	assert.True(t, errors.As(err, &oob))
}

func TestRegisterLoadsAndIndex(t *testing.T) {
	// LD I, 0x300 ; LD V0, 0x20 ; ADD I, V0.
	m := loadAndRun(t, []byte{0xA3, 0x00, 0x60, 0x20, 0xF0, 0x1E}, 3)
	assert.Equal(t, uint16(0x320), m.Index())
}

func TestFontChar(t *testing.T) {
	// LD V0, 0xA ; LD F, V0.
	m := loadAndRun(t, []byte{0x60, 0x0A, 0xF0, 0x29}, 2)
	assert.Equal(t, uint16(FontBase+5*0xA), m.Index())

	// The glyph bytes are where I points.
	assert.Equal(t, fontSprites[5*0xA], m.Memory()[m.Index()])
}

func TestStoreBCD(t *testing.T) {
	// LD V0, 234 ; LD I, 0x300 ; LD B, V0.
	m := loadAndRun(t, []byte{0x60, 234, 0xA3, 0x00, 0xF0, 0x33}, 3)
	mem := m.Memory()
	assert.Equal(t, uint8(2), mem[0x300])
	assert.Equal(t, uint8(3), mem[0x301])
	assert.Equal(t, uint8(4), mem[0x302])
}

func TestStoreAndLoadRegs(t *testing.T) {
	// LD V0,1 ; LD V1,2 ; LD V2,3 ; LD I,0x300 ; LD [I],V2.
	m := loadAndRun(t, []byte{
		0x60, 0x01, 0x61, 0x02, 0x62, 0x03,
		0xA3, 0x00, 0xF2, 0x55,
	}, 5)
	mem := m.Memory()
	assert.Equal(t, uint8(1), mem[0x300])
	assert.Equal(t, uint8(2), mem[0x301])
	assert.Equal(t, uint8(3), mem[0x302])
	// I is left unchanged by the store.
	assert.Equal(t, uint16(0x300), m.Index())

	// LD I,0x300 ; LD V2,[I] round-trips into fresh registers.
	m2 := New(false)
	assert.NoError(t, m2.LoadProgram([]byte{0xA3, 0x00, 0xF2, 0x65}))
	copy(m2.Memory()[0x300:], []byte{9, 8, 7})
	assert.NoError(t, m2.RunOp())
	assert.NoError(t, m2.RunOp())
	assert.Equal(t, uint8(9), m2.Registers()[0])
	assert.Equal(t, uint8(8), m2.Registers()[1])
	assert.Equal(t, uint8(7), m2.Registers()[2])
}

func TestProgramWritesBelow0x200Rejected(t *testing.T) {
	// LD I, 0x100 ; LD [I], V3.
	m := New(false)
	assert.NoError(t, m.LoadProgram([]byte{0xA1, 0x00, 0xF3, 0x55}))
	assert.NoError(t, m.RunOp())

	err := m.RunOp()
	var oob *OutOfBoundsError
	assert.True(t, errors.As(err, &oob))

	// BCD store below 0x200 is rejected the same way.
	m = New(false)
	assert.NoError(t, m.LoadProgram([]byte{0xA1, 0x00, 0xF0, 0x33}))
	assert.NoError(t, m.RunOp())
	assert.Error(t, m.RunOp())
}

func TestWaitKeySpins(t *testing.T) {
	m := New(false)
	assert.NoError(t, m.LoadProgram([]byte{0xF0, 0x0A}))

	// No key down: the PC rewinds so the instruction re-runs next cycle.
	for i := 0; i < 3; i++ {
		assert.NoError(t, m.RunOp())
		assert.Equal(t, uint16(ProgramStart), m.PC())
	}

	m.SetKey(5, true)
	assert.NoError(t, m.RunOp())
	assert.Equal(t, uint8(5), m.Registers()[0])
	assert.Equal(t, uint16(ProgramStart+2), m.PC())
}

func TestKeySkips(t *testing.T) {
	// LD V0, 7 ; SKP V0.
	m := New(false)
	assert.NoError(t, m.LoadProgram([]byte{0x60, 0x07, 0xE0, 0x9E}))
	m.SetKey(7, true)
	assert.NoError(t, m.RunOp())
	assert.NoError(t, m.RunOp())
	assert.Equal(t, uint16(0x206), m.PC())

	// SKNP with the key down does not skip.
	m = New(false)
	assert.NoError(t, m.LoadProgram([]byte{0x60, 0x07, 0xE0, 0xA1}))
	m.SetKey(7, true)
	assert.NoError(t, m.RunOp())
	assert.NoError(t, m.RunOp())
	assert.Equal(t, uint16(0x204), m.PC())
}

func TestRandomMasks(t *testing.T) {
	// RND V0, 0x0F can only produce values inside the mask.
	m := New(false)
	assert.NoError(t, m.LoadProgram([]byte{0xC0, 0x0F, 0x12, 0x00}))
	for i := 0; i < 50; i++ {
		assert.NoError(t, m.RunOp()) // RND
		assert.Equal(t, uint8(0), m.Registers()[0]&0xF0)
		assert.NoError(t, m.RunOp()) // JP 0x200
	}
}
