// Package chip8 implements a CHIP-8 virtual machine: 4k of memory, sixteen
// 8-bit registers, a 64x32 monochrome framebuffer, a 16-key pad and two 60Hz
// countdown timers. The host drives it by calling RunOp for each instruction
// and TickTimers once per frame.
package chip8

import (
	"math/rand"
	"sync"
	"time"
)

const (
	// MemorySize is the capacity of the address space.
	MemorySize = 4096
	// ProgramStart is where ROM images are installed and execution begins.
	// Everything below is interpreter-reserved and write-protected against
	// running programs.
	ProgramStart = 0x200
	// StackDepth bounds the number of nested CALLs.
	StackDepth = 16

	// DisplayWidth and DisplayHeight are the framebuffer dimensions in pixels.
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Chip8 holds the full machine state.
type Chip8 struct {
	mem   [MemorySize]byte
	v     [16]uint8 // VF doubles as the flag register.
	i     uint16
	pc    uint16
	stack [StackDepth]uint16
	sp    int // Index of the next free stack slot.

	delay uint8
	sound uint8

	display [DisplayHeight][DisplayWidth]bool
	frame   uint64 // Bumped whenever the display changes.

	// The pad is written by the input front end, possibly from another
	// goroutine, so it gets its own lock.
	keysMu sync.Mutex
	keys   [16]bool

	rng *rand.Rand

	state       RunState
	stepPending bool
	debugMode   bool
	breakpoints []uint16

	rom []byte // Retained so Reset can reinstall the image.
}

// New returns a machine with the font installed and no program loaded.
// With debugMode enabled the machine starts Paused and the pause/step
// controls are live; otherwise it starts Running.
func New(debugMode bool) *Chip8 {
	m := &Chip8{
		pc:        ProgramStart,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		debugMode: debugMode,
		state:     initialState(debugMode),
	}
	copy(m.mem[FontBase:], fontSprites[:])
	return m
}

func initialState(debugMode bool) RunState {
	if debugMode {
		return Paused
	}
	return Running
}

// LoadProgram installs a ROM image at 0x200 and keeps a copy for Reset.
func (m *Chip8) LoadProgram(rom []byte) error {
	if len(rom) > MemorySize-ProgramStart {
		return &ProgramTooLargeError{Size: len(rom)}
	}
	copy(m.mem[ProgramStart:], rom)
	m.rom = append(m.rom[:0], rom...)
	m.pc = ProgramStart
	return nil
}

// Memory exposes the raw address space to the debugger and disassembler.
func (m *Chip8) Memory() []byte {
	return m.mem[:]
}

// Registers returns a snapshot of V0..VF.
func (m *Chip8) Registers() [16]uint8 {
	return m.v
}

// PC returns the program counter.
func (m *Chip8) PC() uint16 {
	return m.pc
}

// Index returns the I register.
func (m *Chip8) Index() uint16 {
	return m.i
}

// Stack returns the active call stack frames, oldest first.
func (m *Chip8) Stack() []uint16 {
	return append([]uint16(nil), m.stack[:m.sp]...)
}

// DisplaySnapshot returns a copy of the framebuffer. Renderers should call
// this between cycles only; the machine itself is single-threaded.
func (m *Chip8) DisplaySnapshot() [DisplayHeight][DisplayWidth]bool {
	return m.display
}

// FrameCount increases every time a draw or clear changes the display, so
// renderers can skip repainting an unchanged framebuffer.
func (m *Chip8) FrameCount() uint64 {
	return m.frame
}

// SetKey records the pad key state. Safe to call from the input goroutine.
func (m *Chip8) SetKey(index int, pressed bool) {
	if index < 0 || index > 0xF {
		return
	}
	m.keysMu.Lock()
	m.keys[index] = pressed
	m.keysMu.Unlock()
}

func (m *Chip8) keyDown(index uint8) bool {
	m.keysMu.Lock()
	defer m.keysMu.Unlock()
	return m.keys[index&0xF]
}

// firstKeyDown returns the lowest-numbered pressed key, if any.
func (m *Chip8) firstKeyDown() (uint8, bool) {
	m.keysMu.Lock()
	defer m.keysMu.Unlock()
	for i, down := range m.keys {
		if down {
			return uint8(i), true
		}
	}
	return 0, false
}

// RunOp fetches, decodes and executes one instruction. The PC is advanced
// past the instruction before dispatch, so jumps and calls simply overwrite
// it. Errors leave the machine state intact apart from that PC advance.
func (m *Chip8) RunOp() error {
	if int(m.pc)+1 >= MemorySize {
		return &OutOfBoundsError{Addr: m.pc}
	}
	w := uint16(m.mem[m.pc])<<8 | uint16(m.mem[m.pc+1])
	m.pc += 2

	op, ok := Decode(w)
	if !ok {
		return &UnknownOpcodeError{Opcode: w, Addr: m.pc - 2}
	}
	return m.exec(op)
}

func (m *Chip8) exec(op Opcode) error {
	switch op.Kind {
	case OpSys: // SYS nnn - legacy machine-code call, ignored.

	case OpClear: // CLS
		m.display = [DisplayHeight][DisplayWidth]bool{}
		m.frame++

	case OpReturn: // RET
		if m.sp == 0 {
			return &StackUnderflowError{}
		}
		m.sp--
		m.pc = m.stack[m.sp]

	case OpJump: // JP nnn
		m.pc = op.NNN

	case OpCall: // CALL nnn
		if m.sp >= StackDepth {
			return &StackOverflowError{}
		}
		m.stack[m.sp] = m.pc
		m.sp++
		m.pc = op.NNN

	case OpSkipEqImm: // SE Vx, nn
		if m.v[op.X] == op.NN {
			m.pc += 2
		}

	case OpSkipNeImm: // SNE Vx, nn
		if m.v[op.X] != op.NN {
			m.pc += 2
		}

	case OpSkipEq: // SE Vx, Vy
		if m.v[op.X] == m.v[op.Y] {
			m.pc += 2
		}

	case OpLoadImm: // LD Vx, nn
		m.v[op.X] = op.NN

	case OpAddImm: // ADD Vx, nn - no carry flag.
		m.v[op.X] += op.NN

	case OpMove: // LD Vx, Vy
		m.v[op.X] = m.v[op.Y]

	case OpOr: // OR Vx, Vy
		m.v[op.X] |= m.v[op.Y]

	case OpAnd: // AND Vx, Vy
		m.v[op.X] &= m.v[op.Y]

	case OpXor: // XOR Vx, Vy
		m.v[op.X] ^= m.v[op.Y]

	case OpAdd: // ADD Vx, Vy - result lands first, then the carry flag.
		sum := uint16(m.v[op.X]) + uint16(m.v[op.Y])
		m.v[op.X] = uint8(sum)
		if sum > 0xFF {
			m.v[0xF] = 1
		} else {
			m.v[0xF] = 0
		}

	case OpSub: // SUB Vx, Vy - VF = 1 when there was no borrow.
		noBorrow := m.v[op.X] >= m.v[op.Y]
		m.v[op.X] -= m.v[op.Y]
		m.v[0xF] = flag(noBorrow)

	case OpShr: // SHR Vx - shifted-out bit lands in VF after the result.
		bit := m.v[op.X] & 0x01
		m.v[op.X] >>= 1
		m.v[0xF] = bit

	case OpSubn: // SUBN Vx, Vy - Vx = Vy - Vx, VF = 1 when no borrow.
		noBorrow := m.v[op.Y] >= m.v[op.X]
		m.v[op.X] = m.v[op.Y] - m.v[op.X]
		m.v[0xF] = flag(noBorrow)

	case OpShl: // SHL Vx
		bit := m.v[op.X] >> 7
		m.v[op.X] <<= 1
		m.v[0xF] = bit

	case OpSkipNe: // SNE Vx, Vy
		if m.v[op.X] != m.v[op.Y] {
			m.pc += 2
		}

	case OpLoadI: // LD I, nnn
		m.i = op.NNN

	case OpJumpV0: // JP V0, nnn
		m.pc = op.NNN + uint16(m.v[0])

	case OpRandom: // RND Vx, nn
		m.v[op.X] = uint8(m.rng.Intn(256)) & op.NN

	case OpDraw: // DRW Vx, Vy, n
		return m.draw(op.X, op.Y, op.N)

	case OpSkipKey: // SKP Vx
		if m.keyDown(m.v[op.X]) {
			m.pc += 2
		}

	case OpSkipNoKey: // SKNP Vx
		if !m.keyDown(m.v[op.X]) {
			m.pc += 2
		}

	case OpGetDelay: // LD Vx, DT
		m.v[op.X] = m.delay

	case OpWaitKey: // LD Vx, K - spin in place until a key is down.
		if key, ok := m.firstKeyDown(); ok {
			m.v[op.X] = key
		} else {
			m.pc -= 2
		}

	case OpSetDelay: // LD DT, Vx
		m.delay = m.v[op.X]

	case OpSetSound: // LD ST, Vx
		m.sound = m.v[op.X]

	case OpAddI: // ADD I, Vx - no flag.
		m.i += uint16(m.v[op.X])

	case OpFontChar: // LD F, Vx
		m.i = FontBase + 5*uint16(m.v[op.X]&0xF)

	case OpStoreBCD: // LD B, Vx
		if err := m.checkWrite(m.i, 3); err != nil {
			return err
		}
		value := m.v[op.X]
		m.mem[m.i+2] = value % 10
		m.mem[m.i+1] = value / 10 % 10
		m.mem[m.i] = value / 100

	case OpStoreRegs: // LD [I], Vx - stores V0..Vx, I unchanged.
		if err := m.checkWrite(m.i, uint16(op.X)+1); err != nil {
			return err
		}
		copy(m.mem[m.i:], m.v[:op.X+1])

	case OpLoadRegs: // LD Vx, [I] - loads V0..Vx, I unchanged.
		if int(m.i)+int(op.X) >= MemorySize {
			return &OutOfBoundsError{Addr: m.i}
		}
		copy(m.v[:op.X+1], m.mem[m.i:])
	}

	return nil
}

// checkWrite rejects program writes that leave memory or touch the
// interpreter area below 0x200.
func (m *Chip8) checkWrite(addr, count uint16) error {
	if addr < ProgramStart || int(addr)+int(count) > MemorySize {
		return &OutOfBoundsError{Addr: addr}
	}
	return nil
}

// draw XORs an n-row sprite read from memory at I onto the display at
// (Vx, Vy). Start coordinates wrap; sprite rows and columns that run off the
// edge are clipped. VF reports whether any set pixel was cleared.
func (m *Chip8) draw(x, y, n uint8) error {
	if int(m.i)+int(n) > MemorySize {
		return &OutOfBoundsError{Addr: m.i}
	}

	px := int(m.v[x]) % DisplayWidth
	py := int(m.v[y]) % DisplayHeight

	m.v[0xF] = 0
	for row := 0; row < int(n); row++ {
		yy := py + row
		if yy >= DisplayHeight {
			break
		}
		bits := m.mem[m.i+uint16(row)]
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			xx := px + col
			if xx >= DisplayWidth {
				break
			}
			if m.display[yy][xx] {
				m.v[0xF] = 1
			}
			m.display[yy][xx] = !m.display[yy][xx]
		}
	}
	m.frame++
	return nil
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
