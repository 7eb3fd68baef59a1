package chip8

// OpKind identifies one instruction of the CHIP-8 table.
type OpKind int

const (
	OpSys OpKind = iota // 0NNN (ignored)
	OpClear             // 00E0
	OpReturn            // 00EE
	OpJump              // 1NNN
	OpCall              // 2NNN
	OpSkipEqImm         // 3XNN
	OpSkipNeImm         // 4XNN
	OpSkipEq            // 5XY0
	OpLoadImm           // 6XNN
	OpAddImm            // 7XNN
	OpMove              // 8XY0
	OpOr                // 8XY1
	OpAnd               // 8XY2
	OpXor               // 8XY3
	OpAdd               // 8XY4
	OpSub               // 8XY5
	OpShr               // 8XY6
	OpSubn              // 8XY7
	OpShl               // 8XYE
	OpSkipNe            // 9XY0
	OpLoadI             // ANNN
	OpJumpV0            // BNNN
	OpRandom            // CXNN
	OpDraw              // DXYN
	OpSkipKey           // EX9E
	OpSkipNoKey         // EXA1
	OpGetDelay          // FX07
	OpWaitKey           // FX0A
	OpSetDelay          // FX15
	OpSetSound          // FX18
	OpAddI              // FX1E
	OpFontChar          // FX29
	OpStoreBCD          // FX33
	OpStoreRegs         // FX55
	OpLoadRegs          // FX65
)

// Opcode is a decoded instruction word. All operand fields are populated by
// fixed bit-field extraction; which ones are meaningful depends on Kind.
type Opcode struct {
	Kind OpKind
	X    uint8  // second nibble, register index
	Y    uint8  // third nibble, register index
	N    uint8  // low nibble
	NN   uint8  // low byte
	NNN  uint16 // low 12 bits
}

// Decode splits a 16-bit instruction word into its opcode kind and operand
// fields. Words that match no table entry report ok false.
func Decode(w uint16) (Opcode, bool) {
	op := Opcode{
		X:   uint8(w >> 8 & 0xF),
		Y:   uint8(w >> 4 & 0xF),
		N:   uint8(w & 0xF),
		NN:  uint8(w & 0xFF),
		NNN: w & 0x0FFF,
	}

	switch w >> 12 {
	case 0x0:
		switch w & 0x0FFF {
		case 0x0E0:
			op.Kind = OpClear
		case 0x0EE:
			op.Kind = OpReturn
		default:
			op.Kind = OpSys
		}
	case 0x1:
		op.Kind = OpJump
	case 0x2:
		op.Kind = OpCall
	case 0x3:
		op.Kind = OpSkipEqImm
	case 0x4:
		op.Kind = OpSkipNeImm
	case 0x5:
		if op.N != 0 {
			return op, false
		}
		op.Kind = OpSkipEq
	case 0x6:
		op.Kind = OpLoadImm
	case 0x7:
		op.Kind = OpAddImm
	case 0x8:
		switch op.N {
		case 0x0:
			op.Kind = OpMove
		case 0x1:
			op.Kind = OpOr
		case 0x2:
			op.Kind = OpAnd
		case 0x3:
			op.Kind = OpXor
		case 0x4:
			op.Kind = OpAdd
		case 0x5:
			op.Kind = OpSub
		case 0x6:
			op.Kind = OpShr
		case 0x7:
			op.Kind = OpSubn
		case 0xE:
			op.Kind = OpShl
		default:
			return op, false
		}
	case 0x9:
		if op.N != 0 {
			return op, false
		}
		op.Kind = OpSkipNe
	case 0xA:
		op.Kind = OpLoadI
	case 0xB:
		op.Kind = OpJumpV0
	case 0xC:
		op.Kind = OpRandom
	case 0xD:
		op.Kind = OpDraw
	case 0xE:
		switch op.NN {
		case 0x9E:
			op.Kind = OpSkipKey
		case 0xA1:
			op.Kind = OpSkipNoKey
		default:
			return op, false
		}
	case 0xF:
		switch op.NN {
		case 0x07:
			op.Kind = OpGetDelay
		case 0x0A:
			op.Kind = OpWaitKey
		case 0x15:
			op.Kind = OpSetDelay
		case 0x18:
			op.Kind = OpSetSound
		case 0x1E:
			op.Kind = OpAddI
		case 0x29:
			op.Kind = OpFontChar
		case 0x33:
			op.Kind = OpStoreBCD
		case 0x55:
			op.Kind = OpStoreRegs
		case 0x65:
			op.Kind = OpLoadRegs
		default:
			return op, false
		}
	}

	return op, true
}
