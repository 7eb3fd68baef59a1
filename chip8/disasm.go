package chip8

import (
	"fmt"
	"io"
)

// Disassembler. Formats instructions as:
// ADDR: WORD   MNEMONIC args

var mnemonics = map[OpKind]string{
	OpSys:       "SYS",
	OpClear:     "CLS",
	OpReturn:    "RET",
	OpJump:      "JP",
	OpCall:      "CALL",
	OpSkipEqImm: "SE",
	OpSkipNeImm: "SNE",
	OpSkipEq:    "SE",
	OpLoadImm:   "LD",
	OpAddImm:    "ADD",
	OpMove:      "LD",
	OpOr:        "OR",
	OpAnd:       "AND",
	OpXor:       "XOR",
	OpAdd:       "ADD",
	OpSub:       "SUB",
	OpShr:       "SHR",
	OpSubn:      "SUBN",
	OpShl:       "SHL",
	OpSkipNe:    "SNE",
	OpLoadI:     "LD",
	OpJumpV0:    "JP",
	OpRandom:    "RND",
	OpDraw:      "DRW",
	OpSkipKey:   "SKP",
	OpSkipNoKey: "SKNP",
	OpGetDelay:  "LD",
	OpWaitKey:   "LD",
	OpSetDelay:  "LD",
	OpSetSound:  "LD",
	OpAddI:      "ADD",
	OpFontChar:  "LD",
	OpStoreBCD:  "LD",
	OpStoreRegs: "LD",
	OpLoadRegs:  "LD",
}

// Format strings keyed by kind; %[1]d is X, %[2]d is Y, %[3]x is N,
// %[4]x is NN, %[5]x is NNN.
var argFormats = map[OpKind]string{
	OpSys:       "$%[5]03x",
	OpJump:      "$%[5]03x",
	OpCall:      "$%[5]03x",
	OpSkipEqImm: "V%[1]X, $%[4]02x",
	OpSkipNeImm: "V%[1]X, $%[4]02x",
	OpSkipEq:    "V%[1]X, V%[2]X",
	OpLoadImm:   "V%[1]X, $%[4]02x",
	OpAddImm:    "V%[1]X, $%[4]02x",
	OpMove:      "V%[1]X, V%[2]X",
	OpOr:        "V%[1]X, V%[2]X",
	OpAnd:       "V%[1]X, V%[2]X",
	OpXor:       "V%[1]X, V%[2]X",
	OpAdd:       "V%[1]X, V%[2]X",
	OpSub:       "V%[1]X, V%[2]X",
	OpShr:       "V%[1]X",
	OpSubn:      "V%[1]X, V%[2]X",
	OpShl:       "V%[1]X",
	OpSkipNe:    "V%[1]X, V%[2]X",
	OpLoadI:     "I, $%[5]03x",
	OpJumpV0:    "V0, $%[5]03x",
	OpRandom:    "V%[1]X, $%[4]02x",
	OpDraw:      "V%[1]X, V%[2]X, $%[3]x",
	OpSkipKey:   "V%[1]X",
	OpSkipNoKey: "V%[1]X",
	OpGetDelay:  "V%[1]X, DT",
	OpWaitKey:   "V%[1]X, K",
	OpSetDelay:  "DT, V%[1]X",
	OpSetSound:  "ST, V%[1]X",
	OpAddI:      "I, V%[1]X",
	OpFontChar:  "F, V%[1]X",
	OpStoreBCD:  "B, V%[1]X",
	OpStoreRegs: "[I], V%[1]X",
	OpLoadRegs:  "V%[1]X, [I]",
}

// DisasmOp formats the instruction word at addr. Undecodable words come out
// as raw data words.
func (m *Chip8) DisasmOp(addr uint16) string {
	if int(addr)+1 >= MemorySize {
		return fmt.Sprintf("%04x: ????", addr)
	}
	w := uint16(m.mem[addr])<<8 | uint16(m.mem[addr+1])

	op, ok := Decode(w)
	if !ok {
		return fmt.Sprintf("%04x: %04x   .dw $%04x", addr, w, w)
	}

	mnemonic := mnemonics[op.Kind]
	if f, hasArgs := argFormats[op.Kind]; hasArgs {
		args := fmt.Sprintf(f, op.X, op.Y, op.N, op.NN, op.NNN)
		return fmt.Sprintf("%04x: %04x   %s %s", addr, w, mnemonic, args)
	}
	return fmt.Sprintf("%04x: %04x   %s", addr, w, mnemonic)
}

// Disassemble dumps the loaded program to w, one instruction per line.
func (m *Chip8) Disassemble(w io.Writer) {
	end := ProgramStart + len(m.rom)
	for addr := ProgramStart; addr < end; addr += 2 {
		fmt.Fprintln(w, m.DisasmOp(uint16(addr)))
	}
}
