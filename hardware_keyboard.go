package main

import (
	"fmt"
	"os"

	"github.com/veandco/go-sdl2/sdl"

	"chip8emu/chip8"
)

// Keypad polls SDL events and feeds the 16-key pad plus the debug function
// keys. The classic layout maps the 4x4 hex pad onto the left of a QWERTY
// keyboard:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
type Keypad struct {
	h *host
}

var keypadCodes = map[sdl.Keycode]int{
	sdl.K_1: 0x1, sdl.K_2: 0x2, sdl.K_3: 0x3, sdl.K_4: 0xC,
	sdl.K_q: 0x4, sdl.K_w: 0x5, sdl.K_e: 0x6, sdl.K_r: 0xD,
	sdl.K_a: 0x7, sdl.K_s: 0x8, sdl.K_d: 0x9, sdl.K_f: 0xE,
	sdl.K_z: 0xA, sdl.K_x: 0x0, sdl.K_c: 0xB, sdl.K_v: 0xF,
}

func NewKeypad(h *host) *Keypad {
	return &Keypad{h: h}
}

func (k *Keypad) Tick(m *chip8.Chip8) error {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.QuitEvent:
			k.h.cleanup()
			os.Exit(0)
		case *sdl.KeyboardEvent:
			pressed := t.Type == sdl.KEYDOWN
			if key, ok := keypadCodes[t.Keysym.Sym]; ok {
				m.SetKey(key, pressed)
				continue
			}
			if pressed && t.Repeat == 0 {
				k.fKey(m, t.Keysym.Sym)
			}
		}
	}
	return nil
}

// fKey handles the emulator control keys. Everything except reset and quit
// is inert without -debug.
func (k *Keypad) fKey(m *chip8.Chip8, sym sdl.Keycode) {
	switch sym {
	case sdl.K_F1:
		fmt.Println("=== Emulator keys ===")
		fmt.Println("F1\tShow this help")
		fmt.Println("F2\tPause/resume (debug mode)")
		fmt.Println("F3\tEnter/leave step mode (debug mode)")
		fmt.Println("F4\tRun a single instruction (step mode)")
		fmt.Println("F5\tReset the machine")
		fmt.Println("F6\tOpen the debug console (debug mode)")
		fmt.Println("Esc\tQuit")

	case sdl.K_F2:
		m.TogglePause()

	case sdl.K_F3:
		m.ToggleStepMode()

	case sdl.K_F4:
		m.SingleStep()

	case sdl.K_F5:
		m.Reset()
		fmt.Println("Machine reset")

	case sdl.K_F6:
		if m.DebugMode() {
			m.Pause()
			k.h.console = true
		}

	case sdl.K_ESCAPE:
		k.h.cleanup()
		os.Exit(0)
	}
}

func (k *Keypad) Cleanup() {}
