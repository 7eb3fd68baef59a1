package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jroimartin/gocui"

	"chip8emu/chip8"
)

// keyReleaseDelay fakes key-up events: terminals only report presses, so a
// pressed pad key auto-releases after this long.
const keyReleaseDelay = 120 * time.Millisecond

// Console is a terminal front end: the framebuffer drawn with block
// characters, a register line, and the same pad/debug keys as the SDL
// keyboard. It replaces the SDL devices (-hw console).
type Console struct {
	g *gocui.Gui
	m *chip8.Chip8

	painted   bool
	lastFrame uint64
	ticks     int
}

// Same pad layout as the SDL keypad.
var consolePadKeys = map[rune]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

func NewConsole(m *chip8.Chip8) (*Console, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal gui: %w", err)
	}

	c := &Console{g: g, m: m}
	g.SetManagerFunc(c.layout)

	if err := c.keybindings(); err != nil {
		g.Close()
		return nil, err
	}

	// gocui owns the terminal event loop; the driver loop stays in charge
	// of execution and pushes view updates through Execute.
	go func() {
		if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
			fmt.Fprintf(os.Stderr, "terminal gui failed: %v\n", err)
		}
		g.Close()
		os.Exit(0)
	}()

	return c, nil
}

func (c *Console) keybindings() error {
	if err := c.g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quitConsole); err != nil {
		return err
	}

	for key, pad := range consolePadKeys {
		pad := pad
		err := c.g.SetKeybinding("", key, gocui.ModNone,
			func(g *gocui.Gui, v *gocui.View) error {
				c.m.SetKey(pad, true)
				time.AfterFunc(keyReleaseDelay, func() {
					c.m.SetKey(pad, false)
				})
				return nil
			})
		if err != nil {
			return err
		}
	}

	controls := map[gocui.Key]func(){
		gocui.KeyF2: c.m.TogglePause,
		gocui.KeyF3: c.m.ToggleStepMode,
		gocui.KeyF4: c.m.SingleStep,
		gocui.KeyF5: c.m.Reset,
	}
	for key, action := range controls {
		action := action
		err := c.g.SetKeybinding("", key, gocui.ModNone,
			func(g *gocui.Gui, v *gocui.View) error {
				action()
				return nil
			})
		if err != nil {
			return err
		}
	}
	return nil
}

func quitConsole(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

func (c *Console) layout(g *gocui.Gui) error {
	if v, err := g.SetView("display", 0, 0, chip8.DisplayWidth+1,
		chip8.DisplayHeight+1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "chip8emu"
	}

	if v, err := g.SetView("registers", 0, chip8.DisplayHeight+2,
		chip8.DisplayWidth+1, chip8.DisplayHeight+6); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Registers"
	}

	return nil
}

func (c *Console) Tick(m *chip8.Chip8) error {
	c.ticks++

	if !c.painted || m.FrameCount() != c.lastFrame {
		snap := m.DisplaySnapshot()
		c.g.Execute(func(g *gocui.Gui) error {
			v, err := g.View("display")
			if err != nil {
				return nil // Layout not ready yet.
			}
			v.Clear()
			var row strings.Builder
			for y := 0; y < chip8.DisplayHeight; y++ {
				row.Reset()
				for x := 0; x < chip8.DisplayWidth; x++ {
					if snap[y][x] {
						row.WriteRune('█')
					} else {
						row.WriteRune(' ')
					}
				}
				fmt.Fprintln(v, row.String())
			}
			return nil
		})
		c.painted = true
		c.lastFrame = m.FrameCount()
	}

	// The register view refreshes at 10Hz, that is plenty for eyeballs.
	if c.ticks%6 == 0 {
		regs := m.Registers()
		pc, i := m.PC(), m.Index()
		dt, st := m.DelayTimer(), m.SoundTimer()
		state := m.State()
		c.g.Execute(func(g *gocui.Gui) error {
			v, err := g.View("registers")
			if err != nil {
				return nil
			}
			v.Clear()
			fmt.Fprintf(v, "V  % 02X\n", regs)
			fmt.Fprintf(v, "PC %04x  I %04x  DT %02x  ST %02x  [%s]\n",
				pc, i, dt, st, state)
			fmt.Fprintf(v, "keys: 1-4/qwer/asdf/zxcv  F2 pause F3 step mode F4 step F5 reset ^C quit\n")
			return nil
		})
	}

	return nil
}

func (c *Console) Cleanup() {}
