package main

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"chip8emu/chip8"
)

const scaleFactor = 8

// Display renders the machine's framebuffer into an SDL window through a
// streaming texture, one texture pixel per CHIP-8 pixel.
type Display struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	painted   bool
	lastFrame uint64
}

// NewDisplay opens the window. SDL wants all video calls on one OS thread,
// so the driver goroutine gets latched to it.
func NewDisplay() (*Display, error) {
	runtime.LockOSThread()
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("failed to init SDL video: %w", err)
	}

	window, err := sdl.CreateWindow("chip8emu", sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED, chip8.DisplayWidth*scaleFactor,
		chip8.DisplayHeight*scaleFactor, sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING, chip8.DisplayWidth, chip8.DisplayHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to create texture: %w", err)
	}

	return &Display{window: window, renderer: renderer, texture: texture}, nil
}

func (disp *Display) Tick(m *chip8.Chip8) error {
	if disp.painted && m.FrameCount() == disp.lastFrame {
		return nil
	}

	pixels, pitch, err := disp.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("error locking texture: %w", err)
	}
	if pitch != chip8.DisplayWidth*4 {
		return fmt.Errorf("unexpected pitch: %d", pitch)
	}

	snap := m.DisplaySnapshot()
	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			var lum byte
			if snap[y][x] {
				lum = 0xff
			}
			paint(pixels, x, y, lum)
		}
	}

	// Fully painted, now flip the texture onto the display.
	disp.texture.Unlock()
	if err := disp.renderer.Clear(); err != nil {
		return fmt.Errorf("failed to clear renderer: %w", err)
	}
	err = disp.renderer.Copy(disp.texture,
		&sdl.Rect{X: 0, Y: 0, W: chip8.DisplayWidth, H: chip8.DisplayHeight},
		&sdl.Rect{X: 0, Y: 0, W: chip8.DisplayWidth * scaleFactor,
			H: chip8.DisplayHeight * scaleFactor})
	if err != nil {
		return fmt.Errorf("failed to copy texture: %w", err)
	}
	disp.renderer.Present()

	disp.painted = true
	disp.lastFrame = m.FrameCount()
	return nil
}

// paint writes one greyscale ARGB8888 pixel into the locked texture.
func paint(pixels []byte, x, y int, lum byte) {
	offset := chip8.DisplayWidth*4*y + 4*x
	pixels[offset] = lum
	pixels[offset+1] = lum
	pixels[offset+2] = lum
	pixels[offset+3] = 0xff
}

func (disp *Display) Cleanup() {
	disp.texture.Destroy()
	disp.renderer.Destroy()
	disp.window.Destroy()
}
