package main

import (
	"fmt"

	"chip8emu/chip8"
)

// Device is the interface to the front-end hardware: video, input and sound.
// Tick is called once per frame on the driver thread.
type Device interface {
	Tick(m *chip8.Chip8) error
	Cleanup()
}

var deviceTypes = map[string]func(h *host) (Device, error){
	"display":  func(h *host) (Device, error) { return NewDisplay() },
	"keyboard": func(h *host) (Device, error) { return NewKeypad(h), nil },
	"beeper":   func(h *host) (Device, error) { return NewBeeper() },
	"console":  func(h *host) (Device, error) { return NewConsole(h.m) },
}

var deviceDescriptions = map[string]string{
	"display":  "SDL window rendering the 64x32 framebuffer",
	"keyboard": "SDL keyboard mapped onto the 16-key pad",
	"beeper":   "SDL audio square-wave beeper",
	"console":  "Terminal front end, replaces the SDL devices (-hw console)",
}

func dumpDeviceList() {
	for name, desc := range deviceDescriptions {
		fmt.Printf("%-20s %s\n", name, desc)
	}
}
