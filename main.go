package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/retroenv/retrogolib/log"

	"chip8emu/chip8"
)

func main() {
	deviceList := flag.String("hw", "display,keyboard,beeper",
		"List of front-end devices. See -dump-hw for a list of devices.")
	dumpDevices := flag.Bool("dump-hw", false,
		"Dump a list of front-end devices and exit.")
	debug := flag.Bool("debug", false,
		"Start paused with the debug controls enabled.")
	speed := flag.Int("speed", 700, "Instruction execution rate in instructions per second.")
	disassemble := flag.Bool("disassemble", false, "Disassemble the ROM to stdout and exit.")
	script := flag.String("script", "", "Debug command script to run at startup.")

	flag.Parse()

	logger := newLogger(*debug)

	if *dumpDevices {
		dumpDeviceList()
		return
	}

	romFile := flag.Arg(0)
	if romFile == "" {
		fmt.Printf("Usage: %s [options] <ROM file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	rom, err := os.ReadFile(romFile)
	if err != nil {
		logger.Error("Failed to read ROM file", log.Err(err))
		os.Exit(1)
	}

	m := chip8.New(*debug)
	if err := m.LoadProgram(rom); err != nil {
		logger.Error("Failed to load program", log.Err(err))
		os.Exit(1)
	}
	logger.Debug("Loaded ROM", log.String("file", romFile), log.Int("bytes", len(rom)))

	if *disassemble {
		m.Disassemble(os.Stdout)
		return
	}

	h := &host{
		m:      m,
		logger: logger,
		// Launching in debug mode drops straight into the console.
		console: *debug,
	}

	for _, name := range strings.Split(*deviceList, ",") {
		dt, ok := deviceTypes[name]
		if !ok {
			fmt.Printf("Unknown device: %s\n", name)
			dumpDeviceList()
			os.Exit(1)
		}
		dev, err := dt(h)
		if err != nil {
			logger.Error("Failed to initialise device",
				log.String("device", name), log.Err(err))
			os.Exit(1)
		}
		h.devices = append(h.devices, dev)
	}

	inputReader = bufio.NewReader(os.Stdin)

	if *script != "" {
		if err := RunScript(m, *script); err != nil {
			logger.Error("Script failed", log.Err(err))
			os.Exit(1)
		}
	}

	h.run(*speed)
}

func newLogger(debug bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	}
	return log.NewWithConfig(cfg)
}

// host owns the driver loop: it ticks the front-end devices, runs the
// machine under the debug controller's gate and advances the timers at 60Hz.
type host struct {
	m       *chip8.Chip8
	devices []Device
	logger  *log.Logger

	// console requests the stdin debug console next time the machine is
	// held. Set at launch in debug mode, on faults and on breakpoints.
	console bool
}

const framesPerSecond = 60

func (h *host) run(speed int) {
	perFrame := speed / framesPerSecond
	if perFrame < 1 {
		perFrame = 1
	}

	ticker := time.NewTicker(time.Second / framesPerSecond)
	defer ticker.Stop()
	defer h.cleanup()

	for range ticker.C {
		for _, d := range h.devices {
			if err := d.Tick(h.m); err != nil {
				h.logger.Error("Device fault", log.Err(err))
				return
			}
		}

		for i := 0; i < perFrame; i++ {
			if h.m.State() == chip8.Running && h.m.AtBreakpoint() {
				fmt.Printf("Hit breakpoint at PC = %04x\n", h.m.PC())
				h.m.Pause()
				h.console = true
			}
			if !h.m.ShouldRun() {
				break
			}
			if err := h.m.RunOp(); err != nil {
				h.logger.Error("Machine fault", log.Err(err))
				h.m.Pause()
				h.console = true
				break
			}
		}

		h.m.TickTimers()

		// The console blocks the frame loop on stdin; front ends freeze
		// until execution resumes. Resuming ('c') leaves the console.
		for h.console && h.m.State() != chip8.Running {
			debugConsole(h.m)
		}
		if h.m.State() == chip8.Running {
			h.console = false
		}
	}
}

func (h *host) cleanup() {
	for _, d := range h.devices {
		d.Cleanup()
	}
}
