package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"chip8emu/chip8"
)

// Shared by the console and the machine fault path, since os.Stdin is global.
var inputReader *bufio.Reader

// debugConsole prints the prompt and handles one command.
func debugConsole(m *chip8.Chip8) {
	fmt.Printf("%04x debug> ", m.PC())
	in, err := inputReader.ReadString('\n')
	if err != nil {
		// stdin is gone; resume rather than spin on the prompt.
		fmt.Printf("error while reading input: %v\n", err)
		m.Resume()
		return
	}

	args := strings.Split(strings.TrimSpace(in), " ")
	if cmd, ok := debugCommands[args[0]]; ok {
		cmd.Run(m, args)
	} else {
		fmt.Printf("Unknown command '%s'\n", args[0])
		fmt.Printf("Commands:\n")
		for key, dbg := range debugCommands {
			fmt.Printf("%s\t%s\n", key, dbg.Describe())
		}
	}
}

// DebugCommand captures a self-describing debug command.
type DebugCommand interface {
	Describe() string
	Run(m *chip8.Chip8, args []string)
}

type debugBlob struct {
	desc string
	f    func(*chip8.Chip8, []string)
}

var debugCommands = map[string]DebugCommand{
	"r": newCommand("Dump the (r)egisters and call stack", cmdRegs),
	"t": newCommand("Show the (t)imers", cmdTimers),
	"q": newCommand("(Q)uit the emulator", func(*chip8.Chip8, []string) { os.Exit(0) }),

	"c": newCommand("(C)ontinue execution", func(m *chip8.Chip8, s []string) {
		m.Resume()
	}),

	"s": newCommand("(S)tep forward, run next instruction", func(m *chip8.Chip8, args []string) {
		fmt.Println(m.DisasmOp(m.PC()))
		if err := m.RunOp(); err != nil {
			fmt.Printf("machine fault: %v\n", err)
		}
	}),

	"b": newCommand("Set a new (b)reakpoint at the given (hex) location",
		singleHexArg("No breakpoint location specified (needs hex number)",
			"Error parsing the location", func(m *chip8.Chip8, loc uint16) {
				m.AddBreakpoint(loc)
				fmt.Printf("Breakpoint set at PC = %04x\n", loc)
			})),

	"m": newCommand("Print a value from (m)emory",
		singleHexArg("No memory location specified", "Error parsing location",
			func(m *chip8.Chip8, loc uint16) {
				if int(loc) >= chip8.MemorySize {
					fmt.Printf("Location %04x is out of bounds\n", loc)
					return
				}
				x := m.Memory()[loc]
				fmt.Printf("[%03x] = %02x (%d)\n", loc, x, x)
			})),

	"i": newCommand("Disassemble the (i)nstructions at the given location, or at PC",
		func(m *chip8.Chip8, args []string) {
			loc := m.PC()
			if len(args) > 1 {
				if _, err := fmt.Sscanf(args[1], "%x", &loc); err != nil {
					fmt.Printf("Error parsing location: %v\n", err)
					return
				}
			}
			for i := loc; i < loc+16; i += 2 {
				fmt.Println(m.DisasmOp(i))
			}
		}),

	"reset": newCommand("Reset the machine and reload the program",
		func(m *chip8.Chip8, args []string) {
			m.Reset()
			fmt.Println("Machine reset")
		}),
}

func newCommand(desc string, f func(m *chip8.Chip8, args []string)) DebugCommand {
	d := new(debugBlob)
	d.desc = desc
	d.f = f
	return d
}

func (dbg *debugBlob) Describe() string {
	return dbg.desc
}

func (dbg *debugBlob) Run(m *chip8.Chip8, args []string) {
	dbg.f(m, args)
}

func cmdRegs(m *chip8.Chip8, args []string) {
	regs := m.Registers()
	for i, v := range regs {
		fmt.Printf("V%X %02x (%d)\n", i, v, v)
	}
	fmt.Printf("I  %04x\n", m.Index())
	fmt.Printf("PC %04x\n", m.PC())
	stack := m.Stack()
	fmt.Printf("stack (%d): % 04x\n", len(stack), stack)
	fmt.Printf("state: %s\n", m.State())
}

func cmdTimers(m *chip8.Chip8, args []string) {
	fmt.Printf("DT %02x (%d)  ST %02x (%d)  sound active: %v\n",
		m.DelayTimer(), m.DelayTimer(), m.SoundTimer(), m.SoundTimer(),
		m.SoundActive())
}

func singleHexArg(notSpecifiedMsg, parseErrorMsg string,
	cmd func(m *chip8.Chip8, arg uint16)) func(*chip8.Chip8, []string) {
	return func(m *chip8.Chip8, args []string) {
		if len(args) <= 1 {
			fmt.Println(notSpecifiedMsg)
			return
		}

		var x uint16
		_, err := fmt.Sscanf(args[1], "%x", &x)
		if err != nil {
			fmt.Printf(parseErrorMsg+": %v\n", err)
			return
		}

		cmd(m, x)
	}
}
