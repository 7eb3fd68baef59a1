package main

import (
	"fmt"
	"os"
	"strings"

	"chip8emu/chip8"
)

// RunScript executes a newline-separated list of debug console commands
// before the driver loop starts. Useful for setting up breakpoints or
// poking memory without typing them in every run.
func RunScript(m *chip8.Chip8, file string) error {
	contents, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	for _, line := range strings.Split(string(contents), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		args := strings.Split(line, " ")
		cmd, ok := debugCommands[args[0]]
		if !ok {
			return fmt.Errorf("unknown script command %q", args[0])
		}
		cmd.Run(m, args)
	}
	return nil
}
