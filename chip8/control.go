package chip8

// RunState is the debug controller state that gates instruction execution.
type RunState int

const (
	// Running executes freely.
	Running RunState = iota
	// Paused holds execution until unpaused.
	Paused
	// Stepping holds execution except for explicitly requested single steps.
	Stepping
)

func (s RunState) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stepping:
		return "stepping"
	}
	return "unknown"
}

// State returns the current controller state.
func (m *Chip8) State() RunState {
	return m.state
}

// DebugMode reports whether the pause/step controls are live.
func (m *Chip8) DebugMode() bool {
	return m.debugMode
}

// ShouldRun reports whether the next RunOp is permitted. In Stepping it
// consumes a pending single-step request, so each SingleStep releases
// exactly one instruction.
func (m *Chip8) ShouldRun() bool {
	switch m.state {
	case Running:
		return true
	case Stepping:
		if m.stepPending {
			m.stepPending = false
			return true
		}
	}
	return false
}

// TogglePause flips between Running and Paused. Inert outside debug mode and
// in Stepping.
func (m *Chip8) TogglePause() {
	if !m.debugMode {
		return
	}
	switch m.state {
	case Running:
		m.state = Paused
	case Paused:
		m.state = Running
	}
}

// ToggleStepMode enters or leaves Stepping. Entering holds execution until
// SingleStep requests arrive; leaving returns to Paused so the machine stays
// held until explicitly resumed.
func (m *Chip8) ToggleStepMode() {
	if !m.debugMode {
		return
	}
	if m.state == Stepping {
		m.state = Paused
	} else {
		m.state = Stepping
	}
	m.stepPending = false
}

// SingleStep releases one instruction. Only meaningful in Stepping.
func (m *Chip8) SingleStep() {
	if m.state == Stepping {
		m.stepPending = true
	}
}

// Pause holds execution unconditionally. The host uses this when a core
// error or breakpoint needs the machine stopped regardless of debug mode.
func (m *Chip8) Pause() {
	m.state = Paused
}

// Resume returns to free running from any state.
func (m *Chip8) Resume() {
	m.state = Running
	m.stepPending = false
}

// Reset restores the post-load machine state: memory above the interpreter
// area is cleared and the retained ROM image reinstalled, registers, stack,
// display and timers are zeroed, and the controller returns to its startup
// state. Breakpoints and the pad state belong to the host and survive.
func (m *Chip8) Reset() {
	for i := ProgramStart; i < MemorySize; i++ {
		m.mem[i] = 0
	}
	copy(m.mem[ProgramStart:], m.rom)

	m.v = [16]uint8{}
	m.i = 0
	m.pc = ProgramStart
	m.stack = [StackDepth]uint16{}
	m.sp = 0
	m.delay = 0
	m.sound = 0
	m.display = [DisplayHeight][DisplayWidth]bool{}
	m.frame++
	m.state = initialState(m.debugMode)
	m.stepPending = false
}

// AddBreakpoint registers a PC the host loop should pause at.
func (m *Chip8) AddBreakpoint(addr uint16) {
	m.breakpoints = append(m.breakpoints, addr)
}

// AtBreakpoint reports whether the PC sits on a registered breakpoint.
func (m *Chip8) AtBreakpoint() bool {
	for _, bp := range m.breakpoints {
		if bp == m.pc {
			return true
		}
	}
	return false
}
