package chip8

// TickTimers decrements the delay and sound counters, clamped at zero. The
// host calls this at 60Hz regardless of how many instructions run per frame.
func (m *Chip8) TickTimers() {
	if m.delay > 0 {
		m.delay--
	}
	if m.sound > 0 {
		m.sound--
	}
}

// DelayTimer returns the delay counter.
func (m *Chip8) DelayTimer() uint8 {
	return m.delay
}

// SoundTimer returns the sound counter.
func (m *Chip8) SoundTimer() uint8 {
	return m.sound
}

// SoundActive reports whether the beeper should be on. This boolean is the
// only signal the audio front end consumes.
func (m *Chip8) SoundActive() bool {
	return m.sound > 0
}
