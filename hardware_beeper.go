package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"chip8emu/chip8"
)

const (
	sampleRate = 44100
	toneHz     = 440

	// Keep roughly two frames of audio queued while the tone plays; less
	// underruns, more lags behind the sound timer.
	queueTarget = 2 * sampleRate / framesPerSecond
)

// Beeper plays a square wave through SDL's queueing audio API while the
// machine's sound timer is nonzero.
type Beeper struct {
	id      sdl.AudioDeviceID
	wave    []byte
	playing bool
}

func NewBeeper() (*Beeper, error) {
	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("failed to init SDL audio: %w", err)
	}

	spec := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}
	var obtained sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, spec, &obtained, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}

	// One frame of square wave; requeued for as long as the tone lasts.
	wave := make([]byte, sampleRate/framesPerSecond)
	period := sampleRate / toneHz
	for i := range wave {
		if i%period < period/2 {
			wave[i] = 0xC0
		} else {
			wave[i] = 0x40
		}
	}

	return &Beeper{id: id, wave: wave}, nil
}

func (b *Beeper) Tick(m *chip8.Chip8) error {
	if m.SoundActive() {
		if sdl.GetQueuedAudioSize(b.id) < queueTarget {
			if err := sdl.QueueAudio(b.id, b.wave); err != nil {
				return fmt.Errorf("failed to queue audio: %w", err)
			}
		}
		if !b.playing {
			sdl.PauseAudioDevice(b.id, false)
			b.playing = true
		}
	} else if b.playing {
		sdl.PauseAudioDevice(b.id, true)
		sdl.ClearQueuedAudio(b.id)
		b.playing = false
	}
	return nil
}

func (b *Beeper) Cleanup() {
	sdl.CloseAudioDevice(b.id)
}
