package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog/log"
)

const sampleRate = beep.SampleRate(44100)

// Sound plays short tones. A Sound that failed to start stays silent.
type Sound struct {
	ready bool
}

// NewSound opens the speaker. Audio is optional, so a failure is logged and
// the returned Sound is silent.
func NewSound(enabled bool) *Sound {
	s := &Sound{}
	if !enabled {
		return s
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Warn().Err(err).Msg("audio init failed, continuing without sound")
		return s
	}
	s.ready = true
	return s
}

func (s *Sound) tone(freq float64, d time.Duration) {
	if s == nil || !s.ready {
		return
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		log.Debug().Err(err).Float64("freq", freq).Msg("tone")
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

// Fire is the laser blip
func (s *Sound) Fire() { s.tone(880, 40*time.Millisecond) }

// Hit is played once per destroyed rock
func (s *Sound) Hit() { s.tone(330, 80*time.Millisecond) }

// Crash is the game over thud
func (s *Sound) Crash() { s.tone(110, 400*time.Millisecond) }

// Close releases the speaker
func (s *Sound) Close() {
	if s != nil && s.ready {
		speaker.Close()
		s.ready = false
	}
}
