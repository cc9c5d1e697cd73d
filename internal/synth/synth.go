// Package synth generates the faded sine tones played by the instrument.
package synth

import (
	"math"
)

// Default synthesis parameters.
const (
	DefaultSampleRate   = 44100
	DefaultAmplitude    = 4096
	DefaultFadeDuration = 0.1 // seconds
	DefaultDuration     = 1.0 // seconds

	// Channels is the number of interleaved output channels.
	Channels = 2
)

// Config holds the synthesis parameters.
type Config struct {
	SampleRate   int
	Amplitude    float64
	FadeDuration float64
}

// DefaultConfig returns the parameters used by the instrument.
func DefaultConfig() Config {
	return Config{
		SampleRate:   DefaultSampleRate,
		Amplitude:    DefaultAmplitude,
		FadeDuration: DefaultFadeDuration,
	}
}

// Synthesizer renders tones with a fixed Config.
type Synthesizer struct {
	cfg Config
}

// New creates a Synthesizer. Zero fields in cfg take their defaults.
func New(cfg Config) *Synthesizer {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Amplitude <= 0 {
		cfg.Amplitude = DefaultAmplitude
	}
	if cfg.FadeDuration < 0 {
		cfg.FadeDuration = 0
	}
	return &Synthesizer{cfg: cfg}
}

// Config returns the synthesizer's parameters.
func (s *Synthesizer) Config() Config {
	return s.cfg
}

// SampleRate returns the output sample rate in Hz.
func (s *Synthesizer) SampleRate() int {
	return s.cfg.SampleRate
}

// Frames returns the number of sample frames in a tone of the given duration.
func (s *Synthesizer) Frames(duration float64) int {
	if duration <= 0 {
		return 0
	}
	return int(math.Round(float64(s.cfg.SampleRate) * duration))
}

// Mono renders the tone as a single channel of float samples in the int16
// range. The envelope ramps linearly from zero over the fade length at both
// ends; the fade is shortened to half the tone when the tone is too short.
func (s *Synthesizer) Mono(frequency, duration, volume float64) []float64 {
	total := s.Frames(duration)
	raw := make([]float64, total)
	if total == 0 {
		return raw
	}

	fadeLen := int(math.Round(float64(s.cfg.SampleRate) * s.cfg.FadeDuration))
	if fadeLen > total/2 {
		fadeLen = total / 2
	}

	peak := s.cfg.Amplitude * volume / 100
	sr := float64(s.cfg.SampleRate)

	for i := range raw {
		t := float64(i) / sr
		v := peak * math.Sin(2*math.Pi*frequency*t)

		env := 1.0
		if i < fadeLen {
			env = float64(i) / float64(fadeLen)
		} else if i >= total-fadeLen {
			env = float64(total-1-i) / float64(fadeLen)
		}
		raw[i] = v * env
	}
	return raw
}

// Synthesize renders the tone as interleaved stereo int16 with both channels
// identical.
func (s *Synthesizer) Synthesize(frequency, duration, volume float64) []int16 {
	mono := s.Mono(frequency, duration, volume)
	out := make([]int16, len(mono)*Channels)
	for i, v := range mono {
		sample := toInt16(v)
		out[i*Channels] = sample
		out[i*Channels+1] = sample
	}
	return out
}

func toInt16(v float64) int16 {
	v = math.Round(v)
	switch {
	case math.IsNaN(v):
		return 0
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
