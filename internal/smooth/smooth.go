// Package smooth provides a rate-limited exponential moving average.
package smooth

import "math"

// Default parameters.
const (
	DefaultSmoothingFactor = 0.2
	DefaultChangeLimit     = 5.0
)

// Smoother applies an exponential moving average whose output may not move by
// more than ChangeLimit per update. The first value seeds the state and is
// returned unchanged.
//
// SmoothingFactor and ChangeLimit may be changed between calls; the new values
// apply from the next call on. A Smoother is not safe for concurrent use.
type Smoother struct {
	SmoothingFactor float64
	ChangeLimit     float64

	prev   float64
	seeded bool
}

// New creates a Smoother with the given parameters.
func New(smoothingFactor, changeLimit float64) *Smoother {
	return &Smoother{
		SmoothingFactor: smoothingFactor,
		ChangeLimit:     changeLimit,
	}
}

// NewDefault creates a Smoother with DefaultSmoothingFactor and DefaultChangeLimit.
func NewDefault() *Smoother {
	return New(DefaultSmoothingFactor, DefaultChangeLimit)
}

// Smooth feeds value into the smoother and returns the new output.
func (s *Smoother) Smooth(value float64) float64 {
	if !s.seeded {
		s.prev = value
		s.seeded = true
		return value
	}

	a := s.SmoothingFactor
	raw := s.prev*(1-a) + value*a
	limit := math.Abs(s.ChangeLimit)
	out := math.Max(s.prev-limit, math.Min(raw, s.prev+limit))

	s.prev = out
	return out
}
