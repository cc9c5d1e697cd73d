// Package playback decides when the instrument re-triggers its tone and owns
// the single active tone.
package playback

import (
	"log/slog"
	"math"

	"github.com/ayusman/theremin/internal/audio"
	"github.com/ayusman/theremin/internal/log"
	"github.com/ayusman/theremin/internal/synth"
)

// Threshold is the dead band: changes of at most this much in both
// frequency (Hz) and volume do not re-trigger the tone.
const Threshold = 1.0

// Tone is a frequency and volume pair.
type Tone struct {
	Frequency float64
	Volume    float64
}

// Input carries the current smoothed values. A value whose Has flag is false
// is absent.
type Input struct {
	Frequency    float64
	Volume       float64
	HasFrequency bool
	HasVolume    bool
}

// Controller starts and stops tones on a sink. At most one tone started by a
// Controller is playing at any time. A Controller is not safe for concurrent
// use; it belongs to the control loop.
type Controller struct {
	sink     audio.Sink
	synth    *synth.Synthesizer
	duration float64

	active audio.Handle
	muted  bool
	logger *slog.Logger
}

// New creates a Controller that plays tones of the given duration in seconds.
func New(sink audio.Sink, s *synth.Synthesizer, duration float64) *Controller {
	return &Controller{
		sink:     sink,
		synth:    s,
		duration: duration,
		logger:   log.Component("playback"),
	}
}

// Tick runs one decision step. It returns the previous values to carry into
// the next tick and whether a new tone was started.
//
// Nothing happens when either value is absent, when muted, or when both
// values are within Threshold of prev. Otherwise the active tone is stopped
// and a new one is started. If the sink fails to start the tone, prev is
// returned unchanged and no tone is retained.
func (c *Controller) Tick(in Input, prev Tone) (Tone, bool) {
	if !in.HasFrequency || !in.HasVolume || c.muted {
		return prev, false
	}
	if math.Abs(in.Frequency-prev.Frequency) <= Threshold &&
		math.Abs(in.Volume-prev.Volume) <= Threshold {
		return prev, false
	}

	c.Stop()

	samples := c.synth.Synthesize(in.Frequency, c.duration, in.Volume)
	h, err := c.sink.Play(samples, c.synth.SampleRate())
	if err != nil {
		c.logger.Warn("play tone failed", "frequency", in.Frequency, "volume", in.Volume, "error", err)
		return prev, false
	}
	c.active = h

	return Tone{Frequency: in.Frequency, Volume: in.Volume}, true
}

// Stop silences the active tone, if any.
func (c *Controller) Stop() {
	if c.active == 0 {
		return
	}
	if err := c.sink.Stop(c.active); err != nil {
		c.logger.Warn("stop tone failed", "handle", c.active, "error", err)
	}
	c.active = 0
}

// SetMuted stops the active tone when muting and suppresses re-triggers
// until unmuted.
func (c *Controller) SetMuted(muted bool) {
	if muted {
		c.Stop()
	}
	c.muted = muted
}

// Muted reports whether the controller is muted.
func (c *Controller) Muted() bool {
	return c.muted
}

// Active returns the handle of the active tone, or zero when silent.
func (c *Controller) Active() audio.Handle {
	return c.active
}
