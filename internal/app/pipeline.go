package app

import (
	"context"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/theremin/internal/capture"
	"github.com/ayusman/theremin/internal/hand"
	"github.com/ayusman/theremin/internal/playback"
	"github.com/ayusman/theremin/internal/tuner"
	"github.com/ayusman/theremin/internal/ui"
)

// TickResult describes what one tick did.
type TickResult struct {
	Hands     hand.FrameSet
	Triggered bool
}

// Run ticks at the configured frame rate until ctx is cancelled or a quit
// command arrives. The active tone is stopped on return.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()
	defer s.controller.Stop()

	for {
		if s.quit {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one pass of the control loop:
//  1. apply pending commands
//  2. read and mirror a frame
//  3. detect hands (skipped by the motion gate while nothing moves)
//  4. map Right.y to frequency and Left.y to volume and smooth both
//  5. let the playback controller decide whether to re-trigger
//  6. on a trigger, push frame, tuner and frame rate to the UI
//
// Shutdown, by a quit command or by cancelling ctx, is checked before the
// frame is read and again before the UI push.
func (s *Session) Tick(ctx context.Context) TickResult {
	var res TickResult

	s.applyCommands()
	if s.stopping(ctx) {
		return res
	}

	frame := s.readFrame()
	if frame != nil {
		defer frame.Close()
	}
	res.Hands = s.detect(frame)

	s.showHands(res.Hands)
	in := s.smooth(res.Hands)

	next, triggered := s.controller.Tick(in, s.state.Previous)
	s.state.Previous = next
	res.Triggered = triggered

	if s.stopping(ctx) {
		return res
	}

	var reading tuner.Reading
	if triggered {
		reading = tuner.Read(next.Frequency)
		s.onTrigger(frame, next, reading)
	}
	s.publish(triggered, reading)

	return res
}

func (s *Session) stopping(ctx context.Context) bool {
	return s.quit || ctx.Err() != nil
}

func (s *Session) applyCommands() {
	if s.cfg.Commands == nil {
		return
	}
	for {
		select {
		case cmd, ok := <-s.cfg.Commands:
			if !ok {
				return
			}
			s.apply(cmd.Clamped())
		default:
			return
		}
	}
}

func (s *Session) apply(cmd ui.Command) {
	switch cmd.Type {
	case ui.CommandSetSmoothing:
		s.freq.SmoothingFactor = cmd.Value
		s.vol.SmoothingFactor = cmd.Value
	case ui.CommandSetChangeLimit:
		s.freq.ChangeLimit = cmd.Value
		s.vol.ChangeLimit = cmd.Value
	case ui.CommandMute:
		s.setMuted(true)
	case ui.CommandUnmute:
		s.setMuted(false)
	case ui.CommandToggleMute:
		s.setMuted(!s.controller.Muted())
	case ui.CommandQuit:
		s.quit = true
	default:
		s.logger.Warn("ignoring unknown command", "type", cmd.Type)
		return
	}
	s.logger.Debug("command applied", "type", cmd.Type, "value", cmd.Value)

	s.mu.Lock()
	s.status.SmoothingFactor = s.freq.SmoothingFactor
	s.status.ChangeLimit = s.freq.ChangeLimit
	s.status.Muted = s.controller.Muted()
	s.mu.Unlock()
}

// setMuted applies the mute state and echoes it to every sink, so surfaces
// that did not send the command stay in step.
func (s *Session) setMuted(muted bool) {
	s.controller.SetMuted(muted)
	s.ui.SetText(ui.LabelMute, ui.FormatMute(muted))
}

func (s *Session) readFrame() *gocv.Mat {
	frame, err := s.cfg.Camera.ReadFrame()
	if err != nil {
		s.logger.Debug("frame read failed", "error", err)
		return nil
	}
	capture.FlipHorizontal(frame)
	return frame
}

func (s *Session) detect(frame *gocv.Mat) hand.FrameSet {
	if frame == nil || !s.gate.Allow(frame) {
		return hand.FrameSet{}
	}

	hands, err := s.cfg.Detector.Detect(frame)
	if err != nil {
		s.logger.Debug("hand detection failed", "error", err)
		hands = nil
	}

	set := hand.FromDetections(hands, frame.Cols(), frame.Rows())
	s.gate.Observe(len(set) > 0)
	return set
}

func (s *Session) showHands(set hand.FrameSet) {
	if r, ok := set[hand.Right]; ok {
		s.ui.SetText(ui.LabelRightHand, ui.FormatHand(string(hand.Right), r.X, r.Y))
	}
	if l, ok := set[hand.Left]; ok {
		s.ui.SetText(ui.LabelLeftHand, ui.FormatHand(string(hand.Left), l.X, l.Y))
	}
}

// smooth feeds the mapped values through the smoothers. Without a left hand
// the volume smoother is fed the previous volume so the level drifts toward
// it instead of dropping to zero.
func (s *Session) smooth(set hand.FrameSet) playback.Input {
	in := playback.Input{HasVolume: true}

	if r, ok := set[hand.Right]; ok {
		in.Frequency = s.freq.Smooth(s.cfg.Mapper.Frequency(r.Y))
		in.HasFrequency = true
		s.ui.SetText(ui.LabelFrequency, ui.FormatFrequency(in.Frequency))
	}

	if l, ok := set[hand.Left]; ok {
		in.Volume = s.vol.Smooth(s.cfg.Mapper.VolumeAt(l.Y))
		s.ui.SetText(ui.LabelVolume, ui.FormatVolume(in.Volume))
	} else {
		in.Volume = s.vol.Smooth(s.state.Previous.Volume)
	}

	s.state.Frequency = in.Frequency
	s.state.HasFrequency = in.HasFrequency
	s.state.Volume = in.Volume
	return in
}

func (s *Session) onTrigger(frame *gocv.Mat, tone playback.Tone, reading tuner.Reading) {
	if frame != nil {
		s.ui.DrawFrame(frame)
	}
	s.ui.DrawTuner(reading.Name, reading.Cents)

	now := s.cfg.Now()
	s.state.FPS = frameRate(s.state.PrevFrame, now)
	s.state.PrevFrame = now
	s.ui.SetText(ui.LabelFPS, ui.FormatFPS(s.state.FPS))

	if s.cfg.Journal != nil {
		if err := s.cfg.Journal.Record(tone.Frequency, tone.Volume, reading.Name, reading.Cents); err != nil {
			s.logger.Warn("journal write failed", "error", err)
		}
	}
}

func (s *Session) publish(triggered bool, reading tuner.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.Ticks++
	s.status.Volume = s.state.Volume
	if s.state.HasFrequency {
		s.status.Frequency = s.state.Frequency
	}
	if triggered {
		s.status.Note = reading.Name
		s.status.Cents = reading.Cents
		s.status.FPS = s.state.FPS
	}
}

// frameRate returns the rate implied by two frame times, or 0 when there is
// no previous frame or no time has passed.
func frameRate(prev, now time.Time) float64 {
	if prev.IsZero() {
		return 0
	}
	elapsed := now.Sub(prev).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return 1 / elapsed
}
