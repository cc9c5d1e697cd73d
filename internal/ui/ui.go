// Package ui defines the feedback surface the control loop writes to and the
// commands user interfaces send back to it.
package ui

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Label identifies a text field on the feedback surface.
type Label string

const (
	LabelFrequency Label = "frequency"
	LabelVolume    Label = "volume"
	LabelFPS       Label = "fps"
	LabelRightHand Label = "right_hand"
	LabelLeftHand  Label = "left_hand"

	// LabelMute carries the session's mute state, see FormatMute.
	LabelMute Label = "mute"
)

// Sink receives feedback from the control loop. Implementations must not
// block the caller for long and must not retain frame after DrawFrame
// returns; copy it if needed.
type Sink interface {
	SetText(label Label, text string)
	DrawFrame(frame *gocv.Mat)
	DrawTuner(note string, cents int)
}

// FormatFrequency formats the frequency label.
func FormatFrequency(hz float64) string {
	return fmt.Sprintf("Freq : %.2f", hz)
}

// FormatVolume formats the volume label.
func FormatVolume(volume float64) string {
	return fmt.Sprintf("Vol : %.0f", volume)
}

// FormatFPS formats the frame rate label.
func FormatFPS(fps float64) string {
	return fmt.Sprintf("FPS: %.0f", fps)
}

// FormatHand formats a hand coordinate label, e.g. "Right X: 12.00 Y: 80.50".
func FormatHand(side string, x, y float64) string {
	return fmt.Sprintf("%s X: %.2f Y: %.2f", side, x, y)
}

// Mute state texts.
const (
	MutedText   = "Muted"
	PlayingText = "Playing"
)

// FormatMute formats the mute label.
func FormatMute(muted bool) string {
	if muted {
		return MutedText
	}
	return PlayingText
}

// IsMuted reports whether a mute label text says muted.
func IsMuted(text string) bool {
	return text == MutedText
}

// Multi fans feedback out to several sinks.
type Multi []Sink

// SetText implements Sink.
func (m Multi) SetText(label Label, text string) {
	for _, s := range m {
		s.SetText(label, text)
	}
}

// DrawFrame implements Sink.
func (m Multi) DrawFrame(frame *gocv.Mat) {
	for _, s := range m {
		s.DrawFrame(frame)
	}
}

// DrawTuner implements Sink.
func (m Multi) DrawTuner(note string, cents int) {
	for _, s := range m {
		s.DrawTuner(note, cents)
	}
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) SetText(Label, string) {}
func (discard) DrawFrame(*gocv.Mat)   {}
func (discard) DrawTuner(string, int) {}
