package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gocv.io/x/gocv"

	"github.com/ayusman/theremin/internal/ui"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Sink forwards control loop feedback to the dashboard as messages.
type Sink struct {
	program Sender
}

// NewSink creates a Sink sending to program.
func NewSink(program Sender) *Sink {
	return &Sink{program: program}
}

// SetText implements ui.Sink.
func (s *Sink) SetText(label ui.Label, text string) {
	s.program.Send(LabelMsg{Label: label, Text: text})
}

// DrawFrame implements ui.Sink. The terminal shows no video, only that a
// frame arrived.
func (s *Sink) DrawFrame(*gocv.Mat) {
	s.program.Send(FrameMsg(time.Now()))
}

// DrawTuner implements ui.Sink.
func (s *Sink) DrawTuner(note string, cents int) {
	s.program.Send(TunerMsg{Note: note, Cents: cents})
}
