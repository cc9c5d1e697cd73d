package ui

import (
	"sync"

	"gocv.io/x/gocv"
)

// Recorder is a Sink that remembers what it was sent. It is used by tests.
type Recorder struct {
	mu     sync.Mutex
	texts  map[Label]string
	frames int
	tuner  []TunerUpdate
}

// TunerUpdate is a recorded DrawTuner call.
type TunerUpdate struct {
	Note  string
	Cents int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{texts: make(map[Label]string)}
}

// SetText implements Sink.
func (r *Recorder) SetText(label Label, text string) {
	r.mu.Lock()
	r.texts[label] = text
	r.mu.Unlock()
}

// DrawFrame implements Sink.
func (r *Recorder) DrawFrame(*gocv.Mat) {
	r.mu.Lock()
	r.frames++
	r.mu.Unlock()
}

// DrawTuner implements Sink.
func (r *Recorder) DrawTuner(note string, cents int) {
	r.mu.Lock()
	r.tuner = append(r.tuner, TunerUpdate{Note: note, Cents: cents})
	r.mu.Unlock()
}

// Text returns the last text set for label.
func (r *Recorder) Text(label Label) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.texts[label]
	return t, ok
}

// Frames returns the number of frames drawn.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Tuner returns the recorded tuner updates.
func (r *Recorder) Tuner() []TunerUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TunerUpdate(nil), r.tuner...)
}
