package audio

import "sync"

// MockSink records Play and Stop calls for tests.
type MockSink struct {
	mu      sync.Mutex
	mixer   *Mixer
	plays   []PlayCall
	stops   []Handle
	playErr error
}

// PlayCall is a recorded Play call.
type PlayCall struct {
	Handle     Handle
	Samples    []int16
	SampleRate int
}

// NewMockSink creates a recording sink.
func NewMockSink() *MockSink {
	return &MockSink{mixer: NewMixer()}
}

// SetPlayError makes subsequent Play calls fail with err. Pass nil to clear.
func (m *MockSink) SetPlayError(err error) {
	m.mu.Lock()
	m.playErr = err
	m.mu.Unlock()
}

// Play implements Sink.
func (m *MockSink) Play(samples []int16, sampleRate int) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playErr != nil {
		return 0, m.playErr
	}
	h := m.mixer.Add(samples)
	m.plays = append(m.plays, PlayCall{Handle: h, Samples: samples, SampleRate: sampleRate})
	return h, nil
}

// Stop implements Sink.
func (m *MockSink) Stop(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.mixer.Remove(h); err != nil {
		return err
	}
	m.stops = append(m.stops, h)
	return nil
}

// Plays returns the recorded Play calls.
func (m *MockSink) Plays() []PlayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PlayCall(nil), m.plays...)
}

// Stops returns the recorded Stop calls.
func (m *MockSink) Stops() []Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Handle(nil), m.stops...)
}

// Active returns the number of buffers that were played and not stopped.
func (m *MockSink) Active() int {
	return m.mixer.Active()
}

// Reset clears the recorded calls.
func (m *MockSink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays = nil
	m.stops = nil
}
