package audio

import (
	"math"
	"sync"
)

type voice struct {
	id      Handle
	samples []int16
	pos     int
}

// Mixer sums the buffers currently playing into an output block. It is safe
// for concurrent use; Mix is called from the audio callback while Add and
// Remove are called from the control loop.
type Mixer struct {
	mu     sync.Mutex
	voices []*voice
	lastID Handle
}

// NewMixer creates an empty mixer.
func NewMixer() *Mixer {
	return &Mixer{}
}

// Add queues samples and returns their handle.
func (m *Mixer) Add(samples []int16) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID++
	m.voices = append(m.voices, &voice{id: m.lastID, samples: samples})
	return m.lastID
}

// Remove drops the voice for h. A handle that was issued but has already
// finished is ignored.
func (m *Mixer) Remove(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h == 0 || h > m.lastID {
		return ErrUnknownHandle
	}
	for i, v := range m.voices {
		if v.id == h {
			m.voices = append(m.voices[:i], m.voices[i+1:]...)
			break
		}
	}
	return nil
}

// Active returns the number of voices still playing.
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// Mix fills out with the saturated sum of all voices and advances them.
// Finished voices are dropped.
func (m *Mixer) Mix(out []int16) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.voices) == 0 {
		clear(out)
		return
	}

	for i := range out {
		var sum int32
		for _, v := range m.voices {
			if p := v.pos + i; p < len(v.samples) {
				sum += int32(v.samples[p])
			}
		}
		out[i] = saturate(sum)
	}

	kept := m.voices[:0]
	for _, v := range m.voices {
		v.pos += len(out)
		if v.pos < len(v.samples) {
			kept = append(kept, v)
		}
	}
	clear(m.voices[len(kept):])
	m.voices = kept
}

// Reset drops every voice.
func (m *Mixer) Reset() {
	m.mu.Lock()
	m.voices = nil
	m.mu.Unlock()
}

func saturate(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
