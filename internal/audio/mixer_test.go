package audio

import (
	"errors"
	"math"
	"testing"
)

// playing reports whether the mixer still holds voice h.
func playing(m *Mixer, h Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.voices {
		if v.id == h {
			return true
		}
	}
	return false
}

func TestMixer_SingleVoice(t *testing.T) {
	m := NewMixer()
	h := m.Add([]int16{1, 2, 3, 4, 5, 6})
	if h == 0 {
		t.Fatal("zero handle issued")
	}

	out := make([]int16, 4)
	m.Mix(out)
	want := []int16{1, 2, 3, 4}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("block 1 = %v, want %v", out, want)
		}
	}

	m.Mix(out)
	want = []int16{5, 6, 0, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("block 2 = %v, want %v", out, want)
		}
	}
	if m.Active() != 0 {
		t.Errorf("Active = %d after voice finished", m.Active())
	}
	if playing(m, h) {
		t.Error("finished voice still playing")
	}
}

func TestMixer_Saturates(t *testing.T) {
	m := NewMixer()
	m.Add([]int16{30000, -30000})
	m.Add([]int16{30000, -30000})

	out := make([]int16, 2)
	m.Mix(out)
	if out[0] != math.MaxInt16 || out[1] != math.MinInt16 {
		t.Errorf("out = %v, want saturated", out)
	}
}

func TestMixer_Remove(t *testing.T) {
	m := NewMixer()
	a := m.Add(make([]int16, 100))
	b := m.Add([]int16{7, 7, 7, 7})

	if err := m.Remove(a); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if playing(m, a) || !playing(m, b) {
		t.Error("wrong voice removed")
	}

	out := make([]int16, 2)
	m.Mix(out)
	if out[0] != 7 {
		t.Errorf("out = %v", out)
	}

	// Removing twice or after the voice ended is fine.
	if err := m.Remove(a); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestMixer_RemoveUnknown(t *testing.T) {
	m := NewMixer()
	m.Add([]int16{1})

	for _, h := range []Handle{0, 2, 99} {
		if err := m.Remove(h); !errors.Is(err, ErrUnknownHandle) {
			t.Errorf("Remove(%d) = %v, want ErrUnknownHandle", h, err)
		}
	}
}

func TestMixer_SilenceWhenEmpty(t *testing.T) {
	m := NewMixer()
	out := []int16{9, 9, 9}
	m.Mix(out)
	for _, v := range out {
		if v != 0 {
			t.Fatalf("out = %v, want silence", out)
		}
	}
}

func TestMockSink(t *testing.T) {
	s := NewMockSink()
	h, err := s.Play([]int16{1, 1}, 44100)
	if err != nil {
		t.Fatal(err)
	}
	if s.Active() != 1 {
		t.Errorf("Active = %d, want 1", s.Active())
	}
	if err := s.Stop(h); err != nil {
		t.Fatal(err)
	}
	if s.Active() != 0 || len(s.Stops()) != 1 || len(s.Plays()) != 1 {
		t.Errorf("unexpected state: active=%d plays=%d stops=%d", s.Active(), len(s.Plays()), len(s.Stops()))
	}

	boom := errors.New("device busy")
	s.SetPlayError(boom)
	if _, err := s.Play(nil, 44100); !errors.Is(err, boom) {
		t.Errorf("Play error = %v, want %v", err, boom)
	}
}
