package mapping

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNoteToFrequency(t *testing.T) {
	tests := []struct {
		note float64
		want float64
	}{
		{69, 440},
		{81, 880},
		{57, 220},
		{60, 261.6255653005986},
		{24, 32.70319566257483},
		{84, 1046.5022612023945},
	}

	for _, tt := range tests {
		if got := NoteToFrequency(tt.note); !almostEqual(got, tt.want, 1e-9) {
			t.Errorf("NoteToFrequency(%g) = %g, want %g", tt.note, got, tt.want)
		}
	}
}

func TestYToFrequency_Endpoints(t *testing.T) {
	if got, want := YToFrequency(0, 24, 84), NoteToFrequency(24); got != want {
		t.Errorf("YToFrequency(0) = %g, want %g", got, want)
	}
	if got, want := YToFrequency(100, 24, 84), NoteToFrequency(84); !almostEqual(got, want, 1e-9) {
		t.Errorf("YToFrequency(100) = %g, want %g", got, want)
	}
}

func TestYToFrequency_LinearInHz(t *testing.T) {
	lo := NoteToFrequency(24)
	hi := NoteToFrequency(84)
	mid := YToFrequency(50, 24, 84)

	if !almostEqual(mid, (lo+hi)/2, 1e-9) {
		t.Errorf("YToFrequency(50) = %g, want arithmetic mean %g", mid, (lo+hi)/2)
	}
	// Semitone-linear interpolation would land on note 54 instead.
	if almostEqual(mid, NoteToFrequency(54), 1) {
		t.Error("interpolation should be linear in Hz, not in semitones")
	}
}

func TestYToVolume(t *testing.T) {
	tests := []struct {
		name         string
		y, min, max  float64
		want, linear float64
	}{
		{"default range bottom", 0, 0, 100, 0, 0},
		{"default range middle", 50, 0, 100, 50, 50},
		{"default range top", 100, 0, 100, 100, 100},
		{"nonzero min bottom", 0, 20, 100, 0, 20},
		{"nonzero min middle", 50, 20, 100, 50, 60},
		{"nonzero min top", 100, 20, 100, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := YToVolume(tt.y, tt.min, tt.max); !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("YToVolume = %g, want %g", got, tt.want)
			}
			if got := YToVolumeLinear(tt.y, tt.min, tt.max); !almostEqual(got, tt.linear, 1e-9) {
				t.Errorf("YToVolumeLinear = %g, want %g", got, tt.linear)
			}
		})
	}
}

func TestMapper(t *testing.T) {
	m := NewMapper()
	if got := m.Frequency(0); got != NoteToFrequency(24) {
		t.Errorf("Frequency(0) = %g", got)
	}
	if got := m.VolumeAt(30); !almostEqual(got, 30, 1e-9) {
		t.Errorf("VolumeAt(30) = %g, want 30", got)
	}

	m.VolumeMin = 20
	m.Volume = YToVolumeLinear
	if got := m.VolumeAt(0); !almostEqual(got, 20, 1e-9) {
		t.Errorf("linear VolumeAt(0) = %g, want 20", got)
	}

	m.Volume = nil
	if got := m.VolumeAt(0); !almostEqual(got, 0, 1e-9) {
		t.Errorf("nil Volume should fall back to YToVolume, got %g", got)
	}
}
