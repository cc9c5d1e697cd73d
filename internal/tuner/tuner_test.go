package tuner

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/theremin/internal/mapping"
)

func TestFrequencyToNote_RoundTrip(t *testing.T) {
	name, cents, err := FrequencyToNote(mapping.NoteToFrequency(69))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "A" || cents != 0 {
		t.Errorf("FrequencyToNote(440) = (%q, %d), want (\"A\", 0)", name, cents)
	}
}

func TestFrequencyToNote_AllNotes(t *testing.T) {
	want := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

	for note := 24; note <= 84; note++ {
		name, cents, err := FrequencyToNote(mapping.NoteToFrequency(float64(note)))
		if err != nil {
			t.Fatalf("note %d: %v", note, err)
		}
		if name != want[note%12] {
			t.Errorf("note %d: name = %q, want %q", note, name, want[note%12])
		}
		if cents != 0 {
			t.Errorf("note %d: cents = %d, want 0", note, cents)
		}
	}
}

func TestFrequencyToNote_Cents(t *testing.T) {
	tests := []struct {
		name      string
		note      float64
		wantName  string
		wantCents int
	}{
		{"20 cents sharp", 69.2, "A", 20},
		{"30 cents flat", 68.7, "A", -30},
		{"rounds up past half", 69.6, "A#", -40},
		{"middle C sharp", 60.04, "C", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, cents, err := FrequencyToNote(mapping.NoteToFrequency(tt.note))
			if err != nil {
				t.Fatal(err)
			}
			if name != tt.wantName || cents != tt.wantCents {
				t.Errorf("got (%q, %d), want (%q, %d)", name, cents, tt.wantName, tt.wantCents)
			}
		})
	}
}

func TestFrequencyToNote_Sentinels(t *testing.T) {
	name, cents, err := FrequencyToNote(0)
	if err != nil || name != NoNote || cents != 0 {
		t.Errorf("FrequencyToNote(0) = (%q, %d, %v), want (\"-\", 0, nil)", name, cents, err)
	}

	for _, f := range []float64{-440, math.NaN(), math.Inf(1), math.Inf(-1)} {
		name, cents, err := FrequencyToNote(f)
		if !errors.Is(err, ErrInvalidFrequency) {
			t.Errorf("FrequencyToNote(%g) error = %v, want ErrInvalidFrequency", f, err)
		}
		if name != NoNote || cents != 0 {
			t.Errorf("FrequencyToNote(%g) = (%q, %d), want sentinel", f, name, cents)
		}
	}
}

func TestRead(t *testing.T) {
	r := Read(440)
	if r.Name != "A" || r.Octave != 4 || r.Cents != 0 {
		t.Errorf("Read(440) = %+v, want A4 +0", r)
	}
	if got := r.String(); got != "A4 +0" {
		t.Errorf("String() = %q", got)
	}

	c1 := Read(mapping.NoteToFrequency(24))
	if c1.Name != "C" || c1.Octave != 1 {
		t.Errorf("Read(C1) = %+v", c1)
	}

	if got := Read(-1).String(); got != NoNote {
		t.Errorf("invalid reading String() = %q, want %q", got, NoNote)
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		cents int
		want  Band
	}{
		{0, BandInTune},
		{5, BandInTune},
		{-5, BandInTune},
		{6, BandClose},
		{-15, BandClose},
		{16, BandOff},
		{-30, BandOff},
		{31, BandFar},
		{-50, BandFar},
	}

	for _, tt := range tests {
		if got := BandFor(tt.cents); got != tt.want {
			t.Errorf("BandFor(%d) = %s, want %s", tt.cents, got, tt.want)
		}
	}
}

func TestGauge(t *testing.T) {
	tests := []struct {
		cents int
		want  string
	}{
		{0, "+ | | | | ^ | | | | +"},
		{-50, "^ | | | | + | | | | +"},
		{20, "+ | | | | + | ^ | | +"},
		{7, "+ | | | | + | | | | +"},
	}

	for _, tt := range tests {
		if got := Gauge(tt.cents); got != tt.want {
			t.Errorf("Gauge(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
