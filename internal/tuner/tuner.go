// Package tuner converts frequencies into note names and cents deviation
// for the feedback display.
package tuner

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidFrequency is returned for negative or non-finite frequencies.
var ErrInvalidFrequency = errors.New("invalid frequency")

// NoNote is the name reported when there is no tone.
const NoNote = "-"

// All note names in chromatic order starting at C.
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Reading is a tuner result.
type Reading struct {
	Name   string
	Octave int
	Cents  int
}

// String formats the reading as e.g. "A4 +3".
func (r Reading) String() string {
	if r.Name == NoNote {
		return NoNote
	}
	return fmt.Sprintf("%s%d %+d", r.Name, r.Octave, r.Cents)
}

// noteNumber returns the fractional MIDI note number of frequency.
func noteNumber(frequency float64) float64 {
	return 12*(math.Log2(frequency)-math.Log2(440)) + 69
}

// FrequencyToNote returns the nearest note name and the deviation from it in
// cents. A zero frequency yields NoNote with zero cents. Negative and
// non-finite frequencies yield the same sentinel and ErrInvalidFrequency.
func FrequencyToNote(frequency float64) (string, int, error) {
	r, err := read(frequency)
	return r.Name, r.Cents, err
}

// Read is FrequencyToNote with the octave included. Invalid input reads as NoNote.
func Read(frequency float64) Reading {
	r, _ := read(frequency)
	return r
}

func read(frequency float64) (Reading, error) {
	if frequency == 0 {
		return Reading{Name: NoNote}, nil
	}
	if frequency < 0 || math.IsNaN(frequency) || math.IsInf(frequency, 0) {
		return Reading{Name: NoNote}, ErrInvalidFrequency
	}

	n := noteNumber(frequency)
	nearest := math.Round(n)

	idx := int(math.Mod(nearest, 12))
	if idx < 0 {
		idx += 12
	}

	return Reading{
		Name:   noteNames[idx],
		Octave: int(math.Floor(nearest/12)) - 1,
		Cents:  int(math.Round((n - nearest) * 100)),
	}, nil
}

// Band classifies how far off pitch a reading is.
type Band string

const (
	BandInTune Band = "green"
	BandClose  Band = "yellow"
	BandOff    Band = "orange"
	BandFar    Band = "red"
)

// BandFor returns the colour band for a cents deviation.
func BandFor(cents int) Band {
	abs := cents
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs <= 5:
		return BandInTune
	case abs <= 15:
		return BandClose
	case abs <= 30:
		return BandOff
	default:
		return BandFar
	}
}

// Gauge renders the -50..+50 cents scale in steps of 10. Graduations at
// multiples of 25 are drawn as '+', the others as '|', and the graduation
// equal to cents is replaced by '^'.
func Gauge(cents int) string {
	var b strings.Builder
	for i := -50; i <= 50; i += 10 {
		switch {
		case i == cents:
			b.WriteByte('^')
		case i%25 == 0:
			b.WriteByte('+')
		default:
			b.WriteByte('|')
		}
		if i < 50 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
