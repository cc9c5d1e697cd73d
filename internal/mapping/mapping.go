// Package mapping converts normalized hand heights into pitch and volume.
package mapping

import "math"

// Default ranges.
const (
	DefaultMinNote   = 24 // C1
	DefaultMaxNote   = 84 // C6
	DefaultVolumeMin = 0
	DefaultVolumeMax = 100
)

// NoteToFrequency returns the equal-tempered frequency of a MIDI note, A4 (69) = 440 Hz.
func NoteToFrequency(note float64) float64 {
	return 440 * math.Pow(2, (note-69)/12)
}

// YToFrequency interpolates linearly in Hz between the frequencies of minNote
// and maxNote. The interpolation is deliberately not semitone-linear.
func YToFrequency(y float64, minNote, maxNote int) float64 {
	lo := NoteToFrequency(float64(minNote))
	hi := NoteToFrequency(float64(maxNote))
	return lo + (y/100)*(hi-lo)
}

// YToVolume computes min + (y/100*max - min). For a non-zero min this does
// not scale onto [min, max]; see YToVolumeLinear.
func YToVolume(y, min, max float64) float64 {
	return min + (y/100*max - min)
}

// YToVolumeLinear maps y onto [min, max].
func YToVolumeLinear(y, min, max float64) float64 {
	return min + y/100*(max-min)
}

// VolumeFunc maps a normalized height onto a volume.
type VolumeFunc func(y, min, max float64) float64

// Mapper bundles the configured ranges.
type Mapper struct {
	MinNote   int
	MaxNote   int
	VolumeMin float64
	VolumeMax float64
	Volume    VolumeFunc
}

// NewMapper returns a Mapper over the default ranges using YToVolume.
func NewMapper() *Mapper {
	return &Mapper{
		MinNote:   DefaultMinNote,
		MaxNote:   DefaultMaxNote,
		VolumeMin: DefaultVolumeMin,
		VolumeMax: DefaultVolumeMax,
		Volume:    YToVolume,
	}
}

// Frequency maps y onto the configured note range.
func (m *Mapper) Frequency(y float64) float64 {
	return YToFrequency(y, m.MinNote, m.MaxNote)
}

// VolumeAt maps y onto the configured volume range.
func (m *Mapper) VolumeAt(y float64) float64 {
	f := m.Volume
	if f == nil {
		f = YToVolume
	}
	return f(y, m.VolumeMin, m.VolumeMax)
}
