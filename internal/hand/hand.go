// Package hand turns detected index-fingertip keypoints into bounded
// percentage coordinates, one sample per hand side per frame.
package hand

import (
	"math"

	"github.com/ayusman/theremin/internal/detector"
)

// Side identifies which hand a sample belongs to.
type Side string

const (
	Left  Side = "Left"
	Right Side = "Right"
)

// Sample is a normalized hand position. X and Y are in [0, 100] and Y grows upward.
type Sample struct {
	Side Side
	X    float64
	Y    float64
}

// FrameSet holds at most one sample per side for a single frame.
type FrameSet map[Side]Sample

// Normalize maps coord from [min, max] onto [0, 100] without clipping.
// A degenerate range yields 0.
func Normalize(coord, max, min float64) float64 {
	if max == min {
		return 0
	}
	return (coord - min) / (max - min) * 100
}

// Clip bounds v to [0, 100]. NaN clips to 0.
func Clip(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// NormalizeX converts a pixel column into the clipped percentage space.
func NormalizeX(x float64, width int) float64 {
	return Clip(Normalize(x, float64(width), 0))
}

// NormalizeY converts a pixel row into the clipped percentage space with the
// axis inverted so that raising the hand increases the value.
func NormalizeY(y float64, height int) float64 {
	return Clip(100 - Normalize(y, float64(height), 0))
}

// FromDetections builds the frame's hand set from detector output. Landmark
// coordinates are relative to the frame, so they are scaled to pixels before
// normalization. Hands with an unknown handedness are ignored and a side seen
// twice keeps the higher-scoring detection.
func FromDetections(hands []detector.HandLandmarks, width, height int) FrameSet {
	set := make(FrameSet, 2)
	scores := make(map[Side]float64, 2)

	for i := range hands {
		h := &hands[i]
		side := Side(h.Handedness)
		if side != Left && side != Right {
			continue
		}
		if prev, ok := scores[side]; ok && prev >= h.Score {
			continue
		}

		tip := h.IndexFingertip()
		px := tip.X * float64(width)
		py := tip.Y * float64(height)

		set[side] = Sample{
			Side: side,
			X:    NormalizeX(px, width),
			Y:    NormalizeY(py, height),
		}
		scores[side] = h.Score
	}

	return set
}
