package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector finds hands in video frames.
type Detector interface {
	// Detect returns the hands in frame, or an empty slice if there are none.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds hand detection options.
type Config struct {
	// MaxHands is the maximum number of hands to detect.
	MaxHands int

	// MinConfidence is the minimum detection confidence (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence (0.0-1.0).
	MinTrackingConf float64

	// ScriptPath overrides the location of mediapipe_service.py.
	ScriptPath string

	// IdleTimeout stops the helper process after this long without frames.
	// Zero keeps it running until Close.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config tracking both hands.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
	}
}
