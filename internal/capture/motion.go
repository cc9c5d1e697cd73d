package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// GaussianBlurSize is the blur kernel applied before differencing.
	GaussianBlurSize = 21
	// DiffThreshold is the per-pixel intensity change counted as motion.
	DiffThreshold = 25
)

// MotionDetector compares consecutive frames and reports the share of
// pixels that changed.
type MotionDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionDetector creates a detector that reports motion when more than
// threshold percent of the pixels change.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect returns whether frame differs from the previous one and the
// percentage of changed pixels. The first frame only sets the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !m.initialized || m.prevGray.Rows() != blurred.Rows() || m.prevGray.Cols() != blurred.Cols() {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, DiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols()) * 100
	blurred.CopyTo(&m.prevGray)

	return changed > m.threshold, changed
}

// Reset drops the baseline frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// Close releases the baseline frame. The detector can still be used and
// starts over with a new baseline.
func (m *MotionDetector) Close() {
	m.Reset()
}

// SetThreshold ignores values <= 0.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}

// MotionGate decides whether a frame is worth running hand detection on.
// Detection always runs while a hand was seen on the previous frame (and on
// the first frame); once the hands are gone it only runs again when the
// frame shows motion.
type MotionGate struct {
	detector *MotionDetector
	handSeen bool
}

// NewMotionGate creates a gate with the given motion threshold in percent.
// A threshold <= 0 disables gating.
func NewMotionGate(threshold float64) *MotionGate {
	if threshold <= 0 {
		return &MotionGate{}
	}
	return &MotionGate{detector: NewMotionDetector(threshold), handSeen: true}
}

// Allow feeds frame to the motion detector and reports whether detection
// should run on it.
func (g *MotionGate) Allow(frame *gocv.Mat) bool {
	if g.detector == nil {
		return true
	}
	moved, _ := g.detector.Detect(frame)
	return g.handSeen || moved
}

// Observe records whether the last detection found any hand.
func (g *MotionGate) Observe(handSeen bool) {
	g.handSeen = handSeen
}

// Close releases the detector.
func (g *MotionGate) Close() {
	if g.detector != nil {
		g.detector.Close()
	}
}
