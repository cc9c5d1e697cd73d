package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector returns preset results. It is used by tests.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a MockDetector that finds no hands.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned by Detect.
func (m *MockDetector) SetHands(hands ...HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the preset hands or error.
func (m *MockDetector) Detect(*gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return append([]HandLandmarks(nil), m.hands...), nil
}

// Calls returns the number of Detect calls.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close is a no-op.
func (m *MockDetector) Close() error {
	return nil
}

// PointingHand returns a hand with its index fingertip at (x, y), given
// relative to the frame size. The remaining landmarks form an open hand
// below the tip.
func PointingHand(handedness string, x, y float64) HandLandmarks {
	h := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: x, Y: y + 0.30}

	fingers := [][4]int{
		{ThumbCMC, ThumbMCP, ThumbIP, ThumbTip},
		{IndexMCP, IndexPIP, IndexDIP, IndexTip},
		{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
		{RingMCP, RingPIP, RingDIP, RingTip},
		{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
	}
	offsets := []float64{0.08, 0, -0.03, -0.06, -0.09}

	for f, joints := range fingers {
		for j, idx := range joints {
			// Joints climb from the knuckle (0.18 above the wrist) to the tip.
			h.Points[idx] = Point3D{
				X: x + offsets[f],
				Y: y + 0.12 - float64(j)*0.04,
			}
		}
	}
	h.Points[IndexTip] = Point3D{X: x, Y: y}

	return h
}
