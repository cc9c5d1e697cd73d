package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestMotionDetector_SetThreshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	tests := []struct {
		set  float64
		want float64
	}{
		{5.0, 5.0},
		{0.5, 0.5},
		{0, 0.5},
		{-1, 0.5},
	}

	for _, tt := range tests {
		md.SetThreshold(tt.set)
		if md.threshold != tt.want {
			t.Errorf("SetThreshold(%g): threshold = %g, want %g", tt.set, md.threshold, tt.want)
		}
	}
}

func TestMotionDetector_Detect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	if moved, pct := md.Detect(&black); moved || pct != 0 {
		t.Errorf("baseline frame = (%v, %g), want (false, 0)", moved, pct)
	}
	if moved, pct := md.Detect(&black); moved {
		t.Errorf("identical frame reported motion: %g%%", pct)
	}
	moved, pct := md.Detect(&white)
	if !moved || pct < 50 {
		t.Errorf("black to white = (%v, %g), want motion above 50%%", moved, pct)
	}

	md.Reset()
	if md.initialized {
		t.Error("detector still initialized after Reset")
	}
	if moved, _ := md.Detect(&black); moved {
		t.Error("first frame after Reset reported motion")
	}
}

func TestMotionDetector_Close_Multiple(t *testing.T) {
	md := NewMotionDetector(1.0)
	md.Close()
	md.Close()
}

func TestMotionGate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewMotionGate(1.0)
	defer g.Close()

	still := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer still.Close()
	bright := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer bright.Close()
	bright.SetTo(gocv.NewScalar(255, 255, 255, 0))

	if !g.Allow(&still) {
		t.Error("first frame should run detection")
	}
	g.Observe(false)

	if g.Allow(&still) {
		t.Error("still frame without hands should be skipped")
	}
	if !g.Allow(&bright) {
		t.Error("motion should reopen the gate")
	}

	g.Observe(true)
	if !g.Allow(&bright) {
		t.Error("gate should stay open while a hand is seen")
	}
}

func TestMotionGate_Disabled(t *testing.T) {
	g := NewMotionGate(0)
	defer g.Close()

	g.Observe(false)
	if !g.Allow(nil) {
		t.Error("disabled gate should always allow detection")
	}
}
