package detector

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMockDetector(t *testing.T) {
	t.Run("no hands by default", func(t *testing.T) {
		m := NewMockDetector()
		hands, err := m.Detect(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("returns preset hands", func(t *testing.T) {
		m := NewMockDetector()
		m.SetHands(PointingHand(HandRight, 0.5, 0.2), PointingHand(HandLeft, 0.3, 0.7))

		hands, err := m.Detect(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Fatalf("expected 2 hands, got %d", len(hands))
		}
		if hands[0].Handedness != HandRight || hands[1].Handedness != HandLeft {
			t.Errorf("handedness = %s, %s", hands[0].Handedness, hands[1].Handedness)
		}
		if m.Calls() != 1 {
			t.Errorf("Calls() = %d, want 1", m.Calls())
		}
	})

	t.Run("returns error", func(t *testing.T) {
		m := NewMockDetector()
		want := errors.New("model crashed")
		m.SetError(want)

		if _, err := m.Detect(nil); !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
	})
}

func TestPointingHand(t *testing.T) {
	h := PointingHand(HandLeft, 0.25, 0.4)

	tip := h.IndexFingertip()
	if tip.X != 0.25 || tip.Y != 0.4 {
		t.Errorf("index tip = %+v, want (0.25, 0.4)", tip)
	}
	// The wrist sits below the fingertip in image coordinates.
	if h.Points[Wrist].Y <= tip.Y {
		t.Errorf("wrist Y %g should be below tip Y %g", h.Points[Wrist].Y, tip.Y)
	}
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}

	out := buf.Bytes()
	if n := binary.BigEndian.Uint32(out[:4]); n != uint32(len(payload)) {
		t.Errorf("length prefix = %d, want %d", n, len(payload))
	}
	if !bytes.Equal(out[4:], payload) {
		t.Errorf("payload = %x, want %x", out[4:], payload)
	}
}

func TestDecodeResponse(t *testing.T) {
	t.Run("two hands", func(t *testing.T) {
		line := []byte(`{"hands":[` +
			`{"handedness":"Right","score":0.9,"points":[{"x":0.1,"y":0.2,"z":0},{"x":0,"y":0,"z":0},{"x":0,"y":0,"z":0},{"x":0,"y":0,"z":0},{"x":0,"y":0,"z":0},{"x":0,"y":0,"z":0},{"x":0,"y":0,"z":0},{"x":0,"y":0,"z":0},{"x":0.6,"y":0.3,"z":-0.1}]},` +
			`{"handedness":"Left","score":0.8,"points":[]}` +
			`]}` + "\n")

		hands, err := decodeResponse(line)
		if err != nil {
			t.Fatalf("decodeResponse: %v", err)
		}
		if len(hands) != 2 {
			t.Fatalf("got %d hands, want 2", len(hands))
		}
		if tip := hands[0].IndexFingertip(); tip.X != 0.6 || tip.Y != 0.3 {
			t.Errorf("index tip = %+v", tip)
		}
		if hands[1].Handedness != HandLeft || hands[1].Score != 0.8 {
			t.Errorf("second hand = %s/%g", hands[1].Handedness, hands[1].Score)
		}
	})

	t.Run("no hands", func(t *testing.T) {
		hands, err := decodeResponse([]byte(`{"hands":[]}`))
		if err != nil || len(hands) != 0 {
			t.Errorf("got (%v, %v), want empty", hands, err)
		}
	})

	t.Run("service error", func(t *testing.T) {
		if _, err := decodeResponse([]byte(`{"error":"bad jpeg"}`)); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := decodeResponse([]byte(`{hands`)); err == nil {
			t.Error("expected error")
		}
	})
}

func TestNewMediaPipeDetector_ScriptPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScriptPath = filepath.Join(t.TempDir(), "missing.py")

	if _, err := NewMediaPipeDetector(cfg); !errors.Is(err, ErrScriptNotFound) {
		t.Errorf("missing script error = %v, want ErrScriptNotFound", err)
	}

	cfg.ScriptPath = filepath.Join(t.TempDir(), scriptName)
	if err := os.WriteFile(cfg.ScriptPath, []byte("# stub\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := NewMediaPipeDetector(cfg)
	if err != nil {
		t.Fatalf("NewMediaPipeDetector: %v", err)
	}
	// Nothing was started, so Close is a no-op.
	if err := d.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
