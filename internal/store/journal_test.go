package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestJournal(t *testing.T) {
	s := newTestStore(t)
	j := NewJournal(s)

	if err := j.Record(440, 50, "A", 0); err == nil {
		t.Error("Record without a session should fail")
	}

	id, err := j.Begin(SessionParams{SmoothingFactor: 0.5, ChangeLimit: 50, MinNote: 24, MaxNote: 84})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("session id %q is not a UUID: %v", id, err)
	}
	if j.SessionID() != id {
		t.Errorf("SessionID() = %q, want %q", j.SessionID(), id)
	}

	for _, f := range []float64{440, 442, 445} {
		if err := j.Record(f, 50, "A", 0); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	if err := j.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if j.SessionID() != "" {
		t.Error("session still open after End")
	}
	if err := j.End(); err != nil {
		t.Errorf("second End: %v", err)
	}

	sess, err := s.Sessions().GetByID(id)
	if err != nil {
		t.Fatal(err)
	}
	if sess.EndedAt == nil {
		t.Error("session not marked ended")
	}
	if sess.ToneCount != 3 {
		t.Errorf("ToneCount = %d, want 3", sess.ToneCount)
	}
}

func TestJournal_BeginEndsPrevious(t *testing.T) {
	s := newTestStore(t)
	j := NewJournal(s)

	first, err := j.Begin(SessionParams{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := j.Begin(SessionParams{})
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("session IDs should differ")
	}

	sess, err := s.Sessions().GetByID(first)
	if err != nil {
		t.Fatal(err)
	}
	if sess.EndedAt == nil {
		t.Error("first session should be ended when a new one begins")
	}
}
