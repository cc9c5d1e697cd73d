package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionParams are the instrument settings recorded with a session.
type SessionParams struct {
	SmoothingFactor float64
	ChangeLimit     float64
	MinNote         int
	MaxNote         int
}

// Journal records the tones of one running session.
type Journal struct {
	mu      sync.Mutex
	store   *Store
	session *Session
}

// NewJournal creates a journal writing to s.
func NewJournal(s *Store) *Journal {
	return &Journal{store: s}
}

// Begin opens a new session and returns its ID. An open session is ended first.
func (j *Journal) Begin(params SessionParams) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.endLocked(time.Now()); err != nil {
		return "", err
	}

	sess := &Session{
		ID:              uuid.New().String(),
		SmoothingFactor: params.SmoothingFactor,
		ChangeLimit:     params.ChangeLimit,
		MinNote:         params.MinNote,
		MaxNote:         params.MaxNote,
	}
	if err := j.store.Sessions().Create(sess); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	j.session = sess
	return sess.ID, nil
}

// Record appends a tone to the open session.
func (j *Journal) Record(frequency, volume float64, note string, cents int) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.session == nil {
		return fmt.Errorf("record tone: no open session")
	}

	t := &Tone{
		SessionID: j.session.ID,
		Frequency: frequency,
		Volume:    volume,
		Note:      note,
		Cents:     cents,
	}
	if err := j.store.Tones().Append(t); err != nil {
		return fmt.Errorf("record tone: %w", err)
	}
	j.session.ToneCount++
	return nil
}

// SessionID returns the open session's ID, or "" if none is open.
func (j *Journal) SessionID() string {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.session == nil {
		return ""
	}
	return j.session.ID
}

// End closes the open session. It is a no-op when no session is open.
func (j *Journal) End() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.endLocked(time.Now())
}

func (j *Journal) endLocked(at time.Time) error {
	if j.session == nil {
		return nil
	}
	id := j.session.ID
	j.session = nil

	if err := j.store.Sessions().End(id, at); err != nil {
		return fmt.Errorf("end session %s: %w", id, err)
	}
	return nil
}
