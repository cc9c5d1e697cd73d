package store

import (
	"database/sql"
	"time"
)

// Tone is one triggered tone within a session.
type Tone struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	PlayedAt  time.Time `json:"played_at"`
	Frequency float64   `json:"frequency"`
	Volume    float64   `json:"volume"`
	Note      string    `json:"note"`
	Cents     int       `json:"cents"`
}

// ToneRepository provides access to tones.
type ToneRepository struct {
	db *sql.DB
}

// Tones returns the tone repository for this store.
func (s *Store) Tones() *ToneRepository {
	return &ToneRepository{db: s.db}
}

// Append inserts a tone and bumps its session's tone count in one
// transaction. It returns ErrNotFound if the session does not exist.
func (r *ToneRepository) Append(t *Tone) error {
	if t.PlayedAt.IsZero() {
		t.PlayedAt = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE sessions SET tone_count = tone_count + 1 WHERE id = ?`, t.SessionID)
	if err != nil {
		return err
	}
	if err := requireRow(result); err != nil {
		return err
	}

	result, err = tx.Exec(
		`INSERT INTO tones (session_id, played_at, frequency, volume, note, cents)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.SessionID, t.PlayedAt, t.Frequency, t.Volume, t.Note, t.Cents,
	)
	if err != nil {
		return err
	}
	if t.ID, err = result.LastInsertId(); err != nil {
		return err
	}

	return tx.Commit()
}

// ListBySession returns a session's tones in the order they were played.
func (r *ToneRepository) ListBySession(sessionID string) ([]Tone, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, played_at, frequency, volume, note, cents
		 FROM tones WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tones []Tone
	for rows.Next() {
		var t Tone
		if err := rows.Scan(&t.ID, &t.SessionID, &t.PlayedAt, &t.Frequency, &t.Volume, &t.Note, &t.Cents); err != nil {
			return nil, err
		}
		tones = append(tones, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tones, nil
}
