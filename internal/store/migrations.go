package store

// runMigrations creates the journal schema.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per performance, opened at start and closed on shutdown
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			smoothing_factor REAL NOT NULL,
			change_limit REAL NOT NULL,
			min_note INTEGER NOT NULL,
			max_note INTEGER NOT NULL,
			tone_count INTEGER NOT NULL DEFAULT 0
		)`,

		// Every tone the instrument triggered
		`CREATE TABLE IF NOT EXISTS tones (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			played_at DATETIME NOT NULL,
			frequency REAL NOT NULL,
			volume REAL NOT NULL,
			note TEXT NOT NULL,
			cents INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_tones_session_id ON tones(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
