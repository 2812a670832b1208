package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Transitions table - one row per latched command change
		`CREATE TABLE IF NOT EXISTS transitions (
			id TEXT PRIMARY KEY,
			command TEXT NOT NULL CHECK(command IN ('STOP', 'FORWARD', 'REVERSE', 'TURN')),
			previous TEXT NOT NULL CHECK(previous IN ('STOP', 'FORWARD', 'REVERSE', 'TURN')),
			fingers INTEGER NOT NULL,
			left_velocity REAL NOT NULL,
			right_velocity REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Index for newest-first transition queries
		`CREATE INDEX IF NOT EXISTS idx_transitions_created_at ON transitions(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
