package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Templates table - one row per trained pose or path template
		`CREATE TABLE IF NOT EXISTS templates (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL CHECK(type IN ('static', 'dynamic')),
			label TEXT NOT NULL DEFAULT '',
			tolerance REAL NOT NULL DEFAULT 0.15,
			samples INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Averaged hand landmarks of static templates
		`CREATE TABLE IF NOT EXISTS template_landmarks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			template_id TEXT NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
			landmark_index INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL
		)`,

		// Averaged traced paths of dynamic templates
		`CREATE TABLE IF NOT EXISTS template_paths (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			template_id TEXT NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
			sequence INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL
		)`,

		// Raw recorded samples kept for retraining
		`CREATE TABLE IF NOT EXISTS template_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			template_id TEXT NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
			sample_index INTEGER NOT NULL,
			data TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - runtime state persisted across restarts
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_template_landmarks_template_id ON template_landmarks(template_id)`,
		`CREATE INDEX IF NOT EXISTS idx_template_paths_template_id ON template_paths(template_id)`,
		`CREATE INDEX IF NOT EXISTS idx_template_samples_template_id ON template_samples(template_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
