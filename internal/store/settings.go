package store

import (
	"database/sql"
	"errors"
)

// Setting keys persisted by the application.
const (
	SettingEnabled    = "enabled"
	SettingActiveView = "active_view"
)

// SettingsRepository stores key-value runtime settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value stored under key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var v string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

// Set stores value under key, replacing any previous value.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}
