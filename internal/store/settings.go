package store

import (
	"database/sql"
	"errors"
)

// Setting keys.
const (
	SettingDefaultProvider = "default_provider"
)

// SettingsRepo is a string key/value table for choices that outlive a process.
type SettingsRepo struct {
	db *DB
}

func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns "" for a key that was never set.
func (r *SettingsRepo) Get(key string) (string, error) {
	var value string
	err := r.db.Get(&value, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// Set stores value under key, replacing any previous value.
func (r *SettingsRepo) Set(key, value string) error {
	_, err := r.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, key, value)
	return err
}
