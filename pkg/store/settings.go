package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tangential/tangential/pkg/model"
)

// GetSetting returns a setting by key.
func (s *Store) GetSetting(ctx context.Context, key string) (*model.Setting, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT key, value, created_at, updated_at FROM settings WHERE key = ?", key)

	var st model.Setting
	err := row.Scan(&st.Key, &st.Value, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("setting %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// GetSettingValue returns just the value for a key, or "" when unset.
func (s *Store) GetSettingValue(ctx context.Context, key string) (string, error) {
	st, err := s.GetSetting(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return st.Value, nil
}

// SetSetting upserts a key-value pair.
func (s *Store) SetSetting(ctx context.Context, key, value string) (*model.Setting, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')
	`, key, value)
	if err != nil {
		return nil, fmt.Errorf("set setting: %w", err)
	}
	return s.GetSetting(ctx, key)
}

// ListSettings returns all settings ordered by key.
func (s *Store) ListSettings(ctx context.Context) ([]model.Setting, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, value, created_at, updated_at FROM settings ORDER BY key ASC")
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	var settings []model.Setting
	for rows.Next() {
		var st model.Setting
		if err := rows.Scan(&st.Key, &st.Value, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, st)
	}
	return settings, rows.Err()
}

// DeleteSetting removes a setting.
func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("setting %s: %w", key, ErrNotFound)
	}
	return nil
}
