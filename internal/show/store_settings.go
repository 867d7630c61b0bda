package show

import (
	"context"
	"fmt"
)

// GetSetting fetches a persistent setting value.
func (s *Store) GetSetting(ctx context.Context, key string) (*Setting, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT key, value, updated_at FROM app_settings WHERE key = ?", key)
	var (
		setting    Setting
		updatedRaw string
	)
	if err := row.Scan(&setting.Key, &setting.Value, &updatedRaw); err != nil {
		return nil, mapNoRows(err)
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		setting.UpdatedAt = updated
	}
	return &setting, nil
}

// SetSetting upserts a persistent setting value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.execWithRetry(ctx,
		`INSERT INTO app_settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, formatTime(nowUTC()),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// ListSettings returns all persistent settings sorted by key.
func (s *Store) ListSettings(ctx context.Context) ([]*Setting, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT key, value, updated_at FROM app_settings ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []*Setting
	for rows.Next() {
		var (
			setting    Setting
			updatedRaw string
		)
		if err := rows.Scan(&setting.Key, &setting.Value, &updatedRaw); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		if updated, err := parseTimeString(updatedRaw); err == nil {
			setting.UpdatedAt = updated
		}
		settings = append(settings, &setting)
	}
	return settings, rows.Err()
}

// DeleteSetting removes a persistent setting.
func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM app_settings WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	return requireAffected(res, "delete setting")
}
