package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/molodeztom/expense-splitting-app/internal/models"
	"github.com/molodeztom/expense-splitting-app/internal/storage"
)

// GetSettings returns the saved settings.
func (s *Store) GetSettings(ctx context.Context) (*models.Settings, error) {
	settings := &models.Settings{}
	err := s.queryRow(ctx, s.db,
		"SELECT currency, user_name, user_email FROM settings WHERE id = 1",
	).Scan(&settings.Currency, &settings.UserName, &settings.UserEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("settings: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// SaveSettings upserts the single settings row.
func (s *Store) SaveSettings(ctx context.Context, settings *models.Settings) error {
	_, err := s.exec(ctx, s.db,
		`INSERT INTO settings (id, currency, user_name, user_email) VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET currency = excluded.currency,
		 user_name = excluded.user_name, user_email = excluded.user_email`,
		settings.Currency, settings.UserName, settings.UserEmail,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
