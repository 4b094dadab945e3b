package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/relaunchapp/followup-service/internal/entity"
)

type SettingsRepository struct {
	DB *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

const settingsColumns = `user_id, email_provider, email_api_key, from_email, followup_timing, updated_at`

func (r *SettingsRepository) FindByUserID(ctx context.Context, userID string) (*entity.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM settings WHERE user_id = $1`

	settings, err := scanSettings(r.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return settings, err
}

func (r *SettingsRepository) ListAll(ctx context.Context) ([]*entity.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM settings`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []*entity.Settings
	for rows.Next() {
		settings, err := scanSettings(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, settings)
	}
	return all, rows.Err()
}

func scanSettings(row rowScanner) (*entity.Settings, error) {
	var s entity.Settings
	var apiKey, fromEmail sql.NullString
	var timing []byte

	err := row.Scan(&s.UserID, &s.EmailProvider, &apiKey, &fromEmail, &timing, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	s.EmailAPIKey = apiKey.String
	s.FromEmail = fromEmail.String

	if len(timing) > 0 {
		parsed, err := parseTiming(timing)
		if err != nil {
			return nil, fmt.Errorf("invalid followup_timing for user %s: %w", s.UserID, err)
		}
		s.FollowupTiming = parsed
	}
	return &s, nil
}

// followup_timing is stored as a JSONB object with string stage keys
// ({"1": 3, "2": 5}), the shape the dashboard writes.
func parseTiming(raw []byte) (map[int]int, error) {
	var byKey map[string]int
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return nil, err
	}

	timing := make(map[int]int, len(byKey))
	for key, days := range byKey {
		stage, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("stage key %q is not a number", key)
		}
		timing[stage] = days
	}
	return timing, nil
}
