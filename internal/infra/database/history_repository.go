package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/relaunchapp/followup-service/internal/entity"
)

type HistoryRepository struct {
	DB *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func (r *HistoryRepository) ListByProspect(ctx context.Context, prospectID string) ([]*entity.HistoryEntry, error) {
	query := `
		SELECT id, prospect_id, template_id, user_id, status, sent_at
		FROM history
		WHERE prospect_id = $1
		ORDER BY sent_at ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, prospectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*entity.HistoryEntry
	for rows.Next() {
		var e entity.HistoryEntry
		if err := rows.Scan(&e.ID, &e.ProspectID, &e.TemplateID, &e.UserID, &e.Status, &e.SentAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *HistoryRepository) FindRecent(ctx context.Context, prospectID string, since time.Time) (*entity.HistoryEntry, error) {
	query := `
		SELECT id, prospect_id, template_id, user_id, status, sent_at
		FROM history
		WHERE prospect_id = $1 AND sent_at > $2
		ORDER BY sent_at DESC
		LIMIT 1
	`

	var e entity.HistoryEntry
	err := r.DB.QueryRowContext(ctx, query, prospectID, since).
		Scan(&e.ID, &e.ProspectID, &e.TemplateID, &e.UserID, &e.Status, &e.SentAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Insert is the atomic half of the dedup invariant: the unique index on
// (prospect_id, template_id) plus DO NOTHING turns the lost side of a
// concurrent double-dispatch into a clean no-op.
func (r *HistoryRepository) Insert(ctx context.Context, entry *entity.HistoryEntry) (bool, error) {
	query := `
		INSERT INTO history (id, prospect_id, template_id, user_id, status, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (prospect_id, template_id) DO NOTHING
	`

	result, err := r.DB.ExecContext(ctx, query,
		entry.ID,
		entry.ProspectID,
		entry.TemplateID,
		entry.UserID,
		entry.Status,
		entry.SentAt,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
