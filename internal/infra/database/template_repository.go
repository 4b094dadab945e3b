package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/relaunchapp/followup-service/internal/entity"
)

type TemplateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

const templateColumns = `id, user_id, stage, subject, body, created_at, updated_at`

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*entity.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = $1`

	template, err := scanTemplate(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrTemplateNotFound
	}
	return template, err
}

func (r *TemplateRepository) FindByUserAndStage(ctx context.Context, userID string, stage int) (*entity.Template, error) {
	// Oldest first: deterministic pick until the (user_id, stage)
	// unique index makes duplicates impossible.
	query := `
		SELECT ` + templateColumns + `
		FROM templates
		WHERE user_id = $1 AND stage = $2
		ORDER BY created_at ASC
		LIMIT 1
	`

	template, err := scanTemplate(r.DB.QueryRowContext(ctx, query, userID, stage))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrTemplateNotFound
	}
	return template, err
}

func (r *TemplateRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Template, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM templates
		WHERE user_id = $1
		ORDER BY stage ASC, created_at ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*entity.Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) Create(ctx context.Context, template *entity.Template) error {
	query := `
		INSERT INTO templates (id, user_id, stage, subject, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.DB.ExecContext(ctx, query,
		template.ID,
		template.UserID,
		template.Stage,
		template.Subject,
		template.Body,
		template.CreatedAt,
		template.UpdatedAt,
	)
	return err
}

func scanTemplate(row rowScanner) (*entity.Template, error) {
	var t entity.Template
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Stage,
		&t.Subject,
		&t.Body,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
