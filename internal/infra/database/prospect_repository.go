package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/relaunchapp/followup-service/internal/entity"
)

type ProspectRepository struct {
	DB *sql.DB
}

func NewProspectRepository(db *sql.DB) *ProspectRepository {
	return &ProspectRepository{DB: db}
}

const prospectColumns = `id, user_id, name, email, project, company, first_contact, followup_stage, next_followup, last_contact, status, created_at, updated_at`

func (r *ProspectRepository) FindByID(ctx context.Context, id string) (*entity.Prospect, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospects WHERE id = $1`

	prospect, err := scanProspect(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrProspectNotFound
	}
	return prospect, err
}

func (r *ProspectRepository) ListDue(ctx context.Context, status string, stageCeiling int, due time.Time) ([]*entity.Prospect, error) {
	query := `
		SELECT ` + prospectColumns + `
		FROM prospects
		WHERE status = $1
		  AND followup_stage <= $2
		  AND next_followup = $3::date
	`

	rows, err := r.DB.QueryContext(ctx, query, status, stageCeiling, due.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prospects []*entity.Prospect
	for rows.Next() {
		prospect, err := scanProspect(rows)
		if err != nil {
			return nil, err
		}
		prospects = append(prospects, prospect)
	}
	return prospects, rows.Err()
}

func (r *ProspectRepository) Update(ctx context.Context, id string, update entity.ProspectUpdate) error {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.FollowupStage != nil {
		// Stage is monotonic: a stale writer never moves it backwards.
		args = append(args, *update.FollowupStage)
		set = append(set, fmt.Sprintf("followup_stage = GREATEST(followup_stage, $%d)", len(args)))
	}
	if update.Status != nil {
		add("status", *update.Status)
	}
	if update.LastContact != nil {
		add("last_contact", *update.LastContact)
	}
	if update.ClearNextFollowup {
		set = append(set, "next_followup = NULL")
	} else if update.NextFollowup != nil {
		add("next_followup", update.NextFollowup.Format("2006-01-02"))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE prospects SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Printf("❌ Prospect update failed: %v", err)
		return err
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return entity.ErrProspectNotFound
	}
	return nil
}

func (r *ProspectRepository) Upsert(ctx context.Context, prospect *entity.Prospect) error {
	query := `
		INSERT INTO prospects (id, user_id, name, email, project, company, first_contact, followup_stage, next_followup, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (user_id, email)
		DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), prospects.name),
			project = COALESCE(NULLIF(EXCLUDED.project, ''), prospects.project),
			company = COALESCE(NULLIF(EXCLUDED.company, ''), prospects.company),
			updated_at = NOW()
		RETURNING id, followup_stage, status, created_at, updated_at
	`

	var nextFollowup interface{}
	if prospect.NextFollowup != nil {
		nextFollowup = prospect.NextFollowup.Format("2006-01-02")
	}

	err := r.DB.QueryRowContext(ctx, query,
		prospect.ID,
		prospect.UserID,
		prospect.Name,
		prospect.Email,
		prospect.Project,
		prospect.Company,
		prospect.FirstContact,
		prospect.FollowupStage,
		nextFollowup,
		prospect.Status,
	).Scan(
		&prospect.ID,
		&prospect.FollowupStage,
		&prospect.Status,
		&prospect.CreatedAt,
		&prospect.UpdatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return entity.ErrEmailAlreadyExists
	}
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProspect(row rowScanner) (*entity.Prospect, error) {
	var p entity.Prospect
	var project, company sql.NullString
	var nextFollowup, lastContact sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Email,
		&project,
		&company,
		&p.FirstContact,
		&p.FollowupStage,
		&nextFollowup,
		&lastContact,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Project = project.String
	p.Company = company.String
	if nextFollowup.Valid {
		p.NextFollowup = &nextFollowup.Time
	}
	if lastContact.Valid {
		p.LastContact = &lastContact.Time
	}
	return &p, nil
}
