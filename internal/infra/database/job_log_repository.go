package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/relaunchapp/followup-service/internal/entity"
)

type JobLogRepository struct {
	DB *sql.DB
}

func NewJobLogRepository(db *sql.DB) *JobLogRepository {
	return &JobLogRepository{DB: db}
}

func (r *JobLogRepository) Insert(ctx context.Context, log *entity.ScheduledJobLog) error {
	results, err := json.Marshal(log.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal run results: %w", err)
	}

	query := `
		INSERT INTO scheduled_job_logs (id, job_type, results, executed_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = r.DB.ExecContext(ctx, query, log.ID, log.JobType, results, log.ExecutedAt)
	return err
}
