package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const JobTypeEmailSending = "email_sending"

// UserRunStats is the per-user breakdown inside a batch run log.
type UserRunStats struct {
	UserID             string `json:"user_id"`
	ProspectsProcessed int    `json:"prospects_processed"`
	Success            int    `json:"success"`
	Failed             int    `json:"failed"`
	Duplicates         int    `json:"duplicates"`
}

// RunResults is what gets serialized into the scheduled_job_logs row.
type RunResults struct {
	Success    int            `json:"success"`
	Failed     int            `json:"failed"`
	Duplicates int            `json:"duplicates"`
	Details    []UserRunStats `json:"details"`
	Error      string         `json:"error,omitempty"`
}

type ScheduledJobLog struct {
	ID         string     `json:"id"`
	JobType    string     `json:"job_type"`
	Results    RunResults `json:"results"`
	ExecutedAt time.Time  `json:"executed_at"`
}

type JobLogRepositoryInterface interface {
	Insert(ctx context.Context, log *ScheduledJobLog) error
}

func NewScheduledJobLog(results RunResults) *ScheduledJobLog {
	return &ScheduledJobLog{
		ID:         uuid.New().String(),
		JobType:    JobTypeEmailSending,
		Results:    results,
		ExecutedAt: time.Now(),
	}
}
