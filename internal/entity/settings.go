package entity

import (
	"context"
	"time"
)

// Settings holds a user's email provider credentials and the follow-up
// timing table (stage number -> days to wait before that stage is due).
type Settings struct {
	UserID         string      `json:"user_id"`
	EmailProvider  string      `json:"email_provider"` // smtp, resend
	EmailAPIKey    string      `json:"email_api_key"`
	FromEmail      string      `json:"from_email"`
	FollowupTiming map[int]int `json:"followup_timing"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type SettingsRepositoryInterface interface {
	// FindByUserID returns nil without error when the user has no settings row.
	FindByUserID(ctx context.Context, userID string) (*Settings, error)
	ListAll(ctx context.Context) ([]*Settings, error)
}

// DaysForStage returns the configured wait for a stage, 0 when the
// timing table has no entry (which means the sequence ends there).
func (s *Settings) DaysForStage(stage int) int {
	if s == nil || s.FollowupTiming == nil {
		return 0
	}
	return s.FollowupTiming[stage]
}
