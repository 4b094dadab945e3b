package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Lifecycle statuses of a prospect.
const (
	StatusPending      = "Pending"
	StatusSent         = "Sent"
	StatusOpened       = "Opened"
	StatusClicked      = "Clicked"
	StatusResponded    = "Responded"
	StatusUnsubscribed = "Unsubscribed"
	StatusCompleted    = "Completed"
)

type Prospect struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Project       string     `json:"project,omitempty"`
	Company       string     `json:"company,omitempty"`
	FirstContact  time.Time  `json:"first_contact"`
	FollowupStage int        `json:"followup_stage"`
	NextFollowup  *time.Time `json:"next_followup,omitempty"`
	LastContact   *time.Time `json:"last_contact,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ProspectUpdate carries the fields the dispatch flow is allowed to touch.
// Nil pointers mean "leave as is"; ClearNextFollowup wins over NextFollowup.
type ProspectUpdate struct {
	FollowupStage     *int
	NextFollowup      *time.Time
	ClearNextFollowup bool
	Status            *string
	LastContact       *time.Time
}

type ProspectRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*Prospect, error)
	ListDue(ctx context.Context, status string, stageCeiling int, due time.Time) ([]*Prospect, error)
	Update(ctx context.Context, id string, update ProspectUpdate) error
	Upsert(ctx context.Context, prospect *Prospect) error
}

// Factory
func NewProspect(userID, name, email, project, company string) (*Prospect, error) {
	prospect := &Prospect{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          name,
		Email:         email,
		Project:       project,
		Company:       company,
		FirstContact:  time.Now(),
		FollowupStage: 1,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := prospect.Validate(); err != nil {
		return nil, err
	}

	return prospect, nil
}

func (p *Prospect) Validate() error {
	if p.UserID == "" {
		return errors.New("user_id is required")
	}
	if p.Email == "" {
		return errors.New("email is required")
	}
	if p.FollowupStage < 1 {
		return errors.New("followup_stage must be at least 1")
	}
	return nil
}
