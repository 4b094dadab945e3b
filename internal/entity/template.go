package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Template struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Stage     int       `json:"stage"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TemplateRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*Template, error)
	FindByUserAndStage(ctx context.Context, userID string, stage int) (*Template, error)

	// ListByUser returns the user's templates ordered by stage ascending.
	ListByUser(ctx context.Context, userID string) ([]*Template, error)
	Create(ctx context.Context, template *Template) error
}

// Factory
func NewTemplate(userID string, stage int, subject, body string) (*Template, error) {
	template := &Template{
		ID:        uuid.New().String(),
		UserID:    userID,
		Stage:     stage,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := template.Validate(); err != nil {
		return nil, err
	}

	return template, nil
}

func (t *Template) Validate() error {
	if t.UserID == "" {
		return errors.New("user_id is required")
	}
	if t.Stage < 1 {
		return errors.New("stage must be at least 1")
	}
	if t.Subject == "" {
		return errors.New("subject is required")
	}
	if t.Body == "" {
		return errors.New("body is required")
	}
	return nil
}
