package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Delivery statuses of a history entry.
const (
	HistorySent   = "Sent"
	HistoryFailed = "Failed"
)

// HistoryEntry records that one template was sent to one prospect.
// The pair (prospect_id, template_id) is the dedup key: there is never
// more than one Sent entry for it.
type HistoryEntry struct {
	ID         string    `json:"id"`
	ProspectID string    `json:"prospect_id"`
	TemplateID string    `json:"template_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	SentAt     time.Time `json:"sent_at"`
}

type HistoryRepositoryInterface interface {
	ListByProspect(ctx context.Context, prospectID string) ([]*HistoryEntry, error)
	FindRecent(ctx context.Context, prospectID string, since time.Time) (*HistoryEntry, error)

	// Insert is conditional on the dedup key: it reports false when an
	// entry for (prospect_id, template_id) already landed.
	Insert(ctx context.Context, entry *HistoryEntry) (bool, error)
}

func NewHistoryEntry(prospectID, templateID, userID string, sentAt time.Time) *HistoryEntry {
	return &HistoryEntry{
		ID:         uuid.New().String(),
		ProspectID: prospectID,
		TemplateID: templateID,
		UserID:     userID,
		Status:     HistorySent,
		SentAt:     sentAt,
	}
}
