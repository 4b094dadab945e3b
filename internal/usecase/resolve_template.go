package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/relaunchapp/followup-service/internal/entity"
)

// Built-in templates used when a user never wrote one for stages 1-3.
// They are persisted on first use so the UI can show and edit them.
var defaultTemplates = map[int]struct{ Subject, Body string }{
	1: {
		Subject: "Just following up on {project}",
		Body:    "Hi {name}, just checking in on our project {project} — happy to answer any questions.",
	},
	2: {
		Subject: "Quick follow-up on our exchange",
		Body:    "Hey {name}, wanted to follow up again. Let me know if you'd like to move forward with {project}.",
	},
	3: {
		Subject: "Final follow-up – let me know!",
		Body:    "Just one last check-in {name} — if you're still interested in {project}, I'm here!",
	},
}

// TemplateResolver maps (user, stage) to a template, falling back to the
// built-in defaults so the pipeline never stalls on missing content.
type TemplateResolver struct {
	Templates entity.TemplateRepositoryInterface
}

func NewTemplateResolver(templates entity.TemplateRepositoryInterface) *TemplateResolver {
	return &TemplateResolver{Templates: templates}
}

// Resolve returns the user's template for the stage. When none exists it
// synthesizes a default for stages 1-3 and returns ErrNoTemplate above
// that (the signal for terminal completion).
func (r *TemplateResolver) Resolve(ctx context.Context, userID string, stage int) (*entity.Template, error) {
	template, err := r.Templates.FindByUserAndStage(ctx, userID, stage)
	if err == nil {
		return template, nil
	}
	if !errors.Is(err, entity.ErrTemplateNotFound) {
		return nil, fmt.Errorf("failed to look up template for stage %d: %w", stage, err)
	}

	canned, ok := defaultTemplates[stage]
	if !ok {
		return nil, ErrNoTemplate
	}

	fresh, err := entity.NewTemplate(userID, stage, canned.Subject, canned.Body)
	if err != nil {
		return nil, err
	}

	if err := r.Templates.Create(ctx, fresh); err != nil {
		return nil, fmt.Errorf("failed to create default template for stage %d: %w", stage, err)
	}

	log.Printf("📝 Default template created for user %s stage %d", userID, stage)
	return fresh, nil
}
