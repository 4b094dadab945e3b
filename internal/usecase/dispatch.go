package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/relaunchapp/followup-service/internal/entity"
	"github.com/relaunchapp/followup-service/internal/infra/mail"
)

// DispatchEmailUseCase decides whether a follow-up may go out now, sends
// it, records history and advances the prospect. One call handles one
// (prospect, template) attempt; the checks run in a fixed order:
//
//  1. recent-send cooldown
//  2. exact-pair dedup, walking forward to the next unsent template
//  3. terminal completion when no template remains
//  4. placeholder substitution
//  5. transport delivery
//  6. history insert + stage advancement (only after a delivered send)
type DispatchEmailUseCase struct {
	Prospects  entity.ProspectRepositoryInterface
	Templates  entity.TemplateRepositoryInterface
	History    entity.HistoryRepositoryInterface
	Settings   entity.SettingsRepositoryInterface
	Resolver   *TemplateResolver
	Transports mail.TransportSelector
	Config     DispatchConfig

	// Now is swappable in tests. Defaults to time.Now.
	Now func() time.Time
}

func NewDispatchEmailUseCase(
	prospects entity.ProspectRepositoryInterface,
	templates entity.TemplateRepositoryInterface,
	history entity.HistoryRepositoryInterface,
	settings entity.SettingsRepositoryInterface,
	resolver *TemplateResolver,
	transports mail.TransportSelector,
	config DispatchConfig,
) *DispatchEmailUseCase {
	return &DispatchEmailUseCase{
		Prospects:  prospects,
		Templates:  templates,
		History:    history,
		Settings:   settings,
		Resolver:   resolver,
		Transports: transports,
		Config:     config,
		Now:        time.Now,
	}
}

func (uc *DispatchEmailUseCase) Execute(ctx context.Context, input DispatchInput) (*DispatchResult, error) {
	if input.ProspectID == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "prospect_id is required"}
	}

	now := uc.Now()

	prospect, err := uc.Prospects.FindByID(ctx, input.ProspectID)
	if err != nil {
		if errors.Is(err, entity.ErrProspectNotFound) {
			return nil, &DomainError{Code: CodeValidation, Message: "prospect not found: " + input.ProspectID}
		}
		return nil, &TechnicalError{Code: CodeStoreFailure, Message: "failed to load prospect", Cause: err}
	}

	settings, err := uc.Settings.FindByUserID(ctx, prospect.UserID)
	if err != nil {
		return nil, &TechnicalError{Code: CodeStoreFailure, Message: "failed to load settings", Cause: err}
	}
	if settings == nil || settings.EmailProvider == "" {
		return nil, &DomainError{Code: CodeConfigMissing, Message: ErrConfigMissing.Error()}
	}

	template, terminal, err := uc.pickTemplate(ctx, prospect, input.TemplateID)
	if err != nil {
		return nil, err
	}
	if terminal {
		return uc.complete(ctx, prospect)
	}

	// 1. Cooldown: absorbs duplicate triggers (double clicks, retried
	// batch jobs) without a distributed lock.
	if !input.SkipCooldown {
		window := uc.cooldownFor(input.Mode)
		recent, err := uc.History.FindRecent(ctx, prospect.ID, now.Add(-window))
		if err != nil {
			return nil, &TechnicalError{Code: CodeStoreFailure, Message: "failed to check recent history", Cause: err}
		}
		if recent != nil {
			log.Printf("⏳ Prospect %s was emailed at %s, inside the %s cooldown", prospect.ID, recent.SentAt.Format(time.RFC3339), window)
			sentAt := recent.SentAt
			return &DispatchResult{
				Success:      false,
				Duplicate:    true,
				Cooldown:     true,
				Message:      "an email was already sent to this prospect recently",
				TemplateID:   template.ID,
				RecentSentAt: &sentAt,
			}, nil
		}
	}

	// 2. Exact-pair dedup over one in-memory snapshot of the prospect's
	// history and the user's ordered templates.
	originalTemplateID := ""
	if !input.ForceSend {
		entries, err := uc.History.ListByProspect(ctx, prospect.ID)
		if err != nil {
			return nil, &TechnicalError{Code: CodeStoreFailure, Message: "failed to load history", Cause: err}
		}
		sent := sentTemplateSet(entries)

		if sent[template.ID] {
			log.Printf("🔁 Template %s already sent to prospect %s, looking for the next unsent one", template.ID, prospect.ID)

			ordered, err := uc.Templates.ListByUser(ctx, prospect.UserID)
			if err != nil {
				return nil, &TechnicalError{Code: CodeStoreFailure, Message: "failed to list templates", Cause: err}
			}

			next := nextUnsentTemplate(ordered, sent, indexOfTemplate(ordered, template.ID))
			if next == nil {
				log.Printf("🏁 All templates already sent to prospect %s", prospect.ID)
				return &DispatchResult{
					Success:          false,
					Duplicate:        true,
					AllTemplatesSent: true,
					Message:          "every template has already been sent to this prospect",
					TemplateID:       template.ID,
				}, nil
			}

			log.Printf("➡️ Advancing prospect %s from template %s to %s (stage %d)", prospect.ID, template.ID, next.ID, next.Stage)
			originalTemplateID = template.ID
			template = next
		}
	}

	// 4. + 5. Render and deliver.
	rendered := Render(template, prospect)

	transport, err := uc.Transports.ForSettings(settings)
	if err != nil {
		return nil, &DomainError{Code: CodeConfigMissing, Message: err.Error()}
	}

	sendCtx, cancel := context.WithTimeout(ctx, uc.sendTimeout())
	defer cancel()

	providerID, err := transport.Send(sendCtx, prospect.Email, rendered.Subject, rendered.HTML)
	if err != nil {
		log.Printf("❌ Transport failure for prospect %s: %v", prospect.ID, err)
		return &DispatchResult{
				Success:    false,
				Message:    "failed to send email: " + err.Error(),
				TemplateID: template.ID,
			}, &TechnicalError{
				Code:    CodeTransportFailure,
				Message: fmt.Sprintf("failed to send email: %v", err),
				Cause:   err,
			}
	}

	log.Printf("✅ Email sent to %s (template %s, provider id %s)", prospect.Email, template.ID, providerID)

	// 6. Bookkeeping. The insert is conditional on the dedup key, so a
	// concurrent dispatch that already landed just turns this into a
	// no-op instead of a second Sent row.
	result := &DispatchResult{
		Success:            true,
		Message:            "email sent successfully",
		TemplateID:         template.ID,
		OriginalTemplateID: originalTemplateID,
		ProviderMessageID:  providerID,
	}
	if originalTemplateID != "" {
		result.NextTemplateID = template.ID
		result.NextTemplateStage = template.Stage
		result.Message = "the next unsent template was sent automatically"
	}

	entry := entity.NewHistoryEntry(prospect.ID, template.ID, prospect.UserID, now)
	inserted, err := uc.History.Insert(ctx, entry)
	if err != nil {
		// The email is already out. Losing the history row risks a
		// re-send on the next run, so this gets surfaced loudly.
		log.Printf("🚨 CRITICAL: email sent to prospect %s but history insert failed: %v", prospect.ID, err)
		result.Message = "email sent but history could not be recorded"
	} else if !inserted {
		log.Printf("🔁 History entry for prospect %s template %s already existed, insert skipped", prospect.ID, template.ID)
		result.Duplicate = true
	}

	uc.advance(ctx, prospect, settings, template, now, result)

	return result, nil
}

// pickTemplate loads the explicit template or resolves one from the
// prospect's stage. terminal reports that nothing is left to send.
func (uc *DispatchEmailUseCase) pickTemplate(ctx context.Context, prospect *entity.Prospect, templateID string) (*entity.Template, bool, error) {
	if templateID != "" {
		template, err := uc.Templates.FindByID(ctx, templateID)
		if err != nil {
			if errors.Is(err, entity.ErrTemplateNotFound) {
				return nil, false, &DomainError{Code: CodeValidation, Message: "template not found: " + templateID}
			}
			return nil, false, &TechnicalError{Code: CodeStoreFailure, Message: "failed to load template", Cause: err}
		}
		return template, false, nil
	}

	template, err := uc.Resolver.Resolve(ctx, prospect.UserID, prospect.FollowupStage)
	if err != nil {
		if errors.Is(err, ErrNoTemplate) {
			return nil, true, nil
		}
		return nil, false, &TechnicalError{Code: CodeStoreFailure, Message: "failed to resolve template", Cause: err}
	}
	return template, false, nil
}

// complete marks a prospect terminal: no template exists past the
// ceiling, so the sequence is over. No history entry is created.
func (uc *DispatchEmailUseCase) complete(ctx context.Context, prospect *entity.Prospect) (*DispatchResult, error) {
	log.Printf("🏁 No template left for prospect %s (stage %d), marking Completed", prospect.ID, prospect.FollowupStage)

	status := entity.StatusCompleted
	if err := uc.Prospects.Update(ctx, prospect.ID, entity.ProspectUpdate{
		Status:            &status,
		ClearNextFollowup: true,
	}); err != nil {
		return nil, &TechnicalError{Code: CodeStoreFailure, Message: "failed to mark prospect completed", Cause: err}
	}

	return &DispatchResult{
		Success:    false,
		NoTemplate: true,
		Message:    "all follow-up stages completed, nothing to send",
		Prospect: &ProspectSnapshot{
			ID:            prospect.ID,
			Name:          prospect.Name,
			Email:         prospect.Email,
			FollowupStage: prospect.FollowupStage,
			Status:        entity.StatusCompleted,
		},
	}, nil
}

// advance moves the prospect to the stage after the sent template and
// schedules the next follow-up from the user's timing table. Stage never
// decreases, even when an older template was re-attempted.
func (uc *DispatchEmailUseCase) advance(ctx context.Context, prospect *entity.Prospect, settings *entity.Settings, template *entity.Template, now time.Time, result *DispatchResult) {
	nextStage := template.Stage + 1
	if nextStage < prospect.FollowupStage {
		nextStage = prospect.FollowupStage
	}

	update := entity.ProspectUpdate{
		FollowupStage: &nextStage,
		LastContact:   &now,
	}

	status := entity.StatusPending
	if days := settings.DaysForStage(nextStage); days > 0 {
		due := now.AddDate(0, 0, days)
		update.NextFollowup = &due
	} else {
		status = entity.StatusCompleted
		update.ClearNextFollowup = true
	}
	update.Status = &status

	if err := uc.Prospects.Update(ctx, prospect.ID, update); err != nil {
		log.Printf("🚨 CRITICAL: email sent to prospect %s but stage update failed: %v", prospect.ID, err)
		result.Message = "email sent but prospect update failed"
		return
	}

	result.Prospect = &ProspectSnapshot{
		ID:            prospect.ID,
		Name:          prospect.Name,
		Email:         prospect.Email,
		FollowupStage: nextStage,
		Status:        status,
	}
}

func (uc *DispatchEmailUseCase) cooldownFor(mode DispatchMode) time.Duration {
	if mode == ModeBatch {
		if uc.Config.BatchCooldown > 0 {
			return uc.Config.BatchCooldown
		}
		return 24 * time.Hour
	}
	if uc.Config.InteractiveCooldown > 0 {
		return uc.Config.InteractiveCooldown
	}
	return 10 * time.Minute
}

func (uc *DispatchEmailUseCase) sendTimeout() time.Duration {
	if uc.Config.SendTimeout > 0 {
		return uc.Config.SendTimeout
	}
	return 30 * time.Second
}

func sentTemplateSet(entries []*entity.HistoryEntry) map[string]bool {
	sent := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Status == entity.HistorySent {
			sent[e.TemplateID] = true
		}
	}
	return sent
}

func indexOfTemplate(ordered []*entity.Template, id string) int {
	for i, t := range ordered {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextUnsentTemplate walks the ordered template list starting just after
// fromIndex and returns the first one with no Sent history, or nil when
// the sequence is exhausted. Pure function, bounded by the list length.
func nextUnsentTemplate(ordered []*entity.Template, sent map[string]bool, fromIndex int) *entity.Template {
	for i := fromIndex + 1; i < len(ordered); i++ {
		if !sent[ordered[i].ID] {
			return ordered[i]
		}
	}
	return nil
}
