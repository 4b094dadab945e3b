package usecase

import "time"

// DispatchMode selects the cooldown window: interactive sends use the
// short window, batch follow-ups the long one.
type DispatchMode string

const (
	ModeInteractive DispatchMode = "interactive"
	ModeBatch       DispatchMode = "batch"
)

type DispatchInput struct {
	ProspectID string `json:"prospect_id"`

	// TemplateID pins an explicit template. Empty means "resolve from
	// the prospect's current stage".
	TemplateID string `json:"template_id,omitempty"`

	// ForceSend bypasses the exact-pair dedup check (used internally
	// when the engine has already picked an unsent template).
	ForceSend bool `json:"force_send,omitempty"`

	// SkipCooldown is for prospect-agnostic test sends from the UI.
	SkipCooldown bool `json:"skip_cooldown,omitempty"`

	Mode DispatchMode `json:"mode,omitempty"`
}

type ProspectSnapshot struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	FollowupStage int    `json:"followup_stage"`
	Status        string `json:"status"`
}

type DispatchResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message,omitempty"`
	Duplicate        bool   `json:"duplicate,omitempty"`
	Cooldown         bool   `json:"cooldown,omitempty"`
	AllTemplatesSent bool   `json:"all_templates_sent,omitempty"`
	NoTemplate       bool   `json:"no_template,omitempty"`

	TemplateID         string `json:"template_id,omitempty"`
	OriginalTemplateID string `json:"original_template_id,omitempty"`
	NextTemplateID     string `json:"next_template_id,omitempty"`
	NextTemplateStage  int    `json:"next_template_stage,omitempty"`
	ProviderMessageID  string `json:"id,omitempty"`

	RecentSentAt *time.Time        `json:"recent_sent_at,omitempty"`
	Prospect     *ProspectSnapshot `json:"prospect,omitempty"`
}

type RunSummary struct {
	Message    string             `json:"message"`
	Total      int                `json:"total"`
	Success    int                `json:"success"`
	Failed     int                `json:"failed"`
	Duplicates int                `json:"duplicates"`
	Results    []ProspectRunEntry `json:"results,omitempty"`
}

// ProspectRunEntry is the per-prospect outcome inside a batch run.
type ProspectRunEntry struct {
	Prospect  string `json:"prospect"`
	UserID    string `json:"user_id"`
	Success   bool   `json:"success"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Error     string `json:"error,omitempty"`
}
