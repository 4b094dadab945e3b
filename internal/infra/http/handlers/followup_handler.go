package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/relaunchapp/followup-service/internal/infra/http/middleware"
	"github.com/relaunchapp/followup-service/internal/usecase"
)

// FollowupRunner is satisfied by *usecase.RunFollowupsUseCase.
type FollowupRunner interface {
	Execute(ctx context.Context, now time.Time) (*usecase.RunSummary, error)
}

// FollowupHandler triggers a full batch run. The periodic scheduler
// calls this endpoint; it is also handy for manual re-runs, which the
// engine's dedup makes idempotent.
type FollowupHandler struct {
	Runner FollowupRunner
}

func NewFollowupHandler(runner FollowupRunner) *FollowupHandler {
	return &FollowupHandler{Runner: runner}
}

func (h *FollowupHandler) Handle(w http.ResponseWriter, r *http.Request) {
	middleware.RecordFollowupRun()

	summary, err := h.Runner.Execute(r.Context(), time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
