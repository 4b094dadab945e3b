package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/relaunchapp/followup-service/internal/infra/http/middleware"
	"github.com/relaunchapp/followup-service/internal/infra/queue"
	"github.com/relaunchapp/followup-service/internal/usecase"
)

// SendHandler exposes the dispatch engine: a synchronous endpoint for
// the dashboard's "send now" button and an async one that enqueues.
type SendHandler struct {
	Dispatcher usecase.EmailDispatcher
	Producer   queue.DispatchProducerInterface
}

func NewSendHandler(dispatcher usecase.EmailDispatcher, producer queue.DispatchProducerInterface) *SendHandler {
	return &SendHandler{
		Dispatcher: dispatcher,
		Producer:   producer,
	}
}

type sendRequest struct {
	ProspectID string `json:"prospect_id"`
	TemplateID string `json:"template_id,omitempty"`
	ForceSend  bool   `json:"force_send,omitempty"`
}

func (h *SendHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	result, err := h.Dispatcher.Execute(r.Context(), usecase.DispatchInput{
		ProspectID: req.ProspectID,
		TemplateID: req.TemplateID,
		ForceSend:  req.ForceSend,
		Mode:       usecase.ModeInteractive,
	})
	if err != nil {
		middleware.RecordDispatch("failed", string(usecase.ModeInteractive))

		var domainErr *usecase.DomainError
		if errors.As(err, &domainErr) {
			status := http.StatusBadRequest
			if domainErr.Code == usecase.CodeConfigMissing {
				// Setup problem, not a request problem. The dashboard
				// shows the message verbatim as a banner.
				status = http.StatusInternalServerError
			}
			writeError(w, status, domainErr.Message)
			return
		}

		// Transport and store failures keep the partial result when the
		// engine produced one.
		if result != nil {
			writeJSON(w, http.StatusBadGateway, result)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RecordDispatch(dispatchOutcome(result), string(usecase.ModeInteractive))
	writeJSON(w, http.StatusOK, result)
}

// HandleAsync enqueues the dispatch instead of waiting on the send. The
// queue worker re-runs every dedup check, so double submits are safe.
func (h *SendHandler) HandleAsync(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.ProspectID == "" {
		writeError(w, http.StatusBadRequest, "prospect_id is required")
		return
	}

	err := h.Producer.PublishDispatch(r.Context(), queue.DispatchPayload{
		ProspectID: req.ProspectID,
		TemplateID: req.TemplateID,
		ForceSend:  req.ForceSend,
		Origin:     "API_ASYNC",
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "failed to enqueue dispatch: "+err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"queued":      true,
		"prospect_id": req.ProspectID,
	})
}

func dispatchOutcome(result *usecase.DispatchResult) string {
	switch {
	case result.Cooldown:
		return "cooldown"
	case result.Duplicate:
		return "duplicate"
	case result.NoTemplate:
		return "no_template"
	case result.Success:
		return "sent"
	default:
		return "failed"
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
