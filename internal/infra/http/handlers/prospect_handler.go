package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/relaunchapp/followup-service/internal/entity"
)

// ProspectHandler is the capture endpoint behind the dashboard's "add
// prospect" form and the public API. Rate limited per IP because it is
// reachable without a session.
type ProspectHandler struct {
	prospectRepo entity.ProspectRepositoryInterface
	rateLimiter  *RateLimiter
}

func NewProspectHandler(prospectRepo entity.ProspectRepositoryInterface) *ProspectHandler {
	return &ProspectHandler{
		prospectRepo: prospectRepo,
		rateLimiter:  NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

type captureProspectRequest struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email"`
	Project string `json:"project,omitempty"`
	Company string `json:"company,omitempty"`
}

type captureProspectResponse struct {
	Success    bool   `json:"success"`
	ProspectID string `json:"prospect_id,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (h *ProspectHandler) Capture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, captureProspectResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var req captureProspectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, captureProspectResponse{
			Success: false,
			Message: "Invalid JSON",
		})
		return
	}

	prospect, err := entity.NewProspect(req.UserID, req.Name, req.Email, req.Project, req.Company)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, captureProspectResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	if err := h.prospectRepo.Upsert(ctx, prospect); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			writeJSON(w, http.StatusConflict, captureProspectResponse{
				Success: false,
				Message: err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, captureProspectResponse{
			Success: false,
			Message: "Failed to capture prospect",
		})
		return
	}

	writeJSON(w, http.StatusOK, captureProspectResponse{
		Success:    true,
		ProspectID: prospect.ID,
	})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
