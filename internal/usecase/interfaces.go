package usecase

import (
	"context"
	"time"
)

// EmailDispatcher is what the batch scheduler and the queue worker call.
// *DispatchEmailUseCase is the only production implementation.
type EmailDispatcher interface {
	Execute(ctx context.Context, input DispatchInput) (*DispatchResult, error)
}

// DispatchConfig groups the engine's tunables so nothing reads the
// environment from inside the engine.
type DispatchConfig struct {
	InteractiveCooldown time.Duration
	BatchCooldown       time.Duration
	StageCeiling        int
	SendTimeout         time.Duration
}

// DefaultDispatchConfig mirrors production values: 10 minute interactive
// cooldown, 24 hour batch cooldown, three follow-up stages.
func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{
		InteractiveCooldown: 10 * time.Minute,
		BatchCooldown:       24 * time.Hour,
		StageCeiling:        3,
		SendTimeout:         30 * time.Second,
	}
}
