package worker

import (
	"context"
	"log"
	"time"
)

// FollowupWorker triggers the batch scheduler on a fixed interval. It
// carries no state of its own; the engine's dedup makes overlapping or
// repeated runs safe.
type FollowupWorker struct {
	run          func(ctx context.Context, now time.Time) error
	tickInterval time.Duration
}

func NewFollowupWorker(run func(ctx context.Context, now time.Time) error, tickInterval time.Duration) *FollowupWorker {
	if tickInterval <= 0 {
		tickInterval = time.Hour
	}
	return &FollowupWorker{
		run:          run,
		tickInterval: tickInterval,
	}
}

func (w *FollowupWorker) Start(ctx context.Context) {
	log.Printf("🕒 Follow-up worker started (every %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Follow-up worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *FollowupWorker) runOnce(ctx context.Context) {
	if err := w.run(ctx, time.Now()); err != nil {
		log.Printf("❌ Scheduled follow-up run failed: %v", err)
	}
}
