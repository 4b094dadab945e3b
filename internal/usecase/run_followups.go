package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/relaunchapp/followup-service/internal/entity"
)

// RunFollowupsUseCase is the batch scheduler: it selects every prospect
// due today, fans out to the dispatch engine and writes one
// scheduled_job_logs row per run, even an empty one. It holds no lock of
// its own; re-running the same batch is safe because the engine's dedup
// absorbs the repeats.
type RunFollowupsUseCase struct {
	Prospects  entity.ProspectRepositoryInterface
	JobLogs    entity.JobLogRepositoryInterface
	Dispatcher EmailDispatcher
	Config     DispatchConfig
}

func NewRunFollowupsUseCase(
	prospects entity.ProspectRepositoryInterface,
	jobLogs entity.JobLogRepositoryInterface,
	dispatcher EmailDispatcher,
	config DispatchConfig,
) *RunFollowupsUseCase {
	return &RunFollowupsUseCase{
		Prospects:  prospects,
		JobLogs:    jobLogs,
		Dispatcher: dispatcher,
		Config:     config,
	}
}

func (uc *RunFollowupsUseCase) Execute(ctx context.Context, now time.Time) (*RunSummary, error) {
	ceiling := uc.Config.StageCeiling
	if ceiling <= 0 {
		ceiling = 3
	}

	prospects, err := uc.Prospects.ListDue(ctx, entity.StatusPending, ceiling, now)
	if err != nil {
		uc.logRun(ctx, entity.RunResults{Error: "failed to list due prospects: " + err.Error()})
		return nil, &TechnicalError{Code: CodeStoreFailure, Message: "failed to list due prospects", Cause: err}
	}

	if len(prospects) == 0 {
		log.Println("📭 No follow-ups due today")
		uc.logRun(ctx, entity.RunResults{})
		return &RunSummary{Message: "no follow-ups due today"}, nil
	}

	log.Printf("📬 Processing %d due follow-up(s)", len(prospects))

	// One goroutine per prospect; a failure for one must never abort the
	// siblings, so each outcome is captured in its own slot.
	entries := make([]ProspectRunEntry, len(prospects))
	var wg sync.WaitGroup

	for i, prospect := range prospects {
		wg.Add(1)
		go func(i int, prospect *entity.Prospect) {
			defer wg.Done()
			entries[i] = uc.processOne(ctx, prospect)
		}(i, prospect)
	}

	wg.Wait()

	summary := summarize(entries)
	uc.logRun(ctx, toRunResults(entries))

	log.Printf("🏁 Batch finished: %d sent, %d failed, %d duplicates", summary.Success, summary.Failed, summary.Duplicates)
	return summary, nil
}

func (uc *RunFollowupsUseCase) processOne(ctx context.Context, prospect *entity.Prospect) ProspectRunEntry {
	entry := ProspectRunEntry{
		Prospect: prospect.Email,
		UserID:   prospect.UserID,
	}

	result, err := uc.Dispatcher.Execute(ctx, DispatchInput{
		ProspectID: prospect.ID,
		Mode:       ModeBatch,
	})
	if err != nil {
		entry.Error = err.Error()
		return entry
	}

	entry.Success = result.Success
	entry.Duplicate = result.Duplicate
	if !result.Success && !result.Duplicate && result.Message != "" {
		entry.Error = result.Message
	}
	return entry
}

func (uc *RunFollowupsUseCase) logRun(ctx context.Context, results entity.RunResults) {
	if err := uc.JobLogs.Insert(ctx, entity.NewScheduledJobLog(results)); err != nil {
		log.Printf("⚠️ Failed to persist scheduled job log: %v", err)
	}
}

func summarize(entries []ProspectRunEntry) *RunSummary {
	summary := &RunSummary{
		Total:   len(entries),
		Results: entries,
	}
	for _, e := range entries {
		switch {
		case e.Success:
			summary.Success++
		case e.Duplicate:
			summary.Duplicates++
		default:
			summary.Failed++
		}
	}
	summary.Message = fmt.Sprintf("processed %d follow-ups: %d sent, %d failed, %d duplicates",
		summary.Total, summary.Success, summary.Failed, summary.Duplicates)
	return summary
}

// toRunResults groups outcomes per user for the job log.
func toRunResults(entries []ProspectRunEntry) entity.RunResults {
	results := entity.RunResults{}
	byUser := make(map[string]*entity.UserRunStats)
	order := make([]string, 0)

	for _, e := range entries {
		stats, ok := byUser[e.UserID]
		if !ok {
			stats = &entity.UserRunStats{UserID: e.UserID}
			byUser[e.UserID] = stats
			order = append(order, e.UserID)
		}

		stats.ProspectsProcessed++
		switch {
		case e.Success:
			stats.Success++
			results.Success++
		case e.Duplicate:
			stats.Duplicates++
			results.Duplicates++
		default:
			stats.Failed++
			results.Failed++
		}
	}

	for _, userID := range order {
		results.Details = append(results.Details, *byUser[userID])
	}
	return results
}
