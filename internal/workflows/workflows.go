package workflows

import (
	"time"

	"frontier/internal/activities"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const QueryGetProgress = "GetProgress"

// DiscoveryWorkflow searches for a topic and summarizes every result into the
// session's corpus. A paper that keeps failing is marked failed and the rest go on.
func DiscoveryWorkflow(ctx workflow.Context, input DiscoveryInput) (DiscoveryProgress, error) {
	progress := DiscoveryProgress{
		SessionID: input.SessionID,
		Topic:     input.Topic,
		Status:    StatusSearching,
		PerPaper:  map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetProgress, func() (DiscoveryProgress, error) {
		return progress, nil
	}); err != nil {
		return progress, err
	}

	// One attempt per activity: the arXiv client retries on its own and a failed
	// summary is reported per paper, not regenerated.
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	logger := workflow.GetLogger(ctx)

	var searchOut activities.SearchPapersOutput
	if err := workflow.ExecuteActivity(ctx, "SearchPapersActivity", activities.SearchPapersInput{
		SessionID: input.SessionID,
		Topic:     input.Topic,
		ResultCap: input.ResultCap,
	}).Get(ctx, &searchOut); err != nil {
		progress.Status = StatusFailed
		return progress, err
	}
	papers := searchOut.Papers
	progress.Total = len(papers)
	if len(papers) == 0 {
		progress.Status = StatusEmpty
		return progress, nil
	}

	progress.Status = StatusSummarizing
	batch := input.MaxConcurrent
	if batch <= 0 {
		batch = 3
	}
	for i := 0; i < len(papers); i += batch {
		end := min(i+batch, len(papers))
		futures := make([]workflow.Future, 0, end-i)
		for _, p := range papers[i:end] {
			progress.PerPaper[p.ID] = "processing"
			futures = append(futures, workflow.ExecuteActivity(ctx, "SummarizePaperActivity", activities.SummarizePaperInput{
				SessionID: input.SessionID,
				Paper:     p,
				Expertise: input.Expertise,
			}))
		}
		for idx, f := range futures {
			id := papers[i+idx].ID
			var out activities.SummarizePaperOutput
			if err := f.Get(ctx, &out); err != nil {
				logger.Warn("summary failed", "paper_id", id, "error", err)
				progress.Failed++
				progress.PerPaper[id] = "failed"
				continue
			}
			progress.Done++
			if out.Cached {
				progress.Cached++
				progress.PerPaper[id] = "cached"
			} else {
				progress.PerPaper[id] = "summarized"
			}
		}
	}
	progress.Status = StatusCompleted
	return progress, nil
}
