package workflows

import (
	"context"
	"errors"
	"testing"

	"frontier/internal/activities"
	"frontier/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func newDiscoveryEnv() *testsuite.TestWorkflowEnvironment {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DiscoveryWorkflow)
	registerActivityName(env, "SearchPapersActivity", func(context.Context, activities.SearchPapersInput) (activities.SearchPapersOutput, error) {
		return activities.SearchPapersOutput{}, nil
	})
	registerActivityName(env, "SummarizePaperActivity", func(context.Context, activities.SummarizePaperInput) (activities.SummarizePaperOutput, error) {
		return activities.SummarizePaperOutput{}, nil
	})
	return env
}

func recordsFor(ids ...string) []models.PaperRecord {
	out := make([]models.PaperRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.PaperRecord{ID: id, Title: "Paper " + id})
	}
	return out
}

func TestDiscoveryWorkflowSummarizesEveryPaper(t *testing.T) {
	env := newDiscoveryEnv()
	env.OnActivity("SearchPapersActivity", mock.Anything, activities.SearchPapersInput{SessionID: "s1", Topic: "Quantum", ResultCap: 3}).
		Return(activities.SearchPapersOutput{Papers: recordsFor("A", "B", "C")}, nil)
	env.OnActivity("SummarizePaperActivity", mock.Anything, mock.MatchedBy(func(in activities.SummarizePaperInput) bool { return in.Paper.ID == "A" })).
		Return(activities.SummarizePaperOutput{PaperID: "A", Cached: true}, nil)
	env.OnActivity("SummarizePaperActivity", mock.Anything, mock.MatchedBy(func(in activities.SummarizePaperInput) bool { return in.Paper.ID != "A" })).
		Return(func(_ context.Context, in activities.SummarizePaperInput) (activities.SummarizePaperOutput, error) {
			return activities.SummarizePaperOutput{PaperID: in.Paper.ID}, nil
		})

	env.ExecuteWorkflow(DiscoveryWorkflow, DiscoveryInput{SessionID: "s1", Topic: "Quantum", Expertise: models.Beginner, ResultCap: 3, MaxConcurrent: 2})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out DiscoveryProgress
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, StatusCompleted, out.Status)
	require.Equal(t, 3, out.Total)
	require.Equal(t, 3, out.Done)
	require.Equal(t, 1, out.Cached)
	require.Zero(t, out.Failed)
	require.Equal(t, map[string]string{"A": "cached", "B": "summarized", "C": "summarized"}, out.PerPaper)
}

func TestDiscoveryWorkflowContinuesPastFailedPaper(t *testing.T) {
	env := newDiscoveryEnv()
	env.OnActivity("SearchPapersActivity", mock.Anything, mock.Anything).
		Return(activities.SearchPapersOutput{Papers: recordsFor("A", "B")}, nil)
	env.OnActivity("SummarizePaperActivity", mock.Anything, mock.MatchedBy(func(in activities.SummarizePaperInput) bool { return in.Paper.ID == "A" })).
		Return(activities.SummarizePaperOutput{}, temporal.NewNonRetryableApplicationError("bad request", "frontier", nil))
	env.OnActivity("SummarizePaperActivity", mock.Anything, mock.MatchedBy(func(in activities.SummarizePaperInput) bool { return in.Paper.ID == "B" })).
		Return(activities.SummarizePaperOutput{PaperID: "B"}, nil)

	env.ExecuteWorkflow(DiscoveryWorkflow, DiscoveryInput{SessionID: "s1", Topic: "t", ResultCap: 2})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out DiscoveryProgress
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, 1, out.Failed)
	require.Equal(t, 1, out.Done)
	require.Equal(t, "failed", out.PerPaper["A"])
}

func TestDiscoveryWorkflowEmptyResult(t *testing.T) {
	env := newDiscoveryEnv()
	env.OnActivity("SearchPapersActivity", mock.Anything, mock.Anything).Return(activities.SearchPapersOutput{}, nil)

	env.ExecuteWorkflow(DiscoveryWorkflow, DiscoveryInput{SessionID: "s1", Topic: "nothing", ResultCap: 5})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out DiscoveryProgress
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, StatusEmpty, out.Status)
	require.Zero(t, out.Total)
}

func TestDiscoveryWorkflowSearchFailure(t *testing.T) {
	env := newDiscoveryEnv()
	env.OnActivity("SearchPapersActivity", mock.Anything, mock.Anything).
		Return(activities.SearchPapersOutput{}, temporal.NewNonRetryableApplicationError("session not found", "frontier", errors.New("session not found")))

	env.ExecuteWorkflow(DiscoveryWorkflow, DiscoveryInput{SessionID: "gone", Topic: "t", ResultCap: 5})
	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
}

func TestDiscoveryWorkflowProgressQuery(t *testing.T) {
	env := newDiscoveryEnv()
	env.OnActivity("SearchPapersActivity", mock.Anything, mock.Anything).
		Return(activities.SearchPapersOutput{Papers: recordsFor("A")}, nil)
	env.OnActivity("SummarizePaperActivity", mock.Anything, mock.Anything).
		Return(activities.SummarizePaperOutput{PaperID: "A"}, nil)

	env.ExecuteWorkflow(DiscoveryWorkflow, DiscoveryInput{SessionID: "s1", Topic: "t", ResultCap: 1})
	require.True(t, env.IsWorkflowCompleted())

	val, err := env.QueryWorkflow(QueryGetProgress)
	require.NoError(t, err)
	var p DiscoveryProgress
	require.NoError(t, val.Get(&p))
	require.Equal(t, StatusCompleted, p.Status)
	require.Equal(t, "summarized", p.PerPaper["A"])
}
