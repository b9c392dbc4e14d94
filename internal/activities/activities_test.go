package activities

import (
	"context"
	"errors"
	"testing"

	"frontier/internal/models"
	"frontier/internal/providers"
	"frontier/internal/search"
	"frontier/internal/session"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
)

func newRegistry() *session.Registry {
	return session.NewRegistry(search.NewMockProvider(), providers.NewMockProvider(), session.Options{
		ResultCap:      10,
		SummaryModel:   "m",
		SummaryWorkers: 1,
		Chat:           session.ChatSettings{Model: "m", MaxTokens: 400, HistoryWindow: 10, TranscriptLimit: 30},
	})
}

func TestSearchAndSummarizeActivities(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()
	reg := newRegistry()
	s := reg.Create(context.Background())
	a := New(reg)
	env.RegisterActivity(a.SearchPapersActivity)
	env.RegisterActivity(a.SummarizePaperActivity)

	val, err := env.ExecuteActivity(a.SearchPapersActivity, SearchPapersInput{SessionID: s.ID, Topic: "qubits", ResultCap: 2})
	require.NoError(t, err)
	var found SearchPapersOutput
	require.NoError(t, val.Get(&found))
	require.Len(t, found.Papers, 2)

	in := SummarizePaperInput{SessionID: s.ID, Paper: found.Papers[0], Expertise: models.Beginner}
	val, err = env.ExecuteActivity(a.SummarizePaperActivity, in)
	require.NoError(t, err)
	var out SummarizePaperOutput
	require.NoError(t, val.Get(&out))
	require.False(t, out.Cached)
	require.Equal(t, 1, s.Corpus().Len())

	val, err = env.ExecuteActivity(a.SummarizePaperActivity, in)
	require.NoError(t, err)
	require.NoError(t, val.Get(&out))
	require.True(t, out.Cached)
	require.Equal(t, 1, s.Corpus().Len())
}

func TestActivitiesUnknownSessionIsNotRetried(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()
	a := New(newRegistry())
	env.RegisterActivity(a.SearchPapersActivity)

	_, err := env.ExecuteActivity(a.SearchPapersActivity, SearchPapersInput{SessionID: "missing", Topic: "t", ResultCap: 1})
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.True(t, appErr.NonRetryable())
}
