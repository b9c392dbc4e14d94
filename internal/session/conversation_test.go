package session

import (
	"context"
	"fmt"
	"testing"

	"frontier/internal/models"
	"frontier/internal/providers"

	"github.com/stretchr/testify/require"
)

func newTestConversation(lib Library, llm providers.LLMProvider) *Conversation {
	return NewConversation("s1", lib, llm, testOptions().Chat)
}

func TestEmptyCorpusAppendsSingleWarning(t *testing.T) {
	llm := &recordingLLM{}
	conv := newTestConversation(entries(0), llm)

	out := conv.SubmitQuestion(context.Background(), "What is new?", models.Beginner)
	require.Equal(t, StatusNoCorpus, out.Status)
	require.ErrorIs(t, out.Err, ErrNoCorpus)
	require.Empty(t, llm.Calls(providers.OperationChat))

	tr := conv.Transcript()
	require.Len(t, tr, 1)
	require.Equal(t, models.RoleAssistant, tr[0].Role)
	require.Equal(t, models.KindWarning, tr[0].Kind)
	require.Contains(t, tr[0].Content, "No papers loaded")
}

func TestBlankQuestionIsSkipped(t *testing.T) {
	llm := &recordingLLM{}
	conv := newTestConversation(entries(2), llm)

	out := conv.SubmitQuestion(context.Background(), " \n\t", models.Beginner)
	require.Equal(t, StatusSkipped, out.Status)
	require.Zero(t, conv.Len())
	require.Empty(t, llm.calls)
}

func TestAnsweredQuestionAppendsPair(t *testing.T) {
	llm := &recordingLLM{}
	conv := newTestConversation(entries(2), llm)

	out := conv.SubmitQuestion(context.Background(), "Compare them", models.Advanced)
	require.Equal(t, StatusAnswered, out.Status)
	require.Equal(t, "answer", out.Reply)
	require.Len(t, out.Appended, 2)

	tr := conv.Transcript()
	require.Len(t, tr, 2)
	require.Equal(t, models.RoleUser, tr[0].Role)
	require.Equal(t, "Compare them", tr[0].Content)
	require.Equal(t, models.RoleAssistant, tr[1].Role)
	require.Equal(t, models.KindNormal, tr[1].Kind)

	calls := llm.Calls(providers.OperationChat)
	require.Len(t, calls, 1)
	req := calls[0]
	require.Equal(t, "chat-model", req.Model)
	require.NotNil(t, req.Temperature)
	require.InDelta(t, 0.7, *req.Temperature, 1e-9)
	require.Equal(t, 400, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	require.Equal(t, models.RoleSystem, req.Messages[0].Role)
	require.Contains(t, req.Messages[0].Content, "advanced-level user")
	require.Contains(t, req.Messages[0].Content, "Available Papers (2 papers)")
	require.Contains(t, req.Messages[0].Content, "\nPaper: T0\nSummary: S0\n---")
	require.Contains(t, req.Messages[0].Content, "\nPaper: T1\nSummary: S1\n---")
	require.Equal(t, providers.Message{Role: models.RoleUser, Content: "Compare them"}, req.Messages[1])
}

func TestFailedCompletionAppendsErrorTurn(t *testing.T) {
	llm := &recordingLLM{fail: map[string]error{providers.OperationChat: fmt.Errorf("groq generate error 503: unavailable")}}
	conv := newTestConversation(entries(1), llm)

	out := conv.SubmitQuestion(context.Background(), "Why?", models.Beginner)
	require.Equal(t, StatusFailed, out.Status)
	require.Error(t, out.Err)

	tr := conv.Transcript()
	require.Len(t, tr, 2)
	require.Equal(t, models.RoleUser, tr[0].Role)
	require.Equal(t, models.KindError, tr[1].Kind)
	require.Equal(t, "Sorry, there was an error: groq generate error 503: unavailable", tr[1].Content)
}

func TestTranscriptGrowsByOneOrTwo(t *testing.T) {
	llm := &recordingLLM{fail: map[string]error{}}
	lib := entries(0)
	conv := newTestConversation(&lib, llm)

	steps := []struct {
		setup func()
		want  int
	}{
		{func() {}, 1},
		{func() { lib = entries(1) }, 2},
		{func() { llm.fail[providers.OperationChat] = errBoom }, 2},
		{func() { delete(llm.fail, providers.OperationChat) }, 2},
	}
	for i, st := range steps {
		st.setup()
		before := conv.Len()
		conv.SubmitQuestion(context.Background(), fmt.Sprintf("q%d", i), models.Beginner)
		require.Equal(t, st.want, conv.Len()-before, "step %d", i)
	}
}

func TestMarkedTurnsAreNotReplayed(t *testing.T) {
	llm := &recordingLLM{fail: map[string]error{providers.OperationChat: errBoom}}
	lib := entries(0)
	conv := newTestConversation(&lib, llm)

	conv.SubmitQuestion(context.Background(), "first", models.Beginner)
	lib = entries(1)
	conv.SubmitQuestion(context.Background(), "second", models.Beginner)
	delete(llm.fail, providers.OperationChat)
	conv.SubmitQuestion(context.Background(), "third", models.Beginner)

	calls := llm.Calls(providers.OperationChat)
	require.Len(t, calls, 2)
	last := calls[1].Messages
	require.False(t, containsAny(last, "No papers loaded"))
	require.False(t, containsAny(last, "Sorry, there was an error"))
	require.Equal(t, []providers.Message{
		{Role: models.RoleUser, Content: "second"},
		{Role: models.RoleUser, Content: "third"},
	}, last[1:])
}

func TestWindowLimitsReplayedHistory(t *testing.T) {
	llm := &recordingLLM{}
	conv := newTestConversation(entries(1), llm)
	conv.settings.HistoryWindow = 4

	for i := 0; i < 5; i++ {
		conv.SubmitQuestion(context.Background(), fmt.Sprintf("q%d", i), models.Beginner)
	}
	calls := llm.Calls(providers.OperationChat)
	last := calls[len(calls)-1].Messages
	require.Len(t, last, 1+4+1)
	require.Equal(t, "q2", last[1].Content)
	require.Equal(t, "q4", last[len(last)-1].Content)
}

func TestTranscriptLimitAfterEveryAppend(t *testing.T) {
	llm := &recordingLLM{}
	conv := newTestConversation(entries(1), llm)
	conv.settings.TranscriptLimit = 5

	for i := 0; i < 4; i++ {
		conv.SubmitQuestion(context.Background(), fmt.Sprintf("q%d", i), models.Beginner)
		require.LessOrEqual(t, conv.Len(), 5)
	}
	tr := conv.Transcript()
	require.Len(t, tr, 5)
	require.Equal(t, models.RoleAssistant, tr[0].Role)
	require.Equal(t, "q2", tr[1].Content)
	require.Equal(t, "q3", tr[3].Content)
}

func TestTrimKeepsMostRecent(t *testing.T) {
	conv := newTestConversation(entries(1), &recordingLLM{})
	conv.settings.TranscriptLimit = 100
	for i := 0; i < 6; i++ {
		conv.SubmitQuestion(context.Background(), fmt.Sprintf("q%d", i), models.Beginner)
	}
	orig := conv.Transcript()
	require.Len(t, orig, 12)

	conv.Trim(5)
	require.Equal(t, orig[7:], conv.Transcript())

	conv.Trim(10)
	require.Len(t, conv.Transcript(), 5)
}

func TestClearHistoryIsIdempotent(t *testing.T) {
	conv := newTestConversation(entries(1), &recordingLLM{})
	conv.SubmitQuestion(context.Background(), "q", models.Beginner)
	require.Equal(t, 2, conv.Len())

	conv.ClearHistory()
	require.Zero(t, conv.Len())
	conv.ClearHistory()
	require.Zero(t, conv.Len())
	require.Zero(t, conv.QuestionCount())
}

func TestTranscriptReturnsCopy(t *testing.T) {
	conv := newTestConversation(entries(1), &recordingLLM{})
	conv.SubmitQuestion(context.Background(), "q", models.Beginner)
	tr := conv.Transcript()
	tr[0].Content = "changed"
	require.Equal(t, "q", conv.Transcript()[0].Content)
}
