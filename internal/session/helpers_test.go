package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"frontier/internal/models"
	"frontier/internal/providers"
	"frontier/internal/search"
)

type recordingLLM struct {
	mu    sync.Mutex
	calls []providers.GenerateRequest
	delay time.Duration
	fail  map[string]error
	reply func(req providers.GenerateRequest) string
	// chatStarted is signalled, then chatGate awaited, on every chat call when set.
	chatStarted chan struct{}
	chatGate    chan struct{}
}

func (r *recordingLLM) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
	r.mu.Lock()
	r.calls = append(r.calls, req)
	r.mu.Unlock()
	info := providers.ProviderInfo{Name: "recording", Model: req.Model}
	if req.Operation == providers.OperationChat && r.chatGate != nil {
		r.chatStarted <- struct{}{}
		<-r.chatGate
	}
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return providers.GenerateResponse{}, info, ctx.Err()
		}
	}
	key := req.PaperID
	if req.Operation == providers.OperationChat {
		key = providers.OperationChat
	}
	if err, ok := r.fail[key]; ok {
		return providers.GenerateResponse{}, info, err
	}
	if r.reply != nil {
		return providers.GenerateResponse{Text: r.reply(req)}, info, nil
	}
	if req.Operation == providers.OperationSummary {
		return providers.GenerateResponse{Text: "summary of " + req.PaperID}, info, nil
	}
	return providers.GenerateResponse{Text: "answer"}, info, nil
}

func (r *recordingLLM) Calls(op string) []providers.GenerateRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []providers.GenerateRequest
	for _, c := range r.calls {
		if c.Operation == op {
			out = append(out, c)
		}
	}
	return out
}

type stubSearch struct {
	mu      sync.Mutex
	papers  []models.PaperRecord
	err     error
	queries []search.Query
}

func (s *stubSearch) Name() string { return "stub" }

func (s *stubSearch) Search(_ context.Context, q search.Query) ([]models.PaperRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	n := len(s.papers)
	if q.MaxResults < n {
		n = q.MaxResults
	}
	return append([]models.PaperRecord(nil), s.papers[:n]...), nil
}

func paper(id string) models.PaperRecord {
	return models.PaperRecord{
		ID:        id,
		Title:     "Paper " + id,
		Authors:   []string{"Ada " + id},
		Abstract:  "Abstract of " + id,
		Published: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Category:  "quant-ph",
		PDFURL:    "http://arxiv.org/pdf/" + id,
	}
}

func papers(ids ...string) []models.PaperRecord {
	out := make([]models.PaperRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, paper(id))
	}
	return out
}

func testOptions() Options {
	return Options{
		ResultCap:      10,
		SummaryModel:   "summary-model",
		SummaryWorkers: 1,
		Chat: ChatSettings{
			Model:           "chat-model",
			Temperature:     0.7,
			MaxTokens:       400,
			HistoryWindow:   10,
			TranscriptLimit: 30,
		},
	}
}

type staticLibrary []models.SummaryEntry

func (l staticLibrary) Len() int                       { return len(l) }
func (l staticLibrary) Entries() []models.SummaryEntry { return l }

func entries(n int) staticLibrary {
	out := make(staticLibrary, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.SummaryEntry{PaperID: fmt.Sprint(i), Title: fmt.Sprintf("T%d", i), Summary: fmt.Sprintf("S%d", i)})
	}
	return out
}

func containsAny(msgs []providers.Message, needle string) bool {
	for _, m := range msgs {
		if strings.Contains(m.Content, needle) {
			return true
		}
	}
	return false
}

var errBoom = errors.New("boom")
