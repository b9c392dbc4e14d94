package session

import (
	"context"
	"sync"
	"time"

	"frontier/internal/config"
	"frontier/internal/metrics"
	"frontier/internal/models"
	"frontier/internal/providers"
	"frontier/internal/search"
	"frontier/pkg/log"

	"github.com/google/uuid"
)

type Options struct {
	ResultCap      int
	SummaryModel   string
	SummaryWorkers int
	Chat           ChatSettings
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		ResultCap:      cfg.ResultCap,
		SummaryModel:   cfg.SummaryModel,
		SummaryWorkers: cfg.SummaryWorkers,
		Chat: ChatSettings{
			Model:           cfg.ChatModel,
			Temperature:     cfg.ChatTemperature,
			MaxTokens:       cfg.ChatMaxTokens,
			HistoryWindow:   cfg.HistoryWindow,
			TranscriptLimit: cfg.TranscriptLimit,
		},
	}
}

// Session is the per-user context: one corpus and one conversation. Events for a
// session are handled one at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	opts         Options
	corpus       *Corpus
	conversation *Conversation

	events sync.Mutex
	mu     sync.RWMutex
	level  models.Expertise
	topic  string
}

func New(id string, searcher search.Provider, llm providers.LLMProvider, opts Options) *Session {
	corpus := NewCorpus(id, searcher, llm, opts.SummaryModel)
	return &Session{
		ID:           id,
		CreatedAt:    time.Now(),
		opts:         opts,
		corpus:       corpus,
		conversation: NewConversation(id, corpus, llm, opts.Chat),
		level:        models.Beginner,
	}
}

func (s *Session) Corpus() *Corpus { return s.corpus }

func (s *Session) Conversation() *Conversation { return s.conversation }

func (s *Session) Expertise() models.Expertise {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level
}

func (s *Session) SetExpertise(level models.Expertise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
}

func (s *Session) LastTopic() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topic
}

func (s *Session) setTopic(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topic = topic
}

type Stats struct {
	Papers    int    `json:"papers"`
	Questions int    `json:"questions"`
	Turns     int    `json:"turns"`
	Expertise string `json:"expertise"`
	Topic     string `json:"topic,omitempty"`
}

func (s *Session) Stats() Stats {
	return Stats{
		Papers:    s.corpus.Len(),
		Questions: s.conversation.QuestionCount(),
		Turns:     s.conversation.Len(),
		Expertise: string(s.Expertise()),
		Topic:     s.LastTopic(),
	}
}

// Registry partitions sessions by id.
type Registry struct {
	searcher search.Provider
	llm      providers.LLMProvider
	opts     Options

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(searcher search.Provider, llm providers.LLMProvider, opts Options) *Registry {
	return &Registry{
		searcher: searcher,
		llm:      llm,
		opts:     opts,
		sessions: map[string]*Session{},
	}
}

func (r *Registry) Create(ctx context.Context) *Session {
	s := New(uuid.NewString(), r.searcher, r.llm, r.opts)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	metrics.ActiveSessions.Inc()
	log.FromCtx(ctx).Info().Str("session", s.ID).Msg("session created")
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete drops the session and all of its state.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	metrics.ActiveSessions.Dec()
	log.FromCtx(ctx).Info().Str("session", id).Msg("session deleted")
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
