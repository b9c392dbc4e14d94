package session

import (
	"context"
	"strings"

	"frontier/internal/models"
	"frontier/pkg/log"
)

type TopicSubmitted struct {
	Topic     string
	Expertise models.Expertise
	// Zero uses the session default.
	ResultCap int
}

type ChatSubmitted struct {
	Question  string
	Expertise models.Expertise
}

type ClearRequested struct{}

type TopicResult struct {
	Topic string         `json:"topic"`
	Empty bool           `json:"empty"`
	Items []Item         `json:"-"`
	Stats DiscoveryStats `json:"stats"`
}

// HandleTopicSubmitted searches and summarizes under the session lock. onItem, when
// set, sees every item as soon as it is ready: in provider order with one summary
// worker, in completion order with several. TopicResult.Items is always in
// provider order.
func (s *Session) HandleTopicSubmitted(ctx context.Context, ev TopicSubmitted, onItem func(Item)) (TopicResult, error) {
	s.events.Lock()
	defer s.events.Unlock()

	ev, err := s.PrepareDiscovery(ev)
	if err != nil {
		return TopicResult{}, err
	}
	d, err := s.corpus.fetch(ctx, ev.Topic, ev.ResultCap, ev.Expertise, s.opts.SummaryWorkers)
	if err != nil {
		return TopicResult{}, err
	}
	s.setTopic(d.Topic)
	res := TopicResult{Topic: d.Topic, Empty: d.Empty()}
	if d.Empty() {
		log.FromCtx(ctx).Info().Str("session", s.ID).Str("topic", d.Topic).Msg("no papers found")
		return res, nil
	}

	res.Items = d.collect(ctx, onItem)
	res.Stats = d.Stats()
	log.FromCtx(ctx).Info().
		Str("session", s.ID).
		Int("generated", res.Stats.Generated).
		Int("cached", res.Stats.Cached).
		Int("failed", res.Stats.Failed).
		Msg("discovery complete")
	return res, nil
}

// PrepareDiscovery validates ev and fills in the session defaults. An explicit
// level becomes the session's current one.
func (s *Session) PrepareDiscovery(ev TopicSubmitted) (TopicSubmitted, error) {
	topic := strings.TrimSpace(ev.Topic)
	if topic == "" {
		return TopicSubmitted{}, ErrEmptyTopic
	}
	resultCap := ev.ResultCap
	if resultCap == 0 {
		resultCap = s.opts.ResultCap
	}
	if resultCap < 0 {
		return TopicSubmitted{}, ErrInvalidResultCap
	}
	return TopicSubmitted{Topic: topic, Expertise: s.resolveLevel(ev.Expertise), ResultCap: resultCap}, nil
}

// SearchStep runs the search of a background discovery as one session event.
// The topic becomes current only when the search succeeds.
func (s *Session) SearchStep(ctx context.Context, topic string, resultCap int) ([]models.PaperRecord, error) {
	s.events.Lock()
	defer s.events.Unlock()

	papers, err := s.corpus.Search(ctx, topic, resultCap)
	if err != nil {
		return nil, err
	}
	s.setTopic(strings.TrimSpace(topic))
	return papers, nil
}

// SummarizeStep summarizes one paper of a background discovery as one session event.
func (s *Session) SummarizeStep(ctx context.Context, p models.PaperRecord, level models.Expertise) Item {
	s.events.Lock()
	defer s.events.Unlock()
	return s.corpus.Summarize(ctx, p, level)
}

func (s *Session) HandleChatSubmitted(ctx context.Context, ev ChatSubmitted) Outcome {
	s.events.Lock()
	defer s.events.Unlock()
	return s.conversation.SubmitQuestion(ctx, ev.Question, s.resolveLevel(ev.Expertise))
}

func (s *Session) HandleClearRequested(ctx context.Context, _ ClearRequested) {
	s.events.Lock()
	defer s.events.Unlock()
	s.conversation.ClearHistory()
	log.FromCtx(ctx).Debug().Str("session", s.ID).Msg("chat history cleared")
}

// resolveLevel applies an explicit level to the session, or falls back to the
// session's current one.
func (s *Session) resolveLevel(level models.Expertise) models.Expertise {
	if level == "" {
		return s.Expertise()
	}
	s.SetExpertise(level)
	return level
}
