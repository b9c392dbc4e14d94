package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"frontier/internal/metrics"
	"frontier/internal/models"
	"frontier/internal/providers"
	"frontier/pkg/log"
)

// Library is the read-only view of the corpus the conversation needs.
type Library interface {
	Len() int
	Entries() []models.SummaryEntry
}

type ChatSettings struct {
	Model           string
	Temperature     float64
	MaxTokens       int
	HistoryWindow   int
	TranscriptLimit int
}

type OutcomeStatus string

const (
	StatusSkipped  OutcomeStatus = "skipped"
	StatusNoCorpus OutcomeStatus = "no_corpus"
	StatusAnswered OutcomeStatus = "answered"
	StatusFailed   OutcomeStatus = "failed"
)

// Outcome describes what one submitted question did to the transcript.
type Outcome struct {
	Status   OutcomeStatus     `json:"status"`
	Appended []models.ChatTurn `json:"appended"`
	Reply    string            `json:"reply,omitempty"`
	Err      error             `json:"-"`
}

type Conversation struct {
	sessionID string
	library   Library
	llm       providers.LLMProvider
	settings  ChatSettings
	now       func() time.Time

	mu         sync.RWMutex
	transcript []models.ChatTurn
}

func NewConversation(sessionID string, library Library, llm providers.LLMProvider, settings ChatSettings) *Conversation {
	return &Conversation{
		sessionID: sessionID,
		library:   library,
		llm:       llm,
		settings:  settings,
		now:       time.Now,
	}
}

func (c *Conversation) SubmitQuestion(ctx context.Context, question string, level models.Expertise) Outcome {
	question = strings.TrimSpace(question)
	if question == "" {
		return Outcome{Status: StatusSkipped}
	}
	logger := log.FromCtx(ctx).With().Str("session", c.sessionID).Logger()

	if c.library.Len() == 0 {
		warn := c.turn(models.RoleAssistant, models.KindWarning, noCorpusMessage)
		c.append(warn)
		logger.Debug().Msg("question rejected, no papers loaded")
		return Outcome{Status: StatusNoCorpus, Appended: []models.ChatTurn{warn}, Err: ErrNoCorpus}
	}

	user := c.turn(models.RoleUser, models.KindNormal, question)
	messages := c.assemble(question, level)
	resp, info, err := c.llm.Generate(ctx, providers.GenerateRequest{
		Operation:   providers.OperationChat,
		SessionID:   c.sessionID,
		Messages:    messages,
		Model:       c.settings.Model,
		Temperature: providers.Float(c.settings.Temperature),
		MaxTokens:   c.settings.MaxTokens,
	})
	if err != nil {
		reply := c.turn(models.RoleAssistant, models.KindError, fmt.Sprintf(chatErrorMessage, err.Error()))
		c.append(user, reply)
		logger.Warn().Err(err).Str("provider", info.Name).Msg("chat completion failed")
		return Outcome{Status: StatusFailed, Appended: []models.ChatTurn{user, reply}, Err: err}
	}
	reply := c.turn(models.RoleAssistant, models.KindNormal, resp.Text)
	c.append(user, reply)
	logger.Debug().Str("provider", info.Name).Int("history", len(messages)-2).Msg("chat answered")
	return Outcome{Status: StatusAnswered, Appended: []models.ChatTurn{user, reply}, Reply: resp.Text}
}

// assemble builds system prompt, replayable history, then the question.
func (c *Conversation) assemble(question string, level models.Expertise) []providers.Message {
	messages := []providers.Message{{
		Role:    models.RoleSystem,
		Content: BuildChatSystemPrompt(c.library.Entries(), level),
	}}
	for _, t := range c.Window() {
		messages = append(messages, providers.Message{Role: t.Role, Content: t.Content})
	}
	return append(messages, providers.Message{Role: models.RoleUser, Content: question})
}

// Window returns the replayable turns among the last HistoryWindow turns.
func (c *Conversation) Window() []models.ChatTurn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	start := len(c.transcript) - c.settings.HistoryWindow
	if start < 0 {
		start = 0
	}
	var out []models.ChatTurn
	for _, t := range c.transcript[start:] {
		if t.Replayable() {
			out = append(out, t)
		}
	}
	return out
}

func (c *Conversation) turn(role models.Role, kind models.TurnKind, content string) models.ChatTurn {
	return models.ChatTurn{Role: role, Kind: kind, Content: content, Timestamp: c.now()}
}

// append adds turns in one step and applies the transcript limit.
func (c *Conversation) append(turns ...models.ChatTurn) {
	c.mu.Lock()
	c.transcript = append(c.transcript, turns...)
	c.trimLocked(c.settings.TranscriptLimit)
	c.mu.Unlock()
	for _, t := range turns {
		metrics.ChatTurnsTotal.WithLabelValues(string(t.Role), string(t.Kind)).Inc()
	}
}

// Trim keeps the most recent max turns.
func (c *Conversation) Trim(max int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trimLocked(max)
}

func (c *Conversation) trimLocked(max int) {
	if max <= 0 || len(c.transcript) <= max {
		return
	}
	kept := make([]models.ChatTurn, max)
	copy(kept, c.transcript[len(c.transcript)-max:])
	c.transcript = kept
}

func (c *Conversation) ClearHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = nil
}

func (c *Conversation) Transcript() []models.ChatTurn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.ChatTurn, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.transcript)
}

// QuestionCount counts user turns still in the transcript.
func (c *Conversation) QuestionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, t := range c.transcript {
		if t.Role == models.RoleUser {
			n++
		}
	}
	return n
}
