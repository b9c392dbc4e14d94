package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Expertise string

var ErrUnknownExpertise = errors.New("unknown expertise level")

const (
	Beginner     Expertise = "Beginner"
	Intermediate Expertise = "Intermediate"
	Advanced     Expertise = "Advanced"
)

func ParseExpertise(s string) (Expertise, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return Beginner, nil
	case "intermediate":
		return Intermediate, nil
	case "advanced":
		return Advanced, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownExpertise, s)
	}
}

// Lower is the form used inside prompts ("a beginner-level user").
func (e Expertise) Lower() string {
	return strings.ToLower(string(e))
}

// PaperRecord is one search result as returned by the paper index.
type PaperRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Authors   []string  `json:"authors"`
	Abstract  string    `json:"abstract"`
	Published time.Time `json:"published"`
	Category  string    `json:"category"`
	PDFURL    string    `json:"pdf_url"`
}

type SummaryEntry struct {
	PaperID   string    `json:"paper_id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	PDFURL    string    `json:"pdf_url"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TurnKind separates real replies from turns injected by the assistant itself.
type TurnKind string

const (
	KindNormal  TurnKind = "normal"
	KindWarning TurnKind = "warning"
	KindError   TurnKind = "error"
)

type ChatTurn struct {
	Role      Role      `json:"role"`
	Kind      TurnKind  `json:"kind"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Clock renders the turn time at minute resolution.
func (t ChatTurn) Clock() string {
	return t.Timestamp.Format("15:04")
}

// Replayable reports whether the turn may be sent back to the model as history.
func (t ChatTurn) Replayable() bool {
	return t.Kind == "" || t.Kind == KindNormal
}
