package session

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTopic       = errors.New("topic is required")
	ErrInvalidResultCap = errors.New("result cap must be positive")
	ErrSessionNotFound  = errors.New("session not found")
	ErrFetch            = errors.New("paper search failed")
	ErrNoCorpus         = errors.New("no papers loaded")
	ErrEmptySummary     = errors.New("provider returned an empty summary")
)

// FetchError reports a failed search-provider call. It is distinct from an empty result.
type FetchError struct {
	Topic string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch papers for %q: %v", e.Topic, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetch, e.Err}
}

// SummaryError is a per-paper generation failure. Sibling papers are unaffected.
type SummaryError struct {
	PaperID string
	Title   string
	Err     error
}

func (e *SummaryError) Error() string {
	return fmt.Sprintf("summarize %s: %v", e.PaperID, e.Err)
}

func (e *SummaryError) Unwrap() error {
	return e.Err
}
