package activities

import (
	"context"
	"errors"

	"frontier/internal/providers"
	"frontier/internal/session"
	"frontier/pkg/log"

	"go.temporal.io/sdk/temporal"
)

// SessionLookup resolves the live session an activity works on.
type SessionLookup interface {
	Get(id string) (*session.Session, error)
}

// Activities run inside the serving process so they can reach in-memory sessions.
type Activities struct {
	sessions SessionLookup
}

func New(sessions SessionLookup) *Activities {
	return &Activities{sessions: sessions}
}

func (a *Activities) SearchPapersActivity(ctx context.Context, in SearchPapersInput) (SearchPapersOutput, error) {
	s, err := a.sessions.Get(in.SessionID)
	if err != nil {
		return SearchPapersOutput{}, nonRetryable(err)
	}
	papers, err := s.SearchStep(ctx, in.Topic, in.ResultCap)
	if err != nil {
		if errors.Is(err, session.ErrEmptyTopic) || errors.Is(err, session.ErrInvalidResultCap) {
			return SearchPapersOutput{}, nonRetryable(err)
		}
		return SearchPapersOutput{}, err
	}
	return SearchPapersOutput{Papers: papers}, nil
}

func (a *Activities) SummarizePaperActivity(ctx context.Context, in SummarizePaperInput) (SummarizePaperOutput, error) {
	s, err := a.sessions.Get(in.SessionID)
	if err != nil {
		return SummarizePaperOutput{}, nonRetryable(err)
	}
	it := s.SummarizeStep(ctx, in.Paper, in.Expertise)
	if it.Err != nil {
		// Manager already failed over between providers; a failed summary is final.
		log.FromCtx(ctx).Warn().Err(it.Err).Str("session", in.SessionID).Str("paper_id", in.Paper.ID).
			Str("error_type", string(providers.ClassifyError(it.Err))).Msg("summary failed")
		return SummarizePaperOutput{}, nonRetryable(it.Err)
	}
	return SummarizePaperOutput{PaperID: in.Paper.ID, Cached: it.Cached}, nil
}

func nonRetryable(err error) error {
	return temporal.NewNonRetryableApplicationError(err.Error(), "frontier", err)
}
