package main

import (
	"context"
	"time"

	"frontier/internal/config"
	"frontier/internal/providers"
	"frontier/internal/search"
	"frontier/internal/session"
	"frontier/internal/storage"
	"frontier/pkg/log"
)

type stack struct {
	searcher search.Provider
	manager  *providers.Manager
	llm      providers.LLMProvider
	registry *session.Registry
	db       *storage.DB
}

func (s *stack) Close() {
	s.db.Close()
}

func newStack(ctx context.Context, cfg config.Config) (*stack, error) {
	logger := log.FromCtx(ctx)

	searcher, err := search.NewProvider(cfg.SearchProvider, cfg.ArxivBaseURL)
	if err != nil {
		return nil, err
	}
	manager, err := providers.NewManager(cfg.LLMProviders)
	if err != nil {
		return nil, err
	}

	st := &stack{searcher: searcher, manager: manager}
	var recorder providers.CallRecorder
	if cfg.PostgresURL != "" {
		dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		db, err := storage.NewDB(dbCtx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		repo := storage.NewLLMAuditRepo(db.Pool)
		if err := repo.EnsureSchema(dbCtx); err != nil {
			db.Close()
			return nil, err
		}
		st.db = db
		recorder = repo
		logger.Info().Msg("llm call audit log enabled")
	}

	st.llm = providers.NewObserved(manager, recorder)
	st.registry = session.NewRegistry(searcher, st.llm, session.OptionsFromConfig(cfg))
	logger.Debug().
		Str("search", searcher.Name()).
		Str("llm_providers", cfg.LLMProviders).
		Str("summary_model", cfg.SummaryModel).
		Str("chat_model", cfg.ChatModel).
		Msg("stack ready")
	return st, nil
}
