package storage

import (
	"context"
	"fmt"

	"frontier/internal/providers"
)

const llmCallsSchema = `
CREATE TABLE IF NOT EXISTS llm_calls (
  call_id       BIGSERIAL PRIMARY KEY,
  operation     TEXT NOT NULL,
  session_id    TEXT,
  paper_id      TEXT,
  provider_name TEXT NOT NULL,
  model         TEXT NOT NULL,
  status        TEXT NOT NULL,
  error_type    TEXT,
  duration_ms   BIGINT NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// LLMAuditRepo stores one row per completion call.
type LLMAuditRepo struct {
	db Execer
}

func NewLLMAuditRepo(db Execer) *LLMAuditRepo {
	return &LLMAuditRepo{db: db}
}

func (r *LLMAuditRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, llmCallsSchema); err != nil {
		return fmt.Errorf("create llm_calls: %w", err)
	}
	return nil
}

func (r *LLMAuditRepo) RecordCall(ctx context.Context, rec providers.CallRecord) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO llm_calls(operation, session_id, paper_id, provider_name, model, status, error_type, duration_ms)
VALUES ($1, NULLIF($2,''), NULLIF($3,''), $4, $5, $6, NULLIF($7,''), $8)`,
		rec.Operation, rec.SessionID, rec.PaperID, rec.ProviderName, rec.Model, rec.Status, rec.ErrorType, rec.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert llm call: %w", err)
	}
	return nil
}
