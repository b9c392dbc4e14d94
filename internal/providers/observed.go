package providers

import (
	"context"
	"time"

	"frontier/internal/metrics"
	"frontier/pkg/log"
)

type CallRecord struct {
	Operation    string
	SessionID    string
	PaperID      string
	ProviderName string
	Model        string
	Status       string
	ErrorType    string
	Duration     time.Duration
}

// CallRecorder receives one record per completion call.
type CallRecorder interface {
	RecordCall(ctx context.Context, rec CallRecord) error
}

// Observed wraps a provider with metrics and an optional audit sink.
type Observed struct {
	next     LLMProvider
	recorder CallRecorder
}

func NewObserved(next LLMProvider, recorder CallRecorder) *Observed {
	return &Observed{next: next, recorder: recorder}
}

func (o *Observed) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	start := time.Now()
	resp, info, err := o.next.Generate(ctx, req)
	elapsed := time.Since(start)

	rec := CallRecord{
		Operation:    req.Operation,
		SessionID:    req.SessionID,
		PaperID:      req.PaperID,
		ProviderName: info.Name,
		Model:        info.Model,
		Status:       "ok",
		Duration:     elapsed,
	}
	if err != nil {
		rec.Status = "failed"
		rec.ErrorType = string(ClassifyError(err))
	}
	metrics.CompletionCallsTotal.WithLabelValues(req.Operation, info.Name, rec.Status).Inc()
	metrics.CompletionDuration.WithLabelValues(req.Operation, info.Name).Observe(elapsed.Seconds())

	logger := log.FromCtx(ctx)
	logger.Debug().
		Str("operation", req.Operation).
		Str("provider", info.Name).
		Str("model", info.Model).
		Str("status", rec.Status).
		Dur("elapsed", elapsed).
		Msg("llm call")

	if o.recorder != nil {
		if rerr := o.recorder.RecordCall(ctx, rec); rerr != nil {
			logger.Warn().Err(rerr).Msg("failed to record llm call")
		}
	}
	return resp, info, err
}
