package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	cases := map[string]ErrorType{
		"insufficient_quota":                   ErrorQuota,
		"groq generate error 429: slow down":   ErrorRate,
		"context_length_exceeded":              ErrorContext,
		"timeout":                              ErrorTransient,
		"groq generate error 503: unavailable": ErrorTransient,
		`groq key missing for alias ""`:        ErrorAuth,
		"bad request":                          ErrorPermanent,
	}
	for msg, want := range cases {
		if got := ClassifyError(errors.New(msg)); got != want {
			t.Fatalf("classify %q: got %s want %s", msg, got, want)
		}
	}
}

func TestClassifyContextErrors(t *testing.T) {
	if got := ClassifyError(fmt.Errorf("call: %w", context.Canceled)); got != ErrorCanceled {
		t.Fatalf("expected canceled, got %s", got)
	}
	if got := ClassifyError(fmt.Errorf("call: %w", context.DeadlineExceeded)); got != ErrorTransient {
		t.Fatalf("expected transient, got %s", got)
	}
	if got := ClassifyError(nil); got != "" {
		t.Fatalf("expected empty type for nil, got %s", got)
	}
}
