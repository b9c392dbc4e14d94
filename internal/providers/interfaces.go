package providers

import (
	"context"

	"frontier/internal/models"
)

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Key   string `json:"key"`
}

type Message struct {
	Role    models.Role `json:"role"`
	Content string      `json:"content"`
}

type GenerateRequest struct {
	Operation string    `json:"operation"`
	SessionID string    `json:"session_id,omitempty"`
	PaperID   string    `json:"paper_id,omitempty"`
	Messages  []Message `json:"messages"`
	Model     string    `json:"model"`
	// Nil leaves sampling to the provider default.
	Temperature *float64 `json:"temperature,omitempty"`
	// Zero leaves the output size to the provider default.
	MaxTokens int `json:"max_tokens,omitempty"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error)
}

func Float(v float64) *float64 {
	return &v
}

const (
	OperationSummary = "summary"
	OperationChat    = "chat"
)
