package providers

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider returns deterministic text so the assistant runs without API keys.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	_ = ctx
	info := ProviderInfo{Name: "mock", Model: "mock-llm-v1", Key: "mock"}
	if len(req.Messages) == 0 {
		return GenerateResponse{}, info, fmt.Errorf("mock generate: no messages")
	}
	last := req.Messages[len(req.Messages)-1].Content
	var text string
	switch strings.ToLower(req.Operation) {
	case OperationSummary:
		text = "- **What this study tackled**: " + firstLine(last, "Title:") + "\n" +
			"- **How they did it**: Deterministic mock summary.\n" +
			"- **Key discoveries**: None, this is mock output.\n" +
			"- **Why this matters**: Replace the mock provider with a real one for meaningful summaries."
	case OperationChat:
		text = fmt.Sprintf("Mock answer to %q based on %d context message(s).", strings.TrimSpace(last), len(req.Messages)-1)
	default:
		text = "Mock response."
	}
	return GenerateResponse{Text: text}, info, nil
}

func firstLine(prompt, prefix string) string {
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
	}
	return "unknown"
}
