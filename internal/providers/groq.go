package providers

import (
	"context"
	"os"
	"strings"
)

const groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

// GroqProvider supports generation via Groq's OpenAI-compatible API.
type GroqProvider struct {
	chatCompletionsClient
}

func NewGroqProvider(keyName string) *GroqProvider {
	model := os.Getenv("FRONTIER_GROQ_MODEL")
	if strings.TrimSpace(model) == "" {
		model = "llama-3.3-70b-versatile"
	}
	return &GroqProvider{
		chatCompletionsClient: newChatCompletionsClient("groq", keyName, resolveGroqKey(keyName), groqEndpoint, model),
	}
}

func (g *GroqProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	return g.generate(ctx, req)
}

func resolveGroqKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("FRONTIER_GROQ_KEY_" + strings.ToUpper(alias)); v != "" {
			return v
		}
	}
	return os.Getenv("GROQ_API_KEY")
}
