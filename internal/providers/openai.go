package providers

import (
	"context"
	"os"
	"strings"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider uses the standard OpenAI REST API when keys are configured.
type OpenAIProvider struct {
	chatCompletionsClient
}

func NewOpenAIProvider(keyName string) *OpenAIProvider {
	return &OpenAIProvider{
		chatCompletionsClient: newChatCompletionsClient("openai", keyName, resolveOpenAIKey(keyName), openAIEndpoint, "gpt-4o-mini"),
	}
}

func (o *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	return o.generate(ctx, req)
}

func resolveOpenAIKey(alias string) string {
	if alias != "" {
		if k := os.Getenv("FRONTIER_OPENAI_KEY_" + strings.ToUpper(alias)); k != "" {
			return k
		}
	}
	return os.Getenv("OPENAI_API_KEY")
}
