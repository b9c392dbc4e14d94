package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// chatCompletionsClient speaks the OpenAI chat/completions wire format shared by
// OpenAI and Groq.
type chatCompletionsClient struct {
	name         string
	keyName      string
	apiKey       string
	endpoint     string
	defaultModel string
	client       *http.Client
}

func newChatCompletionsClient(name, keyName, apiKey, endpoint, defaultModel string) chatCompletionsClient {
	return chatCompletionsClient{
		name:         name,
		keyName:      keyName,
		apiKey:       apiKey,
		endpoint:     endpoint,
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: 60 * time.Second},
	}
}

type chatPayload struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

func (c *chatCompletionsClient) generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.defaultModel
	}
	info := ProviderInfo{Name: c.name, Key: c.keyName, Model: model}
	if c.apiKey == "" {
		return GenerateResponse{}, info, fmt.Errorf("%s key missing for alias %q", c.name, c.keyName)
	}
	if len(req.Messages) == 0 {
		return GenerateResponse{}, info, fmt.Errorf("%s generate: no messages", c.name)
	}
	payload, err := json.Marshal(chatPayload{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("marshal %s request: %w", c.name, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("create %s request: %w", c.name, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("%s generate request failed: %w", c.name, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return GenerateResponse{}, info, fmt.Errorf("%s generate error %d: %s", c.name, resp.StatusCode, string(body))
	}
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return GenerateResponse{}, info, fmt.Errorf("decode %s response: %w", c.name, err)
	}
	if len(parsed.Choices) == 0 {
		return GenerateResponse{}, info, fmt.Errorf("%s returned empty choices", c.name)
	}
	return GenerateResponse{Text: parsed.Choices[0].Message.Content}, info, nil
}
