package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	s.calls++
	info := ProviderInfo{Name: s.name, Model: s.name + "-model"}
	if s.err != nil {
		return GenerateResponse{}, info, s.err
	}
	return GenerateResponse{Text: s.text}, info, nil
}

func chatRequest() GenerateRequest {
	return GenerateRequest{Operation: OperationChat, Messages: []Message{{Role: "user", Content: "hi"}}}
}

func TestManagerFailsOverOnRateLimit(t *testing.T) {
	first := &stubProvider{name: "groq", err: errors.New("groq generate error 429: rate limited")}
	second := &stubProvider{name: "openai", text: "fallback"}
	m := NewManagerWith(
		NamedLLMProvider{Ref: ProviderRef{Raw: "groq", Name: "groq"}, Provider: first},
		NamedLLMProvider{Ref: ProviderRef{Raw: "openai", Name: "openai"}, Provider: second},
	)

	resp, info, err := m.Generate(context.Background(), chatRequest())
	require.NoError(t, err)
	require.Equal(t, "fallback", resp.Text)
	require.Equal(t, "openai", info.Name)
	require.Equal(t, 1, first.calls)
}

func TestManagerStopsOnPermanentError(t *testing.T) {
	first := &stubProvider{name: "groq", err: errors.New("groq generate error 400: bad request")}
	second := &stubProvider{name: "openai", text: "unused"}
	m := NewManagerWith(
		NamedLLMProvider{Ref: ProviderRef{Raw: "groq", Name: "groq"}, Provider: first},
		NamedLLMProvider{Ref: ProviderRef{Raw: "openai", Name: "openai"}, Provider: second},
	)

	_, _, err := m.Generate(context.Background(), chatRequest())
	require.Error(t, err)
	require.Equal(t, 0, second.calls)
}

func TestManagerPrefersRealProvidersOverMock(t *testing.T) {
	mock := &stubProvider{name: "mock", text: "mock"}
	real := &stubProvider{name: "groq", text: "real"}
	m := NewManagerWith(
		NamedLLMProvider{Ref: ProviderRef{Raw: "mock", Name: "mock"}, Provider: mock},
		NamedLLMProvider{Ref: ProviderRef{Raw: "groq", Name: "groq"}, Provider: real},
	)
	require.Equal(t, []int{1, 0}, m.PreferredLLMOrder())

	resp, _, err := m.Generate(context.Background(), chatRequest())
	require.NoError(t, err)
	require.Equal(t, "real", resp.Text)
	require.Equal(t, 0, mock.calls)
}

func TestManagerExhausted(t *testing.T) {
	only := &stubProvider{name: "groq", err: errors.New("service temporarily unavailable")}
	m := NewManagerWith(NamedLLMProvider{Ref: ProviderRef{Raw: "groq", Name: "groq"}, Provider: only})

	_, _, err := m.Generate(context.Background(), chatRequest())
	require.ErrorContains(t, err, "all llm providers exhausted")
}

func TestNewManagerRejectsUnknownProvider(t *testing.T) {
	_, err := NewManager("groq|anthropic")
	require.Error(t, err)
}

func TestManagerProviderNamesFollowFailoverOrder(t *testing.T) {
	m := NewManagerWith(
		NamedLLMProvider{Ref: ProviderRef{Raw: "mock", Name: "mock"}, Provider: &stubProvider{name: "mock"}},
		NamedLLMProvider{Ref: ProviderRef{Raw: "groq:backup", Name: "groq", KeyAlias: "backup"}, Provider: &stubProvider{name: "groq"}},
		NamedLLMProvider{Ref: ProviderRef{Raw: "openai", Name: "openai"}, Provider: &stubProvider{name: "openai"}},
	)
	require.Equal(t, 3, m.LLMCount())
	require.Equal(t, []string{"groq", "openai", "mock"}, m.ProviderNames())

	m, err := NewManager("")
	require.NoError(t, err)
	require.Equal(t, []string{"mock"}, m.ProviderNames())
}
