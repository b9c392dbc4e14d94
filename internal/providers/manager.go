package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"frontier/pkg/log"
)

type NamedLLMProvider struct {
	Ref      ProviderRef
	Provider LLMProvider
}

// Manager holds the configured completion providers and fails over between them.
type Manager struct {
	llmProviders []NamedLLMProvider
}

func NewManager(raw string) (*Manager, error) {
	m := &Manager{}
	for _, ref := range ParseProviderList(raw) {
		p, err := buildProvider(ref)
		if err != nil {
			return nil, err
		}
		m.llmProviders = append(m.llmProviders, NamedLLMProvider{Ref: ref, Provider: p})
	}
	return m, nil
}

// NewManagerWith wraps already constructed providers, mainly for tests.
func NewManagerWith(named ...NamedLLMProvider) *Manager {
	return &Manager{llmProviders: named}
}

func (m *Manager) LLMCount() int {
	return len(m.llmProviders)
}

func (m *Manager) LLMProviderByIndex(i int) (LLMProvider, ProviderRef) {
	if len(m.llmProviders) == 0 {
		return NewMockProvider(), ProviderRef{Raw: "mock", Name: "mock"}
	}
	if i < 0 || i >= len(m.llmProviders) {
		i = 0
	}
	return m.llmProviders[i].Provider, m.llmProviders[i].Ref
}

// ProviderNames lists the configured providers in failover order.
func (m *Manager) ProviderNames() []string {
	names := make([]string, 0, m.LLMCount())
	for _, idx := range m.PreferredLLMOrder() {
		_, ref := m.LLMProviderByIndex(idx)
		names = append(names, ref.Name)
	}
	return names
}

func (m *Manager) PreferredLLMOrder() []int {
	return preferredOrder(len(m.llmProviders), func(i int) string { return strings.ToLower(m.llmProviders[i].Ref.Name) })
}

// Generate tries providers in preferred order. Auth, quota, rate and transient failures
// move on to the next provider; context-length and permanent failures are returned as is.
func (m *Manager) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	order := m.PreferredLLMOrder()
	if len(order) == 0 {
		return GenerateResponse{}, ProviderInfo{}, errors.New("no llm providers configured")
	}
	var (
		lastErr  error
		lastInfo ProviderInfo
	)
	for _, idx := range order {
		provider, ref := m.LLMProviderByIndex(idx)
		resp, info, err := provider.Generate(ctx, req)
		if err == nil {
			return resp, info, nil
		}
		lastErr, lastInfo = err, info
		errType := ClassifyError(err)
		log.FromCtx(ctx).Warn().Err(err).Str("provider", ref.Raw).Str("error_type", string(errType)).Msg("llm provider failed")
		switch errType {
		case ErrorAuth, ErrorQuota, ErrorRate, ErrorTransient:
			continue
		default:
			return GenerateResponse{}, info, err
		}
	}
	return GenerateResponse{}, lastInfo, fmt.Errorf("all llm providers exhausted: %w", lastErr)
}

func preferredOrder(n int, nameAt func(i int) string) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if nameAt(i) != "mock" {
			out = append(out, i)
		}
	}
	for i := 0; i < n; i++ {
		if nameAt(i) == "mock" {
			out = append(out, i)
		}
	}
	return out
}

func buildProvider(ref ProviderRef) (LLMProvider, error) {
	switch strings.ToLower(ref.Name) {
	case "mock":
		return NewMockProvider(), nil
	case "openai":
		return NewOpenAIProvider(ref.KeyAlias), nil
	case "groq":
		return NewGroqProvider(ref.KeyAlias), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", ref.Name)
	}
}
