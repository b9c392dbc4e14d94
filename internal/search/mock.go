package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"frontier/internal/models"
)

// MockProvider serves a fixed set of records for offline runs.
type MockProvider struct {
	papers []models.PaperRecord
}

func NewMockProvider(papers ...models.PaperRecord) *MockProvider {
	if len(papers) == 0 {
		papers = samplePapers()
	}
	return &MockProvider{papers: papers}
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Search(ctx context.Context, q Query) ([]models.PaperRecord, error) {
	_ = ctx
	if strings.TrimSpace(q.Text) == "" {
		return nil, fmt.Errorf("mock search: empty query")
	}
	n := q.MaxResults
	if n <= 0 || n > len(m.papers) {
		n = len(m.papers)
	}
	out := make([]models.PaperRecord, n)
	copy(out, m.papers[:n])
	return out, nil
}

func samplePapers() []models.PaperRecord {
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	return []models.PaperRecord{
		{
			ID:        "http://arxiv.org/abs/2501.00003v1",
			Title:     "Error-Corrected Logical Qubits at Scale",
			Authors:   []string{"A. Researcher", "B. Scientist"},
			Abstract:  "We demonstrate logical qubits whose error rates fall as code distance grows.",
			Published: base,
			Category:  "quant-ph",
			PDFURL:    "http://arxiv.org/pdf/2501.00003v1",
		},
		{
			ID:        "http://arxiv.org/abs/2501.00002v1",
			Title:     "Sparse Attention for Long Documents",
			Authors:   []string{"C. Author"},
			Abstract:  "A sparse attention pattern that scales linearly with document length.",
			Published: base.Add(-24 * time.Hour),
			Category:  "cs.CL",
			PDFURL:    "http://arxiv.org/pdf/2501.00002v1",
		},
		{
			ID:        "http://arxiv.org/abs/2501.00001v1",
			Title:     "Protein Folding Kinetics from Single-Molecule Traces",
			Authors:   []string{"D. Biologist", "E. Physicist"},
			Abstract:  "Single-molecule force spectroscopy reveals an intermediate folding state.",
			Published: base.Add(-48 * time.Hour),
			Category:  "q-bio.BM",
			PDFURL:    "http://arxiv.org/pdf/2501.00001v1",
		},
	}
}

// NewProvider builds the search provider named in configuration.
func NewProvider(name, arxivURL string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "arxiv":
		return NewArxivClient(arxivURL), nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported search provider: %s", name)
	}
}
