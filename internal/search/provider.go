package search

import (
	"context"

	"frontier/internal/models"
)

type SortBy string

const (
	SortSubmittedDate SortBy = "submittedDate"
	SortRelevance     SortBy = "relevance"
)

type Query struct {
	Text       string
	MaxResults int
	SortBy     SortBy
}

// Provider returns papers for a query in provider order.
type Provider interface {
	Search(ctx context.Context, q Query) ([]models.PaperRecord, error)
	Name() string
}
