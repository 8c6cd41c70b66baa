package ports

import (
	"context"

	"github.com/icyphotoget/perfume/internal/core/domain"
)

// Recommender is the inbound contract for ranked, explained recommendations.
type Recommender interface {
	Recommend(ctx context.Context, req domain.RecommendRequest, opts ...RecommendOption) (domain.Recommendation, error)
}

// CatalogBrowser is the inbound read model over the current catalog snapshot.
type CatalogBrowser interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, id string) (domain.Item, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// RecommendOptions tunes a single recommendation pass.
type RecommendOptions struct {
	SkipEnrichment bool
}

type RecommendOption func(*RecommendOptions)

// WithoutEnrichment skips both the profile extraction and the explanation calls.
func WithoutEnrichment() RecommendOption {
	return func(o *RecommendOptions) {
		o.SkipEnrichment = true
	}
}
