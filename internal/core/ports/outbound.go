package ports

import (
	"context"

	"github.com/icyphotoget/perfume/internal/core/domain"
)

// CatalogReader returns the catalog snapshot used for one scoring pass.
type CatalogReader interface {
	Snapshot(ctx context.Context) (domain.Catalog, error)
}

// CatalogSource loads a fresh catalog from its backing store.
type CatalogSource interface {
	Name() string
	Load(ctx context.Context) (domain.Catalog, error)
}

// ProfileExtractor turns free-text answers into a structured profile.
type ProfileExtractor interface {
	Extract(ctx context.Context, answers []string) (domain.StructuredProfile, error)
}

// ExplanationGenerator writes a short justification for one recommended item.
type ExplanationGenerator interface {
	Explain(ctx context.Context, profile *domain.StructuredProfile, item domain.Item) (string, error)
}

// CatalogEventPublisher announces that the backing catalog changed.
type CatalogEventPublisher interface {
	PublishCatalogUpdated(ctx context.Context, reason string) error
}
