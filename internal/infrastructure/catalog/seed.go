package catalog

import (
	"context"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
)

var _ ports.CatalogSource = SeedSource{}

// SeedSource serves the built-in catalog of four vibes and three perfumes.
type SeedSource struct{}

func (SeedSource) Name() string { return "seed" }

func (s SeedSource) Load(context.Context) (domain.Catalog, error) {
	return Finalize(s.Name(), SeedItems(), SeedCategories())
}

func SeedCategories() []domain.Category {
	return []domain.Category{
		{
			Slug:    "old-money-weekend",
			Name:    "Old Money Weekend",
			Tagline: "Quiet wealth, camel coats, countryside estates.",
			Accent:  "from-amberLux/40 via-fog to-ink",
		},
		{
			Slug:    "office-siren",
			Name:    "Office Siren",
			Tagline: "Sharp tailoring, soft danger, boardroom seduction.",
			Accent:  "from-softGold/40 via-fog to-ink",
		},
		{
			Slug:    "moody-introvert",
			Name:    "Moody Introvert",
			Tagline: "Rainy windows, quiet playlists, dark woods.",
			Accent:  "from-slate-700 via-fog to-ink",
		},
		{
			Slug:    "date-night-in-paris",
			Name:    "Date Night in Paris",
			Tagline: "Red wine, wet cobblestones, late night confessions.",
			Accent:  "from-rose-500/40 via-fog to-ink",
		},
	}
}

func SeedItems() []domain.Item {
	return []domain.Item{
		{
			ID:           "velvet-smoke",
			Name:         "Velvet Smoke",
			Brand:        "Maison Obscura",
			Description:  "A dark, enveloping trail of oud, incense and black vanilla that clings to velvet and late-night conversations.",
			CategoryTags: []string{"Night Creature", "Velvet Smoke", "Dark Academia"},
			Longevity:    9,
			Projection:   8,
			CategorySlug: "moody-introvert",
			BasePrice:    32,
		},
		{
			ID:           "paris-midnight-rose",
			Name:         "Paris Midnight Rose",
			Brand:        "Atelier Rue Noire",
			Description:  "A deep wine-rose accord with a whisper of smoke and rain, built for stolen glances and overlong goodbyes.",
			CategoryTags: []string{"Date Night in Paris", "Vintage Romantic"},
			Longevity:    7,
			Projection:   7,
			CategorySlug: "date-night-in-paris",
			BasePrice:    29,
		},
		{
			ID:           "heritage-cashmere",
			Name:         "Heritage Cashmere",
			Brand:        "Maison du Patrimoine",
			Description:  "Soft woods, suede, and iris over a warm musky base, like slipping into an heirloom cashmere coat.",
			CategoryTags: []string{"Old Money Weekend", "Quiet Luxury Fresh"},
			Longevity:    8,
			Projection:   6,
			CategorySlug: "old-money-weekend",
			BasePrice:    34,
		},
	}
}
