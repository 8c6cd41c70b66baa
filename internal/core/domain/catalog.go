package domain

import "time"

type Item struct {
	ID           string   `json:"id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Brand        string   `json:"brand"`
	Description  string   `json:"description"`
	CategoryTags []string `json:"categoryTags"`
	CategorySlug string   `json:"categorySlug"`
	Longevity    float64  `json:"longevity" validate:"gte=0,lte=10"`
	Projection   float64  `json:"projection" validate:"gte=0,lte=10"`
	BasePrice    float64  `json:"basePrice" validate:"gte=0"`
}

type Category struct {
	Slug    string `json:"slug" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Tagline string `json:"tagline,omitempty"`
	Accent  string `json:"accent,omitempty"`
}

// Catalog is one read-only snapshot of the item list and the category taxonomy.
// Item order is the catalog iteration order used for tie-breaking.
type Catalog struct {
	Version    string     `json:"version"`
	Source     string     `json:"source"`
	LoadedAt   time.Time  `json:"loadedAt"`
	Items      []Item     `json:"items"`
	Categories []Category `json:"categories"`
}

func (c Catalog) CategoryBySlug(slug string) (Category, bool) {
	if slug == "" {
		return Category{}, false
	}
	for _, category := range c.Categories {
		if category.Slug == slug {
			return category, true
		}
	}
	return Category{}, false
}

func (c Catalog) ItemByID(id string) (Item, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}
