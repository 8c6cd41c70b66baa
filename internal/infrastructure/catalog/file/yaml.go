// Package file loads catalogs from YAML documents and Excel workbooks.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
	"github.com/icyphotoget/perfume/internal/infrastructure/catalog"
)

var _ ports.CatalogSource = (*YAMLSource)(nil)

type yamlDocument struct {
	Categories []yamlCategory `yaml:"categories"`
	Items      []yamlItem     `yaml:"items"`
}

type yamlCategory struct {
	Slug    string `yaml:"slug"`
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Accent  string `yaml:"accent"`
}

type yamlItem struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Brand        string   `yaml:"brand"`
	Description  string   `yaml:"description"`
	CategoryTags []string `yaml:"categoryTags"`
	CategorySlug string   `yaml:"categorySlug"`
	Longevity    float64  `yaml:"longevity"`
	Projection   float64  `yaml:"projection"`
	BasePrice    float64  `yaml:"basePrice"`
}

type YAMLSource struct {
	path string
}

func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

func (s *YAMLSource) Name() string { return "yaml" }

func (s *YAMLSource) Load(ctx context.Context) (domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	return DecodeYAML(s.Name(), bytes.NewReader(data))
}

func DecodeYAML(source string, r io.Reader) (domain.Catalog, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return domain.Catalog{}, domain.WrapError(domain.ErrInvalidCatalog, "decode yaml catalog", err)
	}

	categories := make([]domain.Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		categories = append(categories, domain.Category{Slug: c.Slug, Name: c.Name, Tagline: c.Tagline, Accent: c.Accent})
	}
	items := make([]domain.Item, 0, len(doc.Items))
	for _, it := range doc.Items {
		tags := it.CategoryTags
		if tags == nil {
			tags = []string{}
		}
		items = append(items, domain.Item{
			ID:           it.ID,
			Name:         it.Name,
			Brand:        it.Brand,
			Description:  it.Description,
			CategoryTags: tags,
			CategorySlug: it.CategorySlug,
			Longevity:    it.Longevity,
			Projection:   it.Projection,
			BasePrice:    it.BasePrice,
		})
	}
	return catalog.Finalize(source, items, categories)
}
