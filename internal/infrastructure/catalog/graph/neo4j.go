// Package graph reads the catalog from a Neo4j graph of
// (:Item)-[:IN_VIBE]->(:Vibe) nodes.
package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
	"github.com/icyphotoget/perfume/internal/infrastructure/catalog"
)

const (
	categoriesQuery = `
MATCH (v:Vibe)
RETURN v.slug AS slug, v.name AS name, coalesce(v.tagline, '') AS tagline, coalesce(v.accent, '') AS accent
ORDER BY coalesce(v.position, 0), v.slug`

	itemsQuery = `
MATCH (i:Item)
OPTIONAL MATCH (i)-[:IN_VIBE]->(v:Vibe)
RETURN i.id AS id, i.name AS name, coalesce(i.brand, '') AS brand,
       coalesce(i.description, '') AS description, coalesce(i.tags, []) AS tags,
       coalesce(v.slug, '') AS categorySlug, coalesce(i.longevity, 0) AS longevity,
       coalesce(i.projection, 0) AS projection, coalesce(i.basePrice, 0) AS basePrice
ORDER BY coalesce(i.position, 0), i.id`
)

var _ ports.CatalogSource = (*Source)(nil)

// QueryFunc runs a read query and returns every record.
type QueryFunc func(ctx context.Context, cypher string, params map[string]any) (*neo4j.EagerResult, error)

type Config struct {
	URI      string
	User     string
	Password string
	Database string
	Timeout  time.Duration
}

type Source struct {
	query  QueryFunc
	driver neo4j.DriverWithContext
}

func New(ctx context.Context, cfg Config) (*Source, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""), func(c *neo4j.Config) {
		c.SocketConnectTimeout = timeout
	})
	if err != nil {
		return nil, fmt.Errorf("init neo4j driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	database := strings.TrimSpace(cfg.Database)
	query := func(ctx context.Context, cypher string, params map[string]any) (*neo4j.EagerResult, error) {
		opts := []neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithReadersRouting()}
		if database != "" {
			opts = append(opts, neo4j.ExecuteQueryWithDatabase(database))
		}
		return neo4j.ExecuteQuery(ctx, driver, cypher, params, neo4j.EagerResultTransformer, opts...)
	}
	return &Source{query: query, driver: driver}, nil
}

func NewWithQuery(query QueryFunc) *Source {
	return &Source{query: query}
}

func (s *Source) Name() string { return "neo4j" }

func (s *Source) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Close(ctx)
}

func (s *Source) Load(ctx context.Context) (domain.Catalog, error) {
	categoryResult, err := s.query(ctx, categoriesQuery, nil)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("query vibes: %w", err)
	}
	itemResult, err := s.query(ctx, itemsQuery, nil)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("query items: %w", err)
	}

	categories := make([]domain.Category, 0, len(categoryResult.Records))
	for _, record := range categoryResult.Records {
		categories = append(categories, domain.Category{
			Slug:    stringValue(record, "slug"),
			Name:    stringValue(record, "name"),
			Tagline: stringValue(record, "tagline"),
			Accent:  stringValue(record, "accent"),
		})
	}

	items := make([]domain.Item, 0, len(itemResult.Records))
	for _, record := range itemResult.Records {
		items = append(items, domain.Item{
			ID:           stringValue(record, "id"),
			Name:         stringValue(record, "name"),
			Brand:        stringValue(record, "brand"),
			Description:  stringValue(record, "description"),
			CategoryTags: stringsValue(record, "tags"),
			CategorySlug: stringValue(record, "categorySlug"),
			Longevity:    numberValue(record, "longevity"),
			Projection:   numberValue(record, "projection"),
			BasePrice:    numberValue(record, "basePrice"),
		})
	}
	return catalog.Finalize(s.Name(), items, categories)
}

func stringValue(record *neo4j.Record, key string) string {
	raw, ok := record.Get(key)
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}

func stringsValue(record *neo4j.Record, key string) []string {
	raw, _ := record.Get(key)
	switch v := raw.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			if s, ok := elem.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return catalog.SplitTags(v)
	default:
		return []string{}
	}
}

// Neo4j returns integers as int64 and floats as float64.
func numberValue(record *neo4j.Record, key string) float64 {
	raw, _ := record.Get(key)
	switch v := raw.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}
