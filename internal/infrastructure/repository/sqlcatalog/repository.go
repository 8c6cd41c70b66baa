// Package sqlcatalog stores the catalog in PostgreSQL or SQLite.
package sqlcatalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
	"github.com/icyphotoget/perfume/internal/infrastructure/catalog"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func (d Dialect) driverName() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "pgx"
}

func (d Dialect) gooseName() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return "postgres"
}

var _ ports.CatalogSource = (*Repository)(nil)

type Repository struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, nil
}

func NewRepository(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{db: db, dialect: dialect}
}

func (r *Repository) Name() string { return string(r.dialect) }

func (r *Repository) Load(ctx context.Context) (domain.Catalog, error) {
	categories, err := r.loadCategories(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	items, err := r.loadItems(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	return catalog.Finalize(r.Name(), items, categories)
}

func (r *Repository) loadCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT slug, name, tagline, accent
FROM categories
ORDER BY position, slug
`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Category, 0)
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.Slug, &category.Name, &category.Tagline, &category.Accent); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

func (r *Repository) loadItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, brand, description, tags, category_slug, longevity, projection, base_price
FROM items
ORDER BY position, id
`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Item, 0)
	for rows.Next() {
		var (
			item     domain.Item
			rawTags  string
			category sql.NullString
		)
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Brand,
			&item.Description,
			&rawTags,
			&category,
			&item.Longevity,
			&item.Projection,
			&item.BasePrice,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		tags, err := decodeTags(rawTags)
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidCatalog, "decode item tags", fmt.Errorf("id=%s: %w", item.ID, err))
		}
		item.CategoryTags = tags
		item.CategorySlug = category.String
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}

// Replace swaps the stored catalog for the given one in a single transaction.
// Slice order becomes the stored position.
func (r *Repository) Replace(ctx context.Context, c domain.Catalog) error {
	if _, err := catalog.Finalize(r.Name(), c.Items, c.Categories); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace catalog: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	for i, category := range c.Categories {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO categories (slug, name, tagline, accent, position)
VALUES ($1, $2, $3, $4, $5)
`, category.Slug, category.Name, category.Tagline, category.Accent, i+1); err != nil {
			return fmt.Errorf("insert category %s: %w", category.Slug, err)
		}
	}
	for i, item := range c.Items {
		tags, err := json.Marshal(nonNilTags(item.CategoryTags))
		if err != nil {
			return fmt.Errorf("encode tags %s: %w", item.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO items (id, name, brand, description, tags, category_slug, longevity, projection, base_price, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`, item.ID, item.Name, item.Brand, item.Description, string(tags), nullableString(item.CategorySlug),
			item.Longevity, item.Projection, item.BasePrice, i+1); err != nil {
			return fmt.Errorf("insert item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace catalog: %w", err)
	}
	return nil
}

func decodeTags(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}
	return nonNilTags(tags), nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
