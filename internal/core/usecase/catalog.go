package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
)

type CatalogUseCase struct {
	catalog ports.CatalogReader
}

func NewCatalogUseCase(catalog ports.CatalogReader) *CatalogUseCase {
	return &CatalogUseCase{catalog: catalog}
}

// ListItems returns the catalog items ordered by name, then id.
func (uc *CatalogUseCase) ListItems(ctx context.Context) ([]domain.Item, error) {
	catalog, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	items := append([]domain.Item{}, catalog.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (uc *CatalogUseCase) GetItem(ctx context.Context, id string) (domain.Item, error) {
	catalog, err := uc.snapshot(ctx)
	if err != nil {
		return domain.Item{}, err
	}

	item, ok := catalog.ItemByID(id)
	if !ok {
		return domain.Item{}, domain.WrapError(domain.ErrItemNotFound, "get item", fmt.Errorf("id=%s", id))
	}
	return item, nil
}

func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	catalog, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return append([]domain.Category{}, catalog.Categories...), nil
}

func (uc *CatalogUseCase) snapshot(ctx context.Context) (domain.Catalog, error) {
	catalog, err := uc.catalog.Snapshot(ctx)
	if err != nil {
		if domain.IsKind(err, domain.ErrCatalogUnavailable) {
			return domain.Catalog{}, err
		}
		return domain.Catalog{}, domain.WrapError(domain.ErrCatalogUnavailable, "read catalog snapshot", err)
	}
	return catalog, nil
}
