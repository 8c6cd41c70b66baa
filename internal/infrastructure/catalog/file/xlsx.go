package file

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
	"github.com/icyphotoget/perfume/internal/infrastructure/catalog"
)

const (
	CategoriesSheet = "categories"
	ItemsSheet      = "items"
)

var _ ports.CatalogSource = (*XLSXSource)(nil)

// XLSXSource reads a workbook with a "categories" and an "items" sheet. The
// first row of each sheet is a header; columns are matched by header name.
type XLSXSource struct {
	path string
}

func NewXLSXSource(path string) *XLSXSource {
	return &XLSXSource{path: path}
}

func (s *XLSXSource) Name() string { return "xlsx" }

func (s *XLSXSource) Load(ctx context.Context) (domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, err
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer f.Close()
	return DecodeWorkbook(s.Name(), f)
}

func DecodeWorkbook(source string, f *excelize.File) (domain.Catalog, error) {
	categoryRows, err := sheetRecords(f, CategoriesSheet)
	if err != nil {
		return domain.Catalog{}, err
	}
	itemRows, err := sheetRecords(f, ItemsSheet)
	if err != nil {
		return domain.Catalog{}, err
	}

	categories := make([]domain.Category, 0, len(categoryRows))
	for _, row := range categoryRows {
		categories = append(categories, domain.Category{
			Slug:    row["slug"],
			Name:    row["name"],
			Tagline: row["tagline"],
			Accent:  row["accent"],
		})
	}

	items := make([]domain.Item, 0, len(itemRows))
	for i, row := range itemRows {
		item := domain.Item{
			ID:           row["id"],
			Name:         row["name"],
			Brand:        row["brand"],
			Description:  row["description"],
			CategoryTags: catalog.SplitTags(row["categorytags"]),
			CategorySlug: row["categoryslug"],
		}
		// Row numbers are 1-based and the header occupies row 1.
		line := i + 2
		if item.Longevity, err = parseNumber(row["longevity"]); err != nil {
			return domain.Catalog{}, invalidCell(ItemsSheet, line, "longevity", err)
		}
		if item.Projection, err = parseNumber(row["projection"]); err != nil {
			return domain.Catalog{}, invalidCell(ItemsSheet, line, "projection", err)
		}
		if item.BasePrice, err = parseNumber(row["baseprice"]); err != nil {
			return domain.Catalog{}, invalidCell(ItemsSheet, line, "basePrice", err)
		}
		items = append(items, item)
	}
	return catalog.Finalize(source, items, categories)
}

// sheetRecords maps every data row to lower-cased header names. Blank rows
// are skipped.
func sheetRecords(f *excelize.File, sheet string) ([]map[string]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidCatalog, "read sheet "+sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		blank := true
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				blank = false
			}
			record[header[i]] = cell
		}
		if !blank {
			records = append(records, record)
		}
	}
	return records, nil
}

func parseNumber(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func invalidCell(sheet string, line int, column string, err error) error {
	return domain.WrapError(domain.ErrInvalidCatalog, "read workbook", fmt.Errorf("%s row %d column %s: %w", sheet, line, column, err))
}
