package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/icyphotoget/perfume/internal/core/domain"
)

const sampleYAML = `
categories:
  - slug: moody-introvert
    name: Moody Introvert
    tagline: Rainy windows, quiet playlists, dark woods.
items:
  - id: velvet-smoke
    name: Velvet Smoke
    brand: Maison Obscura
    description: A dark, enveloping trail of oud.
    categoryTags: [Night Creature, Dark Academia]
    categorySlug: moody-introvert
    longevity: 9
    projection: 8
    basePrice: 32
  - id: bare
    name: Bare
`

func TestYAMLSourceLoadsDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	catalog, err := NewYAMLSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if catalog.Source != "yaml" || len(catalog.Items) != 2 || len(catalog.Categories) != 1 {
		t.Fatalf("unexpected catalog %+v", catalog)
	}
	first := catalog.Items[0]
	if first.Brand != "Maison Obscura" || first.Projection != 8 || len(first.CategoryTags) != 2 {
		t.Fatalf("unexpected first item %+v", first)
	}
	if catalog.Items[1].CategoryTags == nil {
		t.Fatalf("missing tags must decode as an empty list")
	}
}

func TestDecodeYAMLRejectsDuplicateItems(t *testing.T) {
	doc := "items:\n  - {id: a, name: A}\n  - {id: a, name: B}\n"
	_, err := DecodeYAML("yaml", strings.NewReader(doc))
	if !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestDecodeYAMLRejectsMalformedDocument(t *testing.T) {
	_, err := DecodeYAML("yaml", strings.NewReader("items: {not: [a list"))
	if !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestDecodeYAMLEmptyDocument(t *testing.T) {
	catalog, err := DecodeYAML("yaml", strings.NewReader(""))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	if len(catalog.Items) != 0 {
		t.Fatalf("expected empty catalog, got %d items", len(catalog.Items))
	}
}

func writeWorkbook(t *testing.T, items [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CategoriesSheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	if _, err := f.NewSheet(ItemsSheet); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	categories := [][]any{
		{"slug", "name", "tagline", "accent"},
		{"old-money-weekend", "Old Money Weekend", "Quiet wealth.", ""},
	}
	for i, row := range categories {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(CategoriesSheet, cell, &row); err != nil {
			t.Fatalf("set categories row: %v", err)
		}
	}
	for i, row := range items {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(ItemsSheet, cell, &row); err != nil {
			t.Fatalf("set items row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestXLSXSourceLoadsWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"id", "name", "brand", "description", "categoryTags", "categorySlug", "longevity", "projection", "basePrice"},
		{"heritage-cashmere", "Heritage Cashmere", "Maison du Patrimoine", "Soft woods.", "Old Money Weekend|Quiet Luxury Fresh", "old-money-weekend", 8, 6, 34},
		{},
		{"plain", "Plain", "", "", "", "", "", "", ""},
	})

	catalog, err := NewXLSXSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(catalog.Items) != 2 || len(catalog.Categories) != 1 {
		t.Fatalf("unexpected catalog sizes items=%d categories=%d", len(catalog.Items), len(catalog.Categories))
	}
	item := catalog.Items[0]
	if item.Longevity != 8 || item.BasePrice != 34 || item.CategorySlug != "old-money-weekend" {
		t.Fatalf("unexpected item %+v", item)
	}
	if len(item.CategoryTags) != 2 || item.CategoryTags[1] != "Quiet Luxury Fresh" {
		t.Fatalf("unexpected tags %#v", item.CategoryTags)
	}
}

func TestXLSXSourceRejectsBadNumber(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"id", "name", "longevity"},
		{"a", "A", "very long"},
	})

	_, err := NewXLSXSource(path).Load(context.Background())
	if !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
	if !strings.Contains(err.Error(), "row 2 column longevity") {
		t.Fatalf("expected cell position in error, got %v", err)
	}
}

func TestXLSXSourceMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = f.Close()

	_, err := NewXLSXSource(path).Load(context.Background())
	if !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}
