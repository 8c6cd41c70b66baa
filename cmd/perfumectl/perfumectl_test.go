package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/icyphotoget/perfume/internal/core/domain"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LLM_PROVIDER", "none")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRecommendPrintsJSON(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "recommend", "--answer", "dark smoky nights", "--vibe", "moody-introvert", "--limit", "1", "--offline")
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}

	var rec domain.Recommendation
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(rec.Items) != 1 || rec.Items[0].Item.ID != "velvet-smoke" {
		t.Fatalf("unexpected items %+v", rec.Items)
	}
	if rec.ProfileStatus != domain.ProfileSkipped || rec.Profile != nil {
		t.Fatalf("offline run must skip the profile, got %+v", rec)
	}
}

func TestDotenvFileFeedsConfiguration(t *testing.T) {
	dir := isolateEnv(t)
	envFile := filepath.Join(dir, "custom.env")
	if err := os.WriteFile(envFile, []byte("CATALOG_SOURCE=bogus\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CATALOG_SOURCE", "")
	os.Unsetenv("CATALOG_SOURCE")

	_, err := execute(t, "--env-file", envFile, "recommend", "--vibe", "office-siren")
	if err == nil || !strings.Contains(err.Error(), "catalog_source") {
		t.Fatalf("expected dotenv value to reach validation, got %v", err)
	}
}

func TestImportReplacesSQLiteCatalog(t *testing.T) {
	dir := isolateEnv(t)
	t.Setenv("CATALOG_SOURCE", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "catalog.db"))

	catalogFile := filepath.Join(dir, "catalog.yaml")
	body := `categories:
  - slug: rainy-library
    name: Rainy Library
items:
  - id: paper-rain
    name: Paper Rain
    brand: Test House
    description: old books and wet stone
    categoryTags: [Rainy Library]
    categorySlug: rainy-library
    longevity: 6
    projection: 4
    basePrice: 20
`
	if err := os.WriteFile(catalogFile, []byte(body), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	out, err := execute(t, "import", catalogFile)
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	if !strings.Contains(out, "imported 1 items and 1 categories") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = execute(t, "recommend", "--vibe", "rainy-library", "--offline")
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}
	if !strings.Contains(out, "paper-rain") || strings.Contains(out, "velvet-smoke") {
		t.Fatalf("expected the imported catalog only, got %s", out)
	}
}

func TestMigrateRejectsNonSQLSource(t *testing.T) {
	isolateEnv(t)

	if _, err := execute(t, "migrate"); err == nil {
		t.Fatalf("expected error for the seed catalog")
	}
}

func TestMigrateReportsVersion(t *testing.T) {
	dir := isolateEnv(t)
	t.Setenv("CATALOG_SOURCE", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "catalog.db"))

	out, err := execute(t, "migrate")
	if err != nil {
		t.Fatalf("migrate error = %v", err)
	}
	if !strings.Contains(out, "version 2") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestFileSourceByExtension(t *testing.T) {
	if s, err := fileSource("a.YML"); err != nil || s.Name() != "yaml" {
		t.Fatalf("expected yaml source, got %v %v", s, err)
	}
	if s, err := fileSource("a.xlsx"); err != nil || s.Name() != "xlsx" {
		t.Fatalf("expected xlsx source, got %v %v", s, err)
	}
	if _, err := fileSource("a.csv"); err == nil {
		t.Fatalf("expected error for csv")
	}
}
