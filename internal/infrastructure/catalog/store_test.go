package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/infrastructure/resilience"
)

type sourceFake struct {
	calls   int
	results []domain.Catalog
	errs    []error
}

func (f *sourceFake) Name() string { return "fake" }

func (f *sourceFake) Load(context.Context) (domain.Catalog, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return domain.Catalog{}, err
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return domain.Catalog{Version: "last"}, nil
}

type reloadObserverFake struct {
	success int
	failure int
	items   int
}

func (o *reloadObserverFake) ObserveCatalogReload(_ string, success bool, items int) {
	if success {
		o.success++
		o.items = items
		return
	}
	o.failure++
}

func TestSnapshotBeforeLoadIsUnavailable(t *testing.T) {
	store := NewStore(&sourceFake{})
	if store.Ready() {
		t.Fatalf("store must not be ready before the first load")
	}
	_, err := store.Snapshot(context.Background())
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestReloadKeepsPreviousSnapshotOnFailure(t *testing.T) {
	source := &sourceFake{
		results: []domain.Catalog{{Version: "v1", Items: []domain.Item{{ID: "a"}}}},
		errs:    []error{nil, domain.WrapError(domain.ErrInvalidCatalog, "load", errors.New("bad row"))},
	}
	observer := &reloadObserverFake{}
	store := NewStore(source, WithReloadObserver(observer))

	if _, err := store.Reload(context.Background()); err != nil {
		t.Fatalf("first Reload() error = %v", err)
	}
	if _, err := store.Reload(context.Background()); err == nil {
		t.Fatalf("expected second reload to fail")
	}

	snapshot, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snapshot.Version != "v1" {
		t.Fatalf("expected previous snapshot, got version %q", snapshot.Version)
	}
	if observer.success != 1 || observer.failure != 1 || observer.items != 1 {
		t.Fatalf("unexpected observer counts %+v", observer)
	}
}

func TestReloadRetriesTransientSourceErrors(t *testing.T) {
	source := &sourceFake{errs: []error{errors.New("connection reset")}}
	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
	})
	store := NewStore(source, WithExecutor(executor))

	loaded, err := store.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if loaded.Version != "last" || source.calls != 2 {
		t.Fatalf("expected retry to succeed, version=%q calls=%d", loaded.Version, source.calls)
	}
}

func TestReloadDoesNotRetryInvalidCatalog(t *testing.T) {
	source := &sourceFake{errs: []error{
		domain.WrapError(domain.ErrInvalidCatalog, "load", errors.New("dup")),
		nil,
	}}
	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
	})
	store := NewStore(source, WithExecutor(executor))

	if _, err := store.Reload(context.Background()); !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", source.calls)
	}
}

func TestSeedSourceLoadsOriginalCatalog(t *testing.T) {
	catalog, err := SeedSource{}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(catalog.Items) != 3 || len(catalog.Categories) != 4 {
		t.Fatalf("unexpected seed sizes items=%d categories=%d", len(catalog.Items), len(catalog.Categories))
	}
	if catalog.Source != "seed" || catalog.Version == "" {
		t.Fatalf("expected source and version stamp, got %q/%q", catalog.Source, catalog.Version)
	}
	category, ok := catalog.CategoryBySlug("moody-introvert")
	if !ok || category.Name != "Moody Introvert" {
		t.Fatalf("expected moody-introvert category, got %+v", category)
	}
}

func TestFinalizeRejectsDuplicateIDs(t *testing.T) {
	items := []domain.Item{{ID: "a", Name: "A"}, {ID: "a", Name: "Again"}}
	_, err := Finalize("test", items, nil)
	if !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestFinalizeRejectsOutOfRangeAttributes(t *testing.T) {
	items := []domain.Item{{ID: "a", Name: "A", Longevity: 11}}
	_, err := Finalize("test", items, nil)
	if !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestFinalizeRejectsMissingCategoryName(t *testing.T) {
	_, err := Finalize("test", nil, []domain.Category{{Slug: "x"}})
	if !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestFinalizeAllowsEmptyCatalog(t *testing.T) {
	catalog, err := Finalize("test", nil, nil)
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if catalog.Items == nil || len(catalog.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", catalog.Items)
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags(" Night Creature | Velvet Smoke,Dark Academia ,, ")
	want := []string{"Night Creature", "Velvet Smoke", "Dark Academia"}
	if len(got) != len(want) {
		t.Fatalf("SplitTags() = %#v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SplitTags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
