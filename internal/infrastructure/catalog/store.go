// Package catalog holds the in-memory catalog snapshot and the sources that
// produce it.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
	"github.com/icyphotoget/perfume/internal/infrastructure/resilience"
)

var _ ports.CatalogReader = (*Store)(nil)

type ReloadObserver interface {
	ObserveCatalogReload(source string, success bool, items int)
}

type Store struct {
	source   ports.CatalogSource
	executor *resilience.Executor
	observer ReloadObserver
	current  atomic.Pointer[domain.Catalog]
}

type StoreOption func(*Store)

func WithExecutor(executor *resilience.Executor) StoreOption {
	return func(s *Store) { s.executor = executor }
}

func WithReloadObserver(observer ReloadObserver) StoreOption {
	return func(s *Store) { s.observer = observer }
}

func NewStore(source ports.CatalogSource, opts ...StoreOption) *Store {
	s := &Store{source: source}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the last successfully loaded catalog.
func (s *Store) Snapshot(context.Context) (domain.Catalog, error) {
	current := s.current.Load()
	if current == nil {
		return domain.Catalog{}, domain.WrapError(domain.ErrCatalogUnavailable, "catalog snapshot", errors.New("catalog not loaded"))
	}
	return *current, nil
}

func (s *Store) Ready() bool {
	return s.current.Load() != nil
}

// Reload replaces the snapshot with a fresh load from the source. On failure
// the previous snapshot stays in place.
func (s *Store) Reload(ctx context.Context) (domain.Catalog, error) {
	name := s.source.Name()
	loaded, err := resilience.Do(ctx, s.executor, "catalog.load."+name, s.source.Load, classifyLoadError)
	if err != nil {
		if s.observer != nil {
			s.observer.ObserveCatalogReload(name, false, 0)
		}
		slog.ErrorContext(ctx, "catalog_reload_failed", "source", name, "kept_previous", s.Ready(), "error", err)
		return domain.Catalog{}, err
	}

	s.current.Store(&loaded)
	if s.observer != nil {
		s.observer.ObserveCatalogReload(name, true, len(loaded.Items))
	}
	slog.InfoContext(ctx, "catalog_reloaded",
		"source", name,
		"version", loaded.Version,
		"items", len(loaded.Items),
		"categories", len(loaded.Categories),
	)
	return loaded, nil
}

// A malformed catalog is not retried and does not count against the breaker.
func classifyLoadError(err error) resilience.ErrorClassification {
	if class, ok := resilience.ClassifyTransient(err); ok {
		return class
	}
	if domain.IsKind(err, domain.ErrInvalidCatalog) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
}
