// Package bootstrap assembles the application graph from configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/icyphotoget/perfume/internal/config"
	"github.com/icyphotoget/perfume/internal/core/ports"
	"github.com/icyphotoget/perfume/internal/core/usecase"
	"github.com/icyphotoget/perfume/internal/infrastructure/catalog"
	"github.com/icyphotoget/perfume/internal/infrastructure/catalog/file"
	"github.com/icyphotoget/perfume/internal/infrastructure/catalog/graph"
	"github.com/icyphotoget/perfume/internal/infrastructure/llm/cache"
	"github.com/icyphotoget/perfume/internal/infrastructure/llm/groq"
	"github.com/icyphotoget/perfume/internal/infrastructure/llm/ollama"
	natsqueue "github.com/icyphotoget/perfume/internal/infrastructure/queue/nats"
	"github.com/icyphotoget/perfume/internal/infrastructure/repository/sqlcatalog"
	"github.com/icyphotoget/perfume/internal/infrastructure/resilience"
	"github.com/icyphotoget/perfume/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Metrics  *metrics.Metrics
	Executor *resilience.Executor
	Store    *catalog.Store

	RecommendUC *usecase.RecommendUseCase
	CatalogUC   *usecase.CatalogUseCase

	// NATS and Publisher are nil unless nats_enabled is set.
	NATS      *nats.Conn
	Publisher *natsqueue.Publisher

	closers []func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}
	if err := app.init(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config
	a.Metrics = metrics.New(cfg.ServiceName)
	a.Executor = resilience.NewExecutor(cfg.Resilience(), resilience.WithObserver(a.Metrics))

	source, err := a.catalogSource(ctx)
	if err != nil {
		return err
	}
	a.Store = catalog.NewStore(source,
		catalog.WithExecutor(a.Executor),
		catalog.WithReloadObserver(a.Metrics),
	)
	if _, err := a.Store.Reload(ctx); err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}

	extractor, generator := a.enrichment()
	a.RecommendUC = usecase.NewRecommendUseCase(a.Store, extractor, generator, usecase.RecommendConfig{
		ExtractTimeout:        cfg.NLUTimeout,
		ExplainTimeout:        cfg.NLGTimeout,
		ExplainConcurrency:    cfg.ExplainConcurrency,
		ExplainWithoutProfile: cfg.ExplainWithoutProfile,
	})
	a.CatalogUC = usecase.NewCatalogUseCase(a.Store)

	if cfg.NATSEnabled {
		conn, err := natsqueue.Connect(cfg.NATSURL, natsqueue.Options{Name: cfg.ServiceName})
		if err != nil {
			return fmt.Errorf("init nats: %w", err)
		}
		a.NATS = conn
		a.Publisher = natsqueue.NewPublisher(conn, cfg.NATSSubject, a.Executor)
		a.onClose(conn.Close)
	}
	return nil
}

// CatalogRefresher returns the supervised NATS subscriber that reloads the
// store on every catalog event, or nil when NATS is disabled.
func (a *App) CatalogRefresher() *natsqueue.Subscriber {
	if a.NATS == nil {
		return nil
	}
	return natsqueue.NewSubscriber(a.NATS, a.Config.NATSSubject, a.Config.NATSQueueGroup, a.Store)
}

func (a *App) catalogSource(ctx context.Context) (ports.CatalogSource, error) {
	cfg := a.Config
	switch cfg.CatalogSource {
	case "seed":
		return catalog.SeedSource{}, nil
	case "yaml":
		return file.NewYAMLSource(cfg.CatalogPath), nil
	case "xlsx":
		return file.NewXLSXSource(cfg.CatalogPath), nil
	case "postgres", "sqlite":
		repo, db, err := OpenSQLCatalog(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.onClose(func() { _ = db.Close() })
		return repo, nil
	case "neo4j":
		source, err := graph.New(ctx, graph.Config{
			URI:      cfg.Neo4jURI,
			User:     cfg.Neo4jUser,
			Password: cfg.Neo4jPassword,
			Database: cfg.Neo4jDatabase,
		})
		if err != nil {
			return nil, err
		}
		a.onClose(func() { _ = source.Close(context.Background()) })
		return source, nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
}

// OpenSQLCatalog opens the configured SQL database and applies migrations
// when auto_migrate is set.
func OpenSQLCatalog(ctx context.Context, cfg config.Config) (*sqlcatalog.Repository, *sql.DB, error) {
	dialect := sqlcatalog.DialectPostgres
	dsn := cfg.PostgresDSN
	if cfg.CatalogSource == "sqlite" {
		dialect = sqlcatalog.DialectSQLite
		dsn = cfg.SQLitePath
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sqlcatalog.Open(ctx, dialect, dsn)
	if err != nil {
		return nil, nil, err
	}
	if cfg.AutoMigrate {
		if err := sqlcatalog.Migrate(ctx, db, dialect); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	return sqlcatalog.NewRepository(db, dialect), db, nil
}

// enrichment returns nil ports when no language model is configured; the
// orchestrator then runs deterministic scoring with fallback explanations.
func (a *App) enrichment() (ports.ProfileExtractor, ports.ExplanationGenerator) {
	cfg := a.Config
	if !cfg.EnrichmentEnabled() {
		slog.Info("enrichment_disabled", "llm_provider", cfg.LLMProvider)
		return nil, nil
	}

	var (
		extractor ports.ProfileExtractor
		generator ports.ExplanationGenerator
		model     string
	)
	switch cfg.LLMProvider {
	case "groq":
		client := groq.New(cfg.GroqAPIKey, groq.Options{BaseURL: cfg.GroqBaseURL, Model: cfg.GroqModel, Executor: a.Executor})
		extractor, generator, model = client, client, "groq:"+client.Model()
	case "ollama":
		client := ollama.NewWithExecutor(cfg.OllamaURL, cfg.OllamaGenModel, a.Executor)
		extractor, generator, model = client, client, "ollama:"+client.Model()
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.onClose(func() { _ = rdb.Close() })
		generator = cache.NewExplanationCache(generator, rdb, cache.Options{Namespace: model, TTL: cfg.ExplanationCacheTTL})
	}
	slog.Info("enrichment_enabled", "model", model, "explanation_cache", cfg.RedisAddr != "")
	return extractor, generator
}

func (a *App) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse acquisition order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
