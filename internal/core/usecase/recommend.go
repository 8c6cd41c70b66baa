package usecase

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
)

var tracer = otel.Tracer("github.com/icyphotoget/perfume/internal/core/usecase")

const defaultExplainConcurrency = 5

type RecommendConfig struct {
	ExtractTimeout        time.Duration
	ExplainTimeout        time.Duration
	ExplainConcurrency    int
	ExplainWithoutProfile bool
}

type RecommendUseCase struct {
	catalog     ports.CatalogReader
	resolver    *ProfileResolver
	explainer   *Explainer
	concurrency int
}

// NewRecommendUseCase wires the orchestrator. A nil extractor or generator
// disables that enrichment step.
func NewRecommendUseCase(
	catalog ports.CatalogReader,
	extractor ports.ProfileExtractor,
	generator ports.ExplanationGenerator,
	cfg RecommendConfig,
) *RecommendUseCase {
	concurrency := cfg.ExplainConcurrency
	if concurrency <= 0 {
		concurrency = defaultExplainConcurrency
	}
	return &RecommendUseCase{
		catalog:     catalog,
		resolver:    NewProfileResolver(extractor, cfg.ExtractTimeout),
		explainer:   NewExplainer(generator, cfg.ExplainTimeout, cfg.ExplainWithoutProfile),
		concurrency: concurrency,
	}
}

func (uc *RecommendUseCase) Recommend(
	ctx context.Context,
	req domain.RecommendRequest,
	opts ...ports.RecommendOption,
) (domain.Recommendation, error) {
	var options ports.RecommendOptions
	for _, opt := range opts {
		opt(&options)
	}

	ctx, span := tracer.Start(ctx, "recommend")
	defer span.End()

	req = req.Normalize()
	span.SetAttributes(
		attribute.Int("request.answers", len(req.FreeTextAnswers)),
		attribute.Int("request.categories", len(req.SelectedCategorySlugs)),
		attribute.Int("request.limit", req.ResultLimit),
		attribute.Bool("request.enrichment", !options.SkipEnrichment),
	)

	catalog, err := uc.catalog.Snapshot(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog unavailable")
		if domain.IsKind(err, domain.ErrCatalogUnavailable) {
			return domain.Recommendation{}, err
		}
		return domain.Recommendation{}, domain.WrapError(domain.ErrCatalogUnavailable, "read catalog snapshot", err)
	}

	result := domain.Recommendation{
		Request:        req,
		ProfileStatus:  domain.ProfileSkipped,
		CatalogVersion: catalog.Version,
	}

	var profile *domain.StructuredProfile
	if !options.SkipEnrichment {
		profile, result.ProfileStatus = uc.resolver.Resolve(ctx, req.FreeTextAnswers)
	}
	result.Profile = profile

	ranked := ScoreCatalog(catalog, req, profile)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > req.ResultLimit {
		ranked = ranked[:req.ResultLimit]
	}

	if !options.SkipEnrichment {
		result.FallbackCount = uc.explain(ctx, profile, ranked)
	}

	result.Items = ranked
	span.SetAttributes(
		attribute.Int("result.count", len(ranked)),
		attribute.String("result.profile_status", string(result.ProfileStatus)),
		attribute.Int("result.fallbacks", result.FallbackCount),
	)
	return result, nil
}

// explain annotates the already ordered items in place. Each goroutine writes
// only its own index, so completion order cannot change the ranking.
func (uc *RecommendUseCase) explain(ctx context.Context, profile *domain.StructuredProfile, items []domain.ScoredItem) int {
	if len(items) == 0 {
		return 0
	}

	fallbacks := make([]bool, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i := range items {
		g.Go(func() error {
			items[i].Explanation, fallbacks[i] = uc.explainer.Explain(gctx, profile, items[i].Item)
			return nil
		})
	}
	_ = g.Wait()

	count := 0
	for _, fallback := range fallbacks {
		if fallback {
			count++
		}
	}
	return count
}
