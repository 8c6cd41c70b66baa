package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
)

const (
	defaultExtractTimeout = 4 * time.Second
	defaultExplainTimeout = 3 * time.Second
)

var errEmptyExplanation = errors.New("empty explanation")

// ProfileResolver wraps a ProfileExtractor with a time bound and collapses
// every failure into a nil profile.
type ProfileResolver struct {
	extractor ports.ProfileExtractor
	timeout   time.Duration
}

func NewProfileResolver(extractor ports.ProfileExtractor, timeout time.Duration) *ProfileResolver {
	if timeout <= 0 {
		timeout = defaultExtractTimeout
	}
	return &ProfileResolver{extractor: extractor, timeout: timeout}
}

func (r *ProfileResolver) Resolve(ctx context.Context, answers []string) (*domain.StructuredProfile, domain.ProfileStatus) {
	if r == nil || r.extractor == nil || len(answers) == 0 {
		return nil, domain.ProfileSkipped
	}

	ctx, span := tracer.Start(ctx, "recommend.extract_profile")
	defer span.End()
	span.SetAttributes(attribute.Int("answers", len(answers)))

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	profile, err := r.extractor.Extract(callCtx, answers)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		slog.WarnContext(ctx, "profile_extraction_failed",
			"answers", len(answers),
			"timeout_ms", r.timeout.Milliseconds(),
			"error", err,
		)
		return nil, domain.ProfileFailed
	}
	if profile.IsEmpty() {
		slog.InfoContext(ctx, "profile_extraction_empty", "answers", len(answers))
		return nil, domain.ProfileEmpty
	}
	return &profile, domain.ProfileOK
}

// Explainer wraps an ExplanationGenerator so that callers always receive text.
type Explainer struct {
	generator      ports.ExplanationGenerator
	timeout        time.Duration
	withoutProfile bool
}

func NewExplainer(generator ports.ExplanationGenerator, timeout time.Duration, withoutProfile bool) *Explainer {
	if timeout <= 0 {
		timeout = defaultExplainTimeout
	}
	return &Explainer{
		generator:      generator,
		timeout:        timeout,
		withoutProfile: withoutProfile,
	}
}

// Explain returns the generated explanation, or FallbackExplanation with
// fallback=true when generation is unavailable, fails, times out or is empty.
func (e *Explainer) Explain(ctx context.Context, profile *domain.StructuredProfile, item domain.Item) (text string, fallback bool) {
	if e == nil || e.generator == nil {
		return domain.FallbackExplanation, true
	}
	if profile == nil && !e.withoutProfile {
		return domain.FallbackExplanation, true
	}

	ctx, span := tracer.Start(ctx, "recommend.explain")
	defer span.End()
	span.SetAttributes(attribute.String("item.id", item.ID))

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text, err := e.generator.Explain(callCtx, profile, item)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errEmptyExplanation
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "explanation failed")
		slog.WarnContext(ctx, "explanation_fallback",
			"item_id", item.ID,
			"timeout_ms", e.timeout.Milliseconds(),
			"error", err,
		)
		return domain.FallbackExplanation, true
	}
	return strings.TrimSpace(text), false
}
