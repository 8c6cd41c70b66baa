// Package cache memoizes generated explanations in Redis so repeated
// profile/item pairs skip the language model.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
)

const (
	DefaultTTL    = 24 * time.Hour
	defaultPrefix = "perfume:explain:"
)

var _ ports.ExplanationGenerator = (*ExplanationCache)(nil)

type Options struct {
	// Namespace separates entries produced by different models.
	Namespace string
	TTL       time.Duration
	Prefix    string
}

type ExplanationCache struct {
	next   ports.ExplanationGenerator
	client redis.UniversalClient
	opts   Options
}

func NewExplanationCache(next ports.ExplanationGenerator, client redis.UniversalClient, opts Options) *ExplanationCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if strings.TrimSpace(opts.Prefix) == "" {
		opts.Prefix = defaultPrefix
	}
	return &ExplanationCache{next: next, client: client, opts: opts}
}

// Explain returns the cached text when present. Redis failures are logged
// and the call falls through to the wrapped generator.
func (c *ExplanationCache) Explain(ctx context.Context, profile *domain.StructuredProfile, item domain.Item) (string, error) {
	key, err := c.key(profile, item)
	if err != nil {
		return c.next.Explain(ctx, profile, item)
	}

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil && cached != "":
		return cached, nil
	case err != nil && !errors.Is(err, redis.Nil):
		slog.WarnContext(ctx, "explanation_cache_read_failed", "item_id", item.ID, "error", err)
	}

	text, err := c.next.Explain(ctx, profile, item)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if err := c.client.Set(ctx, key, text, c.opts.TTL).Err(); err != nil {
		slog.WarnContext(ctx, "explanation_cache_write_failed", "item_id", item.ID, "error", err)
	}
	return text, nil
}

func (c *ExplanationCache) key(profile *domain.StructuredProfile, item domain.Item) (string, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", err
	}
	itemJSON, err := json.Marshal(item)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(c.opts.Namespace))
	h.Write([]byte{0})
	h.Write(profileJSON)
	h.Write([]byte{0})
	h.Write(itemJSON)
	return c.opts.Prefix + hex.EncodeToString(h.Sum(nil)), nil
}
