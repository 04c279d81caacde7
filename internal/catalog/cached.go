package catalog

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/logging"
	"github.com/rcliao/trip-planner/internal/model"
)

// Cached memoizes lookups of another catalog for a fixed TTL. Errors are
// never cached.
type Cached struct {
	next   Catalog
	cache  *cache.Cache
	logger *slog.Logger
}

// NewCached wraps next with a TTL cache.
func NewCached(next Catalog, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{
		next:   next,
		cache:  cache.New(ttl, 2*ttl),
		logger: logging.Component(logger, "catalog.cache"),
	}
}

func (c *Cached) Lookup(ctx context.Context, city string, categories []string) ([]model.Venue, error) {
	key := lookupKey(city, categories)
	if cached, found := c.cache.Get(key); found {
		if venues, ok := cached.([]model.Venue); ok {
			c.logger.DebugContext(ctx, "cache hit", "cache_key", key, "venues", len(venues))
			return slices.Clone(venues), nil
		}
	}
	c.logger.DebugContext(ctx, "cache miss", "cache_key", key)

	venues, err := c.next.Lookup(ctx, city, categories)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, slices.Clone(venues), cache.DefaultExpiration)
	return venues, nil
}

// Search passes through to the wrapped catalog when it supports search.
func (c *Cached) Search(ctx context.Context, city, query string, limit int) ([]model.Venue, error) {
	if s, ok := c.next.(Searcher); ok {
		return s.Search(ctx, city, query, limit)
	}
	return nil, nil
}

// Flush drops every cached lookup, e.g. after the venue table changes.
func (c *Cached) Flush() {
	c.cache.Flush()
}

func lookupKey(city string, categories []string) string {
	cats := make([]string, len(categories))
	for i, cat := range categories {
		cats[i] = config.Fold(cat)
	}
	slices.Sort(cats)
	return config.Fold(city) + "|" + strings.Join(slices.Compact(cats), ",")
}
