package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rcliao/trip-planner/internal/logging"
	"github.com/rcliao/trip-planner/internal/model"
)

// Resilient bounds every lookup on the primary catalog with a timeout and
// degrades to the fallback catalog when the primary fails or has nothing for
// the city. Lookup never returns ErrUnavailable; the failure is logged.
type Resilient struct {
	primary  Catalog
	fallback Catalog
	timeout  time.Duration
	logger   *slog.Logger
}

// NewResilient wraps primary. A nil fallback degrades to an empty venue set.
func NewResilient(primary, fallback Catalog, timeout time.Duration, logger *slog.Logger) *Resilient {
	return &Resilient{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
		logger:   logging.Component(logger, "catalog"),
	}
}

func (r *Resilient) Lookup(ctx context.Context, city string, categories []string) ([]model.Venue, error) {
	venues, err := r.lookupPrimary(ctx, city, categories)
	if err == nil && len(venues) > 0 {
		return venues, nil
	}
	if err != nil {
		r.logger.WarnContext(ctx, "catalog lookup failed, using fallback", "city", city, "error", err)
	} else {
		r.logger.InfoContext(ctx, "catalog has no venues for city, using fallback", "city", city)
	}

	if r.fallback == nil {
		return []model.Venue{}, nil
	}
	venues, ferr := r.fallback.Lookup(ctx, city, categories)
	if ferr != nil {
		r.logger.ErrorContext(ctx, "fallback catalog failed", "city", city, "error", ferr)
		return []model.Venue{}, nil
	}
	return venues, nil
}

func (r *Resilient) lookupPrimary(ctx context.Context, city string, categories []string) ([]model.Venue, error) {
	if r.primary == nil {
		return nil, ErrUnavailable
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	venues, err := r.primary.Lookup(ctx, city, categories)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return venues, nil
}

// Search tries the primary, then the fallback.
func (r *Resilient) Search(ctx context.Context, city, query string, limit int) ([]model.Venue, error) {
	if s, ok := r.primary.(Searcher); ok {
		sctx := ctx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			sctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
		if hits, err := s.Search(sctx, city, query, limit); err == nil && len(hits) > 0 {
			return hits, nil
		}
	}
	if s, ok := r.fallback.(Searcher); ok {
		return s.Search(ctx, city, query, limit)
	}
	return nil, nil
}
