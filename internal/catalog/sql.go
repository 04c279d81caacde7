package catalog

import (
	"context"

	"github.com/rcliao/trip-planner/internal/model"
	"github.com/rcliao/trip-planner/internal/store"
)

// VenueSource is the part of the store the SQL catalog reads.
type VenueSource interface {
	ListVenues(ctx context.Context, p store.ListVenuesParams) ([]model.Venue, error)
	SearchVenues(ctx context.Context, p store.SearchParams) ([]model.Venue, error)
}

// SQL serves lookups from the venues table.
type SQL struct {
	src   VenueSource
	limit int
}

// NewSQL creates a catalog over src. limit caps each lookup; zero uses the
// store default.
func NewSQL(src VenueSource, limit int) *SQL {
	return &SQL{src: src, limit: limit}
}

func (c *SQL) Lookup(ctx context.Context, city string, categories []string) ([]model.Venue, error) {
	return c.src.ListVenues(ctx, store.ListVenuesParams{City: city, Categories: categories, Limit: c.limit})
}

func (c *SQL) Search(ctx context.Context, city, query string, limit int) ([]model.Venue, error) {
	return c.src.SearchVenues(ctx, store.SearchParams{City: city, Query: query, Limit: limit})
}
