// Package catalog is the read-only venue catalog the planner draws from.
// Every venue the planner may schedule comes from a Lookup snapshot.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/model"
)

// ErrUnavailable reports that the catalog source could not be reached.
var ErrUnavailable = errors.New("venue catalog unavailable")

// Catalog looks up venues for a city. An empty category list means every
// category.
type Catalog interface {
	Lookup(ctx context.Context, city string, categories []string) ([]model.Venue, error)
}

// Searcher is implemented by catalogs that support keyword search.
type Searcher interface {
	Search(ctx context.Context, city, query string, limit int) ([]model.Venue, error)
}

// Matches reports whether ref names v, by id or by case-insensitive name.
// References of four or more characters also match as a name substring, so
// "CN Tower" finds "CN Tower Observation Deck".
func Matches(v model.Venue, ref string) bool {
	key := config.Fold(ref)
	if key == "" {
		return false
	}
	name := config.Fold(v.Name)
	if config.Fold(v.ID) == key || name == key {
		return true
	}
	return len(key) >= 4 && strings.Contains(name, key)
}

// Find returns the first venue ref names.
func Find(venues []model.Venue, ref string) (model.Venue, bool) {
	return lo.Find(venues, func(v model.Venue) bool { return Matches(v, ref) })
}

// Alternatives suggests up to limit replacements for a venue the catalog
// does not know. Snapshot venues in the wanted categories come first, then
// keyword matches when c supports search.
func Alternatives(ctx context.Context, c Catalog, snapshot []model.Venue, city, ref string, categories []string, limit int) []model.Venue {
	if limit <= 0 {
		limit = 3
	}
	var out []model.Venue
	seen := map[string]bool{}
	add := func(v model.Venue) {
		if !seen[v.ID] && len(out) < limit {
			seen[v.ID] = true
			out = append(out, v)
		}
	}

	wanted := lo.SliceToMap(categories, func(c string) (string, bool) { return config.Fold(c), true })
	for _, v := range snapshot {
		if wanted[config.Fold(v.Category)] {
			add(v)
		}
	}

	if s, ok := c.(Searcher); ok && len(out) < limit {
		for _, word := range strings.Fields(ref) {
			if len(word) < 4 {
				continue
			}
			hits, err := s.Search(ctx, city, word, limit)
			if err != nil {
				break
			}
			lo.ForEach(hits, func(v model.Venue, _ int) { add(v) })
		}
	}
	return out
}

func inCity(v model.Venue, city string) bool {
	return city == "" || config.Fold(v.City) == config.Fold(city)
}

func inCategories(v model.Venue, categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	cat := config.Fold(v.Category)
	return lo.ContainsBy(categories, func(c string) bool { return config.Fold(c) == cat })
}
