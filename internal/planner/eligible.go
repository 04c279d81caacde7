package planner

import (
	"github.com/samber/lo"

	"github.com/rcliao/trip-planner/internal/catalog"
	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/model"
)

// Eligible filters venues down to those the trip may visit and ranks them.
// A venue is eligible when its category belongs to one of the interests or
// it is a must-see; must-avoid venues are always excluded. Must-see venues
// come first in the order requested, then the rest alternate between
// interests so each day mixes them.
func Eligible(cfg config.Config, p model.Preferences, venues []model.Venue) []model.Venue {
	avoid := func(v model.Venue) bool {
		return lo.SomeBy(p.MustAvoidVenues, func(ref string) bool { return catalog.Matches(v, ref) })
	}
	seen := map[string]bool{}

	var out []model.Venue
	for _, ref := range p.MustSeeVenues {
		v, ok := catalog.Find(venues, ref)
		if !ok || seen[v.ID] || avoid(v) {
			continue
		}
		seen[v.ID] = true
		out = append(out, v)
	}

	groups := make([][]model.Venue, len(p.Interests))
	for _, v := range venues {
		if seen[v.ID] || avoid(v) {
			continue
		}
		name := cfg.InterestFor(p.Interests, v.Category)
		if name == "" {
			continue
		}
		i := lo.IndexOf(p.Interests, name)
		seen[v.ID] = true
		groups[i] = append(groups[i], v)
	}

	for round := 0; ; round++ {
		added := false
		for _, g := range groups {
			if round < len(g) {
				out = append(out, g[round])
				added = true
			}
		}
		if !added {
			return out
		}
	}
}

// Unmatched returns the must-see references no venue in the snapshot matches.
func Unmatched(p model.Preferences, venues []model.Venue) []string {
	return lo.Filter(p.MustSeeVenues, func(ref string, _ int) bool {
		_, ok := catalog.Find(venues, ref)
		return !ok
	})
}
