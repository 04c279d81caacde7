// Package feasibility re-checks a generated itinerary against the trip's
// constraints. It trusts nothing about how the itinerary was produced.
package feasibility

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/model"
	"github.com/rcliao/trip-planner/internal/planner"
	"github.com/rcliao/trip-planner/internal/prefs"
)

const slack = 0.005

// Checker validates itineraries for one configuration.
type Checker struct {
	cfg config.Config
}

// NewChecker creates a Checker.
func NewChecker(cfg config.Config) *Checker {
	return &Checker{cfg: cfg}
}

type span struct {
	start, end int
	label      string
}

// Check reports every constraint the itinerary breaks. Any issue makes it
// infeasible; warnings describe shortfalls caused by catalog scarcity.
func (c *Checker) Check(it model.Itinerary, p model.Preferences, venues []model.Venue) model.FeasibilityResult {
	var issues, warnings, unknown []string
	p = prefs.WithDefaults(prefs.Derive(p), c.cfg)
	byID := lo.SliceToMap(venues, func(v model.Venue) (string, model.Venue) { return v.ID, v })

	// day count
	days := 0
	if p.DurationDays != nil {
		days = *p.DurationDays
	}
	switch {
	case days < 1:
		issues = append(issues, "Trip duration is unknown")
	case len(it.Days) != days:
		issues = append(issues, fmt.Sprintf("Itinerary has %d days but the trip is %d days", len(it.Days), days))
	}

	// closed world and repeats
	seen := map[string]int{}
	for _, d := range it.Days {
		for _, a := range d.Activities {
			if _, ok := byID[a.VenueID]; !ok {
				issues = append(issues, fmt.Sprintf("Day %d: venue %q is not in the catalog", d.Index, a.VenueID))
				unknown = append(unknown, a.VenueID)
			}
			if prev, ok := seen[a.VenueID]; ok {
				issues = append(issues, fmt.Sprintf("Day %d: venue %q is already scheduled on day %d", d.Index, a.VenueID, prev))
			} else {
				seen[a.VenueID] = d.Index
			}
		}
	}

	// budget, with unused share rolling forward
	var share float64
	if p.Budget != nil && days > 0 {
		share = *p.Budget / float64(days)
		var cumulative float64
		for i, d := range it.Days {
			cumulative += d.Cost()
			allowed := share * float64(i+1)
			if cumulative > allowed+slack {
				issues = append(issues, fmt.Sprintf("Day %d: cost %.2f exceeds its budget share (%.2f available)",
					d.Index, d.Cost(), allowed-(cumulative-d.Cost())))
			}
		}
		if total := it.TotalCost(); total > *p.Budget+slack {
			issues = append(issues, fmt.Sprintf("Total cost %.2f exceeds the budget of %.2f", total, *p.Budget))
		}
	} else if p.Budget == nil {
		issues = append(issues, "Budget is unknown")
	}

	// pace band
	pace := model.PaceModerate
	if p.Pace != nil {
		pace = *p.Pace
	}
	rule := c.cfg.Pace(pace)
	shape := planner.DayShape(c.cfg, pace, *p.HoursPerDay)
	group := *p.GroupSize
	eligible := planner.Eligible(c.cfg, p, venues)
	var spent float64
	for i, d := range it.Days {
		n := len(d.Activities)
		left := share*float64(i+1) - spent - d.Cost()
		spent += d.Cost()
		switch {
		case n > rule.MaxActivities:
			issues = append(issues, fmt.Sprintf("Day %d: %d activities exceeds the %s maximum of %d", d.Index, n, pace, rule.MaxActivities))
		case n < rule.MinActivities:
			spare := lo.ContainsBy(eligible, func(v model.Venue) bool {
				_, used := seen[v.ID]
				return !used && planner.VenueCost(c.cfg, v, group) <= left+slack
			})
			switch {
			case spare && n < shape.Count:
				issues = append(issues, fmt.Sprintf("Day %d: %d activities is below the %s minimum of %d", d.Index, n, pace, rule.MinActivities))
			case n < shape.Count:
				warnings = append(warnings, fmt.Sprintf(
					"Day %d has only %d activities (%s target %d-%d): not enough matching venues fit the day",
					d.Index, n, pace, rule.MinActivities, rule.MaxActivities))
			default:
				// the day window itself is too short for the pace
				issues = append(issues, fmt.Sprintf(
					"Day %d: %d activities is below the %s minimum of %d; %d hours per day fit at most %d",
					d.Index, n, pace, rule.MinActivities, *p.HoursPerDay, shape.Count))
			}
		}
	}

	// time slots and meal gaps
	for _, d := range it.Days {
		issues = append(issues, checkDay(d)...)
	}

	return model.FeasibilityResult{
		Feasible:      len(issues) == 0,
		Issues:        nonNil(issues),
		Warnings:      nonNil(warnings),
		UnknownVenues: unknown,
	}
}

func checkDay(d model.Day) []string {
	var issues []string
	parse := func(start, end, label string) (span, bool) {
		s, err1 := model.ParseClock(start)
		e, err2 := model.ParseClock(end)
		if err1 != nil || err2 != nil || e <= s {
			issues = append(issues, fmt.Sprintf("Day %d: %s has an invalid time slot %s-%s", d.Index, label, start, end))
			return span{}, false
		}
		return span{start: s, end: e, label: label}, true
	}

	var acts []span
	for _, a := range d.Activities {
		if sp, ok := parse(a.Start, a.End, a.VenueID); ok {
			acts = append(acts, sp)
		}
	}
	for i := range acts {
		for j := i + 1; j < len(acts); j++ {
			if overlaps(acts[i], acts[j]) {
				issues = append(issues, fmt.Sprintf("Day %d: %s overlaps %s", d.Index, acts[i].label, acts[j].label))
			}
		}
	}

	meal := false
	for _, m := range d.Meals {
		sp, ok := parse(m.Start, m.End, m.Kind)
		if !ok {
			continue
		}
		if !lo.ContainsBy(acts, func(a span) bool { return overlaps(a, sp) }) {
			meal = true
		}
	}
	if !meal {
		issues = append(issues, fmt.Sprintf("Day %d has no free time for a meal", d.Index))
	}
	return issues
}

func overlaps(a, b span) bool {
	return a.start < b.end && b.start < a.end
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
