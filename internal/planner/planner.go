// Package planner turns validated preferences and a venue snapshot into a
// day-by-day itinerary. Every scheduled venue comes from the snapshot.
package planner

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/model"
	"github.com/rcliao/trip-planner/internal/prefs"
)

// ErrIncomplete is returned when the preferences lack what planning needs.
var ErrIncomplete = errors.New("preferences incomplete for planning")

// Planner builds itineraries for one configuration.
type Planner struct {
	cfg config.Config
	now func() time.Time
}

// Option configures a Planner.
type Option func(*Planner)

// WithClock overrides the clock stamped into GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// New creates a Planner.
func New(cfg config.Config, opts ...Option) *Planner {
	p := &Planner{cfg: cfg, now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Plan schedules venues over every date of the trip. Days the snapshot
// cannot fill get fewer activities; an empty snapshot yields days with
// meals only.
func (pl *Planner) Plan(p model.Preferences, venues []model.Venue) (model.Itinerary, error) {
	p = prefs.WithDefaults(prefs.Derive(p), pl.cfg)

	start, _, ok := p.Dates()
	if !ok || p.DurationDays == nil || *p.DurationDays < 1 {
		return model.Itinerary{}, fmt.Errorf("plan: %w: need a valid date range", ErrIncomplete)
	}
	if p.Budget == nil || *p.Budget <= 0 {
		return model.Itinerary{}, fmt.Errorf("plan: %w: need a budget", ErrIncomplete)
	}

	pace := model.PaceModerate
	if p.Pace != nil {
		pace = *p.Pace
	}
	group := *p.GroupSize
	days := *p.DurationDays
	share := *p.Budget / float64(days)
	shape := DayShape(pl.cfg, pace, *p.HoursPerDay)
	ranked := Eligible(pl.cfg, p, venues)

	it := model.Itinerary{
		ID:          model.ItineraryID(p.TripID),
		TripID:      p.TripID,
		Pace:        pace,
		Budget:      *p.Budget,
		GeneratedAt: pl.now().UTC(),
	}
	if p.City != nil {
		it.City = *p.City
	}
	if p.BudgetCurrency != nil {
		it.Currency = *p.BudgetCurrency
	}

	used := map[string]bool{}
	var spent float64
	for i := range days {
		allowance := share*float64(i+1) - spent
		mealCost := Cents(pl.cfg.Budget.MealCostPerPerson * float64(group))

		remaining := allowance - mealCost*float64(len(shape.Meals))
		var picked []model.Venue
		var costs []float64
		for _, v := range ranked {
			if len(picked) == shape.Count {
				break
			}
			if used[v.ID] {
				continue
			}
			c := VenueCost(pl.cfg, v, group)
			if c > remaining+1e-9 {
				continue
			}
			used[v.ID] = true
			picked = append(picked, v)
			costs = append(costs, c)
			remaining -= c
		}

		day := schedule(shape, picked, costs, mealCost)
		day.Index = i + 1
		day.Date = start.AddDate(0, 0, i).Format(model.DateLayout)
		day.Budget = Cents(allowance)
		day.Spent = Cents(day.Cost())
		spent += day.Cost()
		it.Days = append(it.Days, day)
	}
	return it, nil
}

// schedule lays picked venues out from the start of the day, inserting each
// meal before the first activity that would run past its anchor.
func schedule(sh Shape, picked []model.Venue, costs []float64, mealCost float64) model.Day {
	day := model.Day{Activities: []model.Activity{}, Meals: []model.MealBreak{}}
	pending := append([]MealSlot(nil), sh.Meals...)
	cursor := sh.Start

	addMeal := func(m MealSlot, at int) {
		day.Meals = append(day.Meals, model.MealBreak{
			Kind:          m.Kind,
			Start:         model.Clock(at),
			End:           model.Clock(at + m.Duration),
			EstimatedCost: mealCost,
		})
	}

	for i, v := range picked {
		for len(pending) > 0 && cursor+sh.Duration > pending[0].Anchor {
			addMeal(pending[0], cursor)
			cursor += pending[0].Duration
			pending = pending[1:]
		}
		day.Activities = append(day.Activities, model.Activity{
			Start:         model.Clock(cursor),
			End:           model.Clock(cursor + sh.Duration),
			DurationMin:   sh.Duration,
			VenueID:       v.ID,
			VenueName:     v.Name,
			Category:      v.Category,
			EstimatedCost: costs[i],
			SourceURL:     v.SourceURL,
		})
		cursor += sh.Duration + sh.Buffer
	}

	for _, m := range pending {
		at := max(cursor, m.Anchor)
		if at+m.Duration > sh.End {
			at = cursor
		}
		addMeal(m, at)
		cursor = at + m.Duration
	}
	return day
}

// VenueCost estimates what the group spends at v.
func VenueCost(cfg config.Config, v model.Venue, group int) float64 {
	per := v.Cost
	if per <= 0 {
		per = cfg.CategoryCost(v.Category)
	}
	if group < 1 {
		group = 1
	}
	return Cents(per * float64(group))
}

// Cents rounds to two decimals.
func Cents(v float64) float64 {
	return math.Round(v*100) / 100
}
