// Package prefs implements the preference merge engine, derived fields and
// the validation engine.
package prefs

import (
	"reflect"

	"github.com/samber/lo"

	"github.com/rcliao/trip-planner/internal/model"
)

// Merge folds an incoming proposal into prior and returns the result.
// Precedence: a non-null incoming value wins; a null or empty incoming value
// never overwrites a present prior value. Only fields the proposal actually
// changes are touched.
//
// Paired fields are kept consistent: when one side of budget/daily_budget or
// duration_days/end_date changes and the other does not, the unchanged side is
// cleared so Derive recomputes it from the new value. A duration is only
// cleared by a date change when both dates are present to replace it.
func Merge(prior, incoming model.Preferences) model.Preferences {
	out := prior.Clone()
	in := incoming.Clone()

	budgetChanged := changed(prior.Budget, in.Budget)
	dailyChanged := changed(prior.DailyBudget, in.DailyBudget)
	durationChanged := changed(prior.DurationDays, in.DurationDays)
	startChanged := changed(prior.StartDate, in.StartDate)
	endChanged := changed(prior.EndDate, in.EndDate)

	out.City = pick(out.City, in.City)
	out.Country = pick(out.Country, in.Country)
	out.LocationPreference = pick(out.LocationPreference, in.LocationPreference)
	out.StartDate = pick(out.StartDate, in.StartDate)
	out.EndDate = pick(out.EndDate, in.EndDate)
	out.DurationDays = pick(out.DurationDays, in.DurationDays)
	out.Budget = pick(out.Budget, in.Budget)
	out.DailyBudget = pick(out.DailyBudget, in.DailyBudget)
	out.BudgetCurrency = pick(out.BudgetCurrency, in.BudgetCurrency)
	out.Interests = pickList(out.Interests, in.Interests)
	out.Pace = pick(out.Pace, in.Pace)

	out.StartingLocation = pick(out.StartingLocation, in.StartingLocation)
	out.HoursPerDay = pick(out.HoursPerDay, in.HoursPerDay)
	out.TransportationModes = pickList(out.TransportationModes, in.TransportationModes)
	out.GroupSize = pick(out.GroupSize, in.GroupSize)
	out.GroupType = pick(out.GroupType, in.GroupType)
	out.ChildrenAges = pickList(out.ChildrenAges, in.ChildrenAges)
	out.DietaryRestrictions = pickList(out.DietaryRestrictions, in.DietaryRestrictions)
	out.AccessibilityNeeds = pickList(out.AccessibilityNeeds, in.AccessibilityNeeds)
	out.WeatherTolerance = pick(out.WeatherTolerance, in.WeatherTolerance)
	out.MustSeeVenues = pickList(out.MustSeeVenues, in.MustSeeVenues)
	out.MustAvoidVenues = pickList(out.MustAvoidVenues, in.MustAvoidVenues)

	switch {
	case budgetChanged && !dailyChanged:
		out.DailyBudget = nil
	case dailyChanged && !budgetChanged:
		out.Budget = nil
	}

	switch {
	case (startChanged || endChanged) && !durationChanged:
		if out.StartDate != nil && out.EndDate != nil {
			out.DurationDays = nil
		}
	case durationChanged && !endChanged && out.StartDate != nil:
		out.EndDate = nil
	}

	if out.TripID == "" {
		out.TripID = in.TripID
	}
	return out
}

// Diff returns the fields that were present in prior and hold a different
// value in next, in model.AllFields order. These are contradictions of
// previously collected data.
func Diff(prior, next model.Preferences) []string {
	return lo.Filter(model.AllFields, func(f string, _ int) bool {
		before := prior.Value(f)
		if before == nil {
			return false
		}
		return !reflect.DeepEqual(before, next.Value(f))
	})
}

// Captured returns the fields whose value is new or different in next.
func Captured(prior, next model.Preferences) []string {
	return lo.Filter(model.AllFields, func(f string, _ int) bool {
		after := next.Value(f)
		if after == nil {
			return false
		}
		return !reflect.DeepEqual(prior.Value(f), after)
	})
}

func pick[T any](prior, incoming *T) *T {
	if incoming != nil {
		return incoming
	}
	return prior
}

func pickList[T any](prior, incoming []T) []T {
	if len(incoming) > 0 {
		return incoming
	}
	return prior
}

func changed[T comparable](prior, incoming *T) bool {
	if incoming == nil {
		return false
	}
	return prior == nil || *prior != *incoming
}
