// Package model defines the core trip planning data types.
package model

import (
	"slices"
	"time"
)

// Pace values.
const (
	PaceRelaxed  = "relaxed"
	PaceModerate = "moderate"
	PacePacked   = "packed"
)

// DateLayout is the wire format of start_date and end_date.
const DateLayout = "2006-01-02"

// ValidPaces are the allowed pace buckets.
var ValidPaces = map[string]bool{
	PaceRelaxed:  true,
	PaceModerate: true,
	PacePacked:   true,
}

// ValidGroupTypes are the recognized group compositions.
var ValidGroupTypes = map[string]bool{
	"solo":    true,
	"couple":  true,
	"family":  true,
	"friends": true,
}

// Preferences holds the trip constraints accumulated across turns.
// A nil pointer or empty slice means the field is absent.
type Preferences struct {
	TripID string `json:"trip_id,omitempty"`

	City               *string  `json:"city"`
	Country            *string  `json:"country"`
	LocationPreference *string  `json:"location_preference"`
	StartDate          *string  `json:"start_date"`
	EndDate            *string  `json:"end_date"`
	DurationDays       *int     `json:"duration_days"`
	Budget             *float64 `json:"budget"`
	DailyBudget        *float64 `json:"daily_budget"`
	BudgetCurrency     *string  `json:"budget_currency"`
	Interests          []string `json:"interests"`
	Pace               *string  `json:"pace"`

	StartingLocation    *string  `json:"starting_location"`
	HoursPerDay         *int     `json:"hours_per_day"`
	TransportationModes []string `json:"transportation_modes"`
	GroupSize           *int     `json:"group_size"`
	GroupType           *string  `json:"group_type"`
	ChildrenAges        []int    `json:"children_ages"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	AccessibilityNeeds  []string `json:"accessibility_needs"`
	WeatherTolerance    *string  `json:"weather_tolerance"`
	MustSeeVenues       []string `json:"must_see_venues"`
	MustAvoidVenues     []string `json:"must_avoid_venues"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// RequiredFields lists the ten required fields in the order they are asked for.
// "budget" is satisfied by either budget or daily_budget.
var RequiredFields = []string{
	"city",
	"country",
	"location_preference",
	"start_date",
	"end_date",
	"duration_days",
	"budget",
	"budget_currency",
	"interests",
	"pace",
}

// OptionalFields lists the optional fields that count toward completeness.
var OptionalFields = []string{
	"hours_per_day",
	"transportation_modes",
	"group_size",
	"group_type",
	"dietary_restrictions",
	"accessibility_needs",
	"weather_tolerance",
	"must_see_venues",
	"must_avoid_venues",
}

// FieldLabels are the human readable names used in prompts.
var FieldLabels = map[string]string{
	"city":                 "city",
	"country":              "country",
	"location_preference":  "where you'd like to stay",
	"start_date":           "start date",
	"end_date":             "end date",
	"duration_days":        "trip length",
	"budget":               "budget",
	"daily_budget":         "daily budget",
	"budget_currency":      "budget currency",
	"interests":            "interests",
	"pace":                 "pace",
	"starting_location":    "starting location",
	"hours_per_day":        "hours per day",
	"transportation_modes": "transportation",
	"group_size":           "group size",
	"group_type":           "group type",
	"children_ages":        "children's ages",
	"dietary_restrictions": "dietary restrictions",
	"accessibility_needs":  "accessibility needs",
	"weather_tolerance":    "weather tolerance",
	"must_see_venues":      "must-see places",
	"must_avoid_venues":    "places to avoid",
}

// Has reports whether the named field is present. Unknown names report false.
func (p *Preferences) Has(field string) bool {
	switch field {
	case "city":
		return p.City != nil
	case "country":
		return p.Country != nil
	case "location_preference":
		return p.LocationPreference != nil
	case "start_date":
		return p.StartDate != nil
	case "end_date":
		return p.EndDate != nil
	case "duration_days":
		return p.DurationDays != nil
	case "budget":
		return p.Budget != nil || p.DailyBudget != nil
	case "daily_budget":
		return p.DailyBudget != nil
	case "budget_currency":
		return p.BudgetCurrency != nil
	case "interests":
		return len(p.Interests) > 0
	case "pace":
		return p.Pace != nil
	case "starting_location":
		return p.StartingLocation != nil
	case "hours_per_day":
		return p.HoursPerDay != nil
	case "transportation_modes":
		return len(p.TransportationModes) > 0
	case "group_size":
		return p.GroupSize != nil
	case "group_type":
		return p.GroupType != nil
	case "children_ages":
		return len(p.ChildrenAges) > 0
	case "dietary_restrictions":
		return len(p.DietaryRestrictions) > 0
	case "accessibility_needs":
		return len(p.AccessibilityNeeds) > 0
	case "weather_tolerance":
		return p.WeatherTolerance != nil
	case "must_see_venues":
		return len(p.MustSeeVenues) > 0
	case "must_avoid_venues":
		return len(p.MustAvoidVenues) > 0
	}
	return false
}

// Clone returns a deep copy.
func (p Preferences) Clone() Preferences {
	c := p
	c.City = clonePtr(p.City)
	c.Country = clonePtr(p.Country)
	c.LocationPreference = clonePtr(p.LocationPreference)
	c.StartDate = clonePtr(p.StartDate)
	c.EndDate = clonePtr(p.EndDate)
	c.DurationDays = clonePtr(p.DurationDays)
	c.Budget = clonePtr(p.Budget)
	c.DailyBudget = clonePtr(p.DailyBudget)
	c.BudgetCurrency = clonePtr(p.BudgetCurrency)
	c.Interests = slices.Clone(p.Interests)
	c.Pace = clonePtr(p.Pace)
	c.StartingLocation = clonePtr(p.StartingLocation)
	c.HoursPerDay = clonePtr(p.HoursPerDay)
	c.TransportationModes = slices.Clone(p.TransportationModes)
	c.GroupSize = clonePtr(p.GroupSize)
	c.GroupType = clonePtr(p.GroupType)
	c.ChildrenAges = slices.Clone(p.ChildrenAges)
	c.DietaryRestrictions = slices.Clone(p.DietaryRestrictions)
	c.AccessibilityNeeds = slices.Clone(p.AccessibilityNeeds)
	c.WeatherTolerance = clonePtr(p.WeatherTolerance)
	c.MustSeeVenues = slices.Clone(p.MustSeeVenues)
	c.MustAvoidVenues = slices.Clone(p.MustAvoidVenues)
	c.CreatedAt = clonePtr(p.CreatedAt)
	c.UpdatedAt = clonePtr(p.UpdatedAt)
	return c
}

// Dates parses start and end dates. ok is false if either is absent or malformed.
func (p *Preferences) Dates() (start, end time.Time, ok bool) {
	if p.StartDate == nil || p.EndDate == nil {
		return start, end, false
	}
	start, err := time.Parse(DateLayout, *p.StartDate)
	if err != nil {
		return start, end, false
	}
	end, err = time.Parse(DateLayout, *p.EndDate)
	if err != nil {
		return start, end, false
	}
	return start, end, true
}

// Str returns a pointer to s. Handy when building Preferences by hand.
func Str(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Value returns the dereferenced value of a field, or nil when absent.
// "budget" here means the raw budget field only.
func (p *Preferences) Value(field string) any {
	switch field {
	case "city":
		return deref(p.City)
	case "country":
		return deref(p.Country)
	case "location_preference":
		return deref(p.LocationPreference)
	case "start_date":
		return deref(p.StartDate)
	case "end_date":
		return deref(p.EndDate)
	case "duration_days":
		return deref(p.DurationDays)
	case "budget":
		return deref(p.Budget)
	case "daily_budget":
		return deref(p.DailyBudget)
	case "budget_currency":
		return deref(p.BudgetCurrency)
	case "interests":
		return list(p.Interests)
	case "pace":
		return deref(p.Pace)
	case "starting_location":
		return deref(p.StartingLocation)
	case "hours_per_day":
		return deref(p.HoursPerDay)
	case "transportation_modes":
		return list(p.TransportationModes)
	case "group_size":
		return deref(p.GroupSize)
	case "group_type":
		return deref(p.GroupType)
	case "children_ages":
		return list(p.ChildrenAges)
	case "dietary_restrictions":
		return list(p.DietaryRestrictions)
	case "accessibility_needs":
		return list(p.AccessibilityNeeds)
	case "weather_tolerance":
		return deref(p.WeatherTolerance)
	case "must_see_venues":
		return list(p.MustSeeVenues)
	case "must_avoid_venues":
		return list(p.MustAvoidVenues)
	}
	return nil
}

// AllFields lists every user-facing field in display order.
var AllFields = []string{
	"city", "country", "location_preference", "start_date", "end_date", "duration_days",
	"budget", "daily_budget", "budget_currency", "interests", "pace",
	"starting_location", "hours_per_day", "transportation_modes", "group_size", "group_type",
	"children_ages", "dietary_restrictions", "accessibility_needs", "weather_tolerance",
	"must_see_venues", "must_avoid_venues",
}

func deref[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func list[T any](v []T) any {
	if len(v) == 0 {
		return nil
	}
	return v
}
