package prefs

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/model"
)

var requiredMessages = map[string]string{
	"city":                "City is required",
	"country":             "Country is required",
	"location_preference": "Location preference is required",
	"start_date":          "Start date is required (YYYY-MM-DD)",
	"end_date":            "End date is required (YYYY-MM-DD)",
	"duration_days":       "Trip duration is required",
	"budget":              "Budget is required",
	"budget_currency":     "Budget currency is required",
	"interests":           "At least one interest category is required",
	"pace":                "Pace preference is required (relaxed|moderate|packed)",
}

// Validator checks a preference model against the configured business rules.
// Validate is pure: it never modifies its input and the same model on the
// same day always yields the same result.
type Validator struct {
	cfg config.Config
	now func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the clock used for the start-in-the-past warning.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// NewValidator creates a Validator.
func NewValidator(cfg config.Config, opts ...Option) *Validator {
	v := &Validator{cfg: cfg, now: time.Now}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Validate checks p and returns a fresh result.
func (v *Validator) Validate(p model.Preferences) model.ValidationResult {
	var issues, warnings, missing []string

	duration, durationKnown := v.duration(&p)

	// 1. required fields
	for _, f := range model.RequiredFields {
		present := p.Has(f)
		switch f {
		case "end_date":
			// derivable from start_date + duration_days
			present = present || (p.StartDate != nil && p.DurationDays != nil && *p.DurationDays >= 1)
		case "duration_days":
			// derivable from the dates; a bad range is reported by the date rule
			present = present || durationKnown || (p.StartDate != nil && p.EndDate != nil)
		}
		if !present {
			issues = append(issues, requiredMessages[f])
			missing = append(missing, f)
		}
	}

	// 2. dates
	if p.StartDate != nil && p.EndDate != nil {
		start, errStart := time.Parse(model.DateLayout, *p.StartDate)
		end, errEnd := time.Parse(model.DateLayout, *p.EndDate)
		switch {
		case errStart != nil:
			issues = append(issues, fmt.Sprintf("Invalid date format: start_date %q (want YYYY-MM-DD)", *p.StartDate))
		case errEnd != nil:
			issues = append(issues, fmt.Sprintf("Invalid date format: end_date %q (want YYYY-MM-DD)", *p.EndDate))
		default:
			if !end.After(start) {
				issues = append(issues, "End date must be after start date")
			}
			if start.Before(v.today()) {
				warnings = append(warnings, "Start date is in the past")
			}
			if rng, ok := RangeDays(&p); ok && p.DurationDays != nil && *p.DurationDays != rng {
				warnings = append(warnings, fmt.Sprintf(
					"duration_days (%d) does not match date range (%d). Using date range.", *p.DurationDays, rng))
			}
		}
	} else if p.StartDate != nil {
		if _, err := time.Parse(model.DateLayout, *p.StartDate); err != nil {
			issues = append(issues, fmt.Sprintf("Invalid date format: start_date %q (want YYYY-MM-DD)", *p.StartDate))
		}
	} else if p.EndDate != nil {
		if _, err := time.Parse(model.DateLayout, *p.EndDate); err != nil {
			issues = append(issues, fmt.Sprintf("Invalid date format: end_date %q (want YYYY-MM-DD)", *p.EndDate))
		}
	}
	if p.DurationDays != nil && *p.DurationDays < 1 {
		issues = append(issues, "Trip duration must be at least 1 day")
	}
	if durationKnown && duration > v.cfg.MaxTripDays {
		issues = append(issues, fmt.Sprintf("Trip length of %d days exceeds the %d day maximum", duration, v.cfg.MaxTripDays))
	}

	// 3. budget
	currency := ""
	if p.BudgetCurrency != nil {
		currency = *p.BudgetCurrency
	}
	var daily *float64
	if (p.Budget != nil && *p.Budget <= 0) || (p.DailyBudget != nil && *p.DailyBudget <= 0) {
		issues = append(issues, "Budget must be a positive amount")
	} else {
		switch {
		case p.Budget != nil && durationKnown && duration > 0:
			d := *p.Budget / float64(duration)
			daily = &d
			if p.DailyBudget != nil && math.Abs(*p.DailyBudget-d) > 0.01 {
				warnings = append(warnings, fmt.Sprintf(
					"daily_budget (%s) does not match budget / duration (%s). Using budget.",
					money(*p.DailyBudget, currency), money(d, currency)))
			}
		case p.DailyBudget != nil:
			d := *p.DailyBudget
			daily = &d
		}
		if daily != nil {
			if *daily < v.cfg.Budget.MinDaily {
				issues = append(issues, fmt.Sprintf(
					"Daily budget must be at least %s for meals and activities (current: %s)",
					money(v.cfg.Budget.MinDaily, currency), money(*daily, currency)))
			} else if *daily < v.cfg.Budget.TightDaily {
				warnings = append(warnings, fmt.Sprintf(
					"Budget is tight (%s/day). We'll prioritize affordable dining and free attractions.",
					money(*daily, currency)))
			}
		}
	}

	// 4. interests
	if unknown := v.cfg.UnknownInterests(p.Interests); len(unknown) > 0 {
		warnings = append(warnings, fmt.Sprintf("Unrecognized interests: %s (known: %s)",
			strings.Join(unknown, ", "), strings.Join(v.cfg.InterestNames(), ", ")))
	}
	if len(p.Interests) > v.cfg.MaxInterests {
		warnings = append(warnings, fmt.Sprintf(
			"You selected %d interests. 2-4 is recommended for a focused itinerary.", len(p.Interests)))
	}

	// 5. pace
	if p.Pace != nil && !model.ValidPaces[*p.Pace] {
		issues = append(issues, fmt.Sprintf("Invalid pace '%s'. Must be: relaxed, moderate, or packed", *p.Pace))
	}

	// 6. pace / hours, advisory only
	if p.HoursPerDay != nil {
		h := *p.HoursPerDay
		if h < 1 || h > 24 {
			warnings = append(warnings, fmt.Sprintf("hours_per_day must be between 1 and 24 (got %d)", h))
		}
		if p.Pace != nil {
			switch *p.Pace {
			case model.PacePacked:
				if h < v.cfg.Schedule.PackedMinHours {
					warnings = append(warnings, fmt.Sprintf(
						"A packed pace with %d hours per day is hard to fit. Consider a moderate pace.", h))
				}
			case model.PaceRelaxed:
				if h < v.cfg.Schedule.RelaxedLowHours {
					warnings = append(warnings, fmt.Sprintf(
						"A relaxed pace with only %d hours per day leaves room for very few activities.", h))
				}
			}
		}
	}
	if p.GroupSize != nil && *p.GroupSize < 1 {
		warnings = append(warnings, fmt.Sprintf("group_size must be at least 1 (got %d)", *p.GroupSize))
	}
	if p.GroupType != nil && !model.ValidGroupTypes[*p.GroupType] {
		warnings = append(warnings, fmt.Sprintf("Unrecognized group type '%s'", *p.GroupType))
	}

	// 7. completeness
	required := len(model.RequiredFields) - len(missing)
	optional := 0
	for _, f := range model.OptionalFields {
		if p.Has(f) {
			optional++
		}
	}
	score := float64(required)/float64(len(model.RequiredFields))*0.85 +
		float64(optional)/float64(len(model.OptionalFields))*0.15

	return model.ValidationResult{
		Valid:             len(issues) == 0,
		Issues:            nonNil(issues),
		Warnings:          nonNil(warnings),
		CompletenessScore: math.Round(score*100) / 100,
		Missing:           missing,
		DailyBudget:       daily,
	}
}

// duration returns the effective trip length: the date range when valid,
// otherwise the raw duration_days.
func (v *Validator) duration(p *model.Preferences) (int, bool) {
	if d, ok := RangeDays(p); ok {
		return d, true
	}
	if p.StartDate != nil && p.EndDate != nil {
		// both dates given but inconsistent; the date issue covers it
		return 0, false
	}
	if p.DurationDays != nil && *p.DurationDays >= 1 {
		return *p.DurationDays, true
	}
	return 0, false
}

func (v *Validator) today() time.Time {
	now := v.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func money(v float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.2f %s", v, currency)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
