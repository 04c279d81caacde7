package prefs

import (
	"time"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/model"
)

// Derive fills computed fields and returns a new model; p is not modified.
//   - end_date = start_date + duration_days - 1 when end is absent
//   - duration_days = (end - start) + 1 whenever the date range is valid
//   - daily_budget = budget / duration_days when budget is present, otherwise
//     budget = daily_budget * duration_days
func Derive(p model.Preferences) model.Preferences {
	out := p.Clone()

	if out.StartDate != nil && out.EndDate == nil && out.DurationDays != nil && *out.DurationDays >= 1 {
		if start, err := time.Parse(model.DateLayout, *out.StartDate); err == nil {
			end := start.AddDate(0, 0, *out.DurationDays-1).Format(model.DateLayout)
			out.EndDate = &end
		}
	}

	if d, ok := RangeDays(&out); ok {
		out.DurationDays = &d
	}

	if out.DurationDays != nil && *out.DurationDays > 0 {
		days := float64(*out.DurationDays)
		switch {
		case out.Budget != nil:
			daily := *out.Budget / days
			out.DailyBudget = &daily
		case out.DailyBudget != nil:
			total := *out.DailyBudget * days
			out.Budget = &total
		}
	}
	return out
}

// RangeDays returns (end - start) + 1 when both dates parse and end is
// strictly after start.
func RangeDays(p *model.Preferences) (int, bool) {
	start, end, ok := p.Dates()
	if !ok || !end.After(start) {
		return 0, false
	}
	return int(end.Sub(start).Hours()/24) + 1, true
}

// WithDefaults fills unset optional fields the planner needs. The result is
// used for planning only and is never stored back into the session.
func WithDefaults(p model.Preferences, cfg config.Config) model.Preferences {
	out := p.Clone()
	if out.HoursPerDay == nil {
		out.HoursPerDay = model.Int(cfg.Schedule.DefaultHoursPerDay)
	}
	if len(out.TransportationModes) == 0 {
		out.TransportationModes = []string{"mixed"}
	}
	if out.StartingLocation == nil && out.LocationPreference != nil {
		out.StartingLocation = model.Str(*out.LocationPreference)
	}
	if out.GroupSize == nil || *out.GroupSize < 1 {
		out.GroupSize = model.Int(1)
	}
	return out
}
