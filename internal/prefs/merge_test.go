package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/trip-planner/internal/model"
)

func TestMergeNullNeverOverwrites(t *testing.T) {
	prior := model.Preferences{City: model.Str("Toronto"), Interests: []string{"Sport"}}
	out := Merge(prior, model.Preferences{Country: model.Str("Canada")})

	assert.Equal(t, "Toronto", *out.City)
	assert.Equal(t, "Canada", *out.Country)
	assert.Equal(t, []string{"Sport"}, out.Interests)
}

func TestMergeIncomingWins(t *testing.T) {
	prior := model.Preferences{City: model.Str("Toronto"), Pace: model.Str("relaxed")}
	out := Merge(prior, model.Preferences{Pace: model.Str("packed"), Interests: []string{"Food and Beverage"}})

	assert.Equal(t, "packed", *out.Pace)
	assert.Equal(t, "Toronto", *out.City)
	assert.Equal(t, []string{"Food and Beverage"}, out.Interests)
	assert.Equal(t, "relaxed", *prior.Pace, "prior untouched")
}

func TestMergeEmptyProposalIsIdentity(t *testing.T) {
	prior := completePrefs()
	assert.Equal(t, prior, Merge(prior, model.Preferences{}))
}

func TestMergeBudgetClearsStaleDaily(t *testing.T) {
	prior := Derive(completePrefs())
	require.NotNil(t, prior.DailyBudget)

	out := Merge(prior, model.Preferences{Budget: model.Float(900)})
	assert.Nil(t, out.DailyBudget)
	assert.InDelta(t, 300.0, *Derive(out).DailyBudget, 0.001)
}

func TestMergeDailyClearsStaleBudget(t *testing.T) {
	prior := Derive(completePrefs())
	out := Derive(Merge(prior, model.Preferences{DailyBudget: model.Float(100)}))

	assert.Equal(t, 300.0, *out.Budget)
	assert.Equal(t, 100.0, *out.DailyBudget)
}

func TestMergeDatesClearDuration(t *testing.T) {
	prior := completePrefs()
	out := Merge(prior, model.Preferences{EndDate: model.Str("2026-12-05")})

	assert.Nil(t, out.DurationDays)
	assert.Equal(t, 5, *Derive(out).DurationDays)
}

func TestMergeStartKeepsDurationWithoutEnd(t *testing.T) {
	prior := model.Preferences{DurationDays: model.Int(3)}
	out := Merge(prior, model.Preferences{StartDate: model.Str("2026-12-01")})

	require.NotNil(t, out.DurationDays)
	assert.Equal(t, 3, *out.DurationDays)
	assert.Equal(t, "2026-12-03", *Derive(out).EndDate)
}

func TestMergeMovedStartKeepsDuration(t *testing.T) {
	prior := model.Preferences{DurationDays: model.Int(3), StartDate: model.Str("2026-12-01")}
	out := Merge(prior, model.Preferences{StartDate: model.Str("2026-12-03")})

	require.NotNil(t, out.DurationDays)
	assert.Equal(t, 3, *out.DurationDays)
	derived := Derive(out)
	assert.Equal(t, "2026-12-05", *derived.EndDate)
	assert.Equal(t, 3, *derived.DurationDays)

	res := newTestValidator().Validate(out)
	assert.NotContains(t, res.Missing, "end_date")
	assert.NotContains(t, res.Missing, "duration_days")
}

func TestMergeDurationClearsEnd(t *testing.T) {
	prior := completePrefs()
	out := Derive(Merge(prior, model.Preferences{DurationDays: model.Int(2)}))

	assert.Equal(t, "2026-12-02", *out.EndDate)
	assert.Equal(t, 2, *out.DurationDays)
}

func TestMergeKeepsTripID(t *testing.T) {
	prior := model.Preferences{TripID: "trip_a"}
	out := Merge(prior, model.Preferences{TripID: "trip_b"})
	assert.Equal(t, "trip_a", out.TripID)

	out = Merge(model.Preferences{}, model.Preferences{TripID: "trip_b"})
	assert.Equal(t, "trip_b", out.TripID)
}

func TestDiffReportsContradictionsOnly(t *testing.T) {
	prior := completePrefs()
	next := Merge(prior, model.Preferences{
		Pace:        model.Str("relaxed"),
		HoursPerDay: model.Int(6),
	})

	assert.Equal(t, []string{"pace"}, Diff(prior, next))
	assert.Equal(t, []string{"pace", "hours_per_day"}, Captured(prior, next))
}

func TestDiffSameValueIsNotAContradiction(t *testing.T) {
	prior := completePrefs()
	next := Merge(prior, model.Preferences{City: model.Str("Toronto")})
	assert.Empty(t, Diff(prior, next))
	assert.Empty(t, Captured(prior, next))
}
