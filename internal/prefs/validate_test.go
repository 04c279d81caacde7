package prefs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/model"
)

var fixedNow = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return NewValidator(config.Default(), WithClock(func() time.Time { return fixedNow }))
}

func completePrefs() model.Preferences {
	return model.Preferences{
		City:               model.Str("Toronto"),
		Country:            model.Str("Canada"),
		LocationPreference: model.Str("downtown"),
		StartDate:          model.Str("2026-12-01"),
		EndDate:            model.Str("2026-12-03"),
		DurationDays:       model.Int(3),
		Budget:             model.Float(600),
		BudgetCurrency:     model.Str("CAD"),
		Interests:          []string{"Culture and History", "Natural Place"},
		Pace:               model.Str("moderate"),
	}
}

func TestValidateComplete(t *testing.T) {
	res := newTestValidator().Validate(completePrefs())

	assert.True(t, res.Valid, "issues: %v", res.Issues)
	assert.Empty(t, res.Issues)
	assert.Empty(t, res.Missing)
	assert.GreaterOrEqual(t, res.CompletenessScore, 0.85)
	require.NotNil(t, res.DailyBudget)
	assert.InDelta(t, 200.0, *res.DailyBudget, 0.001)
}

func TestValidateEmpty(t *testing.T) {
	res := newTestValidator().Validate(model.Preferences{})

	assert.False(t, res.Valid)
	assert.Equal(t, model.RequiredFields, res.Missing)
	assert.Len(t, res.Issues, len(model.RequiredFields))
	assert.Contains(t, res.Issues, "City is required")
	assert.Contains(t, res.Issues, "Pace preference is required (relaxed|moderate|packed)")
	assert.Equal(t, 0.0, res.CompletenessScore)
	assert.NotNil(t, res.Warnings)
}

func TestValidateDailyBudgetBelowMinimum(t *testing.T) {
	p := model.Preferences{
		Budget:         model.Float(100),
		DurationDays:   model.Int(3),
		BudgetCurrency: model.Str("USD"),
	}
	res := newTestValidator().Validate(p)

	assert.False(t, res.Valid)
	require.NotNil(t, res.DailyBudget)
	assert.InDelta(t, 33.33, *res.DailyBudget, 0.01)
	assert.Contains(t, res.Issues,
		"Daily budget must be at least 50.00 USD for meals and activities (current: 33.33 USD)")
}

func TestValidateTightBudgetWarns(t *testing.T) {
	p := completePrefs()
	p.Budget = model.Float(180) // 60/day
	res := newTestValidator().Validate(p)

	assert.True(t, res.Valid)
	assert.Contains(t, res.Warnings,
		"Budget is tight (60.00 CAD/day). We'll prioritize affordable dining and free attractions.")
}

func TestValidateEndBeforeStart(t *testing.T) {
	p := completePrefs()
	p.StartDate = model.Str("2026-03-17")
	p.EndDate = model.Str("2026-03-15")
	p.DurationDays = nil
	res := newTestValidator().Validate(p)

	assert.False(t, res.Valid)
	assert.Contains(t, res.Issues, "End date must be after start date")
	assert.NotContains(t, res.Issues, "Trip duration is required")
}

func TestValidateSameDayRange(t *testing.T) {
	p := completePrefs()
	p.EndDate = p.StartDate
	res := newTestValidator().Validate(p)

	assert.Contains(t, res.Issues, "End date must be after start date")
}

func TestValidateBadDateFormat(t *testing.T) {
	p := completePrefs()
	p.StartDate = model.Str("12/01/2026")
	res := newTestValidator().Validate(p)

	assert.False(t, res.Valid)
	require.NotEmpty(t, res.Issues)
	assert.Contains(t, res.Issues[0], "Invalid date format")
}

func TestValidateBadEndDateWithoutStart(t *testing.T) {
	p := completePrefs()
	p.StartDate = nil
	p.EndDate = model.Str("Dec 3")
	res := newTestValidator().Validate(p)

	assert.False(t, res.Valid)
	assert.Contains(t, res.Issues, `Invalid date format: end_date "Dec 3" (want YYYY-MM-DD)`)
}

func TestValidateEndDateDerivableFromDuration(t *testing.T) {
	p := completePrefs()
	p.EndDate = nil
	res := newTestValidator().Validate(p)

	assert.True(t, res.Valid, "issues: %v", res.Issues)
	assert.Empty(t, res.Missing)
}

func TestValidatePastStartWarns(t *testing.T) {
	p := completePrefs()
	p.StartDate = model.Str("2026-10-01")
	p.EndDate = model.Str("2026-10-03")
	res := newTestValidator().Validate(p)

	assert.True(t, res.Valid)
	assert.Contains(t, res.Warnings, "Start date is in the past")
}

func TestValidateDurationMismatchWarns(t *testing.T) {
	p := completePrefs()
	p.DurationDays = model.Int(5)
	res := newTestValidator().Validate(p)

	assert.True(t, res.Valid)
	assert.Contains(t, res.Warnings, "duration_days (5) does not match date range (3). Using date range.")
	require.NotNil(t, res.DailyBudget)
	assert.InDelta(t, 200.0, *res.DailyBudget, 0.001)
}

func TestValidateTripTooLong(t *testing.T) {
	p := completePrefs()
	p.EndDate = model.Str("2026-12-20")
	p.DurationDays = nil
	p.Budget = model.Float(5000)
	res := newTestValidator().Validate(p)

	assert.False(t, res.Valid)
	assert.Contains(t, res.Issues, "Trip length of 20 days exceeds the 14 day maximum")
}

func TestValidateNonPositiveBudget(t *testing.T) {
	p := completePrefs()
	p.Budget = model.Float(0)
	res := newTestValidator().Validate(p)

	assert.False(t, res.Valid)
	assert.Contains(t, res.Issues, "Budget must be a positive amount")
	assert.Nil(t, res.DailyBudget)
}

func TestValidateDailyBudgetOnly(t *testing.T) {
	p := completePrefs()
	p.Budget = nil
	p.DailyBudget = model.Float(120)
	res := newTestValidator().Validate(p)

	assert.True(t, res.Valid, "issues: %v", res.Issues)
	require.NotNil(t, res.DailyBudget)
	assert.Equal(t, 120.0, *res.DailyBudget)
}

func TestValidateInvalidPace(t *testing.T) {
	p := completePrefs()
	p.Pace = model.Str("frantic")
	res := newTestValidator().Validate(p)

	assert.False(t, res.Valid)
	assert.Contains(t, res.Issues, "Invalid pace 'frantic'. Must be: relaxed, moderate, or packed")
}

func TestValidateInterestWarnings(t *testing.T) {
	p := completePrefs()
	p.Interests = []string{"Sport", "Knitting", "food and beverage", "Entertainment", "Natural Place", "Culture and History", "Nightlife"}
	res := newTestValidator().Validate(p)

	assert.True(t, res.Valid, "interest problems are advisory")
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "Unrecognized interests: Knitting, Nightlife")
	assert.Equal(t, "You selected 7 interests. 2-4 is recommended for a focused itinerary.", res.Warnings[1])
}

func TestValidatePaceHoursAdvisory(t *testing.T) {
	p := completePrefs()
	p.Pace = model.Str("packed")
	p.HoursPerDay = model.Int(5)
	res := newTestValidator().Validate(p)

	assert.True(t, res.Valid)
	assert.Contains(t, res.Warnings, "A packed pace with 5 hours per day is hard to fit. Consider a moderate pace.")

	p.Pace = model.Str("relaxed")
	p.HoursPerDay = model.Int(3)
	res = newTestValidator().Validate(p)
	assert.Contains(t, res.Warnings, "A relaxed pace with only 3 hours per day leaves room for very few activities.")
}

func TestValidateCompletenessCountsOptional(t *testing.T) {
	p := completePrefs()
	base := newTestValidator().Validate(p).CompletenessScore
	assert.Equal(t, 0.85, base)

	p.HoursPerDay = model.Int(8)
	p.GroupSize = model.Int(2)
	p.GroupType = model.Str("couple")
	assert.Greater(t, newTestValidator().Validate(p).CompletenessScore, base)
}

func TestValidateIsPureAndIdempotent(t *testing.T) {
	p := completePrefs()
	p.DurationDays = model.Int(9)
	before := p.Clone()

	v := newTestValidator()
	first := v.Validate(p)
	second := v.Validate(p)

	assert.Equal(t, first, second)
	assert.Equal(t, before, p)
}

func TestDerive(t *testing.T) {
	p := model.Preferences{
		StartDate:    model.Str("2026-12-01"),
		DurationDays: model.Int(4),
		Budget:       model.Float(400),
	}
	out := Derive(p)

	require.NotNil(t, out.EndDate)
	assert.Equal(t, "2026-12-04", *out.EndDate)
	assert.Equal(t, 4, *out.DurationDays)
	assert.Equal(t, 100.0, *out.DailyBudget)
	assert.Nil(t, p.EndDate, "input untouched")
}

func TestDeriveRangeWins(t *testing.T) {
	p := completePrefs()
	p.DurationDays = model.Int(7)
	out := Derive(p)
	assert.Equal(t, 3, *out.DurationDays)
}

func TestDeriveBudgetFromDaily(t *testing.T) {
	p := model.Preferences{DurationDays: model.Int(3), DailyBudget: model.Float(90)}
	out := Derive(p)
	require.NotNil(t, out.Budget)
	assert.Equal(t, 270.0, *out.Budget)
}

func TestWithDefaults(t *testing.T) {
	p := completePrefs()
	out := WithDefaults(p, config.Default())

	assert.Equal(t, 8, *out.HoursPerDay)
	assert.Equal(t, []string{"mixed"}, out.TransportationModes)
	assert.Equal(t, "downtown", *out.StartingLocation)
	assert.Equal(t, 1, *out.GroupSize)
	assert.Nil(t, p.HoursPerDay)
}
