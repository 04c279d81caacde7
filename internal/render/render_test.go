package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/trip-planner/internal/model"
)

func tripPrefs() model.Preferences {
	return model.Preferences{
		City:               model.Str("Toronto"),
		Country:            model.Str("Canada"),
		LocationPreference: model.Str("downtown"),
		StartDate:          model.Str("2026-12-01"),
		EndDate:            model.Str("2026-12-02"),
		DurationDays:       model.Int(2),
		Budget:             model.Float(1250.5),
		BudgetCurrency:     model.Str("CAD"),
		Interests:          []string{"Culture and History", "Natural Place"},
		Pace:               model.Str("moderate"),
		GroupSize:          model.Int(2),
	}
}

func sampleItinerary() model.Itinerary {
	return model.Itinerary{
		ID:       "itinerary_trip_1",
		TripID:   "trip_1",
		City:     "Toronto",
		Pace:     "moderate",
		Currency: "CAD",
		Budget:   200,
		Days: []model.Day{{
			Index: 1,
			Date:  "2026-12-01",
			Activities: []model.Activity{
				{Start: "09:00", End: "10:05", DurationMin: 65, VenueID: "rom", VenueName: "Royal Ontario Museum",
					Category: "museum", EstimatedCost: 26, SourceURL: "https://www.rom.on.ca/"},
				{Start: "12:40", End: "13:45", DurationMin: 65, VenueID: "high_park", VenueName: "High Park",
					Category: "park", SourceURL: "https://www.highparktoronto.com/"},
				{Start: "17:00", End: "18:05", DurationMin: 65, VenueID: "cn_tower", VenueName: "CN Tower",
					Category: "tourism", EstimatedCost: 45, SourceURL: "https://www.cntower.ca/"},
			},
			Meals:  []model.MealBreak{{Kind: "lunch", Start: "11:40", End: "12:40"}},
			Budget: 100,
			Spent:  71,
		}},
		GeneratedAt: time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC),
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "1,250.50 CAD", Money(1250.5, "CAD"))
	assert.Equal(t, "33.33", Money(33.333, ""))
	assert.Equal(t, "0.00 USD", Money(0, "USD"))
}

func TestGreetingEndsWithStillNeed(t *testing.T) {
	g := Greeting()
	lines := strings.Split(g, "\n")
	assert.Equal(t,
		"Still need: city, country, where you'd like to stay, start date, end date, trip length, budget, budget currency, interests, pace",
		lines[len(lines)-1])
}

func TestStillNeedOrder(t *testing.T) {
	assert.Equal(t, "Still need: start date, pace", StillNeed([]string{"start_date", "pace"}))
}

func TestQuestion(t *testing.T) {
	assert.Equal(t, "Would you like a relaxed, moderate, or packed schedule?", Question("pace"))
	assert.Equal(t, "Could you tell me your group size?", Question("group_size"))
}

func TestValue(t *testing.T) {
	p := tripPrefs()
	p.ChildrenAges = []int{4, 9}
	assert.Equal(t, "Toronto", Value(p, "city"))
	assert.Equal(t, "2 days", Value(p, "duration_days"))
	assert.Equal(t, "1,250.50 CAD", Value(p, "budget"))
	assert.Equal(t, "Culture and History, Natural Place", Value(p, "interests"))
	assert.Equal(t, "2", Value(p, "group_size"))
	assert.Equal(t, "4, 9", Value(p, "children_ages"))
	assert.Equal(t, "", Value(p, "weather_tolerance"))
}

func TestAcknowledge(t *testing.T) {
	p := tripPrefs()
	assert.Equal(t, "Got it: city Toronto; budget 1,250.50 CAD.", Acknowledge(p, []string{"city", "budget"}))
	assert.Equal(t, "", Acknowledge(p, nil))
	assert.Equal(t, "", Acknowledge(p, []string{"weather_tolerance"}))
}

func TestSummary(t *testing.T) {
	s := Summary(tripPrefs())
	assert.True(t, strings.HasPrefix(s, "Here's what I have for your trip:\n"))
	assert.Contains(t, s, "- City: Toronto\n")
	assert.Contains(t, s, "- Where you'd like to stay: downtown\n")
	assert.Contains(t, s, "- Trip length: 2 days\n")
	assert.Contains(t, s, "- Budget: 1,250.50 CAD\n")
	assert.Contains(t, s, "- Group size: 2\n")
	assert.NotContains(t, s, "Weather")
	assert.True(t, strings.HasSuffix(s, "Want me to generate your Toronto itinerary now? (yes/no)"))
	assert.Equal(t, s, Summary(tripPrefs()))
}

func TestSlotLabel(t *testing.T) {
	assert.Equal(t, "Morning", SlotLabel("09:00"))
	assert.Equal(t, "Afternoon", SlotLabel("12:00"))
	assert.Equal(t, "Afternoon", SlotLabel("16:59"))
	assert.Equal(t, "Evening", SlotLabel("17:00"))
	assert.Equal(t, "Anytime", SlotLabel("late"))
}

func TestItineraryCitations(t *testing.T) {
	out := Itinerary(sampleItinerary(), tripPrefs())

	assert.Contains(t, out, "Your Toronto itinerary\n")
	assert.Contains(t, out, "Day 1 (2026-12-01)\n")
	assert.Contains(t, out, "Morning 09:00-10:05: Royal Ontario Museum, 26.00 CAD (Source: rom, https://www.rom.on.ca/)\n")
	assert.Contains(t, out, "Afternoon 12:40-13:45: High Park, free (Source: high_park, https://www.highparktoronto.com/)\n")
	assert.Contains(t, out, "Evening 17:00-18:05: CN Tower, 45.00 CAD (Source: cn_tower, https://www.cntower.ca/)\n")
	assert.Contains(t, out, "Day total: 71.00 CAD of 100.00 CAD\n")
	assert.Contains(t, out, "Estimated total: 71.00 CAD of 200.00 CAD\n")
	assert.Contains(t, out, "Find a place to stay: https://www.airbnb.ca/s/Toronto%2C+Canada/homes?")

	lunch := strings.Index(out, "Morning 11:40-12:40: Lunch break")
	park := strings.Index(out, "High Park")
	require.NotEqual(t, -1, lunch)
	assert.Less(t, lunch, park)

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "CAD (Source") || strings.Contains(line, "free (Source") {
			assert.Regexp(t, `\(Source: [a-z_]+, https://\S+\)$`, line)
		}
	}
}

func TestItineraryEmptyDay(t *testing.T) {
	it := sampleItinerary()
	it.Days[0].Activities = nil
	out := Itinerary(it, model.Preferences{})
	assert.Contains(t, out, "No matching venues left for this day.")
	assert.NotContains(t, out, "Find a place to stay")
}

func TestFeasibility(t *testing.T) {
	assert.Equal(t, "", Feasibility(model.FeasibilityResult{Feasible: true}))

	out := Feasibility(model.FeasibilityResult{
		Issues:   []string{"Total cost 590.00 exceeds the budget of 400.00"},
		Warnings: []string{"Day 2 has only 0 activities"},
	})
	assert.Equal(t, "This itinerary does not meet all of your constraints:\n"+
		"- Total cost 590.00 exceeds the budget of 400.00\n"+
		"Notes:\n- Day 2 has only 0 activities\n", out)
}

func TestRefusal(t *testing.T) {
	alts := []model.Venue{{ID: "cn_tower", Name: "CN Tower", SourceURL: "https://www.cntower.ca/"}}
	out := Refusal("Eiffel Tower", "Toronto", alts)
	assert.Equal(t, "I couldn't find \"Eiffel Tower\" in the Toronto catalog, so I left it out. "+
		"Some alternatives you might like:\n- CN Tower (Source: cn_tower, https://www.cntower.ca/)\n", out)

	assert.Equal(t, "I couldn't find \"Louvre\" in the catalog, so I left it out.\n", Refusal("Louvre", "", nil))
}

func TestStays(t *testing.T) {
	assert.Equal(t,
		"https://www.airbnb.ca/s/Toronto%2C+Canada/homes?adults=2&checkin=2026-12-01&checkout=2026-12-03",
		Stays(tripPrefs()))

	p := tripPrefs()
	p.EndDate = nil
	assert.Equal(t, "", Stays(p))
}

func TestICS(t *testing.T) {
	out, err := ICS(sampleItinerary())
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:itinerary_trip_1-d1-1@trip-planner")
	assert.Contains(t, out, "DTSTART:20261201T090000")
	assert.Contains(t, out, "DTEND:20261201T100500")
	assert.Contains(t, out, "SUMMARY:Royal Ontario Museum")
	assert.Contains(t, out, "URL:https://www.cntower.ca/")
}

func TestICSBadDate(t *testing.T) {
	it := sampleItinerary()
	it.Days[0].Date = "December 1"
	_, err := ICS(it)
	require.Error(t, err)
}
