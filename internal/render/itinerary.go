package render

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rcliao/trip-planner/internal/model"
)

// SlotLabel names the part of the day an activity starts in.
func SlotLabel(start string) string {
	m, err := model.ParseClock(start)
	switch {
	case err != nil:
		return "Anytime"
	case m < 12*60:
		return "Morning"
	case m < 17*60:
		return "Afternoon"
	default:
		return "Evening"
	}
}

// Citation is the source reference printed with every activity.
func Citation(venueID, sourceURL string) string {
	return fmt.Sprintf("Source: %s, %s", venueID, sourceURL)
}

// Itinerary renders the schedule day by day. Every activity line carries its
// citation. Meals are interleaved by start time.
func Itinerary(it model.Itinerary, p model.Preferences) string {
	var b strings.Builder
	title := "Your itinerary"
	if it.City != "" {
		title = "Your " + it.City + " itinerary"
	}
	b.WriteString(title + "\n")

	for _, d := range it.Days {
		fmt.Fprintf(&b, "\nDay %d (%s)\n", d.Index, d.Date)
		if len(d.Activities) == 0 {
			b.WriteString("No matching venues left for this day. Enjoy some free time.\n")
		}
		meals := d.Meals
		for _, a := range d.Activities {
			for len(meals) > 0 && meals[0].Start <= a.Start {
				writeMeal(&b, meals[0], it.Currency)
				meals = meals[1:]
			}
			fmt.Fprintf(&b, "%s %s-%s: %s, %s (%s)\n",
				SlotLabel(a.Start), a.Start, a.End, a.VenueName, costLabel(a.EstimatedCost, it.Currency),
				Citation(a.VenueID, a.SourceURL))
		}
		for _, m := range meals {
			writeMeal(&b, m, it.Currency)
		}
		fmt.Fprintf(&b, "Day total: %s of %s\n", Money(d.Spent, it.Currency), Money(d.Budget, it.Currency))
	}

	fmt.Fprintf(&b, "\nEstimated total: %s of %s\n", Money(it.TotalCost(), it.Currency), Money(it.Budget, it.Currency))
	if link := Stays(p); link != "" {
		fmt.Fprintf(&b, "Find a place to stay: %s\n", link)
	}
	return b.String()
}

func writeMeal(b *strings.Builder, m model.MealBreak, currency string) {
	fmt.Fprintf(b, "%s %s-%s: %s break", SlotLabel(m.Start), m.Start, m.End, capitalize(m.Kind))
	if m.EstimatedCost > 0 {
		fmt.Fprintf(b, ", %s", Money(m.EstimatedCost, currency))
	}
	b.WriteString("\n")
}

func costLabel(v float64, currency string) string {
	if v == 0 {
		return "free"
	}
	return Money(v, currency)
}

// Feasibility renders a failed or warned check. It returns "" for a clean
// result.
func Feasibility(fr model.FeasibilityResult) string {
	var b strings.Builder
	if !fr.Feasible {
		b.WriteString("This itinerary does not meet all of your constraints:\n")
		for _, s := range fr.Issues {
			b.WriteString("- " + s + "\n")
		}
	}
	if len(fr.Warnings) > 0 {
		b.WriteString("Notes:\n")
		for _, s := range fr.Warnings {
			b.WriteString("- " + s + "\n")
		}
	}
	return b.String()
}

// Refusal explains that a requested venue is not in the catalog and offers
// alternatives that are.
func Refusal(ref, city string, alternatives []model.Venue) string {
	var b strings.Builder
	where := "the catalog"
	if city != "" {
		where = "the " + city + " catalog"
	}
	fmt.Fprintf(&b, "I couldn't find %q in %s, so I left it out.", ref, where)
	if len(alternatives) == 0 {
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(" Some alternatives you might like:\n")
	for _, v := range alternatives {
		fmt.Fprintf(&b, "- %s (%s)\n", v.Name, Citation(v.ID, v.SourceURL))
	}
	return b.String()
}

// Stays builds an accommodation search link for the trip, or "" when the
// city or dates are unknown. Checkout is the day after the last trip day.
func Stays(p model.Preferences) string {
	if p.City == nil {
		return ""
	}
	start, end, ok := p.Dates()
	if !ok {
		return ""
	}
	dest := *p.City
	if p.Country != nil {
		dest += ", " + *p.Country
	}
	adults := 1
	if p.GroupSize != nil && *p.GroupSize > 0 {
		adults = *p.GroupSize
	}
	q := url.Values{}
	q.Set("checkin", start.Format(model.DateLayout))
	q.Set("checkout", end.Add(24*time.Hour).Format(model.DateLayout))
	q.Set("adults", strconv.Itoa(adults))
	return "https://www.airbnb.ca/s/" + url.QueryEscape(dest) + "/homes?" + q.Encode()
}
