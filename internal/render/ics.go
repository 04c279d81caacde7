package render

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/rcliao/trip-planner/internal/model"
)

const icsLocal = "20060102T150405"

// ICS exports the itinerary as an iCalendar document with one event per
// activity. Times are floating local times in the destination city.
func ICS(it model.Itinerary) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//trip-planner//itinerary//EN")
	cal.SetName(strings.TrimSpace(it.City + " itinerary"))

	for _, d := range it.Days {
		date, err := time.Parse(model.DateLayout, d.Date)
		if err != nil {
			return "", fmt.Errorf("ics: day %d: %w", d.Index, err)
		}
		for i, a := range d.Activities {
			start, err := model.ParseClock(a.Start)
			if err != nil {
				return "", fmt.Errorf("ics: day %d: %w", d.Index, err)
			}
			end, err := model.ParseClock(a.End)
			if err != nil {
				return "", fmt.Errorf("ics: day %d: %w", d.Index, err)
			}

			ev := cal.AddEvent(fmt.Sprintf("%s-d%d-%d@trip-planner", it.ID, d.Index, i+1))
			ev.SetDtStampTime(it.GeneratedAt)
			ev.SetProperty(ics.ComponentPropertyDtStart, date.Add(time.Duration(start)*time.Minute).Format(icsLocal))
			ev.SetProperty(ics.ComponentPropertyDtEnd, date.Add(time.Duration(end)*time.Minute).Format(icsLocal))
			ev.SetSummary(a.VenueName)
			if it.City != "" {
				ev.SetLocation(a.VenueName + ", " + it.City)
			}
			ev.SetDescription(Citation(a.VenueID, a.SourceURL))
			if a.SourceURL != "" {
				ev.SetURL(a.SourceURL)
			}
		}
	}
	return cal.Serialize(), nil
}
