package model

import (
	"fmt"
	"time"
)

// Activity is one scheduled venue visit. Times are "HH:MM" on the day's date.
type Activity struct {
	Start         string  `json:"start"`
	End           string  `json:"end"`
	DurationMin   int     `json:"duration_min"`
	VenueID       string  `json:"venue_id"`
	VenueName     string  `json:"venue_name"`
	Category      string  `json:"category"`
	EstimatedCost float64 `json:"estimated_cost"`
	SourceURL     string  `json:"source_url"`
}

// MealBreak is a free gap reserved for a meal.
type MealBreak struct {
	Kind          string  `json:"kind"` // lunch | dinner
	Start         string  `json:"start"`
	End           string  `json:"end"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// Day is one date of the itinerary.
type Day struct {
	Index      int         `json:"day"`
	Date       string      `json:"date"`
	Activities []Activity  `json:"activities"`
	Meals      []MealBreak `json:"meals"`
	Budget     float64     `json:"budget"` // allowance including rollover
	Spent      float64     `json:"spent"`
}

// Itinerary is the generated day-by-day schedule. It is never patched in place.
type Itinerary struct {
	ID          string    `json:"itinerary_id"`
	TripID      string    `json:"trip_id"`
	City        string    `json:"city"`
	Pace        string    `json:"pace"`
	Currency    string    `json:"currency"`
	Budget      float64   `json:"budget"`
	Days        []Day     `json:"days"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Cost sums activity and meal costs for the day.
func (d Day) Cost() float64 {
	var total float64
	for _, a := range d.Activities {
		total += a.EstimatedCost
	}
	for _, m := range d.Meals {
		total += m.EstimatedCost
	}
	return total
}

// TotalCost sums every day's cost.
func (it *Itinerary) TotalCost() float64 {
	var total float64
	for _, d := range it.Days {
		total += d.Cost()
	}
	return total
}

// VenueIDs returns every activity venue id in schedule order.
func (it *Itinerary) VenueIDs() []string {
	var ids []string
	for _, d := range it.Days {
		for _, a := range d.Activities {
			ids = append(ids, a.VenueID)
		}
	}
	return ids
}

// ItineraryID derives the itinerary id for a trip.
func ItineraryID(tripID string) string {
	return "itinerary_" + tripID
}

// Clock formats minutes after midnight as "HH:MM".
func Clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
