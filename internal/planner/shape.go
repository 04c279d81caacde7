package planner

import (
	"sort"

	"github.com/rcliao/trip-planner/internal/config"
)

// MealSlot is a meal break reserved in the day shape.
type MealSlot struct {
	Kind     string
	Anchor   int // preferred start, minutes after midnight
	Duration int
}

// Shape is the time budget of one itinerary day for a pace.
type Shape struct {
	Start    int // minutes after midnight
	End      int
	Count    int // activities that fit
	Duration int // minutes per activity
	Buffer   int
	Meals    []MealSlot
}

// DayShape computes how many activities of what length fit into a day of
// hours for pace, after reserving meal breaks. It aims for the top of the
// pace's activity band and steps down until the per-activity duration meets
// the band's minimum. Count may fall below the band when the day is short.
func DayShape(cfg config.Config, pace string, hours int) Shape {
	rule := cfg.Pace(pace)
	if hours < 1 {
		hours = cfg.Schedule.DefaultHoursPerDay
	}
	start := cfg.Schedule.DayStart
	end := min(start+hours*60, 24*60-1)
	sh := Shape{Start: start, End: end, Buffer: rule.Buffer}

	if a := cfg.Schedule.LunchAt; a >= start && a+rule.Lunch <= end {
		sh.Meals = append(sh.Meals, MealSlot{Kind: "lunch", Anchor: a, Duration: rule.Lunch})
	}
	if a := cfg.Schedule.DinnerAt; a >= start && a+rule.Dinner <= end {
		sh.Meals = append(sh.Meals, MealSlot{Kind: "dinner", Anchor: a, Duration: rule.Dinner})
	}
	if len(sh.Meals) == 0 {
		// neither anchor fits: one break in the middle of the day
		d := min(rule.Lunch, end-start)
		mid := start + (end-start-d)/2
		sh.Meals = append(sh.Meals, MealSlot{Kind: "lunch", Anchor: mid - mid%5, Duration: d})
	}
	sort.Slice(sh.Meals, func(i, j int) bool { return sh.Meals[i].Anchor < sh.Meals[j].Anchor })

	avail := end - start
	for _, m := range sh.Meals {
		avail -= m.Duration
	}
	sh.Duration = rule.MinDuration
	for count := rule.MaxActivities; count >= 1; count-- {
		d := (avail - count*rule.Buffer) / count
		d -= d % 5
		if d >= rule.MinDuration {
			sh.Count = count
			sh.Duration = min(d, rule.MaxDuration)
			break
		}
	}
	return sh
}
