// Package render formats conversation replies and itineraries for people.
// Output is deterministic for a given input.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/rcliao/trip-planner/internal/model"
)

var questions = map[string]string{
	"city":                "Which city are you heading to?",
	"country":             "Which country is that in?",
	"location_preference": "Which area would you like to stay in (for example downtown)?",
	"start_date":          "What date does your trip start (YYYY-MM-DD)?",
	"end_date":            "When does it end, or how many days will you stay?",
	"duration_days":       "How many days will you stay?",
	"budget":              "What's your total budget for the trip?",
	"budget_currency":     "Which currency is that budget in?",
	"interests":           "What are you interested in? For example Food and Beverage, Entertainment, Culture and History, Sport or Natural Place.",
	"pace":                "Would you like a relaxed, moderate, or packed schedule?",
}

// Greeting is the first assistant message of every trip.
func Greeting() string {
	return "Hey there! Welcome to the trip planner. I'd love to help you put together a great itinerary. " +
		"To get started, could you tell me a bit about your trip? Things like where and when you're " +
		"planning to visit, your budget, what kinds of activities you enjoy, and whether you'd like " +
		"a relaxed, moderate, or packed schedule?\n\n" + StillNeed(model.RequiredFields)
}

// Money formats an amount with thousands separators and two decimals.
func Money(v float64, currency string) string {
	s := humanize.FormatFloat("#,###.##", v)
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// Label returns the human name of a field.
func Label(field string) string {
	if l, ok := model.FieldLabels[field]; ok {
		return l
	}
	return strings.ReplaceAll(field, "_", " ")
}

// StillNeed renders the trailer listing missing required fields in order.
func StillNeed(missing []string) string {
	return "Still need: " + strings.Join(lo.Map(missing, func(f string, _ int) string { return Label(f) }), ", ")
}

// Question asks for one field.
func Question(field string) string {
	if q, ok := questions[field]; ok {
		return q
	}
	return fmt.Sprintf("Could you tell me your %s?", Label(field))
}

// Value formats a field of p for display, or "" when absent.
func Value(p model.Preferences, field string) string {
	currency := ""
	if p.BudgetCurrency != nil {
		currency = *p.BudgetCurrency
	}
	switch v := p.Value(field).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return Money(v, currency)
	case int:
		if field == "duration_days" {
			if v == 1 {
				return "1 day"
			}
			return fmt.Sprintf("%d days", v)
		}
		return strconv.Itoa(v)
	case []string:
		return strings.Join(v, ", ")
	case []int:
		return strings.Join(lo.Map(v, func(n int, _ int) string { return strconv.Itoa(n) }), ", ")
	default:
		return fmt.Sprint(v)
	}
}

// Acknowledge restates the fields captured this turn, or "" when none were.
func Acknowledge(p model.Preferences, captured []string) string {
	parts := lo.FilterMap(captured, func(f string, _ int) (string, bool) {
		v := Value(p, f)
		return Label(f) + " " + v, v != ""
	})
	if len(parts) == 0 {
		return ""
	}
	return "Got it: " + strings.Join(parts, "; ") + "."
}

// Summary lists every collected field followed by the confirmation prompt.
func Summary(p model.Preferences) string {
	var b strings.Builder
	b.WriteString("Here's what I have for your trip:\n")
	for _, f := range model.AllFields {
		if v := Value(p, f); v != "" {
			fmt.Fprintf(&b, "- %s: %s\n", capitalize(Label(f)), v)
		}
	}
	b.WriteString("\n")
	b.WriteString(ConfirmPrompt(p))
	return b.String()
}

// ConfirmPrompt is the yes/no question that ends the summary.
func ConfirmPrompt(p model.Preferences) string {
	city := "your"
	if p.City != nil {
		city = "your " + *p.City
	}
	return fmt.Sprintf("I have everything I need! Want me to generate %s itinerary now? (yes/no)", city)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
