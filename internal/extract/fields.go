package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/rcliao/trip-planner/internal/model"
)

var listFields = map[string]bool{
	"interests":            true,
	"transportation_modes": true,
	"children_ages":        true,
	"dietary_restrictions": true,
	"accessibility_needs":  true,
	"must_see_venues":      true,
	"must_avoid_venues":    true,
}

var pairSep = regexp.MustCompile(`[;\n]+`)

// Fields is an offline extractor for scripted sessions. It reads
// "field=value" pairs separated by semicolons or newlines, with list values
// comma separated:
//
//	city=Toronto; start_date=2026-12-01; interests=Sport, Natural Place
//
// Text without any "=" yields an empty proposal, so plain replies such as
// "yes" pass through untouched.
type Fields struct{}

func (Fields) Extract(_ context.Context, text string, _ model.Preferences) (model.Preferences, error) {
	if !strings.Contains(text, "=") {
		return model.Preferences{}, nil
	}
	doc := make(map[string]any, len(model.AllFields))
	for _, f := range model.AllFields {
		doc[f] = nil
	}
	for _, pair := range pairSep.Split(text, -1) {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return model.Preferences{}, &Error{Provider: "fields", Err: fmt.Errorf("expected field=value, got %q", pair)}
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if !slices.Contains(model.AllFields, key) {
			return model.Preferences{}, &Error{Provider: "fields", Err: fmt.Errorf("unknown field %q", key)}
		}
		if !listFields[key] {
			doc[key] = value
			continue
		}
		var items []any
		for _, item := range strings.Split(value, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if key == "children_ages" {
				n, err := strconv.Atoi(item)
				if err != nil {
					return model.Preferences{}, &Error{Provider: "fields", Err: fmt.Errorf("children_ages: %q is not a number", item)}
				}
				items = append(items, n)
				continue
			}
			items = append(items, item)
		}
		doc[key] = items
	}

	raw, _ := json.Marshal(doc)
	p, err := Decode(string(raw))
	if err != nil {
		return model.Preferences{}, &Error{Provider: "fields", Err: err}
	}
	return p, nil
}
