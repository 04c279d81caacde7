package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/samber/lo"

	"github.com/rcliao/trip-planner/internal/model"
)

// Decode parses a provider response into a proposal. Code fences are
// stripped and malformed JSON is repaired, but every schema key must be
// present and every value must have the right primitive type. Numeric
// strings are accepted for numbers and enum values are lowercased; nothing
// else is coerced.
func Decode(raw string) (model.Preferences, error) {
	body := stripFences(raw)
	if body == "" {
		return model.Preferences{}, errors.New("empty response")
	}

	fields, err := parseObject(body)
	if err != nil {
		repaired, rerr := jsonrepair.JSONRepair(body)
		if rerr != nil {
			return model.Preferences{}, fmt.Errorf("unparsable response: %w", err)
		}
		if fields, err = parseObject(repaired); err != nil {
			return model.Preferences{}, fmt.Errorf("unparsable response after repair: %w", err)
		}
	}

	missing := lo.Filter(model.AllFields, func(f string, _ int) bool {
		_, ok := fields[f]
		return !ok
	})
	if len(missing) > 0 {
		return model.Preferences{}, fmt.Errorf("response is missing fields: %s", strings.Join(missing, ", "))
	}

	d := &decoder{fields: fields}
	p := model.Preferences{
		City:                d.str("city", nil),
		Country:             d.str("country", nil),
		LocationPreference:  d.str("location_preference", nil),
		StartDate:           d.str("start_date", nil),
		EndDate:             d.str("end_date", nil),
		DurationDays:        d.integer("duration_days"),
		Budget:              d.number("budget"),
		DailyBudget:         d.number("daily_budget"),
		BudgetCurrency:      d.str("budget_currency", strings.ToUpper),
		Interests:           d.strList("interests"),
		Pace:                d.str("pace", strings.ToLower),
		StartingLocation:    d.str("starting_location", nil),
		HoursPerDay:         d.integer("hours_per_day"),
		TransportationModes: d.strList("transportation_modes"),
		GroupSize:           d.integer("group_size"),
		GroupType:           d.str("group_type", strings.ToLower),
		ChildrenAges:        d.intList("children_ages"),
		DietaryRestrictions: d.strList("dietary_restrictions"),
		AccessibilityNeeds:  d.strList("accessibility_needs"),
		WeatherTolerance:    d.str("weather_tolerance", nil),
		MustSeeVenues:       d.strList("must_see_venues"),
		MustAvoidVenues:     d.strList("must_avoid_venues"),
	}
	if err := errors.Join(d.errs...); err != nil {
		return model.Preferences{}, err
	}
	return p, nil
}

func parseObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("response is not a JSON object")
	}
	return fields, nil
}

// stripFences removes a surrounding ```json ... ``` block and any prose
// around the outermost object.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if j := strings.LastIndex(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		s = strings.TrimSpace(rest)
	}
	if start := strings.IndexByte(s, '{'); start > 0 {
		s = s[start:]
	}
	if end := strings.LastIndexByte(s, '}'); end >= 0 && end < len(s)-1 {
		s = s[:end+1]
	}
	return s
}

type decoder struct {
	fields map[string]any
	errs   []error
}

func (d *decoder) fail(field, want string, got any) {
	d.errs = append(d.errs, fmt.Errorf("%s: expected %s, got %T", field, want, got))
}

func (d *decoder) str(field string, norm func(string) string) *string {
	switch v := d.fields[field].(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if norm != nil {
			s = norm(s)
		}
		return &s
	default:
		d.fail(field, "string", v)
		return nil
	}
}

func (d *decoder) number(field string) *float64 {
	switch v := d.fields[field].(type) {
	case nil:
		return nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			d.fail(field, "number", v)
			return nil
		}
		return &f
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			d.fail(field, "number", v)
			return nil
		}
		return &f
	default:
		d.fail(field, "number", v)
		return nil
	}
}

func (d *decoder) integer(field string) *int {
	f := d.number(field)
	if f == nil {
		return nil
	}
	if *f != math.Trunc(*f) {
		d.errs = append(d.errs, fmt.Errorf("%s: expected integer, got %v", field, *f))
		return nil
	}
	n := int(*f)
	return &n
}

func (d *decoder) strList(field string) []string {
	switch v := d.fields[field].(type) {
	case nil:
		return nil
	case []any:
		var out []string
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				d.fail(field, "array of strings", item)
				return nil
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		d.fail(field, "array", v)
		return nil
	}
}

func (d *decoder) intList(field string) []int {
	switch v := d.fields[field].(type) {
	case nil:
		return nil
	case []any:
		var out []int
		for _, item := range v {
			n, ok := item.(json.Number)
			if !ok {
				d.fail(field, "array of integers", item)
				return nil
			}
			i, err := n.Int64()
			if err != nil {
				d.fail(field, "array of integers", item)
				return nil
			}
			out = append(out, int(i))
		}
		return out
	default:
		d.fail(field, "array", v)
		return nil
	}
}
