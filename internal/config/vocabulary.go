package config

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// Fold normalizes s for case-insensitive comparison.
func Fold(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// LookupInterest finds a vocabulary entry by case-insensitive name.
func (c Config) LookupInterest(name string) (Interest, bool) {
	key := Fold(name)
	return lo.Find(c.Interests, func(i Interest) bool { return Fold(i.Name) == key })
}

// UnknownInterests returns the entries not in the vocabulary, in input order.
func (c Config) UnknownInterests(interests []string) []string {
	return lo.Filter(interests, func(name string, _ int) bool {
		_, ok := c.LookupInterest(name)
		return !ok
	})
}

// Categories expands interests into the catalog categories they cover.
// An interest outside the vocabulary maps to its own lowercased name.
func (c Config) Categories(interests []string) []string {
	var cats []string
	for _, name := range interests {
		if in, ok := c.LookupInterest(name); ok {
			cats = append(cats, in.Categories...)
			continue
		}
		if key := Fold(name); key != "" {
			cats = append(cats, key)
		}
	}
	return lo.Uniq(cats)
}

// InterestFor reports which of the given interests covers category, or "".
func (c Config) InterestFor(interests []string, category string) string {
	cat := Fold(category)
	for _, name := range interests {
		in, ok := c.LookupInterest(name)
		if !ok {
			if Fold(name) == cat {
				return name
			}
			continue
		}
		if lo.ContainsBy(in.Categories, func(x string) bool { return Fold(x) == cat }) {
			return name
		}
	}
	return ""
}
