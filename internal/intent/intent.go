// Package intent classifies whether a user turn affirms the confirmation
// prompt ("generate my itinerary?").
package intent

import (
	"regexp"
	"strings"

	"github.com/rcliao/trip-planner/internal/config"
)

// Classifier decides whether text is an affirmation.
type Classifier interface {
	Affirmative(text string) bool
}

// DefaultPhrases are the whole-utterance affirmations accepted by Keywords.
var DefaultPhrases = []string{
	"yes", "yes please", "yeah", "yep", "yup", "sure", "go ahead", "please do",
	"let's do it", "let's go", "absolutely", "ok", "okay", "sounds good",
	"generate it", "generate", "do it", "for sure", "definitely", "of course",
	"yes generate it", "please",
}

var (
	trailing   = regexp.MustCompile(`[\s.!,]+$`)
	separators = regexp.MustCompile(`[\s,]+`)
)

// Keywords matches the entire normalized utterance against a fixed phrase
// set. "yes but change the pace" is not an affirmation.
type Keywords struct {
	phrases map[string]struct{}
}

// NewKeywords builds a classifier. With no phrases it uses DefaultPhrases.
func NewKeywords(phrases ...string) *Keywords {
	if len(phrases) == 0 {
		phrases = DefaultPhrases
	}
	k := &Keywords{phrases: make(map[string]struct{}, len(phrases))}
	for _, p := range phrases {
		k.phrases[Normalize(p)] = struct{}{}
	}
	return k
}

// Affirmative implements Classifier.
func (k *Keywords) Affirmative(text string) bool {
	n := Normalize(text)
	if n == "" {
		return false
	}
	_, ok := k.phrases[n]
	return ok
}

// Normalize case-folds text, trims trailing punctuation and collapses
// whitespace and commas to single spaces. Curly apostrophes become straight.
func Normalize(text string) string {
	s := strings.ReplaceAll(text, "’", "'")
	s = config.Fold(s)
	s = trailing.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
