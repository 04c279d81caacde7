package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAffirmative(t *testing.T) {
	k := NewKeywords()
	tests := []struct {
		text string
		want bool
	}{
		{"yes", true},
		{"Yes!", true},
		{"  yes, please. ", true},
		{"OK", true},
		{"Let’s do it!!", true},
		{"sounds   good", true},
		{"Generate it.", true},
		{"", false},
		{"no", false},
		{"yes but make it relaxed", false},
		{"I'd like to go to Toronto", false},
		{"not sure", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, k.Affirmative(tt.text))
		})
	}
}

func TestCustomPhrases(t *testing.T) {
	k := NewKeywords("oui", "d'accord")
	assert.True(t, k.Affirmative("Oui!"))
	assert.True(t, k.Affirmative("D'accord."))
	assert.False(t, k.Affirmative("yes"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "yes please", Normalize("YES,  please!!"))
	assert.Equal(t, "let's go", Normalize("Let’s go."))
}
