package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/trip-planner/internal/model"
)

func TestNext(t *testing.T) {
	changed := []string{"pace"}
	tests := []struct {
		name  string
		phase model.Phase
		sig   Signal
		want  model.Phase
	}{
		{"greeting to intake", model.PhaseGreeting, Signal{}, model.PhaseIntake},
		{"greeting affirmed stays intake", model.PhaseGreeting, Signal{Affirmed: true}, model.PhaseIntake},
		{"greeting with everything", model.PhaseGreeting, Signal{Valid: true, Captured: changed}, model.PhaseConfirmed},
		{"empty phase", "", Signal{}, model.PhaseIntake},
		{"intake invalid", model.PhaseIntake, Signal{Captured: changed}, model.PhaseIntake},
		{"intake valid", model.PhaseIntake, Signal{Valid: true}, model.PhaseConfirmed},
		{"intake valid and affirmed", model.PhaseIntake, Signal{Valid: true, Affirmed: true}, model.PhaseConfirmed},
		{"confirmed affirmed", model.PhaseConfirmed, Signal{Valid: true, Affirmed: true}, model.PhaseItinerary},
		{"confirmed not affirmed", model.PhaseConfirmed, Signal{Valid: true}, model.PhaseConfirmed},
		{"confirmed change still valid", model.PhaseConfirmed, Signal{Valid: true, Captured: changed, Contradicted: changed}, model.PhaseConfirmed},
		{"confirmed change affirmed", model.PhaseConfirmed, Signal{Valid: true, Affirmed: true, Captured: changed}, model.PhaseConfirmed},
		{"confirmed change invalid", model.PhaseConfirmed, Signal{Captured: changed, Contradicted: changed}, model.PhaseIntake},
		{"confirmed invalid", model.PhaseConfirmed, Signal{Affirmed: true}, model.PhaseIntake},
		{"itinerary stays", model.PhaseItinerary, Signal{Valid: true, Affirmed: true}, model.PhaseItinerary},
		{"itinerary change", model.PhaseItinerary, Signal{Valid: true, Captured: changed}, model.PhaseConfirmed},
		{"itinerary change invalid", model.PhaseItinerary, Signal{Captured: changed}, model.PhaseIntake},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.phase, tt.sig))
		})
	}
}

func TestNextItineraryOnlyFromConfirmed(t *testing.T) {
	phases := []model.Phase{model.PhaseGreeting, model.PhaseIntake, model.PhaseConfirmed, model.PhaseItinerary}
	for _, from := range phases {
		for _, valid := range []bool{false, true} {
			for _, affirmed := range []bool{false, true} {
				for _, captured := range [][]string{nil, {"city"}} {
					got := Next(from, Signal{Valid: valid, Affirmed: affirmed, Captured: captured})
					if got != model.PhaseItinerary || from == model.PhaseItinerary {
						continue
					}
					assert.Equal(t, model.PhaseConfirmed, from)
					assert.True(t, valid && affirmed && captured == nil)
				}
			}
		}
	}
}
