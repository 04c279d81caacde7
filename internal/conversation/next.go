// Package conversation drives a trip through greeting, intake, confirmation
// and itinerary generation.
package conversation

import "github.com/rcliao/trip-planner/internal/model"

// Signal is what one user turn established, after merge and revalidation.
type Signal struct {
	Captured     []string // fields new or changed this turn
	Contradicted []string // previously present fields whose value changed
	Valid        bool
	Affirmed     bool
}

// Next computes the phase after a user turn. It depends only on the current
// phase and the turn's signal.
//
//	greeting  -> intake, then the intake rules apply in the same turn
//	intake    -> confirmed once valid
//	confirmed -> itinerary on affirmation with nothing changed
//	confirmed -> intake on a change that leaves the model invalid
//	itinerary -> stays unless the user changes something
//
// A change made while confirmed or after the itinerary always lands back on
// confirmed (or intake), so generating again needs a fresh affirmation.
func Next(phase model.Phase, s Signal) model.Phase {
	switch phase {
	case model.PhaseGreeting, model.PhaseIntake, "":
		return intake(s)
	case model.PhaseConfirmed:
		if len(s.Contradicted) > 0 || len(s.Captured) > 0 {
			return intake(s)
		}
		if !s.Valid {
			return model.PhaseIntake
		}
		if s.Affirmed {
			return model.PhaseItinerary
		}
		return model.PhaseConfirmed
	case model.PhaseItinerary:
		if len(s.Contradicted) > 0 || len(s.Captured) > 0 {
			return intake(s)
		}
		return model.PhaseItinerary
	}
	return model.PhaseIntake
}

func intake(s Signal) model.Phase {
	if s.Valid {
		return model.PhaseConfirmed
	}
	return model.PhaseIntake
}
