package model

import "time"

// Phase is a conversation controller state.
type Phase string

const (
	PhaseGreeting  Phase = "greeting"
	PhaseIntake    Phase = "intake"
	PhaseConfirmed Phase = "confirmed"
	PhaseItinerary Phase = "itinerary"
)

// ValidPhases are the controller states.
var ValidPhases = map[Phase]bool{
	PhaseGreeting:  true,
	PhaseIntake:    true,
	PhaseConfirmed: true,
	PhaseItinerary: true,
}

// Session is the persisted state of one conversation.
type Session struct {
	TripID      string      `json:"trip_id"`
	Phase       Phase       `json:"phase"`
	Preferences Preferences `json:"preferences"`
	Version     int         `json:"version"`
	Supersedes  string      `json:"supersedes,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Message is one transcript line.
type Message struct {
	TripID    string    `json:"trip_id"`
	Seq       int       `json:"seq"`
	Role      string    `json:"role"` // user | assistant
	Content   string    `json:"content"`
	Phase     Phase     `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
}
