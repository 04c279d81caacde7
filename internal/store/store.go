// Package store provides trip session persistence and the venue catalog
// tables, backed by SQLite.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/trip-planner/internal/model"
)

// ErrNotFound is returned when a trip, itinerary or venue does not exist.
var ErrNotFound = errors.New("not found")

// SaveSessionParams holds parameters for storing a session snapshot.
type SaveSessionParams struct {
	TripID      string
	Phase       model.Phase
	Preferences model.Preferences
}

// GetSessionParams holds parameters for retrieving a session.
type GetSessionParams struct {
	TripID  string
	History bool
	Version int // 0 means latest
}

// ListParams holds parameters for listing sessions.
type ListParams struct {
	Phase model.Phase
	City  string
	Limit int
}

// RmParams holds parameters for deleting a trip.
type RmParams struct {
	TripID string
	Hard   bool
}

// Store is the session persistence used by the conversation service.
type Store interface {
	// SaveSession appends a new version of the session. Returns the stored snapshot.
	SaveSession(ctx context.Context, p SaveSessionParams) (*model.Session, error)

	// GetSession returns the latest version, a specific version, or the full
	// history (newest first) of a trip.
	GetSession(ctx context.Context, p GetSessionParams) ([]model.Session, error)

	// AppendMessage adds a transcript line. Seq is assigned by the store.
	AppendMessage(ctx context.Context, m model.Message) (*model.Message, error)

	// SaveItinerary stores the itinerary for its trip, replacing any earlier one.
	SaveItinerary(ctx context.Context, it model.Itinerary, fr model.FeasibilityResult) error

	// GetItinerary returns the current itinerary of a trip.
	GetItinerary(ctx context.Context, tripID string) (*StoredItinerary, error)

	// Close closes the store.
	Close() error
}

// StoredItinerary is an itinerary together with the feasibility verdict it
// was shown with.
type StoredItinerary struct {
	model.Itinerary
	Feasibility model.FeasibilityResult `json:"feasibility"`
}
