package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcliao/trip-planner/internal/model"
)

// TripExport is the portable form of one trip: every session version
// (oldest first), the transcript and the current itinerary if any.
type TripExport struct {
	TripID    string           `json:"trip_id"`
	Sessions  []model.Session  `json:"sessions"`
	Messages  []model.Message  `json:"messages,omitempty"`
	Itinerary *StoredItinerary `json:"itinerary,omitempty"`
}

// ExportTrips returns the given trips, or every non-deleted trip when no
// ids are passed.
func (s *SQLiteStore) ExportTrips(ctx context.Context, tripIDs ...string) ([]TripExport, error) {
	if len(tripIDs) == 0 {
		rows, err := s.db.QueryContext(ctx,
			`SELECT DISTINCT trip_id FROM sessions WHERE deleted_at IS NULL ORDER BY trip_id`)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, err
			}
			tripIDs = append(tripIDs, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	var out []TripExport
	for _, id := range tripIDs {
		hist, err := s.GetSession(ctx, GetSessionParams{TripID: id, History: true})
		if err != nil {
			return nil, err
		}
		// history is newest first
		for i, j := 0, len(hist)-1; i < j; i, j = i+1, j-1 {
			hist[i], hist[j] = hist[j], hist[i]
		}
		msgs, err := s.Messages(ctx, id)
		if err != nil {
			return nil, err
		}
		exp := TripExport{TripID: id, Sessions: hist, Messages: msgs}
		it, err := s.GetItinerary(ctx, id)
		switch {
		case err == nil:
			exp.Itinerary = it
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
		out = append(out, exp)
	}
	return out, nil
}

// ImportTrips stores trips from an export. Trips whose id already exists are
// skipped. Returns the number imported.
func (s *SQLiteStore) ImportTrips(ctx context.Context, trips []TripExport) (int, error) {
	imported := 0
	for _, t := range trips {
		if t.TripID == "" || len(t.Sessions) == 0 {
			return imported, fmt.Errorf("import: trip without id or sessions")
		}
		if _, err := s.GetSession(ctx, GetSessionParams{TripID: t.TripID}); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return imported, err
		}

		for _, sess := range t.Sessions {
			if _, err := s.SaveSession(ctx, SaveSessionParams{
				TripID:      t.TripID,
				Phase:       sess.Phase,
				Preferences: sess.Preferences,
			}); err != nil {
				return imported, err
			}
		}
		for _, m := range t.Messages {
			m.TripID = t.TripID
			if _, err := s.AppendMessage(ctx, m); err != nil {
				return imported, err
			}
		}
		if t.Itinerary != nil {
			if err := s.SaveItinerary(ctx, t.Itinerary.Itinerary, t.Itinerary.Feasibility); err != nil {
				return imported, err
			}
		}
		imported++
	}
	return imported, nil
}
