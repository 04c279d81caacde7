package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/trip-planner/internal/model"
)

// AppendMessage stores a transcript line with the next sequence number.
func (s *SQLiteStore) AppendMessage(ctx context.Context, m model.Message) (*model.Message, error) {
	if m.TripID == "" {
		return nil, errors.New("trip id is required")
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.CreatedAt = m.CreatedAt.UTC().Truncate(time.Microsecond)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var last sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		`SELECT MAX(seq) FROM messages WHERE trip_id = ?`, m.TripID).Scan(&last); err != nil {
		return nil, err
	}
	m.Seq = int(last.Int64) + 1

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (trip_id, seq, role, content, phase, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		m.TripID, m.Seq, m.Role, m.Content, string(m.Phase), m.CreatedAt.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Messages returns a trip's transcript in order.
func (s *SQLiteStore) Messages(ctx context.Context, tripID string) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT trip_id, seq, role, content, phase, created_at FROM messages
		 WHERE trip_id = ? ORDER BY seq`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		var phase, createdAt string
		if err := rows.Scan(&m.TripID, &m.Seq, &m.Role, &m.Content, &phase, &createdAt); err != nil {
			return nil, err
		}
		m.Phase = model.Phase(phase)
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// SaveItinerary replaces the trip's itinerary. Itineraries are regenerated
// wholesale, never patched.
func (s *SQLiteStore) SaveItinerary(ctx context.Context, it model.Itinerary, fr model.FeasibilityResult) error {
	if it.TripID == "" {
		return errors.New("trip id is required")
	}
	if it.ID == "" {
		it.ID = model.ItineraryID(it.TripID)
	}
	body, err := json.Marshal(StoredItinerary{Itinerary: it, Feasibility: fr})
	if err != nil {
		return fmt.Errorf("encode itinerary: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO itineraries (id, trip_id, body, feasible, generated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(trip_id) DO UPDATE SET id = excluded.id, body = excluded.body,
		   feasible = excluded.feasible, generated_at = excluded.generated_at`,
		it.ID, it.TripID, string(body), fr.Feasible, it.GeneratedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("save itinerary: %w", err)
	}
	return nil
}

// GetItinerary returns the trip's itinerary.
func (s *SQLiteStore) GetItinerary(ctx context.Context, tripID string) (*StoredItinerary, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM itineraries WHERE trip_id = ?`, tripID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("itinerary for %s: %w", tripID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var out StoredItinerary
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, fmt.Errorf("decode itinerary: %w", err)
	}
	return &out, nil
}
