package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/trip-planner/internal/model"
)

// ListVenuesParams holds parameters for listing catalog venues.
type ListVenuesParams struct {
	City       string
	Categories []string // empty means every category
	Limit      int
}

// PutVenue inserts or updates a catalog venue. Category is stored lowercase.
func (s *SQLiteStore) PutVenue(ctx context.Context, v model.Venue) (*model.Venue, error) {
	if err := checkVenue(v); err != nil {
		return nil, err
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	v.Category = strings.ToLower(strings.TrimSpace(v.Category))
	v.UpdatedAt = &now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO venues (venue_id, name, city, category, address, description, source_url, cost, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(venue_id) DO UPDATE SET
		   name = excluded.name, city = excluded.city, category = excluded.category,
		   address = excluded.address, description = excluded.description,
		   source_url = excluded.source_url, cost = excluded.cost, updated_at = excluded.updated_at`,
		v.ID, v.Name, v.City, v.Category, v.Address, v.Description, v.SourceURL, v.Cost, now.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("put venue %s: %w", v.ID, err)
	}
	return &v, nil
}

// ImportVenues upserts venues in one transaction. Returns the number stored.
func (s *SQLiteStore) ImportVenues(ctx context.Context, venues []model.Venue) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(timeFormat)
	imported := 0
	for _, v := range venues {
		if err := checkVenue(v); err != nil {
			return imported, err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO venues (venue_id, name, city, category, address, description, source_url, cost, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(venue_id) DO UPDATE SET
			   name = excluded.name, city = excluded.city, category = excluded.category,
			   address = excluded.address, description = excluded.description,
			   source_url = excluded.source_url, cost = excluded.cost, updated_at = excluded.updated_at`,
			v.ID, v.Name, v.City, strings.ToLower(strings.TrimSpace(v.Category)),
			v.Address, v.Description, v.SourceURL, v.Cost, now)
		if err != nil {
			return imported, fmt.Errorf("import venue %s: %w", v.ID, err)
		}
		imported++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}

// GetVenue returns one venue by id.
func (s *SQLiteStore) GetVenue(ctx context.Context, id string) (*model.Venue, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE venue_id = ?`, id)
	v, err := scanVenue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("venue %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVenues returns venues of a city, optionally restricted to categories,
// ordered by name.
func (s *SQLiteStore) ListVenues(ctx context.Context, p ListVenuesParams) ([]model.Venue, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 200
	}

	where := []string{"1 = 1"}
	args := []interface{}{}
	if p.City != "" {
		where = append(where, "city = ? COLLATE NOCASE")
		args = append(args, p.City)
	}
	if len(p.Categories) > 0 {
		marks := make([]string, len(p.Categories))
		for i, c := range p.Categories {
			marks[i] = "?"
			args = append(args, strings.ToLower(c))
		}
		where = append(where, "category IN ("+strings.Join(marks, ", ")+")")
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+venueColumns+` FROM venues WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY name LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []model.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

// RmVenue deletes a venue.
func (s *SQLiteStore) RmVenue(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM venues WHERE venue_id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("venue %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountVenues returns the number of venues in the catalog.
func (s *SQLiteStore) CountVenues(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM venues`).Scan(&n)
	return n, err
}

func checkVenue(v model.Venue) error {
	switch {
	case v.ID == "":
		return errors.New("venue_id is required")
	case v.Name == "":
		return fmt.Errorf("venue %s: name is required", v.ID)
	case v.City == "":
		return fmt.Errorf("venue %s: city is required", v.ID)
	case v.Category == "":
		return fmt.Errorf("venue %s: category is required", v.ID)
	case v.SourceURL == "":
		return fmt.Errorf("venue %s: source_url is required", v.ID)
	case v.Cost < 0:
		return fmt.Errorf("venue %s: cost must not be negative", v.ID)
	}
	return nil
}

const venueColumns = `venue_id, name, city, category, address, description, source_url, cost, updated_at`

func scanVenue(row scanner) (model.Venue, error) {
	var v model.Venue
	var address, description sql.NullString
	var updatedAt string

	err := row.Scan(&v.ID, &v.Name, &v.City, &v.Category, &address, &description, &v.SourceURL, &v.Cost, &updatedAt)
	if err != nil {
		return v, err
	}
	v.Address = address.String
	v.Description = description.String
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		v.UpdatedAt = &t
	}
	return v, nil
}
