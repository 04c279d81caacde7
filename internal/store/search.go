package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/trip-planner/internal/model"
)

// SearchParams holds parameters for searching venues.
type SearchParams struct {
	City  string
	Query string
	Limit int
}

// SearchVenues finds venues whose name, category or description contains
// the query substring. Name matches rank first.
func (s *SQLiteStore) SearchVenues(ctx context.Context, p SearchParams) ([]model.Venue, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + strings.TrimSpace(p.Query) + "%"

	where := []string{"(name LIKE ? OR category LIKE ? OR description LIKE ? OR venue_id LIKE ?)"}
	args := []interface{}{query, query, query, query}

	if p.City != "" {
		where = append(where, "city = ? COLLATE NOCASE")
		args = append(args, p.City)
	}

	sql := fmt.Sprintf(`
		SELECT %s
		FROM venues
		WHERE %s
		ORDER BY CASE WHEN name LIKE ? THEN 0 ELSE 1 END, name
		LIMIT ?`, venueColumns, strings.Join(where, " AND "))
	args = append(args, query, limit)

	rows, err := s.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, rows.Err()
}
