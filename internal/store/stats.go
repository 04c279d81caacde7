package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath          string       `json:"db_path"`
	DBSizeBytes     int64        `json:"db_size_bytes"`
	Trips           int          `json:"trips"`
	SessionVersions int          `json:"session_versions"`
	Messages        int          `json:"messages"`
	Itineraries     int          `json:"itineraries"`
	Venues          int          `json:"venues"`
	Phases          []PhaseStats `json:"phases"`
	Cities          []CityStats  `json:"cities"`
}

// PhaseStats counts trips by their current phase.
type PhaseStats struct {
	Phase string `json:"phase"`
	Trips int    `json:"trips"`
}

// CityStats counts catalog venues per city.
type CityStats struct {
	City   string `json:"city"`
	Venues int    `json:"venues"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT trip_id) FROM sessions WHERE deleted_at IS NULL`).Scan(&st.Trips)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&st.SessionVersions)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&st.Messages)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM itineraries`).Scan(&st.Itineraries)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM venues`).Scan(&st.Venues)

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.phase, COUNT(*) AS cnt
		FROM sessions s
		INNER JOIN (
			SELECT trip_id, MAX(version) AS max_ver
			FROM sessions WHERE deleted_at IS NULL
			GROUP BY trip_id
		) latest ON s.trip_id = latest.trip_id AND s.version = latest.max_ver
		GROUP BY s.phase ORDER BY cnt DESC`)
	if err != nil {
		return st, err
	}
	for rows.Next() {
		var ph PhaseStats
		rows.Scan(&ph.Phase, &ph.Trips)
		st.Phases = append(st.Phases, ph)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT city, COUNT(*) AS cnt FROM venues
		GROUP BY city COLLATE NOCASE ORDER BY cnt DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	for rows.Next() {
		var c CityStats
		rows.Scan(&c.City, &c.Venues)
		st.Cities = append(st.Cities, c)
	}

	return st, nil
}
