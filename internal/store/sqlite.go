package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/trip-planner/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// one writer at a time; concurrent trips queue here instead of failing with SQLITE_BUSY
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// NewTripID returns a fresh trip identifier.
func NewTripID() string {
	return "trip_" + newID()
}

// timeFormat sorts lexically; fixed width fractional seconds.
const timeFormat = "2006-01-02T15:04:05.000000Z07:00"

func newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		trip_id     TEXT NOT NULL,
		version     INTEGER NOT NULL DEFAULT 1,
		supersedes  TEXT,
		phase       TEXT NOT NULL,
		city        TEXT,
		prefs       TEXT NOT NULL,
		started_at  TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		deleted_at  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_trip ON sessions(trip_id, version DESC);
	CREATE INDEX IF NOT EXISTS idx_sessions_phase ON sessions(phase);
	CREATE INDEX IF NOT EXISTS idx_sessions_deleted ON sessions(deleted_at);

	CREATE TABLE IF NOT EXISTS messages (
		trip_id     TEXT NOT NULL,
		seq         INTEGER NOT NULL,
		role        TEXT NOT NULL,
		content     TEXT NOT NULL,
		phase       TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		PRIMARY KEY (trip_id, seq)
	);

	CREATE TABLE IF NOT EXISTS itineraries (
		id           TEXT PRIMARY KEY,
		trip_id      TEXT NOT NULL UNIQUE,
		body         TEXT NOT NULL,
		feasible     INTEGER NOT NULL,
		generated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS venues (
		venue_id     TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		city         TEXT NOT NULL,
		category     TEXT NOT NULL,
		address      TEXT,
		description  TEXT,
		source_url   TEXT NOT NULL,
		cost         REAL NOT NULL DEFAULT 0,
		updated_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_venues_city_category ON venues(city COLLATE NOCASE, category);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveSession appends a new session version, linking it to the previous one.
func (s *SQLiteStore) SaveSession(ctx context.Context, p SaveSessionParams) (*model.Session, error) {
	if p.TripID == "" {
		return nil, errors.New("trip id is required")
	}
	if !model.ValidPhases[p.Phase] {
		return nil, fmt.Errorf("invalid phase %q", p.Phase)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	id := newID()

	prefs := p.Preferences.Clone()
	prefs.TripID = p.TripID
	body, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("encode preferences: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Check for existing latest version
	var prevID, startedAt string
	var prevVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT id, version, started_at FROM sessions
		 WHERE trip_id = ? AND deleted_at IS NULL
		 ORDER BY version DESC LIMIT 1`, p.TripID).Scan(&prevID, &prevVersion, &startedAt)

	version := 1
	var supersedes *string
	switch {
	case err == nil:
		version = prevVersion + 1
		supersedes = &prevID
	case errors.Is(err, sql.ErrNoRows):
		startedAt = now.Format(timeFormat)
	default:
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, trip_id, version, supersedes, phase, city, prefs, started_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.TripID, version, supersedes, string(p.Phase), prefs.City, string(body),
		startedAt, now.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	sess := &model.Session{
		TripID:      p.TripID,
		Phase:       p.Phase,
		Preferences: prefs,
		Version:     version,
		UpdatedAt:   now,
	}
	sess.CreatedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	if supersedes != nil {
		sess.Supersedes = *supersedes
	}
	return sess, nil
}

const sessionColumns = `trip_id, version, supersedes, phase, prefs, started_at, created_at`

// GetSession retrieves a trip's latest session, a specific version, or the history.
func (s *SQLiteStore) GetSession(ctx context.Context, p GetSessionParams) ([]model.Session, error) {
	var query string
	var args []interface{}

	if p.History {
		query = `SELECT ` + sessionColumns + `
				 FROM sessions WHERE trip_id = ? AND deleted_at IS NULL
				 ORDER BY version DESC`
		args = []interface{}{p.TripID}
	} else if p.Version > 0 {
		query = `SELECT ` + sessionColumns + `
				 FROM sessions WHERE trip_id = ? AND version = ? AND deleted_at IS NULL
				 LIMIT 1`
		args = []interface{}{p.TripID, p.Version}
	} else {
		query = `SELECT ` + sessionColumns + `
				 FROM sessions WHERE trip_id = ? AND deleted_at IS NULL
				 ORDER BY version DESC LIMIT 1`
		args = []interface{}{p.TripID}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(sessions) == 0 {
		return nil, fmt.Errorf("trip %s: %w", p.TripID, ErrNotFound)
	}
	return sessions, nil
}

// ListSessions returns the latest version of each trip, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context, p ListParams) ([]model.Session, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"s.deleted_at IS NULL"}
	args := []interface{}{}

	if p.Phase != "" {
		where = append(where, "s.phase = ?")
		args = append(args, string(p.Phase))
	}
	if p.City != "" {
		where = append(where, "s.city = ? COLLATE NOCASE")
		args = append(args, p.City)
	}

	query := fmt.Sprintf(`
		SELECT s.trip_id, s.version, s.supersedes, s.phase, s.prefs, s.started_at, s.created_at
		FROM sessions s
		INNER JOIN (
			SELECT trip_id, MAX(version) AS max_ver
			FROM sessions WHERE deleted_at IS NULL
			GROUP BY trip_id
		) latest ON s.trip_id = latest.trip_id AND s.version = latest.max_ver
		WHERE %s
		ORDER BY s.created_at DESC
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// RmTrip soft-deletes every session version of a trip. Hard also removes
// the transcript and itinerary.
func (s *SQLiteStore) RmTrip(ctx context.Context, p RmParams) error {
	if p.Hard {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE trip_id = ?`, p.TripID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("trip %s: %w", p.TripID, ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE trip_id = ?`, p.TripID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM itineraries WHERE trip_id = ?`, p.TripID); err != nil {
			return err
		}
		return tx.Commit()
	}

	now := time.Now().UTC().Format(timeFormat)
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET deleted_at = ? WHERE trip_id = ? AND deleted_at IS NULL`, now, p.TripID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("trip %s: %w", p.TripID, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row scanner) (model.Session, error) {
	var sess model.Session
	var supersedes sql.NullString
	var phase, prefs, startedAt, createdAt string

	err := row.Scan(&sess.TripID, &sess.Version, &supersedes, &phase, &prefs, &startedAt, &createdAt)
	if err != nil {
		return sess, err
	}

	sess.Phase = model.Phase(phase)
	if supersedes.Valid {
		sess.Supersedes = supersedes.String
	}
	if err := json.Unmarshal([]byte(prefs), &sess.Preferences); err != nil {
		return sess, fmt.Errorf("decode preferences of %s v%d: %w", sess.TripID, sess.Version, err)
	}
	sess.CreatedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	sess.UpdatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return sess, nil
}
