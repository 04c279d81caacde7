package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/trip-planner/internal/model"
)

func seedVenues(t *testing.T, s *SQLiteStore) {
	t.Helper()
	venues := []model.Venue{
		{ID: "rom", Name: "Royal Ontario Museum", City: "Toronto", Category: "Museum", SourceURL: "https://www.rom.on.ca", Description: "Art, culture and natural history"},
		{ID: "ago", Name: "Art Gallery of Ontario", City: "Toronto", Category: "museum", SourceURL: "https://ago.ca"},
		{ID: "high_park", Name: "High Park", City: "Toronto", Category: "park", SourceURL: "https://www.highparktoronto.com"},
		{ID: "mont_royal", Name: "Mount Royal Park", City: "Montreal", Category: "park", SourceURL: "https://www.lemontroyal.qc.ca"},
	}
	n, err := s.ImportVenues(context.Background(), venues)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(venues) {
		t.Fatalf("expected %d imported, got %d", len(venues), n)
	}
}

func TestSearchVenues_Basic(t *testing.T) {
	s := newTestStore(t)
	seedVenues(t, s)
	ctx := context.Background()

	// Search by name
	results, err := s.SearchVenues(ctx, SearchParams{Query: "park"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Search with city filter
	results, err = s.SearchVenues(ctx, SearchParams{City: "toronto", Query: "park"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "high_park" {
		t.Fatalf("expected high_park, got %+v", results)
	}

	// Search by description
	results, _ = s.SearchVenues(ctx, SearchParams{Query: "natural history"})
	if len(results) != 1 || results[0].ID != "rom" {
		t.Fatalf("expected rom, got %+v", results)
	}

	// No results
	results, _ = s.SearchVenues(ctx, SearchParams{Query: "aquarium"})
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestListVenuesByCategory(t *testing.T) {
	s := newTestStore(t)
	seedVenues(t, s)
	ctx := context.Background()

	museums, err := s.ListVenues(ctx, ListVenuesParams{City: "Toronto", Categories: []string{"museum"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(museums) != 2 {
		t.Fatalf("expected 2 museums (category stored lowercase), got %d", len(museums))
	}
	if museums[0].ID != "ago" {
		t.Errorf("expected name order, got %s first", museums[0].ID)
	}

	all, _ := s.ListVenues(ctx, ListVenuesParams{City: "Toronto"})
	if len(all) != 3 {
		t.Fatalf("expected 3 Toronto venues, got %d", len(all))
	}
}

func TestPutVenueUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v := model.Venue{ID: "cn_tower", Name: "CN Tower", City: "Toronto", Category: "tourism", SourceURL: "https://www.cntower.ca", Cost: 40}
	if _, err := s.PutVenue(ctx, v); err != nil {
		t.Fatal(err)
	}
	v.Cost = 45
	if _, err := s.PutVenue(ctx, v); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetVenue(ctx, "cn_tower")
	if err != nil {
		t.Fatal(err)
	}
	if got.Cost != 45 {
		t.Errorf("expected updated cost 45, got %v", got.Cost)
	}
	if n, _ := s.CountVenues(ctx); n != 1 {
		t.Errorf("expected 1 venue, got %d", n)
	}
}

func TestPutVenueValidates(t *testing.T) {
	s := newTestStore(t)
	_, err := s.PutVenue(context.Background(), model.Venue{ID: "x", Name: "X", City: "Toronto", Category: "park"})
	if err == nil {
		t.Fatal("expected error without source_url")
	}
}

func TestRmVenue(t *testing.T) {
	s := newTestStore(t)
	seedVenues(t, s)
	ctx := context.Background()

	if err := s.RmVenue(ctx, "rom"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetVenue(ctx, "rom"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.RmVenue(ctx, "rom"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	seedVenues(t, s)
	s.SaveSession(ctx, SaveSessionParams{TripID: "trip_a", Phase: model.PhaseIntake})
	s.SaveSession(ctx, SaveSessionParams{TripID: "trip_a", Phase: model.PhaseConfirmed})
	s.SaveSession(ctx, SaveSessionParams{TripID: "trip_b", Phase: model.PhaseIntake})

	stats, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Trips != 2 {
		t.Fatalf("expected 2 trips, got %d", stats.Trips)
	}
	if stats.SessionVersions != 3 {
		t.Fatalf("expected 3 versions, got %d", stats.SessionVersions)
	}
	if stats.Venues != 4 || len(stats.Cities) != 2 {
		t.Fatalf("expected 4 venues in 2 cities, got %d in %d", stats.Venues, len(stats.Cities))
	}
	if len(stats.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %+v", stats.Phases)
	}
	if stats.DBSizeBytes == 0 {
		t.Fatal("expected non-zero db size")
	}
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	s1, _ := NewSQLiteStore(filepath.Join(dir, "src.db"))
	defer s1.Close()
	ctx := context.Background()

	s1.SaveSession(ctx, SaveSessionParams{TripID: "trip_a", Phase: model.PhaseGreeting})
	s1.SaveSession(ctx, SaveSessionParams{TripID: "trip_a", Phase: model.PhaseIntake,
		Preferences: model.Preferences{City: model.Str("Toronto")}})
	s1.AppendMessage(ctx, model.Message{TripID: "trip_a", Role: "user", Content: "Toronto"})
	s1.SaveItinerary(ctx, model.Itinerary{TripID: "trip_a"}, model.FeasibilityResult{Feasible: true})
	s1.SaveSession(ctx, SaveSessionParams{TripID: "trip_b", Phase: model.PhaseGreeting})

	exported, err := s1.ExportTrips(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(exported) != 2 {
		t.Fatalf("expected 2 exported, got %d", len(exported))
	}
	if exported[0].Sessions[0].Version != 1 {
		t.Errorf("expected oldest version first, got %d", exported[0].Sessions[0].Version)
	}

	s2, _ := NewSQLiteStore(filepath.Join(dir, "dst.db"))
	defer s2.Close()

	n, err := s2.ImportTrips(ctx, exported)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 imported, got %d", n)
	}

	// Verify
	got, _ := s2.GetSession(ctx, GetSessionParams{TripID: "trip_a"})
	if got[0].Version != 2 || *got[0].Preferences.City != "Toronto" {
		t.Fatalf("unexpected imported session: %+v", got[0])
	}
	if _, err := s2.GetItinerary(ctx, "trip_a"); err != nil {
		t.Fatalf("expected itinerary imported: %v", err)
	}

	// Second import skips existing trips
	n, _ = s2.ImportTrips(ctx, exported)
	if n != 0 {
		t.Fatalf("expected 0 on re-import, got %d", n)
	}
}

func TestTripFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := model.Preferences{TripID: "trip_x", City: model.Str("Toronto"), Pace: model.Str("moderate")}

	path, err := WriteTripFile(filepath.Join(dir, "trips"), p)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "trip_x.json" {
		t.Errorf("unexpected file name %s", path)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	tf, err := ReadTripFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if *tf.City != "Toronto" || tf.FileMetadata.SchemaVersion != TripFileSchemaVersion {
		t.Errorf("unexpected trip file: %+v", tf)
	}

	if _, err := WriteTripFile(dir, model.Preferences{}); err == nil {
		t.Error("expected error without trip id")
	}
}
