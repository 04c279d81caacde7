package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/trip-planner/internal/model"
	"github.com/rcliao/trip-planner/internal/store"
)

type countingCatalog struct {
	calls atomic.Int32
	inner Catalog
}

func (c *countingCatalog) Lookup(ctx context.Context, city string, categories []string) ([]model.Venue, error) {
	c.calls.Add(1)
	return c.inner.Lookup(ctx, city, categories)
}

type failingCatalog struct{ err error }

func (f failingCatalog) Lookup(context.Context, string, []string) ([]model.Venue, error) {
	return nil, f.err
}

type slowCatalog struct{}

func (slowCatalog) Lookup(ctx context.Context, _ string, _ []string) ([]model.Venue, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestStaticLookup(t *testing.T) {
	c := Fallback()
	ctx := context.Background()

	museums, err := c.Lookup(ctx, "toronto", []string{"Museum"})
	require.NoError(t, err)
	assert.Len(t, museums, 4)
	for _, v := range museums {
		assert.Equal(t, "museum", v.Category)
	}

	all, err := c.Lookup(ctx, "Toronto", nil)
	require.NoError(t, err)
	assert.Len(t, all, 15)

	none, err := c.Lookup(ctx, "Paris", nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFallbackVenuesAreCitable(t *testing.T) {
	seen := map[string]bool{}
	for _, v := range TorontoVenues() {
		assert.NotEmpty(t, v.SourceURL, v.ID)
		assert.False(t, seen[v.ID], "duplicate %s", v.ID)
		seen[v.ID] = true
	}
}

func TestMatches(t *testing.T) {
	v := model.Venue{ID: "cn_tower", Name: "CN Tower"}
	assert.True(t, Matches(v, "cn_tower"))
	assert.True(t, Matches(v, "cn tower"))
	assert.True(t, Matches(model.Venue{Name: "Royal Ontario Museum"}, "ontario museum"))
	assert.False(t, Matches(v, "CN"))
	assert.False(t, Matches(v, ""))
}

func TestAlternatives(t *testing.T) {
	ctx := context.Background()
	c := Fallback()
	snapshot, _ := c.Lookup(ctx, "Toronto", []string{"sport"})

	alts := Alternatives(ctx, c, snapshot, "Toronto", "Rogers Centre ballpark", []string{"sport"}, 3)
	require.NotEmpty(t, alts)
	assert.Equal(t, "hockey_hall_of_fame", alts[0].ID, "same category first")
	assert.LessOrEqual(t, len(alts), 3)

	alts = Alternatives(ctx, c, nil, "Toronto", "Ontario Gallery", nil, 3)
	require.NotEmpty(t, alts, "keyword search finds Ontario venues")
	for _, v := range alts {
		assert.Contains(t, v.Name, "Ontario")
	}
}

func TestCachedLookup(t *testing.T) {
	inner := &countingCatalog{inner: Fallback()}
	c := NewCached(inner, time.Minute, nil)
	ctx := context.Background()

	first, err := c.Lookup(ctx, "Toronto", []string{"park", "museum"})
	require.NoError(t, err)
	second, err := c.Lookup(ctx, "TORONTO", []string{"museum", "park"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), inner.calls.Load(), "second lookup served from cache")

	c.Flush()
	_, _ = c.Lookup(ctx, "Toronto", []string{"park", "museum"})
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	inner := &countingCatalog{inner: failingCatalog{err: errors.New("db down")}}
	c := NewCached(inner, time.Minute, nil)

	_, err := c.Lookup(context.Background(), "Toronto", nil)
	require.Error(t, err)
	_, _ = c.Lookup(context.Background(), "Toronto", nil)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestResilientFallsBackOnError(t *testing.T) {
	r := NewResilient(failingCatalog{err: errors.New("connection refused")}, Fallback(), time.Second, nil)

	venues, err := r.Lookup(context.Background(), "Toronto", []string{"park"})
	require.NoError(t, err, "unavailability never escapes")
	assert.Len(t, venues, 2)
}

func TestResilientTimeout(t *testing.T) {
	r := NewResilient(slowCatalog{}, Fallback(), 20*time.Millisecond, nil)

	start := time.Now()
	venues, err := r.Lookup(context.Background(), "Toronto", []string{"food"})
	require.NoError(t, err)
	assert.Len(t, venues, 2)
	assert.Less(t, time.Since(start), time.Second)
}

func TestResilientFallsBackWhenPrimaryEmpty(t *testing.T) {
	r := NewResilient(NewStatic(nil), Fallback(), time.Second, nil)
	venues, err := r.Lookup(context.Background(), "Toronto", nil)
	require.NoError(t, err)
	assert.Len(t, venues, 15)
}

func TestResilientWithoutFallback(t *testing.T) {
	r := NewResilient(failingCatalog{err: ErrUnavailable}, nil, time.Second, nil)
	venues, err := r.Lookup(context.Background(), "Toronto", nil)
	require.NoError(t, err)
	assert.Empty(t, venues)
}

func TestSQLCatalog(t *testing.T) {
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	_, err = s.ImportVenues(ctx, TorontoVenues())
	require.NoError(t, err)

	c := NewSQL(s, 0)
	parks, err := c.Lookup(ctx, "Toronto", []string{"park"})
	require.NoError(t, err)
	assert.Len(t, parks, 2)

	hits, err := c.Search(ctx, "Toronto", "castle", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "casa_loma", hits[0].ID)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "venues.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
venues:
  - venue_id: cn_tower
    name: CN Tower
    city: Toronto
    category: tourism
    source_url: https://www.cntower.ca
    cost: 45
`), 0o644))
	venues, err := LoadFile(yamlPath)
	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, 45.0, venues[0].Cost)

	jsonPath := filepath.Join(dir, "venues.json")
	require.NoError(t, os.WriteFile(jsonPath,
		[]byte(`[{"venue_id":"ago","name":"AGO","city":"Toronto","category":"museum","source_url":"https://ago.ca"}]`), 0o644))
	venues, err = LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "ago", venues[0].ID)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"venue_id":"x","name":"X"}]`), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err, "source_url is required")

	_, err = LoadFile(filepath.Join(dir, "venues.csv"))
	assert.Error(t, err)
}

func TestMarshalYAMLRoundTrip(t *testing.T) {
	b, err := MarshalYAML(TorontoVenues()[:2])
	require.NoError(t, err)
	venues, err := ParseYAML(b)
	require.NoError(t, err)
	assert.Len(t, venues, 2)
	assert.Equal(t, "cn_tower", venues[0].ID)
}
