package searchquery

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/crateq/internal/library"
)

// memoryCrateStore serves fixed crate memberships and counts lookups.
type memoryCrateStore struct {
	mu      sync.Mutex
	byName  map[string][]int64
	inAny   []int64
	err     error
	lookups int
}

func (s *memoryCrateStore) TrackIDsSortedByCrateNameLike(pattern string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	return s.byName[pattern], nil
}

func (s *memoryCrateStore) TrackIDsSortedInAnyCrate() ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	return s.inAny, nil
}

func (s *memoryCrateStore) FormatSubselectForTrackIDsByCrateNameLike(pattern string) string {
	return "SELECT track_id FROM crate_tracks WHERE crate_id IN (SELECT id FROM crates WHERE name LIKE '" + pattern + "')"
}

func (s *memoryCrateStore) FormatSubselectForTrackIDsInAnyCrate() string {
	return "SELECT DISTINCT track_id FROM crate_tracks"
}

func TestCrateFilter(t *testing.T) {
	store := &memoryCrateStore{byName: map[string][]int64{"%Hi%NRG%": {1, 4, 9}}}
	f := NewCrateFilter(store, "%Hi%NRG%")

	assert.Equal(t,
		"id IN (SELECT track_id FROM crate_tracks WHERE crate_id IN (SELECT id FROM crates WHERE name LIKE '%Hi%NRG%'))",
		f.ToSQL())
	assert.Zero(t, store.lookups, "ToSQL does not load membership")

	assert.True(t, f.Match(&library.Track{ID: 4}))
	assert.True(t, f.Match(&library.Track{ID: 9}))
	assert.False(t, f.Match(&library.Track{ID: 5}))
	assert.Equal(t, 1, store.lookups)

	// Later changes are not observed.
	store.byName["%Hi%NRG%"] = []int64{5}
	assert.False(t, f.Match(&library.Track{ID: 5}))
	assert.Equal(t, 1, store.lookups)
}

func TestCrateFilter_UnsortedIDs(t *testing.T) {
	store := &memoryCrateStore{byName: map[string][]int64{"x": {9, 1, 4}}}
	f := NewCrateFilter(store, "x")
	assert.True(t, f.Match(&library.Track{ID: 1}))
	assert.True(t, f.Match(&library.Track{ID: 9}))
	assert.False(t, f.Match(&library.Track{ID: 5}))
	assert.Equal(t, []int64{9, 1, 4}, store.byName["x"], "store slice left untouched")
}

func TestNoCrateFilter(t *testing.T) {
	store := &memoryCrateStore{inAny: []int64{2, 3}}
	f := NewNoCrateFilter(store)

	assert.Equal(t, "id NOT IN (SELECT DISTINCT track_id FROM crate_tracks)", f.ToSQL())
	require.NoError(t, f.Preload())
	assert.Equal(t, 1, store.lookups)

	assert.True(t, f.Match(&library.Track{ID: 1}))
	assert.False(t, f.Match(&library.Track{ID: 2}))
	assert.False(t, f.Match(&library.Track{ID: 3}))
	assert.Equal(t, 1, store.lookups)
}

func TestCrateFilter_LoadError(t *testing.T) {
	boom := errors.New("database is closed")
	store := &memoryCrateStore{err: boom}

	f := NewCrateFilter(store, "%")
	require.ErrorIs(t, f.Preload(), boom)
	assert.False(t, f.Match(&library.Track{ID: 1}))
	require.ErrorIs(t, f.Preload(), boom)
	assert.Equal(t, 1, store.lookups)

	// With no membership known, every track is outside of all crates.
	nf := NewNoCrateFilter(store)
	assert.True(t, nf.Match(&library.Track{ID: 1}))
}

func TestCrateFilter_ConcurrentMatch(t *testing.T) {
	store := &memoryCrateStore{byName: map[string][]int64{"x": {1, 2, 3}}}
	f := NewCrateFilter(store, "x")

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			assert.Equal(t, id >= 1 && id <= 3, f.Match(&library.Track{ID: id}))
		}(int64(i))
	}
	wg.Wait()
	assert.Equal(t, 1, store.lookups)
}
