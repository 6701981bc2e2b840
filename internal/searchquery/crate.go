package searchquery

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/llehouerou/crateq/internal/library"
)

// CrateStore looks up crate membership. *crates.Storage implements it.
type CrateStore interface {
	// TrackIDsSortedByCrateNameLike returns the ids of the tracks in any
	// crate whose name matches the LIKE pattern, sorted ascending.
	TrackIDsSortedByCrateNameLike(pattern string) ([]int64, error)
	// TrackIDsSortedInAnyCrate returns the ids of the tracks in at least
	// one crate, sorted ascending.
	TrackIDsSortedInAnyCrate() ([]int64, error)
	FormatSubselectForTrackIDsByCrateNameLike(pattern string) string
	FormatSubselectForTrackIDsInAnyCrate() string
}

// trackIDSet is a set of track ids loaded on first use and never
// refreshed.
type trackIDSet struct {
	once sync.Once
	load func() ([]int64, error)
	ids  []int64
	err  error
}

func (s *trackIDSet) preload() error {
	s.once.Do(func() {
		ids, err := s.load()
		if err != nil {
			slog.Warn("load crate track ids", "error", err)
			s.err = err
			return
		}
		if !slices.IsSorted(ids) {
			// The store may still own ids.
			ids = slices.Sorted(slices.Values(ids))
		}
		s.ids = ids
	})
	return s.err
}

func (s *trackIDSet) contains(id int64) bool {
	_ = s.preload()
	_, found := slices.BinarySearch(s.ids, id)
	return found
}

// CrateFilter matches tracks in any crate whose name matches a LIKE
// pattern. Membership is read from the store once, on first use.
type CrateFilter struct {
	store    CrateStore
	nameLike string
	set      trackIDSet
}

func NewCrateFilter(store CrateStore, nameLike string) *CrateFilter {
	f := &CrateFilter{store: store, nameLike: nameLike}
	f.set.load = func() ([]int64, error) {
		return store.TrackIDsSortedByCrateNameLike(nameLike)
	}
	return f
}

// Preload reads crate membership now instead of on the first Match.
func (f *CrateFilter) Preload() error {
	return f.set.preload()
}

func (f *CrateFilter) Match(t *library.Track) bool {
	return f.set.contains(t.ID)
}

func (f *CrateFilter) ToSQL() string {
	return library.ColumnID + " IN (" + f.store.FormatSubselectForTrackIDsByCrateNameLike(f.nameLike) + ")"
}

// NoCrateFilter matches tracks that are in no crate.
type NoCrateFilter struct {
	store CrateStore
	set   trackIDSet
}

func NewNoCrateFilter(store CrateStore) *NoCrateFilter {
	f := &NoCrateFilter{store: store}
	f.set.load = store.TrackIDsSortedInAnyCrate
	return f
}

// Preload reads crate membership now instead of on the first Match.
func (f *NoCrateFilter) Preload() error {
	return f.set.preload()
}

func (f *NoCrateFilter) Match(t *library.Track) bool {
	return !f.set.contains(t.ID)
}

func (f *NoCrateFilter) ToSQL() string {
	return library.ColumnID + " NOT IN (" + f.store.FormatSubselectForTrackIDsInAnyCrate() + ")"
}
