package crates

import (
	"fmt"

	"github.com/llehouerou/crateq/internal/db"
)

// TrackIDsSortedByCrateNameLike returns the ids of the tracks contained in
// any crate whose name matches the LIKE pattern, sorted ascending.
func (s *Storage) TrackIDsSortedByCrateNameLike(pattern string) ([]int64, error) {
	ids, err := s.queryIDs(`
		SELECT DISTINCT track_id FROM crate_tracks
		WHERE crate_id IN (SELECT id FROM crates WHERE name LIKE ?)
		ORDER BY track_id
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("select tracks of crates like %q: %w", pattern, err)
	}
	return ids, nil
}

// TrackIDsSortedInAnyCrate returns the ids of the tracks contained in at
// least one crate, sorted ascending.
func (s *Storage) TrackIDsSortedInAnyCrate() ([]int64, error) {
	ids, err := s.queryIDs(`SELECT DISTINCT track_id FROM crate_tracks ORDER BY track_id`)
	if err != nil {
		return nil, fmt.Errorf("select tracks in crates: %w", err)
	}
	return ids, nil
}

// FormatSubselectForTrackIDsByCrateNameLike returns a sub-SELECT of the
// track ids returned by TrackIDsSortedByCrateNameLike.
func (s *Storage) FormatSubselectForTrackIDsByCrateNameLike(pattern string) string {
	return "SELECT " + ColumnTrackID + " FROM " + TableCrateTracks +
		" WHERE " + ColumnCrateID + " IN (SELECT " + ColumnID + " FROM " + TableCrates +
		" WHERE " + ColumnName + " LIKE " + db.QuoteString(pattern) + ")"
}

// FormatSubselectForTrackIDsInAnyCrate returns a sub-SELECT of the track
// ids returned by TrackIDsSortedInAnyCrate.
func (s *Storage) FormatSubselectForTrackIDsInAnyCrate() string {
	return "SELECT DISTINCT " + ColumnTrackID + " FROM " + TableCrateTracks
}
