package crates

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/llehouerou/crateq/internal/db"
)

// AddTracks adds tracks to an unlocked crate. Tracks already in the crate
// are ignored. Returns the number of tracks added.
func (s *Storage) AddTracks(crateID int64, trackIDs []int64) (int, error) {
	var added int
	err := db.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := unlockedCrate(tx, crateID); err != nil {
			return err
		}
		for _, trackID := range trackIDs {
			res, err := tx.Exec(`
				INSERT OR IGNORE INTO crate_tracks (crate_id, track_id) VALUES (?, ?)
			`, crateID, trackID)
			if err != nil {
				return fmt.Errorf("add track %d: %w", trackID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			added += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// RemoveTracks removes tracks from an unlocked crate.
// Returns the number of tracks removed.
func (s *Storage) RemoveTracks(crateID int64, trackIDs []int64) (int, error) {
	var removed int
	err := db.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := unlockedCrate(tx, crateID); err != nil {
			return err
		}
		if len(trackIDs) == 0 {
			return nil
		}
		args := append([]any{crateID}, int64Args(trackIDs)...)
		res, err := tx.Exec(`
			DELETE FROM crate_tracks WHERE crate_id = ? AND track_id IN (`+placeholders(len(trackIDs))+`)
		`, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		removed = int(n)
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// PurgeTracks removes tracks from every crate, locked or not.
func (s *Storage) PurgeTracks(trackIDs []int64) error {
	if len(trackIDs) == 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM crate_tracks WHERE track_id IN (`+placeholders(len(trackIDs))+`)
	`, int64Args(trackIDs)...)
	return err
}

// TrackIDs returns the ids of the tracks in a crate, sorted ascending.
func (s *Storage) TrackIDs(crateID int64) ([]int64, error) {
	return s.queryIDs(`SELECT track_id FROM crate_tracks WHERE crate_id = ? ORDER BY track_id`, crateID)
}

// TrackCount returns the number of tracks in a crate.
func (s *Storage) TrackCount(crateID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM crate_tracks WHERE crate_id = ?`, crateID).Scan(&count)
	return count, err
}

// CrateIDsOfTracks returns the ids of the crates containing any of the
// given tracks, sorted ascending.
func (s *Storage) CrateIDsOfTracks(trackIDs []int64) ([]int64, error) {
	if len(trackIDs) == 0 {
		return nil, nil
	}
	return s.queryIDs(`
		SELECT DISTINCT crate_id FROM crate_tracks
		WHERE track_id IN (`+placeholders(len(trackIDs))+`)
		ORDER BY crate_id
	`, int64Args(trackIDs)...)
}

func (s *Storage) queryIDs(query string, args ...any) ([]int64, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
