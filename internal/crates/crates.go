// Package crates stores named, lockable collections of library tracks.
package crates

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/llehouerou/crateq/internal/db"
)

// Table and column names of the crate schema.
const (
	TableCrates      = "crates"
	TableCrateTracks = "crate_tracks"

	ColumnID           = "id"
	ColumnName         = "name"
	ColumnLocked       = "locked"
	ColumnAutoDJSource = "autodj_source"
	ColumnCrateID      = "crate_id"
	ColumnTrackID      = "track_id"
)

var (
	// ErrNotFound is returned when a crate does not exist.
	ErrNotFound = errors.New("crate not found")
	// ErrLocked is returned when modifying a locked crate.
	ErrLocked = errors.New("crate is locked")
	// ErrEmptyName is returned when a crate name is blank.
	ErrEmptyName = errors.New("crate name is empty")
	// ErrNameTaken is returned when another crate already has the name.
	ErrNameTaken = errors.New("crate name already taken")
)

// Crate is a named collection of tracks.
type Crate struct {
	ID           int64
	Name         string
	Locked       bool
	AutoDJSource bool
}

// Summary is a crate with aggregates over its tracks.
type Summary struct {
	Crate
	TrackCount    int
	TrackDuration float64 // seconds
}

// Storage provides database operations for crates.
type Storage struct {
	db *sql.DB
}

// New creates a new Storage instance.
func New(db *sql.DB) *Storage {
	return &Storage{db: db}
}

type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

const crateColumns = `id, name, locked, autodj_source`

func scanCrate(row interface{ Scan(...any) error }) (*Crate, error) {
	var c Crate
	if err := row.Scan(&c.ID, &c.Name, &c.Locked, &c.AutoDJSource); err != nil {
		return nil, err
	}
	return &c, nil
}

func getCrate(q queryRower, id int64) (*Crate, error) {
	c, err := scanCrate(q.QueryRow(`SELECT `+crateColumns+` FROM crates WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("crate %d: %w", id, ErrNotFound)
	}
	return c, err
}

// unlockedCrate returns the crate if it exists and is not locked.
func unlockedCrate(q queryRower, id int64) (*Crate, error) {
	c, err := getCrate(q, id)
	if err != nil {
		return nil, err
	}
	if c.Locked {
		return nil, fmt.Errorf("crate %q: %w", c.Name, ErrLocked)
	}
	return c, nil
}

// checkName trims name and verifies that no other crate uses it.
func checkName(q queryRower, name string, exceptID int64) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	var id int64
	err := q.QueryRow(`SELECT id FROM crates WHERE name = ?`, name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return name, nil
	case err != nil:
		return "", err
	case id != exceptID:
		return "", fmt.Errorf("crate %q: %w", name, ErrNameTaken)
	}
	return name, nil
}

// Create creates a new unlocked crate and returns its id.
func (s *Storage) Create(name string) (int64, error) {
	var id int64
	err := db.WithTx(s.db, func(tx *sql.Tx) error {
		name, err := checkName(tx, name, 0)
		if err != nil {
			return err
		}
		res, err := tx.Exec(`INSERT INTO crates (name, locked, autodj_source) VALUES (?, 0, 0)`, name)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// Get returns a crate by its id.
func (s *Storage) Get(id int64) (*Crate, error) {
	return getCrate(s.db, id)
}

// GetByName returns a crate by its exact name.
func (s *Storage) GetByName(name string) (*Crate, error) {
	c, err := scanCrate(s.db.QueryRow(`SELECT `+crateColumns+` FROM crates WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("crate %q: %w", name, ErrNotFound)
	}
	return c, err
}

func (s *Storage) queryCrates(query string, args ...any) ([]Crate, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crates []Crate
	for rows.Next() {
		c, err := scanCrate(rows)
		if err != nil {
			return nil, err
		}
		crates = append(crates, *c)
	}
	return crates, rows.Err()
}

// List returns all crates ordered by name.
func (s *Storage) List() ([]Crate, error) {
	return s.queryCrates(`SELECT ` + crateColumns + ` FROM crates ORDER BY name COLLATE latin_low`)
}

// AutoDJCrates returns the crates whose auto-DJ flag equals source.
func (s *Storage) AutoDJCrates(source bool) ([]Crate, error) {
	return s.queryCrates(`
		SELECT `+crateColumns+` FROM crates
		WHERE autodj_source = ?
		ORDER BY name COLLATE latin_low
	`, boolInt(source))
}

// Summaries returns every crate with its track count and total duration,
// ordered by name.
func (s *Storage) Summaries() ([]Summary, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.locked, c.autodj_source,
			COUNT(t.id), COALESCE(SUM(t.duration), 0)
		FROM crates c
		LEFT JOIN crate_tracks ct ON ct.crate_id = c.id
		LEFT JOIN library_tracks t ON t.id = ct.track_id
		GROUP BY c.id
		ORDER BY c.name COLLATE latin_low
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.ID, &sm.Name, &sm.Locked, &sm.AutoDJSource,
			&sm.TrackCount, &sm.TrackDuration); err != nil {
			return nil, err
		}
		summaries = append(summaries, sm)
	}
	return summaries, rows.Err()
}

// Count returns the number of crates.
func (s *Storage) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM crates`).Scan(&count)
	return count, err
}

// Rename renames an unlocked crate.
func (s *Storage) Rename(id int64, name string) error {
	return db.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := unlockedCrate(tx, id); err != nil {
			return err
		}
		name, err := checkName(tx, name, id)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`UPDATE crates SET name = ? WHERE id = ?`, name, id)
		return err
	})
}

// SetLocked locks or unlocks a crate.
func (s *Storage) SetLocked(id int64, locked bool) error {
	return s.setFlag(id, ColumnLocked, locked)
}

// SetAutoDJSource marks a crate as a source of tracks for auto-DJ.
func (s *Storage) SetAutoDJSource(id int64, source bool) error {
	return s.setFlag(id, ColumnAutoDJSource, source)
}

func (s *Storage) setFlag(id int64, column string, value bool) error {
	res, err := s.db.Exec(`UPDATE crates SET `+column+` = ? WHERE id = ?`, boolInt(value), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("crate %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete deletes an unlocked crate and its track memberships.
func (s *Storage) Delete(id int64) error {
	return db.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := unlockedCrate(tx, id); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM crates WHERE id = ?`, id)
		return err
	})
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
