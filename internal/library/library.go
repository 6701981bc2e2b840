// Package library stores tracks in SQLite and imports them from music
// folders.
package library

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/llehouerou/crateq/internal/db"
	"github.com/llehouerou/crateq/internal/keys"
)

// ErrNotFound is returned when a track does not exist.
var ErrNotFound = errors.New("track not found")

// Predicate is a search expression that lowers to a WHERE clause.
// An empty clause selects every track.
type Predicate interface {
	ToSQL() string
}

// executor is implemented by both *sql.DB and *sql.Tx.
type executor interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

type Library struct {
	db *sql.DB
}

func New(db *sql.DB) *Library {
	return &Library{db: db}
}

// trackColumns is the column list read by scanTrack, in order.
var trackColumns = strings.Join([]string{
	ColumnID, ColumnLocation, ColumnMtime, ColumnArtist, ColumnTitle, ColumnAlbum,
	ColumnAlbumArtist, ColumnYear, ColumnDateAdded, ColumnGenre, ColumnComposer,
	ColumnGrouping, ColumnFileType, ColumnTrackNumber, ColumnComment, ColumnDuration,
	ColumnBitrate, ColumnBpm, ColumnPlayed, ColumnTimesPlayed, ColumnLastPlayedAt,
	ColumnRating, ColumnKey, ColumnKeyID, ColumnBpmLock,
}, ", ")

type scanner interface {
	Scan(dest ...any) error
}

func scanTrack(s scanner) (*Track, error) {
	var t Track
	var year, dateAdded, lastPlayed sql.NullString
	var trackNum sql.NullInt64
	var bpm sql.NullFloat64
	var keyID int

	err := s.Scan(&t.ID, &t.Location, &t.Mtime, &t.Artist, &t.Title, &t.Album,
		&t.AlbumArtist, &year, &dateAdded, &t.Genre, &t.Composer,
		&t.Grouping, &t.FileType, &trackNum, &t.Comment, &t.Duration,
		&t.Bitrate, &bpm, &t.Played, &t.TimesPlayed, &lastPlayed,
		&t.Rating, &t.KeyText, &keyID, &t.BPMLocked)
	if err != nil {
		return nil, err
	}
	t.Year = db.NullStringValue(year)
	t.DateAdded = db.NullTimeValue(dateAdded)
	t.TrackNumber = int(db.NullInt64Value(trackNum))
	t.BPM = db.NullFloat64Value(bpm)
	t.LastPlayedAt = db.NullTimeValue(lastPlayed)
	t.Key = keys.ChromaticKey(keyID)
	return &t, nil
}

// trackArgs returns the values of every column but id, in trackColumns order.
func trackArgs(t *Track) []any {
	return []any{
		t.Location, t.Mtime, t.Artist, t.Title, t.Album,
		t.AlbumArtist, db.NullIfZero(t.Year), db.FormatTime(t.DateAdded), t.Genre, t.Composer,
		t.Grouping, t.FileType, db.NullIfZero(t.TrackNumber), t.Comment, t.Duration,
		t.Bitrate, db.NullIfZero(t.BPM), boolInt(t.Played), t.TimesPlayed, db.FormatTime(t.LastPlayedAt),
		t.Rating, t.KeyText, int(t.Key), boolInt(t.BPMLocked),
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func queryTracks(ex *sql.DB, query string, args ...any) ([]Track, error) {
	rows, err := ex.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *t)
	}
	return tracks, rows.Err()
}

// Add inserts a track and returns its id.
func (l *Library) Add(t *Track) (int64, error) {
	return addTrack(l.db, t)
}

func addTrack(ex executor, t *Track) (int64, error) {
	if t.Location == "" {
		return 0, errors.New("track location is empty")
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(trackArgs(t))), ", ")
	res, err := ex.Exec(`
		INSERT INTO library_tracks (`+strings.TrimPrefix(trackColumns, ColumnID+", ")+`)
		VALUES (`+placeholders+`)
	`, trackArgs(t)...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", t.Location, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	t.ID = id
	return id, nil
}

// Update writes every column of an existing track.
func (l *Library) Update(t *Track) error {
	cols := strings.Split(strings.TrimPrefix(trackColumns, ColumnID+", "), ", ")
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	args := append(trackArgs(t), t.ID)
	res, err := l.db.Exec(`UPDATE library_tracks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update track %d: %w", t.ID, ErrNotFound)
	}
	return nil
}

// Get returns a track by its id.
func (l *Library) Get(id int64) (*Track, error) {
	t, err := scanTrack(l.db.QueryRow(`SELECT `+trackColumns+` FROM library_tracks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("track %d: %w", id, ErrNotFound)
	}
	return t, err
}

// GetByLocation returns a track by its file path.
func (l *Library) GetByLocation(location string) (*Track, error) {
	t, err := scanTrack(l.db.QueryRow(`SELECT `+trackColumns+` FROM library_tracks WHERE location = ?`, location))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("track %s: %w", location, ErrNotFound)
	}
	return t, err
}

// All returns every track ordered by artist and title.
func (l *Library) All() ([]Track, error) {
	return l.Query(nil)
}

// Query returns the tracks selected by p, ordered by artist and title.
// A nil predicate or one with an empty clause selects every track.
func (l *Library) Query(p Predicate) ([]Track, error) {
	query := `SELECT ` + trackColumns + ` FROM library_tracks`
	if p != nil {
		if where := p.ToSQL(); where != "" {
			query += ` WHERE ` + where
		}
	}
	query += ` ORDER BY artist COLLATE latin_low, title COLLATE latin_low, id`

	slog.Debug("library query", "sql", query)
	tracks, err := queryTracks(l.db, query)
	if err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	return tracks, nil
}

// Delete removes a track; crate memberships go with it.
func (l *Library) Delete(id int64) error {
	res, err := l.db.Exec(`DELETE FROM library_tracks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete track %d: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of tracks in the library.
func (l *Library) Count() (int, error) {
	var count int
	err := l.db.QueryRow(`SELECT COUNT(*) FROM library_tracks`).Scan(&count)
	return count, err
}
