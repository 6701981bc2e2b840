package library

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/llehouerou/crateq/internal/db"
	"github.com/llehouerou/crateq/internal/keys"
	"github.com/llehouerou/crateq/internal/tags"
)

// processFiles reads tags in parallel and upserts the results.
func (l *Library) processFiles(
	filesToProcess []fileInfo,
	fileIsNew map[string]bool,
	stats *ScanStats,
	progress chan<- ScanProgress,
) error {
	total := len(filesToProcess)
	var processed atomic.Int64

	workCh := make(chan fileInfo, total)
	resultCh := make(chan trackResult, total)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for f := range workCh {
				info, err := tags.Read(filepath.FromSlash(f.path))
				resultCh <- trackResult{
					path:   f.path,
					mtime:  f.mtime,
					info:   info,
					source: f.source,
					isNew:  fileIsNew[f.path],
					err:    err,
				}
				processed.Add(1)
			}
		})
	}

	go func() {
		for _, f := range filesToProcess {
			workCh <- f
		}
		close(workCh)
	}()

	// Progress reporter
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case progress <- ScanProgress{
					Phase:   "processing",
					Current: int(processed.Load()),
					Total:   total,
				}:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// Results are written sequentially, SQLite has a single writer.
	var firstErr error
	now := time.Now()
	for result := range resultCh {
		sourceStats := stats.BySource[result.source]
		relPath := relativePath(result.source, result.path)

		if result.err != nil {
			slog.Warn("skipping unreadable file", "path", result.path, "error", result.err)
			if sourceStats != nil {
				sourceStats.Failed = append(sourceStats.Failed, relPath)
			}
			continue
		}
		if firstErr != nil {
			continue
		}
		if err := upsertTrack(l.db, trackFromTag(result.path, result.mtime, result.info, now)); err != nil {
			firstErr = err
			continue
		}

		if sourceStats != nil {
			if result.isNew {
				sourceStats.Added = append(sourceStats.Added, relPath)
			} else {
				sourceStats.Updated = append(sourceStats.Updated, relPath)
			}
		}
	}

	close(done)
	<-stopped
	progress <- ScanProgress{Phase: "processing", Current: total, Total: total}
	return firstErr
}

// trackFromTag builds the library record of a scanned file.
func trackFromTag(path string, mtime int64, info *tags.Tag, added time.Time) *Track {
	return &Track{
		Location:    path,
		Mtime:       mtime,
		Artist:      info.Artist,
		Title:       info.Title,
		Album:       info.Album,
		AlbumArtist: info.AlbumArtist,
		Year:        info.Year,
		DateAdded:   added,
		Genre:       info.Genre,
		Composer:    info.Composer,
		Grouping:    info.Grouping,
		FileType:    info.FileType,
		TrackNumber: info.TrackNumber,
		Comment:     info.Comment,
		BPM:         info.BPM,
		KeyText:     info.Key,
		Key:         keys.Parse(info.Key),
	}
}

// existingTracks returns a map of location->mtime for all tracks in the given sources.
func (l *Library) existingTracks(sources []string) (map[string]int64, error) {
	rows, err := l.db.Query(`SELECT location, mtime FROM library_tracks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tracks := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		for _, src := range sources {
			if strings.HasPrefix(path, filepath.ToSlash(src)) {
				tracks[path] = mtime
				break
			}
		}
	}
	return tracks, rows.Err()
}

// upsertTrack inserts a scanned track or refreshes the tag columns of an
// existing one. Play statistics, rating and date added are kept, and a
// locked BPM is never overwritten.
func upsertTrack(ex executor, t *Track) error {
	_, err := ex.Exec(`
		INSERT INTO library_tracks (location, mtime, artist, title, album, album_artist, year,
			datetime_added, genre, composer, grouping, filetype, tracknumber, comment, bpm, key, key_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(location) DO UPDATE SET
			mtime = excluded.mtime,
			artist = excluded.artist,
			title = excluded.title,
			album = excluded.album,
			album_artist = excluded.album_artist,
			year = excluded.year,
			genre = excluded.genre,
			composer = excluded.composer,
			grouping = excluded.grouping,
			filetype = excluded.filetype,
			tracknumber = excluded.tracknumber,
			comment = excluded.comment,
			bpm = CASE WHEN library_tracks.bpm_lock THEN library_tracks.bpm
				ELSE COALESCE(excluded.bpm, library_tracks.bpm) END,
			key = CASE WHEN excluded.key = '' THEN library_tracks.key ELSE excluded.key END,
			key_id = CASE WHEN excluded.key = '' THEN library_tracks.key_id ELSE excluded.key_id END
	`, t.Location, t.Mtime, t.Artist, t.Title, t.Album, t.AlbumArtist, db.NullIfZero(t.Year),
		db.FormatTime(t.DateAdded), t.Genre, t.Composer, t.Grouping, t.FileType,
		db.NullIfZero(t.TrackNumber), t.Comment, db.NullIfZero(t.BPM), t.KeyText, int(t.Key))
	return err
}

// deleteByLocation removes a track by its path.
func (l *Library) deleteByLocation(location string) error {
	_, err := l.db.Exec(`DELETE FROM library_tracks WHERE location = ?`, location)
	return err
}
