package library

import (
	"strings"

	"github.com/llehouerou/crateq/internal/tags"
)

const numWorkers = 8

// ScanProgress reports the progress of a library scan.
type ScanProgress struct {
	Phase       string // "scanning", "processing", "cleaning", "done"
	Current     int
	Total       int
	CurrentFile string
	Stats       *ScanStats // Only populated when Phase == "done"
}

// ScanStats holds statistics for a completed scan.
type ScanStats struct {
	BySource map[string]*SourceStats // keyed by source path
}

// SourceStats holds per-source scan statistics.
type SourceStats struct {
	Added   []string // relative paths of added tracks
	Removed []string // relative paths of removed tracks
	Updated []string // relative paths of updated tracks (mtime changed)
	Failed  []string // relative paths of files whose tags could not be read
}

// Totals returns the number of added, updated and removed tracks over all
// sources.
func (s *ScanStats) Totals() (added, updated, removed int) {
	for _, src := range s.BySource {
		added += len(src.Added)
		updated += len(src.Updated)
		removed += len(src.Removed)
	}
	return added, updated, removed
}

// fileInfo holds information about a discovered music file.
type fileInfo struct {
	path   string
	mtime  int64
	source string // source path this file belongs to
}

// trackResult holds the result of processing a music file.
type trackResult struct {
	path   string
	mtime  int64
	info   *tags.Tag
	source string
	isNew  bool
	err    error
}

// Scan performs an incremental scan of the given source directories:
// new and modified files are imported, files that disappeared are removed
// along with their crate memberships. progress is closed on return.
func (l *Library) Scan(sources []string, progress chan<- ScanProgress) error {
	return l.scan(sources, progress, false)
}

// FullScan rescans all files, ignoring modification times.
func (l *Library) FullScan(sources []string, progress chan<- ScanProgress) error {
	return l.scan(sources, progress, true)
}

func (l *Library) scan(sources []string, progress chan<- ScanProgress, forceRescan bool) error {
	defer close(progress)

	stats := &ScanStats{
		BySource: make(map[string]*SourceStats),
	}
	for _, src := range sources {
		stats.BySource[src] = &SourceStats{}
	}

	// Phase 1: Scan directories for music files
	progress <- ScanProgress{Phase: "scanning", Current: 0, Total: 0}
	found := discoverFiles(sources, progress)

	// Phase 2: Get existing tracks from DB (only from sources being scanned)
	existingTracks, err := l.existingTracks(sources)
	if err != nil {
		return err
	}

	filesToProcess := make([]fileInfo, 0, len(found.files))
	fileIsNew := make(map[string]bool)
	for _, f := range found.files {
		if !forceRescan {
			if existing, ok := existingTracks[f.path]; ok && existing == f.mtime {
				continue // unchanged, skip
			}
		}
		_, existed := existingTracks[f.path]
		fileIsNew[f.path] = !existed
		filesToProcess = append(filesToProcess, f)
	}

	// Phase 3: Process new/modified files in parallel
	if len(filesToProcess) > 0 {
		if err := l.processFiles(filesToProcess, fileIsNew, stats, progress); err != nil {
			return err
		}
	}

	// Phase 4: Clean up deleted files
	progress <- ScanProgress{Phase: "cleaning", Current: 0, Total: 0}

	for path := range existingTracks {
		if _, exists := found.sourceOf[path]; exists {
			continue
		}
		if err := l.deleteByLocation(path); err != nil {
			return err
		}
		for src := range stats.BySource {
			if strings.HasPrefix(path, src) {
				relPath := relativePath(src, path)
				stats.BySource[src].Removed = append(stats.BySource[src].Removed, relPath)
				break
			}
		}
	}

	progress <- ScanProgress{Phase: "done", Current: len(found.files), Total: len(found.files), Stats: stats}
	return nil
}
