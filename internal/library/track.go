package library

import (
	"time"

	"github.com/llehouerou/crateq/internal/keys"
)

// TableName is the table holding library tracks.
const TableName = "library_tracks"

// Column names of the library_tracks table.
const (
	ColumnID           = "id"
	ColumnLocation     = "location"
	ColumnMtime        = "mtime"
	ColumnArtist       = "artist"
	ColumnTitle        = "title"
	ColumnAlbum        = "album"
	ColumnAlbumArtist  = "album_artist"
	ColumnYear         = "year"
	ColumnDateAdded    = "datetime_added"
	ColumnGenre        = "genre"
	ColumnComposer     = "composer"
	ColumnGrouping     = "grouping"
	ColumnFileType     = "filetype"
	ColumnTrackNumber  = "tracknumber"
	ColumnComment      = "comment"
	ColumnDuration     = "duration"
	ColumnBitrate      = "bitrate"
	ColumnBpm          = "bpm"
	ColumnPlayed       = "played"
	ColumnTimesPlayed  = "timesplayed"
	ColumnLastPlayedAt = "last_played_at"
	ColumnRating       = "rating"
	ColumnKey          = "key"
	ColumnKeyID        = "key_id"
	ColumnBpmLock      = "bpm_lock"
)

// BpmUndefined is the BPM of a track that has not been analysed.
// It is stored as NULL.
const BpmUndefined = 0.0

// Track is a library track.
type Track struct {
	ID           int64
	Location     string
	Mtime        int64
	Artist       string
	Title        string
	Album        string
	AlbumArtist  string
	Year         string // as tagged, e.g. "1994" or "1994-06-01"
	DateAdded    time.Time
	Genre        string
	Composer     string
	Grouping     string
	FileType     string
	TrackNumber  int
	Comment      string
	Duration     float64 // seconds
	Bitrate      int     // kbit/s
	BPM          float64
	Played       bool
	TimesPlayed  int
	LastPlayedAt time.Time
	Rating       int
	KeyText      string
	Key          keys.ChromaticKey
	BPMLocked    bool
}

// HasBpm reports whether the track has a known BPM.
func (t *Track) HasBpm() bool {
	return t.BPM != BpmUndefined
}
