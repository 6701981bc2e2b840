package searchquery

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/llehouerou/crateq/internal/db"
	"github.com/llehouerou/crateq/internal/library"
)

// trackValue returns the value of a track column. ok is false for unknown
// columns and for values stored as NULL.
func trackValue(t *library.Track, column string) (v any, ok bool) {
	switch column {
	case library.ColumnArtist:
		return t.Artist, true
	case library.ColumnTitle:
		return t.Title, true
	case library.ColumnAlbum:
		return t.Album, true
	case library.ColumnAlbumArtist:
		return t.AlbumArtist, true
	case library.ColumnYear:
		// Only the leading year of dates like "1994-06-01".
		if t.Year == "" {
			return nil, false
		}
		runes := []rune(t.Year)
		return string(runes[:min(4, len(runes))]), true
	case library.ColumnDateAdded:
		return timeValue(t.DateAdded)
	case library.ColumnGenre:
		return t.Genre, true
	case library.ColumnComposer:
		return t.Composer, true
	case library.ColumnGrouping:
		return t.Grouping, true
	case library.ColumnFileType:
		return t.FileType, true
	case library.ColumnTrackNumber:
		if t.TrackNumber == 0 {
			return nil, false
		}
		return t.TrackNumber, true
	case library.ColumnLocation:
		return filepath.FromSlash(t.Location), true
	case library.ColumnComment:
		return t.Comment, true
	case library.ColumnDuration:
		return t.Duration, true
	case library.ColumnBitrate:
		return t.Bitrate, true
	case library.ColumnBpm:
		if !t.HasBpm() {
			return nil, false
		}
		return t.BPM, true
	case library.ColumnPlayed:
		return t.Played, true
	case library.ColumnTimesPlayed:
		return t.TimesPlayed, true
	case library.ColumnLastPlayedAt:
		return timeValue(t.LastPlayedAt)
	case library.ColumnRating:
		return t.Rating, true
	case library.ColumnKey:
		return t.KeyText, true
	case library.ColumnKeyID:
		return int(t.Key), true
	case library.ColumnBpmLock:
		return t.BPMLocked, true
	}
	return nil, false
}

func timeValue(t time.Time) (any, bool) {
	if t.IsZero() {
		return nil, false
	}
	return t, true
}

// asString converts a column value to the text SQLite holds for it.
func asString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case float64:
		return formatNumber(v), true
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	case time.Time:
		return v.UTC().Format(db.TimeLayout), true
	}
	return "", false
}

// asFloat converts a column value to a number. Times are not numeric.
func asFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		return parseNumber(v)
	}
	return 0, false
}

// formatNumber formats v so that SQLite parses back the same float64.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseNumber parses a decimal number, ignoring surrounding spaces.
// Hexadecimal floats are not numbers here.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "xXpP") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
