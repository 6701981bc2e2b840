package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// Raw frame names, per tag format, of the fields dhowden/tag does not expose.
var (
	bpmKeys      = []string{"TBPM", "TBP", "bpm", "tempo", "BPM"}
	keyKeys      = []string{"TKEY", "TKE", "initialkey", "key", "INITIALKEY"}
	groupingKeys = []string{"TIT1", "TT1", "grouping", "contentgroup"}
)

// Read reads tag metadata from a music file.
func Read(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read tags of %s: %w", path, err)
	}

	title := m.Title()
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	track, _ := m.Track()

	albumArtist := m.AlbumArtist()
	if albumArtist == "" {
		albumArtist = m.Artist()
	}

	raw := m.Raw()
	t := &Tag{
		Path:        path,
		FileType:    strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Title:       title,
		Artist:      m.Artist(),
		AlbumArtist: albumArtist,
		Album:       m.Album(),
		Genre:       m.Genre(),
		Composer:    m.Composer(),
		Grouping:    rawString(raw, groupingKeys...),
		Comment:     m.Comment(),
		Year:        yearString(m.Year()),
		TrackNumber: track,
		BPM:         parseBpm(rawString(raw, bpmKeys...)),
		Key:         rawString(raw, keyKeys...),
	}
	return t, nil
}

// rawString returns the first non-empty raw value among names as text.
func rawString(raw map[string]any, names ...string) string {
	for _, name := range names {
		v, ok := raw[name]
		if !ok {
			continue
		}
		var s string
		switch v := v.(type) {
		case string:
			s = v
		case int:
			s = strconv.Itoa(v)
		case fmt.Stringer:
			s = v.String()
		default:
			continue
		}
		if s = strings.TrimSpace(strings.Trim(s, "\x00")); s != "" {
			return s
		}
	}
	return ""
}

// parseBpm parses a BPM tag, accepting a decimal comma.
// Returns 0 if the tag is empty, invalid or not positive.
func parseBpm(s string) float64 {
	if s == "" {
		return 0
	}
	bpm, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || bpm <= 0 {
		return 0
	}
	return bpm
}

// yearString converts a year integer to a string.
// Returns empty string for year 0.
func yearString(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
