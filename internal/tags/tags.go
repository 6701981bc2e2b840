// Package tags reads the metadata of music files.
package tags

import (
	"path/filepath"
	"strings"
)

// File extensions recognised as music files.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
)

// Tag contains the tag metadata imported into the library.
type Tag struct {
	Path        string
	FileType    string // extension without the dot, e.g. "mp3"
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string
	Composer    string
	Grouping    string
	Comment     string
	Year        string

	TrackNumber int

	// DJ fields, empty or zero when not tagged.
	BPM float64
	Key string
}

// IsMusicFile returns true if the path has a supported music file extension.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3, ExtFLAC, ExtOPUS, ExtOGG, ExtM4A, ExtMP4:
		return true
	default:
		return false
	}
}
