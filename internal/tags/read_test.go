package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/llehouerou/crateq/internal/tags/tagtest"
)

func TestIsMusicFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/music/a.mp3", true},
		{"/music/a.FLAC", true},
		{"/music/a.opus", true},
		{"/music/a.m4a", true},
		{"/music/cover.jpg", false},
		{"/music/noext", false},
	}
	for _, tt := range tests {
		if got := IsMusicFile(tt.path); got != tt.want {
			t.Errorf("IsMusicFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestRead_MP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	tagtest.WriteMP3(t, path, map[string]string{
		"TIT2": "Lovely Day",
		"TPE1": "Bill Withers",
		"TALB": "Menagerie",
		"TYER": "1977",
		"TRCK": "3/9",
		"TCON": "Soul",
		"TCOM": "Bill Withers",
		"TIT1": "Classics",
		"TBPM": "98,5",
		"TKEY": "Am",
	})

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.Title != "Lovely Day" {
		t.Errorf("Title = %q, want %q", got.Title, "Lovely Day")
	}
	if got.Artist != "Bill Withers" {
		t.Errorf("Artist = %q", got.Artist)
	}
	if got.AlbumArtist != "Bill Withers" {
		t.Errorf("AlbumArtist = %q, want artist fallback", got.AlbumArtist)
	}
	if got.Album != "Menagerie" {
		t.Errorf("Album = %q", got.Album)
	}
	if got.Year != "1977" {
		t.Errorf("Year = %q, want 1977", got.Year)
	}
	if got.TrackNumber != 3 {
		t.Errorf("TrackNumber = %d, want 3", got.TrackNumber)
	}
	if got.Genre != "Soul" || got.Composer != "Bill Withers" || got.Grouping != "Classics" {
		t.Errorf("Genre/Composer/Grouping = %q/%q/%q", got.Genre, got.Composer, got.Grouping)
	}
	if got.BPM != 98.5 {
		t.Errorf("BPM = %v, want 98.5", got.BPM)
	}
	if got.Key != "Am" {
		t.Errorf("Key = %q, want Am", got.Key)
	}
	if got.FileType != "mp3" {
		t.Errorf("FileType = %q, want mp3", got.FileType)
	}
}

func TestRead_TitleFallsBackToFilename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untitled song.mp3")
	tagtest.WriteMP3(t, path, map[string]string{"TPE1": "Someone"})

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Title != "untitled song" {
		t.Errorf("Title = %q, want filename without extension", got.Title)
	}
	if got.BPM != 0 {
		t.Errorf("BPM = %v, want 0 when untagged", got.BPM)
	}
}

func TestRead_NotAMusicFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.mp3")
	if err := os.WriteFile(path, []byte("not audio at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("Read should fail on a file without tags")
	}
}

func TestParseBpm(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"128", 128},
		{"124.92", 124.92},
		{"98,5", 98.5},
		{"", 0},
		{"fast", 0},
		{"-5", 0},
	}
	for _, tt := range tests {
		if got := parseBpm(tt.in); got != tt.want {
			t.Errorf("parseBpm(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
