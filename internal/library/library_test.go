package library

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/llehouerou/crateq/internal/db"
	"github.com/llehouerou/crateq/internal/keys"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wherePredicate string

func (w wherePredicate) ToSQL() string { return string(w) }

func TestAddGet_AllColumns(t *testing.T) {
	lib := New(setupTestDB(t))

	added := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	played := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	in := &Track{
		Location:     "/music/withers/lovely_day.mp3",
		Mtime:        1000,
		Artist:       "Bill Withers",
		Title:        "Lovely Day",
		Album:        "Menagerie",
		AlbumArtist:  "Bill Withers",
		Year:         "1977-10-01",
		DateAdded:    added,
		Genre:        "Soul",
		Composer:     "Bill Withers",
		Grouping:     "Classics",
		FileType:     "mp3",
		TrackNumber:  3,
		Comment:      "sunny",
		Duration:     254.5,
		Bitrate:      320,
		BPM:          98.5,
		Played:       true,
		TimesPlayed:  7,
		LastPlayedAt: played,
		Rating:       4,
		KeyText:      "Am",
		Key:          keys.AMinor,
		BPMLocked:    true,
	}

	id, err := lib.Add(in)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if in.ID != id {
		t.Errorf("Add did not set ID: %d != %d", in.ID, id)
	}

	got, err := lib.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if *got != *in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, *in)
	}
}

func TestAdd_ZeroValuesStoredAsNull(t *testing.T) {
	conn := setupTestDB(t)
	lib := New(conn)

	id, err := lib.Add(&Track{Location: "/music/unknown.mp3"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	var nulls int
	err = conn.QueryRow(`
		SELECT (year IS NULL) + (datetime_added IS NULL) + (tracknumber IS NULL)
			+ (bpm IS NULL) + (last_played_at IS NULL)
		FROM library_tracks WHERE id = ?
	`, id).Scan(&nulls)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if nulls != 5 {
		t.Errorf("expected 5 NULL columns, got %d", nulls)
	}

	got, err := lib.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.HasBpm() {
		t.Errorf("BPM = %v, want undefined", got.BPM)
	}
}

func TestAdd_RequiresLocation(t *testing.T) {
	lib := New(setupTestDB(t))
	if _, err := lib.Add(&Track{Title: "nowhere"}); err == nil {
		t.Error("expected error for empty location")
	}
}

func TestAdd_DuplicateLocation(t *testing.T) {
	lib := New(setupTestDB(t))
	if _, err := lib.Add(&Track{Location: "/a.mp3"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := lib.Add(&Track{Location: "/a.mp3"}); err == nil {
		t.Error("expected error for duplicate location")
	}
}

func TestUpdate(t *testing.T) {
	lib := New(setupTestDB(t))

	tr := &Track{Location: "/a.mp3", Title: "Old", BPM: 120}
	if _, err := lib.Add(tr); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	tr.Title = "New"
	tr.BPM = BpmUndefined
	tr.Rating = 5
	if err := lib.Update(tr); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := lib.Get(tr.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "New" || got.Rating != 5 || got.HasBpm() {
		t.Errorf("unexpected track after update: %+v", got)
	}

	missing := &Track{ID: 999, Location: "/b.mp3"}
	if err := lib.Update(missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) = %v, want ErrNotFound", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	lib := New(setupTestDB(t))

	if _, err := lib.Get(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
	if _, err := lib.GetByLocation("/none.mp3"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByLocation = %v, want ErrNotFound", err)
	}
}

func TestDeleteAndCount(t *testing.T) {
	lib := New(setupTestDB(t))

	for _, loc := range []string{"/a.mp3", "/b.mp3", "/c.mp3"} {
		if _, err := lib.Add(&Track{Location: loc}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	b, err := lib.GetByLocation("/b.mp3")
	if err != nil {
		t.Fatalf("GetByLocation failed: %v", err)
	}
	if err := lib.Delete(b.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := lib.Delete(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}

	count, err := lib.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestQuery(t *testing.T) {
	lib := New(setupTestDB(t))

	for _, tr := range []Track{
		{Location: "/3.mp3", Artist: "Zapp", Title: "Computer Love", BPM: 100},
		{Location: "/1.mp3", Artist: "Émilie Simon", Title: "Flowers", BPM: 128},
		{Location: "/2.mp3", Artist: "abba", Title: "SOS"},
	} {
		if _, err := lib.Add(&tr); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	all, err := lib.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	var artists []string
	for _, tr := range all {
		artists = append(artists, tr.Artist)
	}
	want := []string{"abba", "Émilie Simon", "Zapp"}
	if len(artists) != len(want) {
		t.Fatalf("All = %v, want %v", artists, want)
	}
	for i := range want {
		if artists[i] != want[i] {
			t.Fatalf("All = %v, want %v", artists, want)
		}
	}

	tests := []struct {
		where string
		want  int
	}{
		{"", 3},
		{"bpm IS NULL", 1},
		{"bpm >= 110", 1},
		{"artist LIKE '%emilie%'", 1},
		{"(title LIKE '%love%') OR (title LIKE '%sos%')", 2},
		{"FALSE", 0},
	}
	for _, tt := range tests {
		got, err := lib.Query(wherePredicate(tt.where))
		if err != nil {
			t.Fatalf("Query(%q) failed: %v", tt.where, err)
		}
		if len(got) != tt.want {
			t.Errorf("Query(%q) returned %d tracks, want %d", tt.where, len(got), tt.want)
		}
	}

	if _, err := lib.Query(wherePredicate("no_such_column = 1")); err == nil {
		t.Error("expected error for invalid WHERE clause")
	}
}
