package db

import (
	"database/sql"
)

const currentSchemaVersion = 1

// InitSchema creates the library and crate tables if they do not exist.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS library_tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			location TEXT NOT NULL UNIQUE,
			mtime INTEGER NOT NULL DEFAULT 0,
			artist TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			album TEXT NOT NULL DEFAULT '',
			album_artist TEXT NOT NULL DEFAULT '',
			year TEXT,
			datetime_added TEXT,
			genre TEXT NOT NULL DEFAULT '',
			composer TEXT NOT NULL DEFAULT '',
			grouping TEXT NOT NULL DEFAULT '',
			filetype TEXT NOT NULL DEFAULT '',
			tracknumber INTEGER,
			comment TEXT NOT NULL DEFAULT '',
			duration REAL NOT NULL DEFAULT 0,
			bitrate INTEGER NOT NULL DEFAULT 0,
			bpm REAL,
			played INTEGER NOT NULL DEFAULT 0,
			timesplayed INTEGER NOT NULL DEFAULT 0,
			last_played_at TEXT,
			rating INTEGER NOT NULL DEFAULT 0,
			key TEXT NOT NULL DEFAULT '',
			key_id INTEGER NOT NULL DEFAULT 0,
			bpm_lock INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_tracks_artist ON library_tracks(artist);
		CREATE INDEX IF NOT EXISTS idx_tracks_bpm ON library_tracks(bpm);
		CREATE INDEX IF NOT EXISTS idx_tracks_key_id ON library_tracks(key_id);

		CREATE TABLE IF NOT EXISTS crates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			locked INTEGER NOT NULL DEFAULT 0,
			autodj_source INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS crate_tracks (
			crate_id INTEGER NOT NULL REFERENCES crates(id) ON DELETE CASCADE,
			track_id INTEGER NOT NULL REFERENCES library_tracks(id) ON DELETE CASCADE,
			UNIQUE(crate_id, track_id)
		);

		CREATE INDEX IF NOT EXISTS idx_crate_tracks_track ON crate_tracks(track_id);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
