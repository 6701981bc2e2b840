// Package db opens the SQLite database shared by the library and crate
// stores and installs the text functions the search engine relies on.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"modernc.org/sqlite"
)

// CollationLatinLow is the name of the collation installed by Open.
const CollationLatinLow = "latin_low"

const memoryPath = ":memory:"

var (
	errWrongLikeArgs   = errors.New("like() takes 2 or 3 arguments")
	errWrongLikeEscape = errors.New("ESCAPE expression must be a single character")
)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerFunctions installs like(), latin_low() and the latin_low
// collation on every connection opened by the sqlite driver.
func registerFunctions() error {
	registerOnce.Do(func() {
		// like is variadic because the driver keys functions by name only;
		// SQLite calls it with 2 arguments, or 3 with an ESCAPE clause.
		if err := sqlite.RegisterDeterministicScalarFunction("like", -1, likeFunc); err != nil {
			registerErr = fmt.Errorf("register like: %w", err)
			return
		}
		if err := sqlite.RegisterDeterministicScalarFunction("latin_low", 1, latinLowFunc); err != nil {
			registerErr = fmt.Errorf("register latin_low: %w", err)
			return
		}
		if err := sqlite.RegisterCollationUtf8(CollationLatinLow, CollateLatinLow); err != nil {
			registerErr = fmt.Errorf("register collation: %w", err)
		}
	})
	return registerErr
}

// Open opens the SQLite database at path (":memory:" for a private
// in-memory database) and creates the schema.
func Open(path string) (*sql.DB, error) {
	if err := registerFunctions(); err != nil {
		return nil, err
	}

	if path != memoryPath && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared and
	// serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, err
	}

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
