// Package state owns the database handle shared by the library and crate
// stores.
package state

import (
	"database/sql"

	"github.com/llehouerou/crateq/internal/crates"
	"github.com/llehouerou/crateq/internal/db"
	"github.com/llehouerou/crateq/internal/library"
)

type Manager struct {
	db      *sql.DB
	library *library.Library
	crates  *crates.Storage
}

// Open opens the database at path, creating it and its parent directory
// when missing.
func Open(path string) (*Manager, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}

	return &Manager{
		db:      conn,
		library: library.New(conn),
		crates:  crates.New(conn),
	}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

func (m *Manager) Library() *library.Library {
	return m.library
}

func (m *Manager) Crates() *crates.Storage {
	return m.crates
}
