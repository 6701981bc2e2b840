package state

import (
	"database/sql"

	"github.com/llehouerou/crateq/internal/crates"
	"github.com/llehouerou/crateq/internal/library"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	Library() *library.Library
	Crates() *crates.Storage
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
