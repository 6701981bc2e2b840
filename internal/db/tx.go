package db

import (
	"database/sql"
	"time"
)

// TimeLayout is the text format of timestamp columns.
const TimeLayout = time.RFC3339

// WithTx executes fn within a transaction.
// It handles Begin, Rollback on error, and Commit on success.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// NullInt64Value returns the int64 value or 0 if not valid.
func NullInt64Value(n sql.NullInt64) int64 {
	if !n.Valid {
		return 0
	}
	return n.Int64
}

// NullFloat64Value returns the float64 value or 0 if not valid.
func NullFloat64Value(n sql.NullFloat64) float64 {
	if !n.Valid {
		return 0
	}
	return n.Float64
}

// NullStringValue returns the string value or empty string if not valid.
func NullStringValue(n sql.NullString) string {
	if !n.Valid {
		return ""
	}
	return n.String
}

// NullTimeValue parses a timestamp column.
// Returns the zero time if the column is NULL or malformed.
func NullTimeValue(n sql.NullString) time.Time {
	if !n.Valid || n.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(TimeLayout, n.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatTime formats a timestamp for storage.
// The zero time is stored as NULL.
func FormatTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(TimeLayout), Valid: true}
}

// NullIfZero returns NULL for zero values so that absent attributes
// read back as SQL NULL.
func NullIfZero[T comparable](v T) any {
	var zero T
	if v == zero {
		return nil
	}
	return v
}
