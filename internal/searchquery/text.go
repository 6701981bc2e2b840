package searchquery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/llehouerou/crateq/internal/db"
	"github.com/llehouerou/crateq/internal/library"
)

// StringMatch selects how a text filter compares values.
type StringMatch int

const (
	Contains StringMatch = iota
	Equals
)

// TextFilter matches tracks whose text in any of its columns contains or
// equals the argument, ignoring case and diacritics.
type TextFilter struct {
	columns  []string
	argument string // folded with db.LatinLow
	mode     StringMatch
}

func NewTextFilter(columns []string, argument string, mode StringMatch) *TextFilter {
	return &TextFilter{
		columns:  columns,
		argument: db.LatinLow(argument),
		mode:     mode,
	}
}

func (f *TextFilter) Match(t *library.Track) bool {
	for _, col := range f.columns {
		v, ok := trackValue(t, col)
		if !ok {
			continue
		}
		s, ok := asString(v)
		if !ok {
			continue
		}
		s = db.LatinLow(s)
		switch f.mode {
		case Equals:
			if s == f.argument {
				return true
			}
		case Contains:
			if strings.Contains(s, f.argument) {
				return true
			}
		}
	}
	return false
}

func (f *TextFilter) ToSQL() string {
	pattern := db.EscapeLike(f.argument, db.LikeEscapeChar)
	if last, _ := utf8.DecodeLastRuneInString(f.argument); unicode.IsSpace(last) {
		// LIKE may drop a trailing space; require a character after it.
		pattern += string(db.LikeMatchOne)
	}
	if f.mode == Contains {
		pattern = string(db.LikeMatchAll) + pattern + string(db.LikeMatchAll)
	}
	literal := db.QuoteString(pattern)

	clauses := make([]string, 0, len(f.columns))
	for _, col := range f.columns {
		clauses = append(clauses, col+" LIKE "+literal)
	}
	return concatSQLClauses(clauses, sqlOr)
}

// NullOrEmptyTextFilter matches tracks without text in the first of its
// columns.
type NullOrEmptyTextFilter struct {
	columns []string
}

func NewNullOrEmptyTextFilter(columns []string) *NullOrEmptyTextFilter {
	return &NullOrEmptyTextFilter{columns: columns}
}

func (f *NullOrEmptyTextFilter) Match(t *library.Track) bool {
	if len(f.columns) == 0 {
		return false
	}
	v, ok := trackValue(t, f.columns[0])
	if !ok {
		return true
	}
	s, ok := asString(v)
	return !ok || s == ""
}

func (f *NullOrEmptyTextFilter) ToSQL() string {
	if len(f.columns) == 0 {
		return ""
	}
	col := f.columns[0]
	return col + " IS NULL OR " + col + " IS ''"
}
