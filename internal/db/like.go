package db

import (
	"database/sql/driver"
	"strconv"
	"strings"
	"unicode/utf8"

	"modernc.org/sqlite"
)

// LikeEscapeChar is the default escape character of the like() function
// installed by Open. A LIKE without an ESCAPE clause uses it.
const LikeEscapeChar = '\\'

// Wildcards of the LIKE operator.
const (
	LikeMatchOne = '_'
	LikeMatchAll = '%'
)

// EscapeLike prefixes the LIKE wildcards and the escape character itself
// with escape, so that s matches literally inside a LIKE pattern.
func EscapeLike(s string, escape rune) string {
	if !strings.ContainsAny(s, string([]rune{LikeMatchOne, LikeMatchAll, escape})) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if r == LikeMatchOne || r == LikeMatchAll || r == escape {
			b.WriteRune(escape)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// QuoteString returns s as a SQL string literal.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

type likeTokenKind uint8

const (
	likeLiteral likeTokenKind = iota
	likeOne
	likeAll
)

type likeToken struct {
	kind likeTokenKind
	r    rune
}

func compileLike(pattern string, escape rune) []likeToken {
	tokens := make([]likeToken, 0, utf8.RuneCountInString(pattern))
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			tokens = append(tokens, likeToken{kind: likeLiteral, r: r})
			escaped = false
		case escape != 0 && r == escape:
			escaped = true
		case r == LikeMatchAll:
			// Consecutive % collapse into one.
			if n := len(tokens); n > 0 && tokens[n-1].kind == likeAll {
				continue
			}
			tokens = append(tokens, likeToken{kind: likeAll})
		case r == LikeMatchOne:
			tokens = append(tokens, likeToken{kind: likeOne})
		default:
			tokens = append(tokens, likeToken{kind: likeLiteral, r: r})
		}
	}
	if escaped {
		// A trailing escape character stands for itself.
		tokens = append(tokens, likeToken{kind: likeLiteral, r: escape})
	}
	return tokens
}

// LikeMatch reports whether value matches the LIKE pattern after both
// have been folded with LatinLow. A zero escape disables escaping.
func LikeMatch(pattern, value string, escape rune) bool {
	tokens := compileLike(LatinLow(pattern), escape)
	s := []rune(LatinLow(value))

	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		if pi < len(tokens) {
			tok := tokens[pi]
			if tok.kind == likeOne || (tok.kind == likeLiteral && tok.r == s[si]) {
				pi++
				si++
				continue
			}
			if tok.kind == likeAll {
				star = pi
				mark = si
				pi++
				continue
			}
		}
		if star < 0 {
			return false
		}
		// Backtrack: let the last % swallow one more rune.
		pi = star + 1
		mark++
		si = mark
	}
	for pi < len(tokens) && tokens[pi].kind == likeAll {
		pi++
	}
	return pi == len(tokens)
}

// sqlText converts a value passed to a SQL function into its text form,
// formatting numbers the same way the in-memory filters do.
func sqlText(v driver.Value) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	default:
		return "", false
	}
}

// likeFunc implements like(pattern, value[, escape]).
func likeFunc(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, errWrongLikeArgs
	}
	pattern, ok := sqlText(args[0])
	if !ok {
		return nil, nil
	}
	value, ok := sqlText(args[1])
	if !ok {
		return nil, nil
	}
	escape := rune(LikeEscapeChar)
	if len(args) == 3 {
		esc, ok := sqlText(args[2])
		if !ok {
			return nil, nil
		}
		if utf8.RuneCountInString(esc) != 1 {
			return nil, errWrongLikeEscape
		}
		escape, _ = utf8.DecodeRuneInString(esc)
	}
	return LikeMatch(pattern, value, escape), nil
}

// latinLowFunc implements latin_low(text).
func latinLowFunc(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	s, ok := sqlText(args[0])
	if !ok {
		return nil, nil
	}
	return LatinLow(s), nil
}

// CollateLatinLow orders strings by their LatinLow fold, falling back to
// the raw strings to keep the order total.
func CollateLatinLow(left, right string) int {
	if c := strings.Compare(LatinLow(left), LatinLow(right)); c != 0 {
		return c
	}
	return strings.Compare(left, right)
}
