package searchquery

import (
	"regexp"
	"strconv"
	"strings"
)

// MissingFieldTerm is the argument that searches for tracks without a value.
const MissingFieldTerm = `""`

// Operator compares a track value against a number.
type Operator string

const (
	OpEqual          Operator = "="
	OpLess           Operator = "<"
	OpGreater        Operator = ">"
	OpLessOrEqual    Operator = "<="
	OpGreaterOrEqual Operator = ">="
)

func (op Operator) compare(v, x float64) bool {
	switch op {
	case OpEqual:
		return v == x
	case OpLess:
		return v < x
	case OpGreater:
		return v > x
	case OpLessOrEqual:
		return v <= x
	case OpGreaterOrEqual:
		return v >= x
	}
	return false
}

// Two-character operators come first, so "<=5" never reads as "<" "=5".
var operatorRegex = regexp.MustCompile(`^(<=|>=|=|<|>)(.*)$`)

// splitOperator strips a leading comparison operator from arg.
// ok is false if arg has none, in which case op is OpEqual.
func splitOperator(arg string) (op Operator, rest string, ok bool) {
	m := operatorRegex.FindStringSubmatch(arg)
	if m == nil {
		return OpEqual, arg, false
	}
	return Operator(m[1]), m[2], true
}

// numberParser parses a filter operand.
type numberParser func(s string) (float64, bool)

// parseRange parses "lo-hi" with lo <= hi.
func parseRange(s string, parse numberParser) (lo, hi float64, ok bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, okLo := parse(parts[0])
	hi, okHi := parse(parts[1])
	if !okLo || !okHi || lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}

var durationRegex = regexp.MustCompile(`^(\d+)(m|:)?([0-5]?\d)?s?$`)

// parseDuration parses a duration in seconds: "90", "90s", "1m30s", "1:30"
// or "1m".
func parseDuration(s string) (float64, bool) {
	m := durationRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	first, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] == "" && m[3] == "" {
		return first, true
	}
	var seconds float64
	if m[3] != "" {
		seconds, err = strconv.ParseFloat(m[3], 64)
		if err != nil {
			return 0, false
		}
	}
	return 60*first + seconds, true
}
