package searchquery

import (
	"math"
	"strings"
	"sync/atomic"

	"github.com/llehouerou/crateq/internal/library"
)

// DefaultBpmRelativeRange is the initial tolerance of fuzzy BPM filters.
const DefaultBpmRelativeRange = 0.06

var bpmRelativeRange atomic.Uint64 // math.Float64bits

func init() {
	bpmRelativeRange.Store(math.Float64bits(DefaultBpmRelativeRange))
}

// SetBpmRelativeRange sets the relative tolerance of fuzzy BPM filters
// created afterwards. Negative values are ignored.
func SetBpmRelativeRange(r float64) {
	if r < 0 || math.IsNaN(r) {
		return
	}
	bpmRelativeRange.Store(math.Float64bits(r))
}

// BpmRelativeRange returns the relative tolerance of fuzzy BPM filters.
func BpmRelativeRange() float64 {
	return math.Float64frombits(bpmRelativeRange.Load())
}

// BpmFilter matches tracks by BPM.
//
// A plain number also matches half and double tempo, rounded to integers;
// decimals widen the core range to the values that round to the argument.
// A fuzzy filter matches within the relative range around the argument.
// negate tells the filter that it will be wrapped in Not, in which case a
// plain number matches only itself.
type BpmFilter struct {
	fuzzy bool

	nullQuery     bool
	operatorQuery bool
	op            Operator
	bpm           float64

	rangeQuery bool
	lo, hi     float64

	halfDoubleQuery    bool
	halfLo, halfHi     float64
	doubleLo, doubleHi float64
}

func NewBpmFilter(argument string, fuzzy, negate bool) *BpmFilter {
	return NewBpmFilterWithRange(argument, fuzzy, negate, BpmRelativeRange())
}

// NewBpmFilterWithRange is NewBpmFilter with an explicit fuzzy tolerance.
func NewBpmFilterWithRange(argument string, fuzzy, negate bool, relativeRange float64) *BpmFilter {
	f := &BpmFilter{fuzzy: fuzzy, op: OpEqual}
	if argument == MissingFieldTerm {
		f.nullQuery = true
		return f
	}

	op, arg, hasOp := splitOperator(argument)
	if hasOp && fuzzy {
		return f
	}
	f.op = op

	// Numpad decimal separator.
	arg = strings.TrimSpace(strings.ReplaceAll(arg, ",", "."))
	bpm, parsed := parseNumber(arg)
	switch {
	case parsed && fuzzy:
		f.lo = math.Floor((1 - relativeRange) * bpm)
		f.hi = math.Ceil((1 + relativeRange) * bpm)
		f.rangeQuery = true
	case parsed && !hasOp && !negate:
		f.lo, f.hi = roundingRange(arg, bpm)
		f.halfLo = math.Floor(bpm / 2)
		f.halfHi = math.Ceil(bpm / 2)
		f.doubleLo = math.Floor(bpm * 2)
		f.doubleHi = math.Ceil(bpm * 2)
		f.halfDoubleQuery = true
	case parsed:
		if op == OpEqual {
			f.lo, f.hi = roundingRange(arg, bpm)
			f.rangeQuery = true
		} else {
			f.bpm = bpm
			f.operatorQuery = true
		}
	case fuzzy:
		// Ranges cannot be fuzzy.
	default:
		if lo, hi, ok := parseRange(arg, parseNumber); ok {
			f.lo, f.hi = lo, hi
			f.rangeQuery = true
		}
	}
	return f
}

// roundingRange returns the BPM values that display as arg: 124.1 covers
// 124.05 to 124.15. Without decimals only bpm itself.
func roundingRange(arg string, bpm float64) (lo, hi float64) {
	_, decimals, found := strings.Cut(arg, ".")
	decimals = strings.TrimRight(decimals, "0")
	if !found || decimals == "" {
		return bpm, bpm
	}
	r := 5 / math.Pow(10, float64(len(decimals)+1))
	return bpm - r, bpm + r
}

func (f *BpmFilter) Match(t *library.Track) bool {
	v := t.BPM
	if !t.HasBpm() {
		return f.nullQuery
	}
	switch {
	case f.operatorQuery:
		return !f.fuzzy && f.op.compare(v, f.bpm)
	case f.halfDoubleQuery:
		return (f.lo <= v && v <= f.hi) ||
			(f.halfLo <= v && v <= f.halfHi) ||
			(f.doubleLo <= v && v <= f.doubleHi)
	case f.rangeQuery:
		return f.lo <= v && v <= f.hi
	}
	return v == f.bpm
}

func (f *BpmFilter) ToSQL() string {
	switch {
	case f.nullQuery:
		return library.ColumnBpm + " IS NULL"
	case f.operatorQuery:
		if f.fuzzy {
			return ""
		}
		return library.ColumnBpm + " " + string(f.op) + " " + formatNumber(f.bpm)
	case f.halfDoubleQuery:
		return concatSQLClauses([]string{
			between(library.ColumnBpm, f.lo, f.hi),
			between(library.ColumnBpm, f.halfLo, f.halfHi),
			between(library.ColumnBpm, f.doubleLo, f.doubleHi),
		}, sqlOr)
	case f.rangeQuery:
		return between(library.ColumnBpm, f.lo, f.hi)
	}
	return ""
}
