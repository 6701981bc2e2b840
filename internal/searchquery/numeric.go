package searchquery

import (
	"github.com/llehouerou/crateq/internal/library"
)

// NumericFilter compares the numeric value of any of its columns with an
// argument of the form "N", "<N", ">=N", "LO-HI" or MissingFieldTerm.
type NumericFilter struct {
	columns []string
	// sqlExpr returns the SQL expression compared for a column.
	sqlExpr func(column string) string

	nullQuery bool

	operatorQuery bool
	op            Operator
	operand       float64

	rangeQuery bool
	lo, hi     float64
}

func NewNumericFilter(columns []string, argument string) *NumericFilter {
	return newNumericFilter(columns, argument, parseNumber)
}

// NewDurationFilter returns a NumericFilter whose operands are durations
// such as "90", "1m30s" or "1:30", in seconds.
func NewDurationFilter(columns []string, argument string) *NumericFilter {
	return newNumericFilter(columns, argument, parseDuration)
}

// NewYearFilter returns a NumericFilter on the leading year of the year
// column, which may hold full dates.
func NewYearFilter(argument string) *NumericFilter {
	f := newNumericFilter([]string{library.ColumnYear}, argument, parseNumber)
	f.sqlExpr = func(col string) string {
		return "CAST(substr(" + col + ",1,4) AS INTEGER)"
	}
	return f
}

func newNumericFilter(columns []string, argument string, parse numberParser) *NumericFilter {
	f := &NumericFilter{columns: columns, op: OpEqual}
	if argument == MissingFieldTerm {
		f.nullQuery = true
		return f
	}

	op, arg, _ := splitOperator(argument)
	f.op = op
	if v, ok := parse(arg); ok {
		f.operatorQuery = true
		f.operand = v
	}
	if lo, hi, ok := parseRange(arg, parse); ok {
		f.rangeQuery = true
		f.lo, f.hi = lo, hi
	}
	return f
}

func (f *NumericFilter) expr(col string) string {
	if f.sqlExpr == nil {
		return col
	}
	return f.sqlExpr(col)
}

func (f *NumericFilter) Match(t *library.Track) bool {
	for _, col := range f.columns {
		var v float64
		raw, ok := trackValue(t, col)
		if ok {
			v, ok = asFloat(raw)
		}
		if !ok {
			if f.nullQuery {
				return true
			}
			continue
		}
		switch {
		case f.operatorQuery:
			if f.op.compare(v, f.operand) {
				return true
			}
		case f.rangeQuery:
			if f.lo <= v && v <= f.hi {
				return true
			}
		}
	}
	return false
}

func (f *NumericFilter) ToSQL() string {
	switch {
	case f.nullQuery:
		if len(f.columns) == 0 {
			return ""
		}
		return f.columns[0] + " IS NULL"
	case f.operatorQuery:
		clauses := make([]string, 0, len(f.columns))
		for _, col := range f.columns {
			clauses = append(clauses, f.expr(col)+" "+string(f.op)+" "+formatNumber(f.operand))
		}
		return concatSQLClauses(clauses, sqlOr)
	case f.rangeQuery:
		clauses := make([]string, 0, len(f.columns))
		for _, col := range f.columns {
			clauses = append(clauses, between(f.expr(col), f.lo, f.hi))
		}
		return concatSQLClauses(clauses, sqlOr)
	}
	return ""
}

func between(expr string, lo, hi float64) string {
	return expr + " BETWEEN " + formatNumber(lo) + " AND " + formatNumber(hi)
}

// NullNumericFilter matches tracks without a numeric value in the first of
// its columns.
type NullNumericFilter struct {
	columns []string
}

func NewNullNumericFilter(columns []string) *NullNumericFilter {
	return &NullNumericFilter{columns: columns}
}

func (f *NullNumericFilter) Match(t *library.Track) bool {
	if len(f.columns) == 0 {
		return false
	}
	v, ok := trackValue(t, f.columns[0])
	if !ok {
		return true
	}
	_, ok = asFloat(v)
	return !ok
}

func (f *NullNumericFilter) ToSQL() string {
	if len(f.columns) == 0 {
		return ""
	}
	return f.columns[0] + " IS NULL"
}
