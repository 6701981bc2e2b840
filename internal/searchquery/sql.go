package searchquery

import (
	"strings"
)

// SQL connectives.
const (
	sqlAnd = "AND"
	sqlOr  = "OR"
)

// concatSQLClauses joins clauses with op. Each clause is wrapped in
// parentheses when there are several; the result as a whole never is.
func concatSQLClauses(clauses []string, op string) string {
	switch len(clauses) {
	case 0:
		return ""
	case 1:
		return clauses[0]
	default:
		return "(" + strings.Join(clauses, ") "+op+" (") + ")"
	}
}

// childClauses returns the non-empty SQL of nodes.
func childClauses(nodes []Node) []string {
	clauses := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if sql := n.ToSQL(); sql != "" {
			clauses = append(clauses, sql)
		}
	}
	return clauses
}
