// Package searchquery evaluates track search expressions two ways: in memory
// against a library.Track, and lowered to a SQL WHERE clause over the
// library_tracks table. Both paths select the same tracks when the database
// was opened with db.Open, which installs a LIKE that folds text with
// db.LatinLow just like the in-memory text filters do.
//
// An expression is a tree of nodes. Leaves filter on track columns, And/Or/Not
// combine them. Leaves never fail: an argument that does not parse yields an
// inert leaf, which matches nothing and lowers to the empty string, so that a
// parent combinator drops it from the generated SQL.
package searchquery

import (
	"github.com/llehouerou/crateq/internal/library"
)

// Node is a search expression.
type Node interface {
	// Match reports whether the track satisfies the expression.
	Match(t *library.Track) bool
	// ToSQL returns the expression as a WHERE predicate, or the empty string
	// when the node does not restrict the selection. The result is never
	// wrapped in parentheses; parents wrap their children.
	ToSQL() string
}

// Filter returns the tracks matched by node, in their original order.
func Filter(tracks []library.Track, node Node) []library.Track {
	var matched []library.Track
	for i := range tracks {
		if node.Match(&tracks[i]) {
			matched = append(matched, tracks[i])
		}
	}
	return matched
}
