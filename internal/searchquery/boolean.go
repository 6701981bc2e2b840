package searchquery

import (
	"github.com/llehouerou/crateq/internal/library"
)

// AndNode matches tracks matched by all of its children.
type AndNode struct {
	children []Node
}

// And returns the conjunction of children. Without children it matches
// every track.
func And(children ...Node) *AndNode {
	return &AndNode{children: children}
}

func (n *AndNode) Match(t *library.Track) bool {
	for _, c := range n.children {
		if !c.Match(t) {
			return false
		}
	}
	return true
}

func (n *AndNode) ToSQL() string {
	return concatSQLClauses(childClauses(n.children), sqlAnd)
}

// OrNode matches tracks matched by any of its children.
type OrNode struct {
	children []Node
}

// Or returns the disjunction of children. Without children it matches
// no track.
func Or(children ...Node) *OrNode {
	return &OrNode{children: children}
}

func (n *OrNode) Match(t *library.Track) bool {
	for _, c := range n.children {
		if c.Match(t) {
			return true
		}
	}
	return false
}

func (n *OrNode) ToSQL() string {
	if len(n.children) == 0 {
		return "FALSE"
	}
	return concatSQLClauses(childClauses(n.children), sqlOr)
}

// NotNode negates its child.
type NotNode struct {
	child Node
}

func Not(child Node) *NotNode {
	return &NotNode{child: child}
}

func (n *NotNode) Match(t *library.Track) bool {
	return !n.child.Match(t)
}

func (n *NotNode) ToSQL() string {
	sql := n.child.ToSQL()
	if sql == "" {
		return ""
	}
	return "NOT (" + sql + ")"
}
