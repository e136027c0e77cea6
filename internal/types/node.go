// Package types holds the expression tree compiled by the dialects: entities
// and their column cells, value expressions, conditions and statements.
package types

// Node is the closed set of constructs a dialect compiles.
type Node interface {
	Handle() Handle
	node()
}

// Expr is a node producing a typed value.
type Expr interface {
	Node
	Evaluable
	Type() Type
	expr()
}

// Condition is a node producing a three-valued truth. Evaluate returns a
// bool or nil for unknown.
type Condition interface {
	Node
	Evaluable
	condition()
}

// Statement is a node a dialect compiles into one or more SQL batches.
type Statement interface {
	Node
	statement()
}

// exprsType returns the type of the first expression with a known kind.
func exprsType(es ...Expr) Type {
	for _, e := range es {
		if e == nil {
			continue
		}
		if t := e.Type(); t.Kind != KindUnknown {
			return t
		}
	}
	return Type{}
}
