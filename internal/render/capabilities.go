package render

// Capabilities describes how a dialect covers the portable feature set.
type Capabilities struct {
	NativeLimit        bool // LIMIT/OFFSET or OFFSET/FETCH without rewriting the query
	MultiUnitInterval  bool // several interval units in one date expression
	QuantifiedSubquery bool // ANY / ALL comparisons against a subquery
	FunctionRegistry   bool // missing math functions are registered on the connection
	NumberedParams     bool // placeholders carry their position
	MultiStatement     bool // several statements per Exec when batching is enabled
}
