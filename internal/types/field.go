package types

// Column is a typed value cell. A column owned by an entity compiles to a
// column reference; a free-standing column compiles to a bound parameter
// carrying its value. A column may instead wrap another expression, in
// which case it compiles and evaluates as that expression.
//
// The cell tracks three pieces of state: the cached value, whether the
// caller assigned it explicitly, and an optional indirection expression
// that computes the value the statement will store.
type Column struct {
	ident
	name  string
	typ   Type
	owner *Entity

	primary      bool
	keyForUpdate bool
	onInsert     Generation
	onUpdate     Generation

	value       any
	hasValue    bool
	wasSet      bool
	indirection Expr
	wrapper     Expr
}

// ColumnOption configures a column when it is added to an entity.
type ColumnOption func(*Column)

// PrimaryKey marks the column as part of the primary key.
func PrimaryKey() ColumnOption {
	return func(c *Column) { c.primary = true }
}

// UpdateKey marks the column as identifying rows for UPDATE and DELETE.
func UpdateKey() ColumnOption {
	return func(c *Column) { c.keyForUpdate = true }
}

// GenerateOnInsert attaches a generation rule applied when an INSERT
// leaves the column unset.
func GenerateOnInsert(g Generation) ColumnOption {
	return func(c *Column) { c.onInsert = g }
}

// GenerateOnUpdate attaches a generation rule applied when an UPDATE
// leaves the column unset.
func GenerateOnUpdate(g Generation) ColumnOption {
	return func(c *Column) { c.onUpdate = g }
}

// NewValue creates a free-standing cell holding v coerced to t.
func NewValue(t Type, v any) (*Column, error) {
	c := &Column{ident: newIdent(), typ: t}
	if err := c.Set(v); err != nil {
		return nil, err
	}
	return c, nil
}

// Literal creates a free-standing cell for v with an inferred type.
func Literal(v any) *Column {
	t := TypeOf(v)
	cv, err := t.Coerce(v)
	if err != nil {
		cv = v
	}
	return &Column{ident: newIdent(), typ: t, value: cv, hasValue: cv != nil, wasSet: true}
}

// Wrap creates a cell standing in for e.
func Wrap(e Expr) *Column {
	return &Column{ident: newIdent(), typ: e.Type(), wrapper: e}
}

func (c *Column) Name() string         { return c.name }
func (c *Column) Type() Type           { return c.typ }
func (c *Column) Owner() *Entity       { return c.owner }
func (c *Column) IsPrimary() bool      { return c.primary }
func (c *Column) IsUpdateKey() bool    { return c.keyForUpdate }
func (c *Column) OnInsert() Generation { return c.onInsert }
func (c *Column) OnUpdate() Generation { return c.onUpdate }
func (c *Column) Value() any           { return c.value }
func (c *Column) HasValue() bool       { return c.hasValue }
func (c *Column) WasSet() bool         { return c.wasSet }
func (c *Column) Indirection() Expr    { return c.indirection }
func (c *Column) Wrapped() Expr        { return c.wrapper }

// Set assigns a value explicitly, clearing any indirection.
func (c *Column) Set(v any) error {
	cv, err := c.typ.Coerce(v)
	if err != nil {
		return err
	}
	c.value = cv
	c.hasValue = true
	c.wasSet = true
	c.indirection = nil
	return nil
}

// SetExpr makes e the source of the column's next value. The cached value
// is kept so that e may refer back to it.
func (c *Column) SetExpr(e Expr) {
	c.indirection = e
	c.wasSet = false
}

// Load stores a value read from the database. The cell counts as clean.
func (c *Column) Load(v any) error {
	cv, err := c.typ.Coerce(v)
	if err != nil {
		return err
	}
	c.value = cv
	c.hasValue = true
	c.wasSet = false
	c.indirection = nil
	return nil
}

// Reset forgets the value and any pending assignment.
func (c *Column) Reset() {
	c.value = nil
	c.hasValue = false
	c.wasSet = false
	c.indirection = nil
}

// Pending reports whether the column will be written by an INSERT or
// UPDATE: it was set explicitly or carries an indirection.
func (c *Column) Pending() bool {
	return c.wasSet || c.indirection != nil
}

// Evaluate returns the cached value, or evaluates the indirection when no
// value is cached. A column already on the evaluation path is unknown.
func (c *Column) Evaluate(v Visited) any {
	if c.wrapper != nil {
		return v.guard(c.h, func() any { return c.wrapper.Evaluate(v) })
	}
	if c.hasValue {
		return c.value
	}
	if c.indirection == nil {
		return nil
	}
	return v.guard(c.h, func() any { return c.indirection.Evaluate(v) })
}

// next evaluates the indirection with the column itself on the path.
func (c *Column) next() any {
	v := Visited{c.h: {}}
	return c.indirection.Evaluate(v)
}

// Resolve replaces the indirections of cols with their evaluated results.
// All indirections are evaluated and coerced before any cell is updated, so
// sibling assignments observe the values from before the statement ran and
// a coercion failure leaves every cell untouched. An indirection that
// cannot be evaluated leaves its cell unknown.
func Resolve(cols ...*Column) error {
	type result struct {
		col *Column
		v   any
	}
	var pending []result
	for _, c := range cols {
		if c.indirection == nil || c.wasSet {
			continue
		}
		pending = append(pending, result{col: c, v: c.next()})
	}
	for i, r := range pending {
		cv, err := r.col.typ.Coerce(r.v)
		if err != nil {
			return err
		}
		pending[i].v = cv
	}
	for _, r := range pending {
		r.col.value = r.v
		r.col.hasValue = r.v != nil
		r.col.indirection = nil
	}
	return nil
}

// Settle records that a write of cols succeeded: indirections are resolved
// and every cell counts as clean, so the next write regenerates or skips it.
func Settle(cols ...*Column) error {
	if err := Resolve(cols...); err != nil {
		return err
	}
	for _, c := range cols {
		c.wasSet = false
	}
	return nil
}

func (*Column) node() {}
func (*Column) expr() {}
