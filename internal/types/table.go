package types

import "strconv"

// Entity is a table, or a derived table when built from a query. It owns
// an ordered list of column cells.
type Entity struct {
	ident
	Schema  string
	Name    string
	columns []*Column
	query   *Select
}

// NewEntity creates an empty entity. Schema groups entities that may share
// a batch.
func NewEntity(schema, name string) *Entity {
	return &Entity{ident: newIdent(), Schema: schema, Name: name}
}

// NewDerived wraps a query as a derived table whose columns mirror the
// query's select items.
func NewDerived(q *Select) *Entity {
	e := &Entity{ident: newIdent(), query: q}
	if len(q.From) > 0 {
		e.Schema = q.From[0].Schema
	}
	for i, item := range q.Items() {
		e.Add(ItemName(item, i), item.Type())
	}
	return e
}

// ItemName returns the column name the i-th select item takes in a
// derived table: its alias, its column name, or c<i+1>.
func ItemName(e Expr, i int) string {
	switch x := e.(type) {
	case *As:
		return x.Alias
	case *Column:
		if x.wrapper != nil {
			return ItemName(x.wrapper, i)
		}
		if x.name != "" {
			return x.name
		}
	}
	return "c" + strconv.Itoa(i+1)
}

// Add appends a column cell owned by e.
func (e *Entity) Add(name string, t Type, opts ...ColumnOption) *Column {
	c := &Column{ident: newIdent(), name: name, typ: t, owner: e}
	for _, opt := range opts {
		opt(c)
	}
	e.columns = append(e.columns, c)
	return c
}

// Columns returns the cells in declaration order.
func (e *Entity) Columns() []*Column {
	return append([]*Column(nil), e.columns...)
}

// Column returns the named cell or nil.
func (e *Entity) Column(name string) *Column {
	for _, c := range e.columns {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Query returns the defining query of a derived table.
func (e *Entity) Query() *Select {
	return e.query
}

// IsDerived reports whether e is backed by a query instead of a table.
func (e *Entity) IsDerived() bool {
	return e.query != nil
}

// Clone returns a fresh entity with the same shape and new identity. Cell
// state is not copied.
func (e *Entity) Clone() *Entity {
	out := &Entity{ident: newIdent(), Schema: e.Schema, Name: e.Name, query: e.query}
	for _, c := range e.columns {
		out.columns = append(out.columns, &Column{
			ident:        newIdent(),
			name:         c.name,
			typ:          c.typ,
			owner:        out,
			primary:      c.primary,
			keyForUpdate: c.keyForUpdate,
			onInsert:     c.onInsert,
			onUpdate:     c.onUpdate,
		})
	}
	return out
}

// Keys returns the columns identifying a row for UPDATE and DELETE: the
// update-key columns when any are declared, else the primary key.
func (e *Entity) Keys() []*Column {
	var keys, primary []*Column
	for _, c := range e.columns {
		if c.keyForUpdate {
			keys = append(keys, c)
		}
		if c.primary {
			primary = append(primary, c)
		}
	}
	if len(keys) > 0 {
		return keys
	}
	return primary
}

func (*Entity) node() {}
