package types

import (
	"errors"
	"fmt"
)

// Join attaches an entity to a SELECT.
type Join struct {
	Kind   JoinKind
	Target *Entity
	On     Condition
}

// Order is one ORDER BY item.
type Order struct {
	Expr Expr
	Desc bool
}

// Select is a query. An empty Columns list selects every column of the
// FROM and JOIN entities. Limit and Offset of zero mean none.
type Select struct {
	ident
	Distinct bool
	Columns  []Expr
	From     []*Entity
	Joins    []Join
	Where    Condition
	GroupBy  []Expr
	Having   Condition
	OrderBy  []Order
	Limit    int64
	Offset   int64
}

func NewSelect(from ...*Entity) *Select {
	return &Select{ident: newIdent(), From: from}
}

// Items returns the select list, expanding an empty one.
func (s *Select) Items() []Expr {
	if len(s.Columns) > 0 {
		return s.Columns
	}
	var out []Expr
	for _, e := range s.From {
		for _, c := range e.columns {
			out = append(out, c)
		}
	}
	for _, j := range s.Joins {
		for _, c := range j.Target.columns {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks the query shape before compilation.
func (s *Select) Validate() error {
	if len(s.From) == 0 && len(s.Columns) == 0 {
		return errors.New("select requires a FROM entity or explicit columns")
	}
	if s.Limit < 0 || s.Offset < 0 {
		return fmt.Errorf("negative pagination: limit %d offset %d", s.Limit, s.Offset)
	}
	for i, j := range s.Joins {
		if j.Target == nil {
			return fmt.Errorf("join %d has no target", i)
		}
		if j.Kind != CrossJoin && j.On == nil {
			return fmt.Errorf("join %d requires an ON condition", i)
		}
	}
	return nil
}

// Insert writes rows. With Rows set it writes one statement per entity,
// covering each entity's pending columns. Otherwise it writes the Values
// columns of Into in a single statement.
type Insert struct {
	ident
	Rows   []*Entity
	Into   *Entity
	Values []*Column
}

func NewInsert(rows ...*Entity) *Insert {
	return &Insert{ident: newIdent(), Rows: rows}
}

func NewInsertValues(into *Entity, values ...*Column) *Insert {
	return &Insert{ident: newIdent(), Into: into, Values: values}
}

func (s *Insert) Validate() error {
	switch {
	case len(s.Rows) > 0 && s.Into != nil:
		return errors.New("insert mixes entity rows with a value list")
	case len(s.Rows) == 0 && s.Into == nil:
		return errors.New("insert has no target")
	case s.Into != nil && len(s.Values) == 0:
		return errors.New("insert value list is empty")
	}
	return ownedBy(s.Into, s.Values)
}

// Update modifies rows. With Rows set it writes one statement per entity,
// keyed by its update or primary key. Otherwise it writes the Set columns
// of Table for rows matching Where.
type Update struct {
	ident
	Rows  []*Entity
	Table *Entity
	Set   []*Column
	Where Condition
}

func NewUpdate(rows ...*Entity) *Update {
	return &Update{ident: newIdent(), Rows: rows}
}

func NewUpdateWhere(table *Entity, where Condition, set ...*Column) *Update {
	return &Update{ident: newIdent(), Table: table, Set: set, Where: where}
}

func (s *Update) Validate() error {
	switch {
	case len(s.Rows) > 0 && s.Table != nil:
		return errors.New("update mixes entity rows with an explicit table")
	case len(s.Rows) == 0 && s.Table == nil:
		return errors.New("update has no target")
	case s.Table != nil && len(s.Set) == 0:
		return errors.New("update set list is empty")
	}
	return ownedBy(s.Table, s.Set)
}

// Delete removes rows, either by entity key or by condition.
type Delete struct {
	ident
	Rows  []*Entity
	From  *Entity
	Where Condition
}

func NewDelete(rows ...*Entity) *Delete {
	return &Delete{ident: newIdent(), Rows: rows}
}

func NewDeleteWhere(from *Entity, where Condition) *Delete {
	return &Delete{ident: newIdent(), From: from, Where: where}
}

func (s *Delete) Validate() error {
	switch {
	case len(s.Rows) > 0 && s.From != nil:
		return errors.New("delete mixes entity rows with an explicit table")
	case len(s.Rows) == 0 && s.From == nil:
		return errors.New("delete has no target")
	}
	return nil
}

func ownedBy(e *Entity, cols []*Column) error {
	if e == nil {
		return nil
	}
	for _, c := range cols {
		if c.owner != e {
			return fmt.Errorf("column %q does not belong to %q", c.name, e.Name)
		}
	}
	return nil
}

func (*Select) node()      {}
func (*Insert) node()      {}
func (*Update) node()      {}
func (*Delete) node()      {}
func (*Select) statement() {}
func (*Insert) statement() {}
func (*Update) statement() {}
func (*Delete) statement() {}
