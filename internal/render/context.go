package render

import (
	"fmt"
	"strings"

	"github.com/zoobzio/typql/internal/types"
)

// MaxSubqueryDepth bounds nesting of subqueries and derived tables.
const MaxSubqueryDepth = 16

// Param is one bound value, captured when the placeholder was emitted.
type Param struct {
	Column *types.Column
	Type   types.Type
	Value  any
}

// Batch is one executable statement with its parameters in placeholder
// order.
type Batch struct {
	SQL    string
	Params []Param
}

// Context accumulates the output of one compilation: statement text,
// parameters, finished batches, aliases and post-execution actions.
type Context struct {
	dialect Dialect
	literal bool

	sql     strings.Builder
	params  []Param
	batches []Batch
	actions []func() error

	aliases   map[types.Handle]string
	schema    string
	hasSchema bool
	skipFirst bool
	items     []types.Expr

	qualify   bool
	nameItems bool
	target    *types.Entity
	depth     int
}

// NewContext creates a context compiling with d. In literal mode values
// are inlined instead of bound.
func NewContext(d Dialect, literal bool) *Context {
	return &Context{
		dialect: d,
		literal: literal,
		aliases: make(map[types.Handle]string),
	}
}

func (c *Context) Dialect() Dialect { return c.dialect }
func (c *Context) Literal() bool    { return c.literal }
func (c *Context) Depth() int       { return c.depth }

// Write appends statement text.
func (c *Context) Write(s string) {
	c.sql.WriteString(s)
}

// Writef appends formatted statement text.
func (c *Context) Writef(format string, args ...any) {
	fmt.Fprintf(&c.sql, format, args...)
}

// RegisterAlias returns the alias of n, assigning the next free one on
// first use. Aliases are stable for the lifetime of the context.
func (c *Context) RegisterAlias(n types.Node) string {
	if a, ok := c.aliases[n.Handle()]; ok {
		return a
	}
	a := AliasName(len(c.aliases))
	c.aliases[n.Handle()] = a
	return a
}

// Alias returns the alias of n if one was assigned.
func (c *Context) Alias(n types.Node) (string, bool) {
	a, ok := c.aliases[n.Handle()]
	return a, ok
}

// AddParameter emits the value of col. When considerIndirection is set
// and col carries an indirection, the indirection is compiled inline.
// Otherwise a placeholder is written and the current value recorded, or in
// literal mode the value is inlined.
func (c *Context) AddParameter(col *types.Column, considerIndirection bool) error {
	if considerIndirection && !col.WasSet() && col.Indirection() != nil {
		return c.dialect.RenderNode(c, col.Indirection())
	}
	if c.literal {
		lit, err := c.dialect.Literal(col.Type(), col.Value())
		if err != nil {
			return err
		}
		c.Write(lit)
		return nil
	}
	c.params = append(c.params, Param{Column: col, Type: col.Type(), Value: col.Value()})
	c.Write(c.dialect.Placeholder(len(c.params)))
	return nil
}

// AddBatch closes the pending statement into a batch entry. Placeholder
// numbering restarts for the next entry. An empty statement is ignored.
func (c *Context) AddBatch() {
	if c.sql.Len() == 0 {
		return
	}
	c.batches = append(c.batches, Batch{SQL: c.sql.String(), Params: c.params})
	c.sql.Reset()
	c.params = nil
}

// Batches returns the finished batch entries.
func (c *Context) Batches() []Batch {
	return c.batches
}

// SQL returns the pending statement text.
func (c *Context) SQL() string {
	return c.sql.String()
}

// Params returns the parameters of the pending statement.
func (c *Context) Params() []Param {
	return c.params
}

// AfterExecute queues fn to run once the compiled batches succeed.
func (c *Context) AfterExecute(fn func() error) {
	c.actions = append(c.actions, fn)
}

// RunAfterExecute runs the queued actions in registration order, stopping
// at the first failure.
func (c *Context) RunAfterExecute() error {
	for _, fn := range c.actions {
		if err := fn(); err != nil {
			return err
		}
	}
	c.actions = nil
	return nil
}

// SetSkipFirstColumn records that result rows carry a leading synthesized
// column the reader must drop.
func (c *Context) SetSkipFirstColumn(skip bool) { c.skipFirst = skip }
func (c *Context) SkipFirstColumn() bool        { return c.skipFirst }

// Items returns the select list of the outermost query.
func (c *Context) Items() []types.Expr { return c.items }

// UseSchema records the schema of a write. All writes compiled into one
// context must share a schema.
func (c *Context) UseSchema(schema string) error {
	if c.hasSchema && c.schema != schema {
		return NewConfigError("batch mixes schemas %q and %q", c.schema, schema)
	}
	c.schema, c.hasSchema = schema, true
	return nil
}

// noteSchema records a read's schema without enforcing uniformity.
func (c *Context) noteSchema(schema string) {
	if !c.hasSchema {
		c.schema, c.hasSchema = schema, true
	}
}

// Schema returns the schema the compiled statements run against.
func (c *Context) Schema() string { return c.schema }

// Qualified reports whether column references carry a qualifier.
func (c *Context) Qualified() bool { return c.qualify }

// Target returns the entity a write statement modifies.
func (c *Context) Target() *types.Entity { return c.target }

// Subquery runs fn one nesting level deeper with qualified column
// references.
func (c *Context) Subquery(fn func() error) error {
	if c.depth >= MaxSubqueryDepth {
		return fmt.Errorf("maximum subquery depth (%d) exceeded", MaxSubqueryDepth)
	}
	c.depth++
	qualify := c.qualify
	c.qualify = true
	defer func() {
		c.depth--
		c.qualify = qualify
	}()
	return fn()
}

// withTarget runs fn compiling a write against e. Column references to e
// are unqualified at the top level.
func (c *Context) withTarget(e *types.Entity, fn func() error) error {
	target, qualify := c.target, c.qualify
	c.target, c.qualify = e, false
	defer func() {
		c.target, c.qualify = target, qualify
	}()
	return fn()
}

// NameItems requests that the next select list rendered names every item,
// as a derived table does.
func (c *Context) NameItems() {
	c.nameItems = true
}

// takeNameItems consumes the request to name every select item.
func (c *Context) takeNameItems() bool {
	n := c.nameItems
	c.nameItems = false
	return n
}
