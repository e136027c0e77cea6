package types

import (
	"time"

	"github.com/google/uuid"
)

// Generation is a rule producing a column value when a write leaves the
// column unset.
type Generation int

const (
	GenerateNone Generation = iota
	// GenerateIncrement stores the current value plus one, computed by the
	// database.
	GenerateIncrement
	// GenerateNow stores the client clock, truncated to the column type.
	GenerateNow
	// GenerateUUID stores a random UUID as text, or as 16 bytes for binary
	// columns.
	GenerateUUID
)

func (g Generation) String() string {
	switch g {
	case GenerateIncrement:
		return "increment"
	case GenerateNow:
		return "now"
	case GenerateUUID:
		return "uuid"
	}
	return "none"
}

// now is replaced in tests.
var now = time.Now

// apply assigns the generated value to c, either as a value or as an
// indirection.
func (g Generation) apply(c *Column) error {
	switch g {
	case GenerateIncrement:
		one, err := NewValue(c.typ, 1)
		if err != nil {
			return err
		}
		c.SetExpr(NewArith(OpAdd, c, one))
		return nil
	case GenerateNow:
		t := now()
		switch {
		case c.typ.Kind == KindTime:
			h, m, s := t.Clock()
			return c.Set(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
		case c.typ.IsString():
			return c.Set(t.Format(DateTimeLayout))
		case c.typ.IsIntegral():
			return c.Set(t.Unix())
		}
		return c.Set(t)
	case GenerateUUID:
		id := uuid.New()
		if c.typ.IsBinary() {
			return c.Set(id[:])
		}
		return c.Set(id.String())
	}
	return nil
}

// Unset reports whether a write would leave c without a value.
func (c *Column) Unset() bool {
	return !c.wasSet && c.indirection == nil
}

// ApplyInsert runs the insert rules of cols that are unset.
func ApplyInsert(cols ...*Column) error {
	for _, c := range cols {
		if c.onInsert != GenerateNone && c.Unset() {
			if err := c.onInsert.apply(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// ApplyUpdate runs the update rules of cols that are unset.
func ApplyUpdate(cols ...*Column) error {
	for _, c := range cols {
		if c.onUpdate != GenerateNone && c.Unset() {
			if err := c.onUpdate.apply(c); err != nil {
				return err
			}
		}
	}
	return nil
}
