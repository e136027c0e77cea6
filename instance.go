package typql

import (
	"fmt"
	"slices"

	"github.com/zoobzio/dbml"
)

// Schema builds entities from a DBML project. Every entity it returns
// belongs to the same schema and may share a write batch with the others.
type Schema struct {
	name    string
	project *dbml.Project
	// table -> declared columns, in declaration order
	tables map[string][]declared
}

type declared struct {
	name string
	typ  Type
}

// NewSchema indexes the tables of project under the schema name. Column
// types are parsed from their DBML declarations; an unknown type fails.
func NewSchema(name string, project *dbml.Project) (*Schema, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}
	s := &Schema{
		name:    name,
		project: project,
		tables:  make(map[string][]declared),
	}
	for _, table := range project.Tables {
		if !isValidSQLIdentifier(table.Name) {
			return nil, fmt.Errorf("invalid table name %q", table.Name)
		}
		cols := make([]declared, 0, len(table.Columns))
		for _, col := range table.Columns {
			if !isValidSQLIdentifier(col.Name) {
				return nil, fmt.Errorf("table %s: invalid column name %q", table.Name, col.Name)
			}
			t, err := ParseType(col.Type)
			if err != nil {
				return nil, fmt.Errorf("table %s column %s: %w", table.Name, col.Name, err)
			}
			cols = append(cols, declared{name: col.Name, typ: t})
		}
		s.tables[table.Name] = cols
	}
	return s, nil
}

// Name returns the schema name entities are created under.
func (s *Schema) Name() string { return s.name }

// Tables returns the table names in sorted order.
func (s *Schema) Tables() []string {
	out := make([]string, 0, len(s.tables))
	for name := range s.tables {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// TryEntity creates a fresh entity for table. The named columns become
// its primary key. Each call returns a new entity with empty cells.
func (s *Schema) TryEntity(table string, keys ...string) (*Entity, error) {
	cols, ok := s.tables[table]
	if !ok {
		return nil, fmt.Errorf("table '%s' not found in schema", table)
	}
	for _, k := range keys {
		if !slices.ContainsFunc(cols, func(d declared) bool { return d.name == k }) {
			return nil, fmt.Errorf("key column '%s' not found in table '%s'", k, table)
		}
	}

	e := NewEntity(s.name, table)
	for _, d := range cols {
		var opts []ColumnOption
		if slices.Contains(keys, d.name) {
			opts = append(opts, PrimaryKey())
		}
		e.Add(d.name, d.typ, opts...)
	}
	return e, nil
}

// Entity is TryEntity that panics on an unknown table or key.
func (s *Schema) Entity(table string, keys ...string) *Entity {
	e, err := s.TryEntity(table, keys...)
	if err != nil {
		panic(err)
	}
	return e
}

// isValidSQLIdentifier checks that s is a plain identifier: a letter or
// underscore followed by letters, digits or underscores.
func isValidSQLIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
