package typql_test

import (
	"testing"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/typql"
)

func createTestProject() *dbml.Project {
	project := dbml.NewProject("test_db")

	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "bigint"))
	users.AddColumn(dbml.NewColumn("name", "varchar(64)"))
	users.AddColumn(dbml.NewColumn("age", "int"))
	users.AddColumn(dbml.NewColumn("created", "timestamp"))
	project.AddTable(users)

	counters := dbml.NewTable("counters")
	counters.AddColumn(dbml.NewColumn("id", "bigint"))
	counters.AddColumn(dbml.NewColumn("hits", "int"))
	project.AddTable(counters)

	return project
}

func createTestSchema(t *testing.T) *typql.Schema {
	t.Helper()
	s, err := typql.NewSchema("app", createTestProject())
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}
	return s
}

func TestNewSchema(t *testing.T) {
	s := createTestSchema(t)
	if s.Name() != "app" {
		t.Errorf("Name() = %q, want app", s.Name())
	}
	tables := s.Tables()
	if len(tables) != 2 || tables[0] != "counters" || tables[1] != "users" {
		t.Errorf("Tables() = %v", tables)
	}
}

func TestNewSchema_NilProject(t *testing.T) {
	if _, err := typql.NewSchema("app", nil); err == nil {
		t.Fatal("Expected error for nil project")
	}
}

func TestNewSchema_UnknownType(t *testing.T) {
	project := dbml.NewProject("test")
	table := dbml.NewTable("docs")
	table.AddColumn(dbml.NewColumn("body", "jsonb"))
	project.AddTable(table)

	if _, err := typql.NewSchema("app", project); err == nil {
		t.Fatal("Expected error for an unsupported column type")
	}
}

func TestNewSchema_InvalidIdentifier(t *testing.T) {
	project := dbml.NewProject("test")
	table := dbml.NewTable("users; DROP TABLE users")
	table.AddColumn(dbml.NewColumn("id", "bigint"))
	project.AddTable(table)

	if _, err := typql.NewSchema("app", project); err == nil {
		t.Fatal("Expected error for an invalid table name")
	}
}

func TestSchema_Entity(t *testing.T) {
	s := createTestSchema(t)

	users := s.Entity("users", "id")
	if users.Schema != "app" || users.Name != "users" {
		t.Errorf("entity = %s.%s", users.Schema, users.Name)
	}
	cols := users.Columns()
	if len(cols) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(cols))
	}

	if got := users.Column("name").Type(); got != typql.VarChar(64) {
		t.Errorf("name type = %v", got)
	}
	if got := users.Column("age").Type(); got != typql.Integer() {
		t.Errorf("age type = %v", got)
	}
	if got := users.Column("created").Type(); got != typql.Timestamp() {
		t.Errorf("created type = %v", got)
	}

	keys := users.Keys()
	if len(keys) != 1 || keys[0].Name() != "id" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestSchema_EntityIsFresh(t *testing.T) {
	s := createTestSchema(t)
	a := s.Entity("counters", "id")
	b := s.Entity("counters", "id")

	if err := a.Column("hits").Set(3); err != nil {
		t.Fatal(err)
	}
	if b.Column("hits").HasValue() {
		t.Error("entities from one schema must not share cells")
	}
	if a.Handle() == b.Handle() {
		t.Error("entities must have distinct handles")
	}
}

func TestSchema_TryEntity_Errors(t *testing.T) {
	s := createTestSchema(t)

	if _, err := s.TryEntity("missing"); err == nil {
		t.Error("Expected error for unknown table")
	}
	if _, err := s.TryEntity("users", "email"); err == nil {
		t.Error("Expected error for unknown key column")
	}
}

func TestSchema_Entity_Panics(t *testing.T) {
	s := createTestSchema(t)
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for unknown table")
		}
	}()
	s.Entity("missing")
}
