package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/zoobzio/typql"
)

func openSQLite(t *testing.T) *typql.DB {
	t.Helper()
	db, err := typql.Open("sqlite", filepath.Join(t.TempDir(), "typql.db"))
	require.NoError(t, err)
	db.SQL().SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func resetSQLite(db *typql.DB) func(t *testing.T) {
	return func(t *testing.T) {
		t.Helper()
		ctx := context.Background()
		for _, ddl := range []string{
			`DROP TABLE IF EXISTS users`,
			`CREATE TABLE users (
				id INTEGER PRIMARY KEY,
				username TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				age INTEGER,
				active INTEGER,
				created_at TEXT
			)`,
		} {
			_, err := db.SQL().ExecContext(ctx, ddl)
			require.NoError(t, err, ddl)
		}
	}
}

func TestSQLite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := openSQLite(t)
	require.Equal(t, typql.SQLite, db.Dialect().Vendor())
	runScenarios(t, db, resetSQLite(db))
}
