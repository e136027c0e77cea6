package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zoobzio/typql"
)

func openMariaDB(t *testing.T) *typql.DB {
	t.Helper()
	mc := getMariaDBContainer(t)

	db, err := typql.Open("mysql", mc.connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Wait for connection to be ready
	for i := 0; i < 30; i++ {
		if err = db.SQL().Ping(); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)
	return db
}

func resetMariaDB(db *typql.DB) func(t *testing.T) {
	return func(t *testing.T) {
		t.Helper()
		ctx := context.Background()
		for _, ddl := range []string{
			`DROP TABLE IF EXISTS users`,
			`CREATE TABLE users (
				id BIGINT PRIMARY KEY,
				username VARCHAR(64) NOT NULL,
				email VARCHAR(255) NOT NULL UNIQUE,
				age INT,
				active BOOLEAN,
				created_at TIMESTAMP(6) NULL
			)`,
		} {
			_, err := db.SQL().ExecContext(ctx, ddl)
			require.NoError(t, err, ddl)
		}
	}
}

func TestMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := openMariaDB(t)
	require.Equal(t, typql.MySQL, db.Dialect().Vendor())
	runScenarios(t, db, resetMariaDB(db))
}
