package dao_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"carrier-engagement/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, "sqlite", ":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn))
	return conn
}
