package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/fyplan/internal/db"
)

// NewTestDB opens a migrated in-memory plan store that is closed when the
// test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW wraps database in the production unit of work.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// CountRows returns the number of rows in table, optionally narrowed to one
// plan. It reads the tables directly so rollback tests don't depend on the
// repositories they are checking.
func CountRows(t *testing.T, database *sql.DB, table, planID string) int {
	t.Helper()
	query := "SELECT COUNT(*) FROM " + table
	var args []any
	if planID != "" {
		column := "plan_id"
		if table == "plans" {
			column = "id"
		}
		query += " WHERE " + column + " = ?"
		args = append(args, planID)
	}
	var n int
	require.NoError(t, database.QueryRow(query, args...).Scan(&n))
	return n
}
