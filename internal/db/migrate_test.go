package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"plans", "plan_activities"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_plans_scope", "idx_plans_status", "idx_plan_activities_plan"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_AddsLateColumns(t *testing.T) {
	db := openTestDB(t)

	assert.True(t, hasColumn(t, db, "plans", "approved_at"))
	assert.True(t, hasColumn(t, db, "plan_activities", "position"))
}

func TestMigrate_EnforcesConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO plans (id, facility_name, facility_type, program, fiscal_year, status, created_at, updated_at)
		VALUES ('p1', 'Kabgayi', 'hospital', 'HIV', '2025-2026', 'archived', 'x', 'x')`)
	assert.Error(t, err, "unknown status must be rejected")

	_, err = db.Exec(`INSERT INTO plans (id, facility_name, facility_type, program, fiscal_year, created_at, updated_at)
		VALUES ('p1', 'Kabgayi', 'hospital', 'HIV', '2025-2026', 'x', 'x')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO plans (id, facility_name, facility_type, program, fiscal_year, created_at, updated_at)
		VALUES ('p2', 'KABGAYI', 'hospital', 'hiv', '2025-2026', 'x', 'x')`)
	assert.Error(t, err, "one plan per facility, program and fiscal year")

	_, err = db.Exec(`INSERT INTO plan_activities (id, plan_id, category, type_of_activity, frequency)
		VALUES ('a1', 'p1', 'HR', 'Salaries', 0)`)
	assert.Error(t, err, "frequency below one must be rejected")
}

func hasColumn(t *testing.T, db *sql.DB, table, column string) bool {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		if name == column {
			return true
		}
	}
	return false
}
