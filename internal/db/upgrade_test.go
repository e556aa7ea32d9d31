package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_BackfillsPositions simulates a store created before
// the position and approved_at columns existed. Existing activities must keep
// their insertion order as positions after migration.
func TestMigrate_UpgradePath_BackfillsPositions(t *testing.T) {
	db, err := sql.Open("sqlite", MemoryPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	legacy := []string{
		`CREATE TABLE plans (
			id TEXT PRIMARY KEY, facility_name TEXT NOT NULL, facility_type TEXT NOT NULL,
			district TEXT NOT NULL DEFAULT '', province TEXT NOT NULL DEFAULT '',
			program TEXT NOT NULL, fiscal_year TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft', submitted_at TEXT,
			created_at TEXT NOT NULL, updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE plan_activities (
			id TEXT PRIMARY KEY, plan_id TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
			category TEXT NOT NULL, type_of_activity TEXT NOT NULL, activity TEXT NOT NULL DEFAULT '',
			frequency INTEGER NOT NULL DEFAULT 1, unit_cost TEXT NOT NULL DEFAULT '0',
			quantity INTEGER NOT NULL DEFAULT 0,
			count_q1 INTEGER NOT NULL DEFAULT 0, count_q2 INTEGER NOT NULL DEFAULT 0,
			count_q3 INTEGER NOT NULL DEFAULT 0, count_q4 INTEGER NOT NULL DEFAULT 0,
			amount_q1 TEXT NOT NULL DEFAULT '0', amount_q2 TEXT NOT NULL DEFAULT '0',
			amount_q3 TEXT NOT NULL DEFAULT '0', amount_q4 TEXT NOT NULL DEFAULT '0',
			total_budget TEXT NOT NULL DEFAULT '0', comment TEXT NOT NULL DEFAULT '',
			UNIQUE(plan_id, category, type_of_activity, activity)
		)`,
		`INSERT INTO plans (id, facility_name, facility_type, program, fiscal_year, created_at, updated_at)
			VALUES ('p1', 'Kabgayi', 'hospital', 'MALARIA', '2024-2025', '2024-07-01T00:00:00Z', '2024-07-01T00:00:00Z')`,
		`INSERT INTO plan_activities (id, plan_id, category, type_of_activity, activity) VALUES ('a-z', 'p1', 'HR', 'Salaries', 'Nurses')`,
		`INSERT INTO plan_activities (id, plan_id, category, type_of_activity, activity) VALUES ('a-y', 'p1', 'HR', 'Salaries', 'Midwives')`,
		`INSERT INTO plan_activities (id, plan_id, category, type_of_activity, activity) VALUES ('a-x', 'p1', 'Travel', 'Fuel', '')`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	rows, err := db.Query(`SELECT id, position FROM plan_activities WHERE plan_id = 'p1' ORDER BY position`)
	require.NoError(t, err)
	defer rows.Close()

	var ids []string
	var positions []int
	for rows.Next() {
		var id string
		var pos int
		require.NoError(t, rows.Scan(&id, &pos))
		ids = append(ids, id)
		positions = append(positions, pos)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"a-z", "a-y", "a-x"}, ids)
	assert.Equal(t, []int{0, 1, 2}, positions)

	var approved sql.NullString
	require.NoError(t, db.QueryRow(`SELECT approved_at FROM plans WHERE id = 'p1'`).Scan(&approved))
	assert.False(t, approved.Valid)
}
