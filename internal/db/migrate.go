package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list runs on each start-up.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillPositions(db); err != nil {
		return fmt.Errorf("backfilling activity positions: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id            TEXT PRIMARY KEY,
		facility_name TEXT NOT NULL,
		facility_type TEXT NOT NULL
		              CHECK(facility_type IN ('hospital','health_center')),
		district      TEXT NOT NULL DEFAULT '',
		province      TEXT NOT NULL DEFAULT '',
		program       TEXT NOT NULL,
		fiscal_year   TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'draft'
		              CHECK(status IN ('draft','submitted','pending_approval','approved')),
		submitted_at  TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_plans_scope
		ON plans(facility_name COLLATE NOCASE, program COLLATE NOCASE, fiscal_year)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_status ON plans(status)`,

	`CREATE TABLE IF NOT EXISTS plan_activities (
		id               TEXT PRIMARY KEY,
		plan_id          TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		category         TEXT NOT NULL,
		type_of_activity TEXT NOT NULL,
		activity         TEXT NOT NULL DEFAULT '',
		frequency        INTEGER NOT NULL DEFAULT 1 CHECK(frequency >= 1),
		unit_cost        TEXT NOT NULL DEFAULT '0',
		quantity         INTEGER NOT NULL DEFAULT 0 CHECK(quantity >= 0),
		count_q1         INTEGER NOT NULL DEFAULT 0 CHECK(count_q1 >= 0),
		count_q2         INTEGER NOT NULL DEFAULT 0 CHECK(count_q2 >= 0),
		count_q3         INTEGER NOT NULL DEFAULT 0 CHECK(count_q3 >= 0),
		count_q4         INTEGER NOT NULL DEFAULT 0 CHECK(count_q4 >= 0),
		amount_q1        TEXT NOT NULL DEFAULT '0',
		amount_q2        TEXT NOT NULL DEFAULT '0',
		amount_q3        TEXT NOT NULL DEFAULT '0',
		amount_q4        TEXT NOT NULL DEFAULT '0',
		total_budget     TEXT NOT NULL DEFAULT '0',
		comment          TEXT NOT NULL DEFAULT '',
		UNIQUE(plan_id, category, type_of_activity, activity)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_activities_plan ON plan_activities(plan_id)`,

	// Columns added after the first release.
	`ALTER TABLE plans ADD COLUMN approved_at TEXT`,
	`ALTER TABLE plan_activities ADD COLUMN position INTEGER`,
}

// migrateBackfillPositions assigns render positions to activities stored
// before the position column existed, preserving insertion order.
func migrateBackfillPositions(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, `SELECT DISTINCT plan_id FROM plan_activities WHERE position IS NULL`)
	if err != nil {
		return fmt.Errorf("finding plans without positions: %w", err)
	}
	var planIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning plan id: %w", err)
		}
		planIDs = append(planIDs, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating plan ids: %w", err)
	}
	rows.Close()

	for _, planID := range planIDs {
		if err := backfillPlanPositions(ctx, db, planID); err != nil {
			return err
		}
	}
	return nil
}

func backfillPlanPositions(ctx context.Context, db *sql.DB, planID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting backfill transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var maxPos sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		`SELECT MAX(position) FROM plan_activities WHERE plan_id = ?`, planID,
	).Scan(&maxPos); err != nil {
		return fmt.Errorf("loading max position for plan %s: %w", planID, err)
	}
	next := int64(0)
	if maxPos.Valid {
		next = maxPos.Int64 + 1
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM plan_activities WHERE plan_id = ? AND position IS NULL ORDER BY rowid`, planID)
	if err != nil {
		return fmt.Errorf("listing unpositioned activities: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning activity id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE plan_activities SET position = ? WHERE id = ?`, next, id); err != nil {
			return fmt.Errorf("setting position of activity %s: %w", id, err)
		}
		next++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing position backfill: %w", err)
	}
	committed = true
	return nil
}
