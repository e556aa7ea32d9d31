package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/alexanderramin/fyplan/internal/db"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/google/uuid"
)

var activityColumns = []string{
	"id", "plan_id", "category", "type_of_activity", "activity",
	"frequency", "unit_cost", "quantity",
	"count_q1", "count_q2", "count_q3", "count_q4",
	"amount_q1", "amount_q2", "amount_q3", "amount_q4",
	"total_budget", "comment",
}

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
type SQLiteActivityRepo struct {
	db db.DBTX
}

func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

func (r *SQLiteActivityRepo) ListByPlan(ctx context.Context, planID string) ([]domain.Activity, error) {
	byPlan, err := r.ListByPlans(ctx, []string{planID})
	if err != nil {
		return nil, err
	}
	return byPlan[planID], nil
}

// ListByPlans loads the activities of several plans in one query, each slice
// in stored position order.
func (r *SQLiteActivityRepo) ListByPlans(ctx context.Context, planIDs []string) (map[string][]domain.Activity, error) {
	result := make(map[string][]domain.Activity, len(planIDs))
	if len(planIDs) == 0 {
		return result, nil
	}

	query, args, err := sq.Select(activityColumns...).
		From("plan_activities").
		Where(sq.Eq{"plan_id": planIDs}).
		OrderBy("plan_id", "position", "rowid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building activity query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		planID, a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		result[planID] = append(result[planID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return result, nil
}

// ReplaceForPlan overwrites the stored activities of a plan. Slice order
// becomes the stored position. Call it inside a transaction.
func (r *SQLiteActivityRepo) ReplaceForPlan(ctx context.Context, planID string, activities []domain.Activity) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plan_activities WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("clearing activities of plan %s: %w", planID, err)
	}

	query := `INSERT INTO plan_activities (id, plan_id, category, type_of_activity, activity,
		frequency, unit_cost, quantity, count_q1, count_q2, count_q3, count_q4,
		amount_q1, amount_q2, amount_q3, amount_q4, total_budget, comment, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for i, a := range activities {
		id := a.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := r.db.ExecContext(ctx, query,
			id, planID, a.Category, a.TypeOfActivity, a.Activity,
			a.Frequency, a.UnitCost.String(), a.Quantity,
			a.Counts[0], a.Counts[1], a.Counts[2], a.Counts[3],
			a.Amounts[0].String(), a.Amounts[1].String(), a.Amounts[2].String(), a.Amounts[3].String(),
			a.TotalBudget.String(), a.Comment, i,
		)
		if err != nil {
			return fmt.Errorf("inserting activity %s: %w", a.Key(), err)
		}
	}
	return nil
}

func scanActivity(s rowScanner) (string, domain.Activity, error) {
	var a domain.Activity
	var planID string
	err := s.Scan(
		&a.ID, &planID, &a.Category, &a.TypeOfActivity, &a.Activity,
		&a.Frequency, &a.UnitCost, &a.Quantity,
		&a.Counts[0], &a.Counts[1], &a.Counts[2], &a.Counts[3],
		&a.Amounts[0], &a.Amounts[1], &a.Amounts[2], &a.Amounts[3],
		&a.TotalBudget, &a.Comment,
	)
	if err != nil {
		return "", domain.Activity{}, fmt.Errorf("scanning activity: %w", err)
	}
	return planID, a, nil
}
