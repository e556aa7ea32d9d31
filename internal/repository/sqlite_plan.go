package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/alexanderramin/fyplan/internal/db"
	"github.com/alexanderramin/fyplan/internal/domain"
)

var planColumns = []string{
	"id", "facility_name", "facility_type", "district", "province", "program",
	"fiscal_year", "status", "submitted_at", "approved_at", "created_at", "updated_at",
}

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	query := `INSERT INTO plans (id, facility_name, facility_type, district, province, program,
		fiscal_year, status, submitted_at, approved_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.FacilityName,
		string(p.FacilityType),
		p.District,
		p.Province,
		p.Program,
		p.FiscalYear,
		string(p.Status),
		nullableTime(p.SubmittedAt),
		nullableTime(p.ApprovedAt),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%s %s %s: %w", p.FacilityName, p.Program, p.FiscalYear, domain.ErrPlanExists)
		}
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	query, args, err := sq.Select(planColumns...).From("plans").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building plan query: %w", err)
	}
	p, err := scanPlan(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %q: %w", id, domain.ErrNotFound)
	}
	return p, err
}

func (r *SQLitePlanRepo) FindByScope(ctx context.Context, facility, program, fiscalYear string) (*domain.Plan, error) {
	query, args, err := sq.Select(planColumns...).From("plans").
		Where(sq.Expr("facility_name = ? COLLATE NOCASE", strings.TrimSpace(facility))).
		Where(sq.Expr("program = ? COLLATE NOCASE", program)).
		Where(sq.Eq{"fiscal_year": fiscalYear}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building plan scope query: %w", err)
	}
	p, err := scanPlan(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan for %s %s %s: %w", facility, program, fiscalYear, domain.ErrNotFound)
	}
	return p, err
}

func (r *SQLitePlanRepo) List(ctx context.Context, f PlanFilter) ([]*domain.Plan, error) {
	b := sq.Select(planColumns...).From("plans").OrderBy("updated_at DESC", "id")
	if f.Facility != "" {
		b = b.Where(sq.Expr("facility_name = ? COLLATE NOCASE", strings.TrimSpace(f.Facility)))
	}
	if f.Program != "" {
		b = b.Where(sq.Expr("program = ? COLLATE NOCASE", f.Program))
	}
	if f.FiscalYear != "" {
		b = b.Where(sq.Eq{"fiscal_year": f.FiscalYear})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": string(f.Status)})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building plan list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

func (r *SQLitePlanRepo) Update(ctx context.Context, p *domain.Plan) error {
	query := `UPDATE plans SET facility_name = ?, facility_type = ?, district = ?, province = ?,
		program = ?, fiscal_year = ?, status = ?, submitted_at = ?, approved_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.FacilityName,
		string(p.FacilityType),
		p.District,
		p.Province,
		p.Program,
		p.FiscalYear,
		string(p.Status),
		nullableTime(p.SubmittedAt),
		nullableTime(p.ApprovedAt),
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("plan %q: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("plan %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

// CountByFacility counts plans per facility, matching names case-insensitively.
// The result is keyed by domain.NormalizeName.
func (r *SQLitePlanRepo) CountByFacility(ctx context.Context, facilities []string) (map[string]int, error) {
	counts := make(map[string]int, len(facilities))
	if len(facilities) == 0 {
		return counts, nil
	}
	names := make([]string, len(facilities))
	for i, f := range facilities {
		names[i] = domain.NormalizeName(f)
	}

	query, args, err := sq.Select("LOWER(TRIM(facility_name))", "COUNT(*)").
		From("plans").
		Where(sq.Eq{"LOWER(TRIM(facility_name))": names}).
		GroupBy("LOWER(TRIM(facility_name))").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building facility count query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting plans: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scanning plan count: %w", err)
		}
		counts[name] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan counts: %w", err)
	}
	return counts, nil
}

func scanPlan(s rowScanner) (*domain.Plan, error) {
	var p domain.Plan
	var facilityType, status, createdAt, updatedAt string
	var submittedAt, approvedAt sql.NullString

	err := s.Scan(
		&p.ID, &p.FacilityName, &facilityType, &p.District, &p.Province, &p.Program,
		&p.FiscalYear, &status, &submittedAt, &approvedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	p.FacilityType = domain.FacilityType(facilityType)
	p.Status = domain.PlanStatus(status)
	p.SubmittedAt = parseNullableTime(submittedAt)
	p.ApprovedAt = parseNullableTime(approvedAt)

	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}
