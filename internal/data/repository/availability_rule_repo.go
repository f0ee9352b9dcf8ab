package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"appointment-booking/internal/data/entity"
	"appointment-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

type AvailabilityRuleFilter struct {
	StaffID   *int64
	DayOfWeek *entity.Weekday
	IsActive  *bool
	// Search matches the staff member's name.
	Search *string
}

type AvailabilityRuleRepository interface {
	Create(ctx context.Context, rule *entity.AvailabilityRule) error
	FindByID(ctx context.Context, id int64) (*entity.AvailabilityRule, error)
	FindAll(ctx context.Context, filter AvailabilityRuleFilter) ([]*entity.AvailabilityRule, error)
	Update(ctx context.Context, rule *entity.AvailabilityRule) error

	// Business queries
	FindActiveByStaffAndWeekday(ctx context.Context, staffID int64, day entity.Weekday) ([]*entity.AvailabilityRule, error)
}

type availabilityRuleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAvailabilityRuleRepository(db database.PgxIface, log *zap.Logger) AvailabilityRuleRepository {
	return &availabilityRuleRepository{
		db:  db,
		log: log.With(zap.String("repository", "availability_rule")),
	}
}

func pgTime(t entity.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Micros(), Valid: true}
}

func (r *availabilityRuleRepository) Create(ctx context.Context, rule *entity.AvailabilityRule) error {
	query := `
		INSERT INTO availability_rules (staff_id, day_of_week, start_time, end_time, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		rule.StaffID,
		int(rule.DayOfWeek),
		pgTime(rule.StartTime),
		pgTime(rule.EndTime),
		rule.IsActive,
		rule.CreatedAt,
		rule.UpdatedAt,
	).Scan(&rule.ID)

	if err != nil {
		r.log.Error("Failed to create availability rule",
			zap.Error(err),
			zap.Int64("staff_id", rule.StaffID),
			zap.Stringer("day_of_week", rule.DayOfWeek),
		)
		return fmt.Errorf("create availability rule for staff %d: %w", rule.StaffID, err)
	}

	return nil
}

func (r *availabilityRuleRepository) FindByID(ctx context.Context, id int64) (*entity.AvailabilityRule, error) {
	query := `
		SELECT id, staff_id, day_of_week, start_time, end_time, is_active, created_at, updated_at
		FROM availability_rules
		WHERE id = $1
	`

	rule, err := scanRule(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find availability rule by ID",
			zap.Error(err),
			zap.Int64("rule_id", id),
		)
		return nil, fmt.Errorf("find availability rule by ID %d: %w", id, err)
	}

	return rule, nil
}

func (r *availabilityRuleRepository) FindAll(ctx context.Context, filter AvailabilityRuleFilter) ([]*entity.AvailabilityRule, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT ar.id, ar.staff_id, ar.day_of_week, ar.start_time, ar.end_time, ar.is_active, ar.created_at, ar.updated_at
		FROM availability_rules ar
		JOIN staff s ON s.id = ar.staff_id
	`)

	where, args := ruleWhere(filter)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(" ORDER BY ar.staff_id, ar.day_of_week, ar.start_time, ar.id")

	return r.queryRules(ctx, queryBuilder.String(), args...)
}

func ruleWhere(filter AvailabilityRuleFilter) (string, []interface{}) {
	var conds []string
	args := []interface{}{}

	if filter.StaffID != nil {
		args = append(args, *filter.StaffID)
		conds = append(conds, fmt.Sprintf("ar.staff_id = $%d", len(args)))
	}
	if filter.DayOfWeek != nil {
		args = append(args, int(*filter.DayOfWeek))
		conds = append(conds, fmt.Sprintf("ar.day_of_week = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conds = append(conds, fmt.Sprintf("ar.is_active = $%d", len(args)))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, containsPattern(*filter.Search))
		conds = append(conds, fmt.Sprintf("s.name ILIKE $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *availabilityRuleRepository) Update(ctx context.Context, rule *entity.AvailabilityRule) error {
	query := `
		UPDATE availability_rules
		SET staff_id = $2, day_of_week = $3, start_time = $4, end_time = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		rule.ID,
		rule.StaffID,
		int(rule.DayOfWeek),
		pgTime(rule.StartTime),
		pgTime(rule.EndTime),
		rule.IsActive,
		rule.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update availability rule",
			zap.Error(err),
			zap.Int64("rule_id", rule.ID),
		)
		return fmt.Errorf("update availability rule %d: %w", rule.ID, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// FindActiveByStaffAndWeekday keeps insertion order so slot output follows rule order.
func (r *availabilityRuleRepository) FindActiveByStaffAndWeekday(ctx context.Context, staffID int64, day entity.Weekday) ([]*entity.AvailabilityRule, error) {
	query := `
		SELECT id, staff_id, day_of_week, start_time, end_time, is_active, created_at, updated_at
		FROM availability_rules
		WHERE staff_id = $1 AND day_of_week = $2 AND is_active = TRUE
		ORDER BY id
	`

	return r.queryRules(ctx, query, staffID, int(day))
}

func (r *availabilityRuleRepository) queryRules(ctx context.Context, query string, args ...interface{}) ([]*entity.AvailabilityRule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query availability rules", zap.Error(err))
		return nil, fmt.Errorf("query availability rules: %w", err)
	}
	defer rows.Close()

	var rules []*entity.AvailabilityRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			r.log.Error("Failed to scan availability rule row", zap.Error(err))
			return nil, fmt.Errorf("scan availability rule row: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate availability rule rows: %w", err)
	}

	return rules, nil
}

func scanRule(row pgx.Row) (*entity.AvailabilityRule, error) {
	var (
		rule       entity.AvailabilityRule
		day        int
		start, end pgtype.Time
	)
	err := row.Scan(
		&rule.ID,
		&rule.StaffID,
		&day,
		&start,
		&end,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.DayOfWeek = entity.Weekday(day)
	rule.StartTime = entity.TimeOfDayFromMicros(start.Microseconds)
	rule.EndTime = entity.TimeOfDayFromMicros(end.Microseconds)
	return &rule, nil
}
