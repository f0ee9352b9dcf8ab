package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"appointment-booking/internal/data/entity"
	"appointment-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StaffFilter struct {
	Search   *string
	IsActive *bool
}

type StaffRepository interface {
	Create(ctx context.Context, staff *entity.Staff) error
	FindByID(ctx context.Context, id int64) (*entity.Staff, error)
	FindAll(ctx context.Context, filter StaffFilter) ([]*entity.Staff, error)
	Update(ctx context.Context, staff *entity.Staff) error

	// Business queries
	FindAvailableOnWeekday(ctx context.Context, day entity.Weekday) ([]*entity.Staff, error)
}

type staffRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStaffRepository(db database.PgxIface, log *zap.Logger) StaffRepository {
	return &staffRepository{
		db:  db,
		log: log.With(zap.String("repository", "staff")),
	}
}

func (r *staffRepository) Create(ctx context.Context, staff *entity.Staff) error {
	query := `
		INSERT INTO staff (name, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		staff.Name,
		staff.Email,
		staff.IsActive,
		staff.CreatedAt,
		staff.UpdatedAt,
	).Scan(&staff.ID)

	if err != nil {
		r.log.Error("Failed to create staff",
			zap.Error(err),
			zap.String("name", staff.Name),
		)
		return fmt.Errorf("create staff %s: %w", staff.Name, err)
	}

	return nil
}

func (r *staffRepository) FindByID(ctx context.Context, id int64) (*entity.Staff, error) {
	query := `
		SELECT id, name, email, is_active, created_at, updated_at
		FROM staff
		WHERE id = $1
	`

	var staff entity.Staff
	err := r.db.QueryRow(ctx, query, id).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.IsActive,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find staff by ID",
			zap.Error(err),
			zap.Int64("staff_id", id),
		)
		return nil, fmt.Errorf("find staff by ID %d: %w", id, err)
	}

	return &staff, nil
}

func (r *staffRepository) FindAll(ctx context.Context, filter StaffFilter) ([]*entity.Staff, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, name, email, is_active, created_at, updated_at
		FROM staff
		WHERE 1 = 1
	`)

	args := []interface{}{}
	argCount := 1

	if filter.Search != nil && *filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", argCount, argCount))
		args = append(args, containsPattern(*filter.Search))
		argCount++
	}

	if filter.IsActive != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND is_active = $%d", argCount))
		args = append(args, *filter.IsActive)
	}

	queryBuilder.WriteString(" ORDER BY id")

	return r.queryStaff(ctx, queryBuilder.String(), args...)
}

func (r *staffRepository) Update(ctx context.Context, staff *entity.Staff) error {
	query := `
		UPDATE staff
		SET name = $2, email = $3, is_active = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		staff.ID,
		staff.Name,
		staff.Email,
		staff.IsActive,
		staff.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update staff",
			zap.Error(err),
			zap.Int64("staff_id", staff.ID),
		)
		return fmt.Errorf("update staff %d: %w", staff.ID, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// FindAvailableOnWeekday returns active staff having at least one active rule on the day.
func (r *staffRepository) FindAvailableOnWeekday(ctx context.Context, day entity.Weekday) ([]*entity.Staff, error) {
	query := `
		SELECT s.id, s.name, s.email, s.is_active, s.created_at, s.updated_at
		FROM staff s
		WHERE s.is_active = TRUE
		  AND EXISTS (
			SELECT 1 FROM availability_rules ar
			WHERE ar.staff_id = s.id AND ar.day_of_week = $1 AND ar.is_active = TRUE
		  )
		ORDER BY s.id
	`

	return r.queryStaff(ctx, query, int(day))
}

func (r *staffRepository) queryStaff(ctx context.Context, query string, args ...interface{}) ([]*entity.Staff, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query staff", zap.Error(err))
		return nil, fmt.Errorf("query staff: %w", err)
	}
	defer rows.Close()

	var staffList []*entity.Staff
	for rows.Next() {
		var staff entity.Staff
		err := rows.Scan(
			&staff.ID,
			&staff.Name,
			&staff.Email,
			&staff.IsActive,
			&staff.CreatedAt,
			&staff.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan staff row", zap.Error(err))
			return nil, fmt.Errorf("scan staff row: %w", err)
		}
		staffList = append(staffList, &staff)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate staff rows: %w", err)
	}

	return staffList, nil
}
