package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

const (
	uniqueViolation    = "23505"
	slotConstraintName = "unique_booking_per_slot"
)

type BookingFilter struct {
	Date      *time.Time
	StaffID   *int64
	ServiceID *int64
	Search    *string
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id int64) (*entity.Booking, error)
	FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)

	// Business queries
	FindIntervalsByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]entity.BookedInterval, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

// Create inserts the booking in a single statement. A concurrent insert for the same
// (staff, date, start_time) fails with ErrSlotTaken.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (service_id, staff_id, customer_name, customer_email, date, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		booking.ServiceID,
		booking.StaffID,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.Date,
		pgTime(booking.StartTime),
		pgTime(booking.EndTime),
		booking.CreatedAt,
	).Scan(&booking.ID)

	if isSlotTaken(err) {
		r.log.Warn("Booking slot already taken",
			zap.Int64("staff_id", booking.StaffID),
			zap.String("date", booking.Date.Format(entity.DateLayout)),
			zap.Stringer("start_time", booking.StartTime),
		)
		return ErrSlotTaken
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.Int64("staff_id", booking.StaffID),
			zap.Int64("service_id", booking.ServiceID),
		)
		return fmt.Errorf("create booking for staff %d: %w", booking.StaffID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	query := `
		SELECT id, service_id, staff_id, customer_name, customer_email, date, start_time, end_time, created_at
		FROM bookings
		WHERE id = $1
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return nil, fmt.Errorf("find booking by ID %d: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, service_id, staff_id, customer_name, customer_email, date, start_time, end_time, created_at
		FROM bookings
	`)

	where, args := bookingWhere(filter)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY date DESC, start_time DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find bookings",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	where, args := bookingWhere(filter)

	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`+where, args...).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return total, nil
}

// FindIntervalsByStaffAndDate measures each booking by its service's current duration.
func (r *bookingRepository) FindIntervalsByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]entity.BookedInterval, error) {
	query := `
		SELECT b.id, b.start_time, s.duration_minutes
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		WHERE b.staff_id = $1 AND b.date = $2
		ORDER BY b.start_time
	`

	rows, err := r.db.Query(ctx, query, staffID, date)
	if err != nil {
		r.log.Error("Failed to find booked intervals",
			zap.Error(err),
			zap.Int64("staff_id", staffID),
			zap.String("date", date.Format(entity.DateLayout)),
		)
		return nil, fmt.Errorf("find booked intervals for staff %d: %w", staffID, err)
	}
	defer rows.Close()

	var intervals []entity.BookedInterval
	for rows.Next() {
		var (
			id       int64
			start    pgtype.Time
			duration int
		)
		if err := rows.Scan(&id, &start, &duration); err != nil {
			r.log.Error("Failed to scan booked interval row", zap.Error(err))
			return nil, fmt.Errorf("scan booked interval row: %w", err)
		}
		intervals = append(intervals, entity.BookedInterval{
			BookingID: id,
			Start:     entity.TimeOfDayFromMicros(start.Microseconds),
			Duration:  time.Duration(duration) * time.Minute,
		})
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booked interval rows: %w", err)
	}

	return intervals, nil
}

func bookingWhere(filter BookingFilter) (string, []interface{}) {
	var conds []string
	args := []interface{}{}

	if filter.Date != nil {
		args = append(args, *filter.Date)
		conds = append(conds, fmt.Sprintf("date = $%d", len(args)))
	}
	if filter.StaffID != nil {
		args = append(args, *filter.StaffID)
		conds = append(conds, fmt.Sprintf("staff_id = $%d", len(args)))
	}
	if filter.ServiceID != nil {
		args = append(args, *filter.ServiceID)
		conds = append(conds, fmt.Sprintf("service_id = $%d", len(args)))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, containsPattern(*filter.Search))
		conds = append(conds, fmt.Sprintf("(customer_name ILIKE $%d OR customer_email ILIKE $%d)", len(args), len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var (
		booking    entity.Booking
		start, end pgtype.Time
	)
	err := row.Scan(
		&booking.ID,
		&booking.ServiceID,
		&booking.StaffID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.Date,
		&start,
		&end,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.StartTime = entity.TimeOfDayFromMicros(start.Microseconds)
	booking.EndTime = entity.TimeOfDayFromMicros(end.Microseconds)
	return &booking, nil
}

func isSlotTaken(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == slotConstraintName
}
