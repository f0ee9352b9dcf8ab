package repository

import (
	"errors"
	"strings"

	"appointment-booking/pkg/database"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by updates that matched no row.
	ErrNotFound = errors.New("record not found")
	// ErrSlotTaken reports a violation of the (staff, date, start_time) uniqueness constraint.
	ErrSlotTaken = errors.New("time slot already booked")
)

type Repository struct {
	Service          ServiceRepository
	Staff            StaffRepository
	AvailabilityRule AvailabilityRuleRepository
	Booking          BookingRepository
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term literally anywhere in the column.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Service:          NewServiceRepository(db, log),
		Staff:            NewStaffRepository(db, log),
		AvailabilityRule: NewAvailabilityRuleRepository(db, log),
		Booking:          NewBookingRepository(db, log),
	}
}
