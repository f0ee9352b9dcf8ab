package usecase

import (
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("appointment-booking/internal/usecase")

// Clock reads the current time in the single zone all dates and slots are interpreted in.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Location: loc, Now: time.Now}
}

func (c Clock) now() time.Time {
	return c.Now().In(c.Location)
}

// Today is the current civil date in the clock's zone.
func (c Clock) Today() time.Time {
	return entity.CivilDate(c.now())
}

type Service struct {
	Catalog CatalogService
	Staff   StaffService
	Slot    SlotService
	Booking BookingService
}

func NewService(repo *repository.Repository, clock Clock, log *zap.Logger) *Service {
	slot := NewSlotService(repo, clock, log)

	return &Service{
		Catalog: NewCatalogService(repo.Service, clock, log),
		Staff:   NewStaffService(repo, clock, log),
		Slot:    slot,
		Booking: NewBookingService(repo, slot, clock, log),
	}
}
