package usecase

import (
	"context"
	"fmt"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/dto/response"
	"appointment-booking/pkg/apperror"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type SlotService interface {
	// Core calculations
	AvailableSlots(ctx context.Context, date time.Time, serviceID int64, staff *entity.Staff) ([]string, error)
	HasConflict(ctx context.Context, date time.Time, start entity.TimeOfDay, duration time.Duration, staffID int64) (bool, error)
	AvailableStaff(ctx context.Context, date time.Time) ([]*entity.Staff, error)

	// Public endpoints
	GetAvailableSlots(ctx context.Context, date time.Time, serviceID, staffID int64) (*response.SlotsResponse, error)
	GetAvailableStaff(ctx context.Context, date time.Time) (*response.StaffListResponse, error)
}

type slotService struct {
	repo  *repository.Repository
	clock Clock
	log   *zap.Logger
}

func NewSlotService(repo *repository.Repository, clock Clock, log *zap.Logger) SlotService {
	return &slotService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "slot")),
	}
}

// AvailableSlots lists free "HH:MM" start times in rule order, then chronologically within a rule.
// An unknown service or an inactive staff member yields an empty list.
func (s *slotService) AvailableSlots(ctx context.Context, date time.Time, serviceID int64, staff *entity.Staff) ([]string, error) {
	ctx, span := tracer.Start(ctx, "SlotService.AvailableSlots", trace.WithAttributes(
		attribute.String("date", date.Format(entity.DateLayout)),
		attribute.Int64("service_id", serviceID),
	))
	defer span.End()

	slots := []string{}
	if staff == nil || !staff.IsActive {
		return slots, nil
	}
	span.SetAttributes(attribute.Int64("staff_id", staff.ID))

	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("find service %d: %w", serviceID, err)
	}
	if service == nil {
		return slots, nil
	}

	rules, err := s.repo.AvailabilityRule.FindActiveByStaffAndWeekday(ctx, staff.ID, entity.WeekdayOf(date))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("find availability rules for staff %d: %w", staff.ID, err)
	}
	if len(rules) == 0 {
		return slots, nil
	}

	// One read per staff-day; every candidate is checked against this snapshot.
	booked, err := s.repo.Booking.FindIntervalsByStaffAndDate(ctx, staff.ID, date)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("find bookings for staff %d: %w", staff.ID, err)
	}

	duration := service.Duration()
	isToday := date.Equal(s.clock.Today())
	now := s.clock.now()

	for _, rule := range rules {
		for _, start := range partitionWindow(rule.StartTime, rule.EndTime, duration) {
			if isToday && !start.On(date, s.clock.Location).After(now) {
				continue
			}
			if conflictsWithAny(start, duration, booked) {
				continue
			}
			slots = append(slots, start.String())
		}
	}

	span.SetAttributes(attribute.Int("slot_count", len(slots)))
	return slots, nil
}

func (s *slotService) HasConflict(ctx context.Context, date time.Time, start entity.TimeOfDay, duration time.Duration, staffID int64) (bool, error) {
	booked, err := s.repo.Booking.FindIntervalsByStaffAndDate(ctx, staffID, date)
	if err != nil {
		return false, fmt.Errorf("find bookings for staff %d: %w", staffID, err)
	}
	return conflictsWithAny(start, duration, booked), nil
}

// AvailableStaff returns active staff with at least one active rule on the date's weekday, by id.
func (s *slotService) AvailableStaff(ctx context.Context, date time.Time) ([]*entity.Staff, error) {
	staff, err := s.repo.Staff.FindAvailableOnWeekday(ctx, entity.WeekdayOf(date))
	if err != nil {
		return nil, fmt.Errorf("find staff available on %s: %w", date.Format(entity.DateLayout), err)
	}
	return staff, nil
}

// GetAvailableSlots answers an empty list for past dates before looking anything up.
func (s *slotService) GetAvailableSlots(ctx context.Context, date time.Time, serviceID, staffID int64) (*response.SlotsResponse, error) {
	if date.Before(s.clock.Today()) {
		resp := response.NewSlotsResponse(nil)
		return &resp, nil
	}

	staff, err := s.repo.Staff.FindByID(ctx, staffID)
	if err != nil {
		s.log.Error("Failed to find staff", zap.Error(err), zap.Int64("staff_id", staffID))
		return nil, fmt.Errorf("find staff %d: %w", staffID, err)
	}
	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		s.log.Error("Failed to find service", zap.Error(err), zap.Int64("service_id", serviceID))
		return nil, fmt.Errorf("find service %d: %w", serviceID, err)
	}
	if staff == nil || service == nil {
		return nil, apperror.NotFound("Invalid staff or service ID")
	}

	slots, err := s.AvailableSlots(ctx, date, service.ID, staff)
	if err != nil {
		s.log.Error("Failed to compute available slots",
			zap.Error(err),
			zap.String("date", date.Format(entity.DateLayout)),
			zap.Int64("service_id", serviceID),
			zap.Int64("staff_id", staffID),
		)
		return nil, err
	}

	resp := response.NewSlotsResponse(slots)
	return &resp, nil
}

func (s *slotService) GetAvailableStaff(ctx context.Context, date time.Time) (*response.StaffListResponse, error) {
	staff, err := s.AvailableStaff(ctx, date)
	if err != nil {
		s.log.Error("Failed to get available staff",
			zap.Error(err),
			zap.String("date", date.Format(entity.DateLayout)),
		)
		return nil, err
	}

	resp := &response.StaffListResponse{Staff: make([]response.StaffSummary, 0, len(staff))}
	for _, member := range staff {
		resp.Staff = append(resp.Staff, response.StaffToSummary(member))
	}
	return resp, nil
}
