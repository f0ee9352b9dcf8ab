package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/dto/response"
	"appointment-booking/pkg/apperror"
	"appointment-booking/pkg/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type BookingService interface {
	// Public endpoint
	CreateBooking(ctx context.Context, req *request.BookAppointmentRequest) (*entity.Booking, error)

	// Admin endpoints (read-only)
	GetBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, bookingID int64) (*response.BookingResponse, error)
}

type bookingService struct {
	repo  *repository.Repository
	slots SlotService
	clock Clock
	log   *zap.Logger
}

func NewBookingService(repo *repository.Repository, slots SlotService, clock Clock, log *zap.Logger) BookingService {
	return &bookingService{
		repo:  repo,
		slots: slots,
		clock: clock,
		log:   log.With(zap.String("service", "booking")),
	}
}

// CreateBooking rechecks availability before inserting; the (staff, date, start_time)
// constraint decides between concurrent requests that pass the recheck together.
func (s *bookingService) CreateBooking(ctx context.Context, req *request.BookAppointmentRequest) (*entity.Booking, error) {
	ctx, span := tracer.Start(ctx, "BookingService.CreateBooking")
	defer span.End()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation("%s", utils.FormatValidationErrors(errs))
	}

	date, err := entity.ParseDate(req.Date)
	if err != nil {
		return nil, apperror.Validation("Invalid date format, use YYYY-MM-DD")
	}
	start, err := entity.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, apperror.Validation("Invalid start_time format, use HH:MM")
	}

	span.SetAttributes(
		attribute.String("date", date.Format(entity.DateLayout)),
		attribute.String("start_time", start.String()),
		attribute.Int64("service_id", req.ServiceID.Int64()),
	)

	if date.Before(s.clock.Today()) {
		return nil, apperror.Validation("Cannot book appointments in the past")
	}

	service, err := s.repo.Service.FindByID(ctx, req.ServiceID.Int64())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("find service %d: %w", req.ServiceID, err)
	}
	if service == nil {
		return nil, apperror.NotFound("Invalid staff or service ID")
	}

	staff, err := s.resolveStaff(ctx, req.StaffID.Int64(), date, service, start)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("staff_id", staff.ID))

	booking := &entity.Booking{
		BaseSimple: entity.BaseSimple{
			CreatedAt: s.clock.now(),
		},
		ServiceID:     service.ID,
		StaffID:       staff.ID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Date:          date,
		StartTime:     start,
		EndTime:       start.Add(service.Duration()),
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			s.log.Warn("Booking lost race for slot",
				zap.Int64("staff_id", staff.ID),
				zap.String("date", req.Date),
				zap.String("start_time", start.String()),
			)
			return nil, apperror.Conflict(err, "This time slot is already booked")
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("service_id", booking.ServiceID),
		zap.Int64("staff_id", booking.StaffID),
		zap.String("date", req.Date),
		zap.String("start_time", start.String()),
	)

	return booking, nil
}

// resolveStaff checks the requested staff member still offers start. With staffID 0 it
// picks the first available staff member, in id order, who does.
func (s *bookingService) resolveStaff(ctx context.Context, staffID int64, date time.Time, service *entity.Service, start entity.TimeOfDay) (*entity.Staff, error) {
	if staffID != 0 {
		staff, err := s.repo.Staff.FindByID(ctx, staffID)
		if err != nil {
			return nil, fmt.Errorf("find staff %d: %w", staffID, err)
		}
		if staff == nil {
			return nil, apperror.NotFound("Invalid staff or service ID")
		}

		offered, err := s.offers(ctx, date, service, staff, start)
		if err != nil {
			return nil, err
		}
		if !offered {
			return nil, apperror.Validation("Selected time slot is not available")
		}
		return staff, nil
	}

	candidates, err := s.slots.AvailableStaff(ctx, date)
	if err != nil {
		return nil, err
	}
	for _, staff := range candidates {
		offered, err := s.offers(ctx, date, service, staff, start)
		if err != nil {
			return nil, err
		}
		if offered {
			return staff, nil
		}
	}

	return nil, apperror.Validation("No staff available at the selected time")
}

func (s *bookingService) offers(ctx context.Context, date time.Time, service *entity.Service, staff *entity.Staff, start entity.TimeOfDay) (bool, error) {
	slots, err := s.slots.AvailableSlots(ctx, date, service.ID, staff)
	if err != nil {
		return false, fmt.Errorf("recheck slots for staff %d: %w", staff.ID, err)
	}
	return slices.Contains(slots, start.String()), nil
}

func (s *bookingService) GetBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if req.Page > utils.MaxPage {
		return nil, apperror.Validation("page must be at most %d", utils.MaxPage)
	}

	filter := repository.BookingFilter{
		StaffID:   req.StaffID,
		ServiceID: req.ServiceID,
		Search:    req.Search,
	}
	if req.Date != nil {
		date, err := entity.ParseDate(*req.Date)
		if err != nil {
			return nil, apperror.Validation("Invalid date format, use YYYY-MM-DD")
		}
		filter.Date = &date
	}

	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindAll(ctx, filter, limit, offset)
	if err != nil {
		s.log.Error("Failed to get bookings", zap.Error(err))
		return nil, fmt.Errorf("get bookings: %w", err)
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	names := newNameCache(s.repo)
	data := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		resp := response.BookingToResponse(booking)
		resp.ServiceName = names.service(ctx, booking.ServiceID)
		resp.StaffName = names.staff(ctx, booking.StaffID)
		data = append(data, resp)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	return response.NewPaginatedResponse(data, page, limit, total), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID int64) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to get booking", zap.Error(err), zap.Int64("booking_id", bookingID))
		return nil, fmt.Errorf("get booking %d: %w", bookingID, err)
	}
	if booking == nil {
		return nil, apperror.NotFound("Booking %d not found", bookingID)
	}

	names := newNameCache(s.repo)
	resp := response.BookingToResponse(booking)
	resp.ServiceName = names.service(ctx, booking.ServiceID)
	resp.StaffName = names.staff(ctx, booking.StaffID)
	return &resp, nil
}

// nameCache resolves display names once per listing; lookup failures leave the name empty.
type nameCache struct {
	repo         *repository.Repository
	serviceNames map[int64]string
	staffNames   map[int64]string
}

func newNameCache(repo *repository.Repository) *nameCache {
	return &nameCache{
		repo:         repo,
		serviceNames: map[int64]string{},
		staffNames:   map[int64]string{},
	}
}

func (c *nameCache) service(ctx context.Context, id int64) string {
	if name, ok := c.serviceNames[id]; ok {
		return name
	}
	var name string
	if service, err := c.repo.Service.FindByID(ctx, id); err == nil && service != nil {
		name = service.Name
	}
	c.serviceNames[id] = name
	return name
}

func (c *nameCache) staff(ctx context.Context, id int64) string {
	if name, ok := c.staffNames[id]; ok {
		return name
	}
	var name string
	if staff, err := c.repo.Staff.FindByID(ctx, id); err == nil && staff != nil {
		name = staff.Name
	}
	c.staffNames[id] = name
	return name
}
