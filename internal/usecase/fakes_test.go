package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"

	"go.uber.org/zap"
)

// store is an in-memory stand-in for Postgres shared by the fake repositories.
type store struct {
	mu       sync.Mutex
	nextID   int64
	services map[int64]*entity.Service
	staff    map[int64]*entity.Staff
	rules    map[int64]*entity.AvailabilityRule
	bookings map[int64]*entity.Booking
}

func newStore() *store {
	return &store{
		services: map[int64]*entity.Service{},
		staff:    map[int64]*entity.Staff{},
		rules:    map[int64]*entity.AvailabilityRule{},
		bookings: map[int64]*entity.Booking{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) repository() *repository.Repository {
	return &repository.Repository{
		Service:          fakeServiceRepo{s},
		Staff:            fakeStaffRepo{s},
		AvailabilityRule: fakeRuleRepo{s},
		Booking:          fakeBookingRepo{s},
	}
}

func (s *store) addService(name string, minutes int) *entity.Service {
	svc := &entity.Service{Name: name, DurationMinutes: minutes, Price: 25}
	_ = fakeServiceRepo{s}.Create(context.Background(), svc)
	return svc
}

func (s *store) addStaff(name string, active bool) *entity.Staff {
	st := &entity.Staff{Name: name, IsActive: active}
	_ = fakeStaffRepo{s}.Create(context.Background(), st)
	return st
}

func (s *store) addRule(staffID int64, day entity.Weekday, start, end string, active bool) *entity.AvailabilityRule {
	from, _ := entity.ParseTimeOfDay(start)
	to, _ := entity.ParseTimeOfDay(end)
	rule := &entity.AvailabilityRule{StaffID: staffID, DayOfWeek: day, StartTime: from, EndTime: to, IsActive: active}
	_ = fakeRuleRepo{s}.Create(context.Background(), rule)
	return rule
}

func (s *store) addBooking(serviceID, staffID int64, date time.Time, start string) *entity.Booking {
	at, _ := entity.ParseTimeOfDay(start)
	b := &entity.Booking{ServiceID: serviceID, StaffID: staffID, Date: date, StartTime: at, CustomerName: "Seed", CustomerEmail: "seed@example.com"}
	if err := (fakeBookingRepo{s}).Create(context.Background(), b); err != nil {
		panic(err)
	}
	return b
}

func (s *store) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

// ==================== SERVICES ====================

type fakeServiceRepo struct{ s *store }

func (r fakeServiceRepo) Create(_ context.Context, service *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	service.ID = r.s.id()
	r.s.services[service.ID] = clone(service)
	return nil
}

func (r fakeServiceRepo) FindByID(_ context.Context, id int64) (*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if svc, ok := r.s.services[id]; ok {
		return clone(svc), nil
	}
	return nil, nil
}

func (r fakeServiceRepo) FindAll(_ context.Context, search *string) ([]*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Service
	for _, svc := range r.s.services {
		if search != nil && !strings.Contains(strings.ToLower(svc.Name), strings.ToLower(*search)) {
			continue
		}
		out = append(out, clone(svc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeServiceRepo) Update(_ context.Context, service *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[service.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.services[service.ID] = clone(service)
	return nil
}

// ==================== STAFF ====================

type fakeStaffRepo struct{ s *store }

func (r fakeStaffRepo) Create(_ context.Context, staff *entity.Staff) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	staff.ID = r.s.id()
	r.s.staff[staff.ID] = clone(staff)
	return nil
}

func (r fakeStaffRepo) FindByID(_ context.Context, id int64) (*entity.Staff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st, ok := r.s.staff[id]; ok {
		return clone(st), nil
	}
	return nil, nil
}

func (r fakeStaffRepo) FindAll(_ context.Context, filter repository.StaffFilter) ([]*entity.Staff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Staff
	for _, st := range r.s.staff {
		if filter.IsActive != nil && st.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != nil && !strings.Contains(strings.ToLower(st.Name), strings.ToLower(*filter.Search)) {
			continue
		}
		out = append(out, clone(st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeStaffRepo) Update(_ context.Context, staff *entity.Staff) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.staff[staff.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.staff[staff.ID] = clone(staff)
	return nil
}

func (r fakeStaffRepo) FindAvailableOnWeekday(_ context.Context, day entity.Weekday) ([]*entity.Staff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Staff
	for _, st := range r.s.staff {
		if !st.IsActive {
			continue
		}
		for _, rule := range r.s.rules {
			if rule.StaffID == st.ID && rule.DayOfWeek == day && rule.IsActive {
				out = append(out, clone(st))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ==================== AVAILABILITY RULES ====================

type fakeRuleRepo struct{ s *store }

func (r fakeRuleRepo) Create(_ context.Context, rule *entity.AvailabilityRule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rule.ID = r.s.id()
	r.s.rules[rule.ID] = clone(rule)
	return nil
}

func (r fakeRuleRepo) FindByID(_ context.Context, id int64) (*entity.AvailabilityRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rule, ok := r.s.rules[id]; ok {
		return clone(rule), nil
	}
	return nil, nil
}

func (r fakeRuleRepo) FindAll(_ context.Context, filter repository.AvailabilityRuleFilter) ([]*entity.AvailabilityRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AvailabilityRule
	for _, rule := range r.s.rules {
		if filter.StaffID != nil && rule.StaffID != *filter.StaffID {
			continue
		}
		if filter.DayOfWeek != nil && rule.DayOfWeek != *filter.DayOfWeek {
			continue
		}
		if filter.IsActive != nil && rule.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != nil {
			st, ok := r.s.staff[rule.StaffID]
			if !ok || !strings.Contains(strings.ToLower(st.Name), strings.ToLower(*filter.Search)) {
				continue
			}
		}
		out = append(out, clone(rule))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeRuleRepo) Update(_ context.Context, rule *entity.AvailabilityRule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rules[rule.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.rules[rule.ID] = clone(rule)
	return nil
}

func (r fakeRuleRepo) FindActiveByStaffAndWeekday(_ context.Context, staffID int64, day entity.Weekday) ([]*entity.AvailabilityRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AvailabilityRule
	for _, rule := range r.s.rules {
		if rule.StaffID == staffID && rule.DayOfWeek == day && rule.IsActive {
			out = append(out, clone(rule))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ==================== BOOKINGS ====================

type fakeBookingRepo struct{ s *store }

// Create enforces the (staff, date, start_time) uniqueness the real table has.
func (r fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.StaffID == booking.StaffID && b.Date.Equal(booking.Date) && b.StartTime == booking.StartTime {
			return repository.ErrSlotTaken
		}
	}
	booking.ID = r.s.id()
	r.s.bookings[booking.ID] = clone(booking)
	return nil
}

func (r fakeBookingRepo) FindByID(_ context.Context, id int64) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bookings[id]; ok {
		return clone(b), nil
	}
	return nil, nil
}

func (r fakeBookingRepo) matching(filter repository.BookingFilter) []*entity.Booking {
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if filter.Date != nil && !b.Date.Equal(*filter.Date) {
			continue
		}
		if filter.StaffID != nil && b.StaffID != *filter.StaffID {
			continue
		}
		if filter.ServiceID != nil && b.ServiceID != *filter.ServiceID {
			continue
		}
		out = append(out, clone(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r fakeBookingRepo) FindAll(_ context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.matching(filter)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r fakeBookingRepo) Count(_ context.Context, filter repository.BookingFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r fakeBookingRepo) FindIntervalsByStaffAndDate(_ context.Context, staffID int64, date time.Time) ([]entity.BookedInterval, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.BookedInterval
	for _, b := range r.s.bookings {
		if b.StaffID != staffID || !b.Date.Equal(date) {
			continue
		}
		svc := r.s.services[b.ServiceID]
		out = append(out, entity.BookedInterval{
			BookingID: b.ID,
			Start:     b.StartTime,
			Duration:  svc.Duration(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

// ==================== CLOCK ====================

// fixedClock pins "now" to Monday 2026-10-19 at the given wall time in UTC.
func fixedClock(hour, minute int) Clock {
	now := time.Date(2026, 10, 19, hour, minute, 0, 0, time.UTC)
	return Clock{Location: time.UTC, Now: func() time.Time { return now }}
}

func mustDate(s string) time.Time {
	d, err := entity.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestService(st *store, clock Clock) *Service {
	return NewService(st.repository(), clock, zap.NewNop())
}
