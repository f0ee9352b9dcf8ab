package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/dto/response"
	"appointment-booking/internal/usecase"
	"appointment-booking/pkg/apperror"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type stubSlots struct {
	usecase.SlotService
	slots func(ctx context.Context, date time.Time, serviceID, staffID int64) (*response.SlotsResponse, error)
	staff func(ctx context.Context, date time.Time) (*response.StaffListResponse, error)
}

func (s stubSlots) GetAvailableSlots(ctx context.Context, date time.Time, serviceID, staffID int64) (*response.SlotsResponse, error) {
	return s.slots(ctx, date, serviceID, staffID)
}

func (s stubSlots) GetAvailableStaff(ctx context.Context, date time.Time) (*response.StaffListResponse, error) {
	return s.staff(ctx, date)
}

type stubBookings struct {
	usecase.BookingService
	create func(ctx context.Context, req *request.BookAppointmentRequest) (*entity.Booking, error)
	get    func(ctx context.Context, id int64) (*response.BookingResponse, error)
}

func (s stubBookings) CreateBooking(ctx context.Context, req *request.BookAppointmentRequest) (*entity.Booking, error) {
	return s.create(ctx, req)
}

func (s stubBookings) GetBookingByID(ctx context.Context, id int64) (*response.BookingResponse, error) {
	return s.get(ctx, id)
}

type stubCatalog struct {
	usecase.CatalogService
	services []response.ServiceSummary
	err      error
}

func (s stubCatalog) GetServices(context.Context) (*response.ServicesResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &response.ServicesResponse{Services: s.services}, nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestGetAvailableSlotsParameterErrors(t *testing.T) {
	h := NewAvailabilityHandler(stubSlots{
		slots: func(context.Context, time.Time, int64, int64) (*response.SlotsResponse, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}, zap.NewNop())

	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"missing all", "", "Missing required parameters"},
		{"missing staff", "?date=2026-10-26&service_id=1", "Missing required parameters"},
		{"bad date", "?date=26-10-2026&service_id=1&staff_id=1", "Invalid date format, use YYYY-MM-DD"},
		{"bad id", "?date=2026-10-26&service_id=abc&staff_id=1", `invalid service_id "abc"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.GetAvailableSlots(rec, httptest.NewRequest(http.MethodGet, "/api/available-slots/"+tc.query, nil))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := decodeBody(t, rec)["error"]; got != tc.want {
				t.Fatalf("error = %v, want %q", got, tc.want)
			}
		})
	}
}

func TestGetAvailableSlotsNotFound(t *testing.T) {
	h := NewAvailabilityHandler(stubSlots{
		slots: func(context.Context, time.Time, int64, int64) (*response.SlotsResponse, error) {
			return nil, apperror.NotFound("Invalid staff or service ID")
		},
	}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetAvailableSlots(rec, httptest.NewRequest(http.MethodGet, "/api/available-slots/?date=2026-10-26&service_id=9&staff_id=9", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "Invalid staff or service ID" {
		t.Fatalf("error = %v", got)
	}
}

func TestGetAvailableSlotsSuccess(t *testing.T) {
	h := NewAvailabilityHandler(stubSlots{
		slots: func(_ context.Context, date time.Time, serviceID, staffID int64) (*response.SlotsResponse, error) {
			if date.Format(entity.DateLayout) != "2026-10-26" || serviceID != 3 || staffID != 4 {
				t.Fatalf("unexpected args %v %d %d", date, serviceID, staffID)
			}
			resp := response.NewSlotsResponse([]string{"09:00", "09:30"})
			return &resp, nil
		},
	}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetAvailableSlots(rec, httptest.NewRequest(http.MethodGet, "/api/available-slots/?date=2026-10-26&service_id=3&staff_id=4", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"slots":["09:00","09:30"]}` {
		t.Fatalf("body = %s", got)
	}
}

func TestGetAvailableStaffMissingDate(t *testing.T) {
	h := NewAvailabilityHandler(stubSlots{}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetAvailableStaff(rec, httptest.NewRequest(http.MethodGet, "/api/available-staff/", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "Missing date parameter" {
		t.Fatalf("error = %v", got)
	}
}

func TestGetAvailableStaffSuccess(t *testing.T) {
	h := NewAvailabilityHandler(stubSlots{
		staff: func(context.Context, time.Time) (*response.StaffListResponse, error) {
			return &response.StaffListResponse{Staff: []response.StaffSummary{{ID: 1, Name: "Ana"}}}, nil
		},
	}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetAvailableStaff(rec, httptest.NewRequest(http.MethodGet, "/api/available-staff/?date=2026-10-26", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"staff":[{"id":1,"name":"Ana"}]}` {
		t.Fatalf("body = %s", got)
	}
}

func TestGetServicesInternalErrorIsHidden(t *testing.T) {
	h := NewCatalogHandler(stubCatalog{err: errors.New("connection refused")}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetServices(rec, httptest.NewRequest(http.MethodGet, "/api/services/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "Internal server error" {
		t.Fatalf("error = %v", got)
	}
}

func TestBookAppointment(t *testing.T) {
	var got *request.BookAppointmentRequest
	h := NewBookingHandler(stubBookings{
		create: func(_ context.Context, req *request.BookAppointmentRequest) (*entity.Booking, error) {
			got = req
			b := &entity.Booking{}
			b.ID = 42
			return b, nil
		},
	}, zap.NewNop())

	body := `{"service_id":"1","staff_id":"2","customer_name":"Jo","customer_email":"jo@example.com","date":"2026-10-26","start_time":"10:00"}`
	rec := httptest.NewRecorder()
	h.BookAppointment(rec, httptest.NewRequest(http.MethodPost, "/api/book-appointment/", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if resp := strings.TrimSpace(rec.Body.String()); resp != `{"success":true,"booking_id":42}` {
		t.Fatalf("body = %s", resp)
	}
	if got.ServiceID.Int64() != 1 || got.StaffID.Int64() != 2 {
		t.Fatalf("ids not decoded from strings: %+v", got)
	}
}

func TestBookAppointmentErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		msg    string
	}{
		{"malformed", `{"service_id":`, nil, http.StatusBadRequest, "Invalid request body"},
		{"validation", `{}`, apperror.Validation("customer_name is required"), http.StatusBadRequest, "customer_name is required"},
		{"conflict", `{}`, apperror.Conflict(errors.New("23505"), "This time slot is already booked"), http.StatusBadRequest, "This time slot is already booked"},
		{"not found", `{}`, apperror.NotFound("Service not found"), http.StatusNotFound, "Service not found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewBookingHandler(stubBookings{
				create: func(context.Context, *request.BookAppointmentRequest) (*entity.Booking, error) {
					return nil, tc.err
				},
			}, zap.NewNop())

			rec := httptest.NewRecorder()
			h.BookAppointment(rec, httptest.NewRequest(http.MethodPost, "/api/book-appointment/", strings.NewReader(tc.body)))

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if got := decodeBody(t, rec)["error"]; got != tc.msg {
				t.Fatalf("error = %v, want %q", got, tc.msg)
			}
		})
	}
}

func TestAdminGetBookingPathParam(t *testing.T) {
	h := NewAdminHandler(nil, nil, stubBookings{
		get: func(_ context.Context, id int64) (*response.BookingResponse, error) {
			if id != 7 {
				return nil, apperror.NotFound("Booking not found")
			}
			return &response.BookingResponse{ID: 7, CustomerName: "Jo"}, nil
		},
	}, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/api/admin/bookings/{id}/", h.GetBooking)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/bookings/7/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeBody(t, rec)["customer_name"]; got != "Jo" {
		t.Fatalf("customer_name = %v", got)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/bookings/8/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/bookings/x/", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAdminListRulesRejectsBadFilter(t *testing.T) {
	h := NewAdminHandler(nil, nil, nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ListRules(rec, httptest.NewRequest(http.MethodGet, "/api/admin/availability-rules/?is_active=maybe", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != `invalid is_active "maybe"` {
		t.Fatalf("error = %v", got)
	}
}

type stubStaff struct {
	usecase.StaffService
	listRules func(ctx context.Context, req *request.AvailabilityRuleListRequest) ([]response.AvailabilityRuleResponse, error)
}

func (s stubStaff) ListRules(ctx context.Context, req *request.AvailabilityRuleListRequest) ([]response.AvailabilityRuleResponse, error) {
	return s.listRules(ctx, req)
}

func TestAdminListRulesFilters(t *testing.T) {
	var got *request.AvailabilityRuleListRequest
	h := NewAdminHandler(nil, stubStaff{
		listRules: func(_ context.Context, req *request.AvailabilityRuleListRequest) ([]response.AvailabilityRuleResponse, error) {
			got = req
			return []response.AvailabilityRuleResponse{}, nil
		},
	}, nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ListRules(rec, httptest.NewRequest(http.MethodGet, "/api/admin/availability-rules/?search=sam&day_of_week=2&staff_id=3", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.Search == nil || *got.Search != "sam" || got.DayOfWeek == nil || *got.DayOfWeek != 2 || got.StaffID == nil || *got.StaffID != 3 {
		t.Fatalf("filters not forwarded: %+v", got)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"availability_rules":[]}` {
		t.Fatalf("body = %s", body)
	}
}
