package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/usecase"
	"appointment-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxAdminBodyBytes = 64 << 10

// AdminHandler serves the back-office API used to maintain the catalog, staff and
// their weekly availability, and to inspect bookings.
type AdminHandler struct {
	catalog  usecase.CatalogService
	staff    usecase.StaffService
	bookings usecase.BookingService
	log      *zap.Logger
}

func NewAdminHandler(catalog usecase.CatalogService, staff usecase.StaffService, bookings usecase.BookingService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		catalog:  catalog,
		staff:    staff,
		bookings: bookings,
		log:      log.With(zap.String("handler", "admin")),
	}
}

// ==================== SERVICES ====================

// ListServices handles GET /api/admin/services/?search=
func (h *AdminHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListServices(r.Context(), utils.OptionalString(r.URL.Query().Get("search")))
	if err != nil {
		writeServiceError(w, h.log, err, "list services")
		return
	}

	utils.ResponseSuccess(w, map[string]any{"services": services})
}

// CreateService handles POST /api/admin/services/
func (h *AdminHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req request.ServiceRequest
	if !h.decode(w, r, &req) {
		return
	}

	service, err := h.catalog.CreateService(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create service")
		return
	}

	utils.ResponseCreated(w, service)
}

// UpdateService handles PUT /api/admin/services/{id}/
func (h *AdminHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := h.pathID(w, r, "service ID")
	if !ok {
		return
	}

	var req request.ServiceUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	service, err := h.catalog.UpdateService(r.Context(), serviceID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update service")
		return
	}

	utils.ResponseSuccess(w, service)
}

// ==================== STAFF ====================

// ListStaff handles GET /api/admin/staff/?search=&is_active=
func (h *AdminHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	isActive, err := utils.ParseOptionalBool(query.Get("is_active"), "is_active")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error())
		return
	}

	staff, err := h.staff.ListStaff(r.Context(), &request.StaffListRequest{
		Search:   utils.OptionalString(query.Get("search")),
		IsActive: isActive,
	})
	if err != nil {
		writeServiceError(w, h.log, err, "list staff")
		return
	}

	utils.ResponseSuccess(w, map[string]any{"staff": staff})
}

// CreateStaff handles POST /api/admin/staff/
func (h *AdminHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req request.StaffRequest
	if !h.decode(w, r, &req) {
		return
	}

	staff, err := h.staff.CreateStaff(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create staff")
		return
	}

	utils.ResponseCreated(w, staff)
}

// UpdateStaff handles PUT /api/admin/staff/{id}/
func (h *AdminHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	staffID, ok := h.pathID(w, r, "staff ID")
	if !ok {
		return
	}

	var req request.StaffUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	staff, err := h.staff.UpdateStaff(r.Context(), staffID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update staff")
		return
	}

	utils.ResponseSuccess(w, staff)
}

// ==================== AVAILABILITY RULES ====================

// ListRules handles GET /api/admin/availability-rules/?staff_id=&day_of_week=&is_active=&search=
func (h *AdminHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.AvailabilityRuleListRequest{
		Search: utils.OptionalString(query.Get("search")),
	}

	var err error
	if req.StaffID, err = utils.ParseOptionalID(query.Get("staff_id"), "staff_id"); err != nil {
		utils.ResponseBadRequest(w, err.Error())
		return
	}
	if req.IsActive, err = utils.ParseOptionalBool(query.Get("is_active"), "is_active"); err != nil {
		utils.ResponseBadRequest(w, err.Error())
		return
	}
	if raw := query.Get("day_of_week"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid day_of_week "+strconv.Quote(raw))
			return
		}
		req.DayOfWeek = &day
	}

	rules, err := h.staff.ListRules(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "list availability rules")
		return
	}

	utils.ResponseSuccess(w, map[string]any{"availability_rules": rules})
}

// CreateRule handles POST /api/admin/availability-rules/
func (h *AdminHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req request.AvailabilityRuleRequest
	if !h.decode(w, r, &req) {
		return
	}

	rule, err := h.staff.CreateRule(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create availability rule")
		return
	}

	utils.ResponseCreated(w, rule)
}

// UpdateRule handles PUT /api/admin/availability-rules/{id}/
func (h *AdminHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	ruleID, ok := h.pathID(w, r, "availability rule ID")
	if !ok {
		return
	}

	var req request.AvailabilityRuleUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	rule, err := h.staff.UpdateRule(r.Context(), ruleID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update availability rule")
		return
	}

	utils.ResponseSuccess(w, rule)
}

// ==================== BOOKINGS ====================

// ListBookings handles GET /api/admin/bookings/?page=&per_page=&date=&staff_id=&service_id=&search=
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.BookingListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), utils.DefaultPerPage),
		},
		Date:   utils.OptionalString(query.Get("date")),
		Search: utils.OptionalString(query.Get("search")),
	}

	var err error
	if req.StaffID, err = utils.ParseOptionalID(query.Get("staff_id"), "staff_id"); err != nil {
		utils.ResponseBadRequest(w, err.Error())
		return
	}
	if req.ServiceID, err = utils.ParseOptionalID(query.Get("service_id"), "service_id"); err != nil {
		utils.ResponseBadRequest(w, err.Error())
		return
	}

	bookings, err := h.bookings.GetBookings(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, bookings)
}

// GetBooking handles GET /api/admin/bookings/{id}/
func (h *AdminHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.pathID(w, r, "booking ID")
	if !ok {
		return
	}

	booking, err := h.bookings.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, booking)
}

// ==================== HELPERS ====================

func (h *AdminHandler) pathID(w http.ResponseWriter, r *http.Request, field string) (int64, bool) {
	id, err := utils.ParseID(chi.URLParam(r, "id"), field)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error())
		return 0, false
	}
	return id, true
}

func (h *AdminHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxAdminBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.log.Warn("Invalid admin request body", zap.Error(err), zap.String("path", r.URL.Path))
		utils.ResponseBadRequest(w, "Invalid request body")
		return false
	}
	return true
}
