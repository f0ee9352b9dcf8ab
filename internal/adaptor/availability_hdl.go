package adaptor

import (
	"net/http"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/usecase"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

const invalidDateMessage = "Invalid date format, use YYYY-MM-DD"

type AvailabilityHandler struct {
	service usecase.SlotService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.SlotService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// GetAvailableStaff handles GET /api/available-staff/?date=YYYY-MM-DD
func (h *AvailabilityHandler) GetAvailableStaff(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		utils.ResponseBadRequest(w, "Missing date parameter")
		return
	}

	date, err := entity.ParseDate(dateStr)
	if err != nil {
		utils.ResponseBadRequest(w, invalidDateMessage)
		return
	}

	staff, err := h.service.GetAvailableStaff(r.Context(), date)
	if err != nil {
		writeServiceError(w, h.log, err, "get available staff")
		return
	}

	utils.ResponseSuccess(w, staff)
}

// GetAvailableSlots handles GET /api/available-slots/?date=&service_id=&staff_id=
func (h *AvailabilityHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	dateStr := query.Get("date")
	staffStr := query.Get("staff_id")
	serviceStr := query.Get("service_id")

	if dateStr == "" || staffStr == "" || serviceStr == "" {
		utils.ResponseBadRequest(w, "Missing required parameters")
		return
	}

	date, err := entity.ParseDate(dateStr)
	if err != nil {
		utils.ResponseBadRequest(w, invalidDateMessage)
		return
	}

	staffID, err := utils.ParseID(staffStr, "staff_id")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error())
		return
	}
	serviceID, err := utils.ParseID(serviceStr, "service_id")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error())
		return
	}

	slots, err := h.service.GetAvailableSlots(r.Context(), date, serviceID, staffID)
	if err != nil {
		writeServiceError(w, h.log, err, "get available slots")
		return
	}

	utils.ResponseSuccess(w, slots)
}
