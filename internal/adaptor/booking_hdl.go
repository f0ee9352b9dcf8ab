package adaptor

import (
	"encoding/json"
	"net/http"

	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/dto/response"
	"appointment-booking/internal/usecase"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

const maxBookingBodyBytes = 64 << 10

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// BookAppointment handles POST /api/book-appointment/
func (h *BookingHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req request.BookAppointmentRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxBookingBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Invalid booking request body", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid request body")
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "book appointment")
		return
	}

	utils.ResponseSuccess(w, response.BookAppointmentResponse{
		Success:   true,
		BookingID: booking.ID,
	})
}
