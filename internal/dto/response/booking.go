package response

import (
	"time"

	"appointment-booking/internal/data/entity"
)

type SlotsResponse struct {
	Slots []string `json:"slots"`
}

type BookAppointmentResponse struct {
	Success   bool  `json:"success"`
	BookingID int64 `json:"booking_id"`
}

type BookingResponse struct {
	ID            int64     `json:"id"`
	ServiceID     int64     `json:"service_id"`
	ServiceName   string    `json:"service_name,omitempty"`
	StaffID       int64     `json:"staff_id"`
	StaffName     string    `json:"staff_name,omitempty"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	CreatedAt     time.Time `json:"created_at"`
}

// Helper converters
func NewSlotsResponse(slots []string) SlotsResponse {
	if slots == nil {
		slots = []string{}
	}
	return SlotsResponse{Slots: slots}
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            booking.ID,
		ServiceID:     booking.ServiceID,
		StaffID:       booking.StaffID,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		Date:          booking.Date.Format(entity.DateLayout),
		StartTime:     booking.StartTime.String(),
		EndTime:       booking.EndTime.String(),
		CreatedAt:     booking.CreatedAt,
	}
}
