package request

// BookAppointmentRequest is the body of POST /api/book-appointment/.
// A zero StaffID lets the server pick the first staff member free at the requested time.
type BookAppointmentRequest struct {
	ServiceID     ID     `json:"service_id" validate:"required,gt=0"`
	StaffID       ID     `json:"staff_id,omitempty" validate:"omitempty,gt=0"`
	CustomerName  string `json:"customer_name" validate:"required,max=100"`
	CustomerEmail string `json:"customer_email" validate:"required,email,max=254"`
	Date          string `json:"date" validate:"required"`
	StartTime     string `json:"start_time" validate:"required"`
}

type BookingListRequest struct {
	PaginatedRequest
	Date      *string
	StaffID   *int64
	ServiceID *int64
	Search    *string
}
