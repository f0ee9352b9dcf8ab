package request

type ServiceRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=100"`
	Description     string  `json:"description" validate:"max=2000"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0,lte=1440"`
	Price           float64 `json:"price" validate:"gte=0"`
	BufferMinutes   int     `json:"buffer_minutes" validate:"gte=0,lte=1440"`
}

type ServiceUpdateRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" validate:"omitempty,gt=0,lte=1440"`
	Price           *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	BufferMinutes   *int     `json:"buffer_minutes,omitempty" validate:"omitempty,gte=0,lte=1440"`
}

type StaffRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type StaffUpdateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// AvailabilityRuleRequest uses 0=Monday .. 6=Sunday and "HH:MM" times.
type AvailabilityRuleRequest struct {
	StaffID   int64  `json:"staff_id" validate:"required,gt=0"`
	DayOfWeek *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

type AvailabilityRuleUpdateRequest struct {
	StaffID   *int64  `json:"staff_id,omitempty" validate:"omitempty,gt=0"`
	DayOfWeek *int    `json:"day_of_week,omitempty" validate:"omitempty,min=0,max=6"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

type StaffListRequest struct {
	Search   *string
	IsActive *bool
}

type AvailabilityRuleListRequest struct {
	StaffID   *int64
	DayOfWeek *int
	IsActive  *bool
	Search    *string
}
