package response

import (
	"time"

	"appointment-booking/internal/data/entity"
)

// ==================== PUBLIC ====================

type ServiceSummary struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

type ServicesResponse struct {
	Services []ServiceSummary `json:"services"`
}

type StaffSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type StaffListResponse struct {
	Staff []StaffSummary `json:"staff"`
}

// ==================== ADMIN ====================

type ServiceResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	BufferMinutes   int       `json:"buffer_minutes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type StaffResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AvailabilityRuleResponse struct {
	ID        int64     `json:"id"`
	StaffID   int64     `json:"staff_id"`
	DayOfWeek int       `json:"day_of_week"`
	DayName   string    `json:"day_name"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Helper converters
func ServiceToSummary(service *entity.Service) ServiceSummary {
	return ServiceSummary{
		ID:              service.ID,
		Name:            service.Name,
		DurationMinutes: service.DurationMinutes,
		Price:           service.Price,
	}
}

func ServiceToResponse(service *entity.Service) ServiceResponse {
	return ServiceResponse{
		ID:              service.ID,
		Name:            service.Name,
		Description:     service.Description,
		DurationMinutes: service.DurationMinutes,
		Price:           service.Price,
		BufferMinutes:   service.BufferMinutes,
		CreatedAt:       service.CreatedAt,
		UpdatedAt:       service.UpdatedAt,
	}
}

func StaffToSummary(staff *entity.Staff) StaffSummary {
	return StaffSummary{ID: staff.ID, Name: staff.Name}
}

func StaffToResponse(staff *entity.Staff) StaffResponse {
	return StaffResponse{
		ID:        staff.ID,
		Name:      staff.Name,
		Email:     staff.Email,
		IsActive:  staff.IsActive,
		CreatedAt: staff.CreatedAt,
		UpdatedAt: staff.UpdatedAt,
	}
}

func RuleToResponse(rule *entity.AvailabilityRule) AvailabilityRuleResponse {
	return AvailabilityRuleResponse{
		ID:        rule.ID,
		StaffID:   rule.StaffID,
		DayOfWeek: int(rule.DayOfWeek),
		DayName:   rule.DayOfWeek.String(),
		StartTime: rule.StartTime.String(),
		EndTime:   rule.EndTime.String(),
		IsActive:  rule.IsActive,
		CreatedAt: rule.CreatedAt,
		UpdatedAt: rule.UpdatedAt,
	}
}
