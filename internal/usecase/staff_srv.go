package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/dto/response"
	"appointment-booking/pkg/apperror"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

type StaffService interface {
	// Staff
	ListStaff(ctx context.Context, req *request.StaffListRequest) ([]response.StaffResponse, error)
	CreateStaff(ctx context.Context, req *request.StaffRequest) (*response.StaffResponse, error)
	UpdateStaff(ctx context.Context, staffID int64, req *request.StaffUpdateRequest) (*response.StaffResponse, error)

	// Availability rules
	ListRules(ctx context.Context, req *request.AvailabilityRuleListRequest) ([]response.AvailabilityRuleResponse, error)
	CreateRule(ctx context.Context, req *request.AvailabilityRuleRequest) (*response.AvailabilityRuleResponse, error)
	UpdateRule(ctx context.Context, ruleID int64, req *request.AvailabilityRuleUpdateRequest) (*response.AvailabilityRuleResponse, error)
}

type staffService struct {
	repo  *repository.Repository
	clock Clock
	log   *zap.Logger
}

func NewStaffService(repo *repository.Repository, clock Clock, log *zap.Logger) StaffService {
	return &staffService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "staff")),
	}
}

// ==================== STAFF ====================

func (s *staffService) ListStaff(ctx context.Context, req *request.StaffListRequest) ([]response.StaffResponse, error) {
	staff, err := s.repo.Staff.FindAll(ctx, repository.StaffFilter{
		Search:   req.Search,
		IsActive: req.IsActive,
	})
	if err != nil {
		s.log.Error("Failed to list staff", zap.Error(err))
		return nil, fmt.Errorf("list staff: %w", err)
	}

	resp := make([]response.StaffResponse, 0, len(staff))
	for _, member := range staff {
		resp = append(resp, response.StaffToResponse(member))
	}
	return resp, nil
}

func (s *staffService) CreateStaff(ctx context.Context, req *request.StaffRequest) (*response.StaffResponse, error) {
	if blankEmail(req.Email) {
		r := *req
		r.Email = nil
		req = &r
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create staff validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation("%s", utils.FormatValidationErrors(errs))
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := s.clock.now()
	staff := &entity.Staff{
		Base: entity.Base{
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:     req.Name,
		Email:    normalizeEmail(req.Email),
		IsActive: isActive,
	}

	if err := s.repo.Staff.Create(ctx, staff); err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}

	s.log.Info("Staff created", zap.Int64("staff_id", staff.ID), zap.String("name", staff.Name))

	resp := response.StaffToResponse(staff)
	return &resp, nil
}

func (s *staffService) UpdateStaff(ctx context.Context, staffID int64, req *request.StaffUpdateRequest) (*response.StaffResponse, error) {
	clearEmail := blankEmail(req.Email)
	if clearEmail {
		r := *req
		r.Email = nil
		req = &r
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update staff validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation("%s", utils.FormatValidationErrors(errs))
	}

	staff, err := s.repo.Staff.FindByID(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("find staff %d: %w", staffID, err)
	}
	if staff == nil {
		return nil, apperror.NotFound("Staff %d not found", staffID)
	}

	if req.Name != nil {
		staff.Name = *req.Name
	}
	if clearEmail {
		staff.Email = nil
	} else if req.Email != nil {
		staff.Email = utils.OptionalString(*req.Email)
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}
	staff.UpdatedAt = s.clock.now()

	if err := s.repo.Staff.Update(ctx, staff); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Staff %d not found", staffID)
		}
		return nil, fmt.Errorf("update staff %d: %w", staffID, err)
	}

	s.log.Info("Staff updated", zap.Int64("staff_id", staff.ID), zap.Bool("is_active", staff.IsActive))

	resp := response.StaffToResponse(staff)
	return &resp, nil
}

// blankEmail reports an explicitly empty email, which means "no email" and clears a stored one.
func blankEmail(email *string) bool {
	return email != nil && strings.TrimSpace(*email) == ""
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	return utils.OptionalString(*email)
}

// ==================== AVAILABILITY RULES ====================

func (s *staffService) ListRules(ctx context.Context, req *request.AvailabilityRuleListRequest) ([]response.AvailabilityRuleResponse, error) {
	filter := repository.AvailabilityRuleFilter{
		StaffID:  req.StaffID,
		IsActive: req.IsActive,
		Search:   req.Search,
	}
	if req.DayOfWeek != nil {
		day := entity.Weekday(*req.DayOfWeek)
		if !day.Valid() {
			return nil, apperror.Validation("day_of_week must be between 0 (Monday) and 6 (Sunday)")
		}
		filter.DayOfWeek = &day
	}

	rules, err := s.repo.AvailabilityRule.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list availability rules", zap.Error(err))
		return nil, fmt.Errorf("list availability rules: %w", err)
	}

	resp := make([]response.AvailabilityRuleResponse, 0, len(rules))
	for _, rule := range rules {
		resp = append(resp, response.RuleToResponse(rule))
	}
	return resp, nil
}

func (s *staffService) CreateRule(ctx context.Context, req *request.AvailabilityRuleRequest) (*response.AvailabilityRuleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create availability rule validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation("%s", utils.FormatValidationErrors(errs))
	}

	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if err := s.ensureStaffExists(ctx, req.StaffID); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := s.clock.now()
	rule := &entity.AvailabilityRule{
		Base: entity.Base{
			CreatedAt: now,
			UpdatedAt: now,
		},
		StaffID:   req.StaffID,
		DayOfWeek: entity.Weekday(*req.DayOfWeek),
		StartTime: start,
		EndTime:   end,
		IsActive:  isActive,
	}

	if err := s.repo.AvailabilityRule.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("create availability rule: %w", err)
	}

	s.log.Info("Availability rule created",
		zap.Int64("rule_id", rule.ID),
		zap.Int64("staff_id", rule.StaffID),
		zap.Stringer("day_of_week", rule.DayOfWeek),
	)

	resp := response.RuleToResponse(rule)
	return &resp, nil
}

func (s *staffService) UpdateRule(ctx context.Context, ruleID int64, req *request.AvailabilityRuleUpdateRequest) (*response.AvailabilityRuleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update availability rule validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation("%s", utils.FormatValidationErrors(errs))
	}

	rule, err := s.repo.AvailabilityRule.FindByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("find availability rule %d: %w", ruleID, err)
	}
	if rule == nil {
		return nil, apperror.NotFound("Availability rule %d not found", ruleID)
	}

	if req.StaffID != nil && *req.StaffID != rule.StaffID {
		if err := s.ensureStaffExists(ctx, *req.StaffID); err != nil {
			return nil, err
		}
		rule.StaffID = *req.StaffID
	}
	if req.DayOfWeek != nil {
		rule.DayOfWeek = entity.Weekday(*req.DayOfWeek)
	}

	startRaw, endRaw := rule.StartTime.String(), rule.EndTime.String()
	if req.StartTime != nil {
		startRaw = *req.StartTime
	}
	if req.EndTime != nil {
		endRaw = *req.EndTime
	}
	rule.StartTime, rule.EndTime, err = parseWindow(startRaw, endRaw)
	if err != nil {
		return nil, err
	}

	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	rule.UpdatedAt = s.clock.now()

	if err := s.repo.AvailabilityRule.Update(ctx, rule); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Availability rule %d not found", ruleID)
		}
		return nil, fmt.Errorf("update availability rule %d: %w", ruleID, err)
	}

	s.log.Info("Availability rule updated", zap.Int64("rule_id", rule.ID))

	resp := response.RuleToResponse(rule)
	return &resp, nil
}

func (s *staffService) ensureStaffExists(ctx context.Context, staffID int64) error {
	staff, err := s.repo.Staff.FindByID(ctx, staffID)
	if err != nil {
		return fmt.Errorf("find staff %d: %w", staffID, err)
	}
	if staff == nil {
		return apperror.NotFound("Staff %d not found", staffID)
	}
	return nil
}

// parseWindow requires end to be strictly after start.
func parseWindow(startRaw, endRaw string) (entity.TimeOfDay, entity.TimeOfDay, error) {
	start, err := entity.ParseTimeOfDay(startRaw)
	if err != nil {
		return 0, 0, apperror.Validation("Invalid start_time %q, use HH:MM", startRaw)
	}
	end, err := entity.ParseTimeOfDay(endRaw)
	if err != nil {
		return 0, 0, apperror.Validation("Invalid end_time %q, use HH:MM", endRaw)
	}
	if end <= start {
		return 0, 0, apperror.Validation("End time must be after start time")
	}
	return start, end, nil
}
