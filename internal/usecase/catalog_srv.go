package usecase

import (
	"context"
	"errors"
	"fmt"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/dto/response"
	"appointment-booking/pkg/apperror"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

type CatalogService interface {
	// Public endpoint
	GetServices(ctx context.Context) (*response.ServicesResponse, error)

	// Admin endpoints
	ListServices(ctx context.Context, search *string) ([]response.ServiceResponse, error)
	CreateService(ctx context.Context, req *request.ServiceRequest) (*response.ServiceResponse, error)
	UpdateService(ctx context.Context, serviceID int64, req *request.ServiceUpdateRequest) (*response.ServiceResponse, error)
}

type catalogService struct {
	repo  repository.ServiceRepository
	clock Clock
	log   *zap.Logger
}

func NewCatalogService(repo repository.ServiceRepository, clock Clock, log *zap.Logger) CatalogService {
	return &catalogService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) GetServices(ctx context.Context) (*response.ServicesResponse, error) {
	services, err := s.repo.FindAll(ctx, nil)
	if err != nil {
		s.log.Error("Failed to get services", zap.Error(err))
		return nil, fmt.Errorf("get services: %w", err)
	}

	resp := &response.ServicesResponse{Services: make([]response.ServiceSummary, 0, len(services))}
	for _, service := range services {
		resp.Services = append(resp.Services, response.ServiceToSummary(service))
	}
	return resp, nil
}

func (s *catalogService) ListServices(ctx context.Context, search *string) ([]response.ServiceResponse, error) {
	services, err := s.repo.FindAll(ctx, search)
	if err != nil {
		s.log.Error("Failed to list services", zap.Error(err))
		return nil, fmt.Errorf("list services: %w", err)
	}

	resp := make([]response.ServiceResponse, 0, len(services))
	for _, service := range services {
		resp = append(resp, response.ServiceToResponse(service))
	}
	return resp, nil
}

func (s *catalogService) CreateService(ctx context.Context, req *request.ServiceRequest) (*response.ServiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create service validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation("%s", utils.FormatValidationErrors(errs))
	}

	now := s.clock.now()
	service := &entity.Service{
		Base: entity.Base{
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		BufferMinutes:   req.BufferMinutes,
	}

	if err := s.repo.Create(ctx, service); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.log.Info("Service created",
		zap.Int64("service_id", service.ID),
		zap.String("name", service.Name),
	)

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *catalogService) UpdateService(ctx context.Context, serviceID int64, req *request.ServiceUpdateRequest) (*response.ServiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update service validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation("%s", utils.FormatValidationErrors(errs))
	}

	service, err := s.repo.FindByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("find service %d: %w", serviceID, err)
	}
	if service == nil {
		return nil, apperror.NotFound("Service %d not found", serviceID)
	}

	// Apply partial update
	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.BufferMinutes != nil {
		service.BufferMinutes = *req.BufferMinutes
	}
	service.UpdatedAt = s.clock.now()

	if err := s.repo.Update(ctx, service); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Service %d not found", serviceID)
		}
		return nil, fmt.Errorf("update service %d: %w", serviceID, err)
	}

	s.log.Info("Service updated", zap.Int64("service_id", service.ID))

	resp := response.ServiceToResponse(service)
	return &resp, nil
}
