package resources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	userClient "github.com/m04kA/SMC-ResourceBookingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/resources/models"
)

// Service сервис для работы с ресурсами
type Service struct {
	resourceRepo ResourceRepository
	userClient   UserServiceClient
	logger       Logger
}

// NewService создает новый экземпляр сервиса ресурсов
func NewService(
	resourceRepo ResourceRepository,
	userClient UserServiceClient,
	logger Logger,
) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		userClient:   userClient,
		logger:       logger,
	}
}

// GetByID получает ресурс по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ResourceResponse, error) {
	s.logger.Info("GetByID: fetching resource id=%d", id)

	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("GetByID: resource id=%d not found", id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("GetByID: repository error for resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched resource id=%d", id)
	return models.FromDomainResource(resource), nil
}

// List получает список ресурсов
// По умолчанию возвращает только активные ресурсы
func (s *Service) List(ctx context.Context, req *models.ListResourcesRequest) (*models.ResourceListResponse, error) {
	s.logger.Info("List: fetching resources, onlyActive=%v", req.OnlyActive)

	resources, err := s.resourceRepo.List(ctx, req.OnlyActive)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d resources", len(resources))
	return models.FromDomainResourceList(resources), nil
}

// Create создает новый ресурс
// Доступно только администраторам
func (s *Service) Create(ctx context.Context, req *models.CreateResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("Create: creating resource name=%q by admin=%d", req.Name, req.AdminID)

	if err := s.checkAdminAccess(ctx, req.AdminID); err != nil {
		s.logger.Warn("Create: access denied for user=%d", req.AdminID)
		return nil, err
	}

	resource, err := s.buildResource(req)
	if err != nil {
		s.logger.Warn("Create: invalid resource payload: %v", err)
		return nil, err
	}

	created, err := s.resourceRepo.Create(ctx, resource)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created resource id=%d", created.ID)
	return models.FromDomainResource(created), nil
}

// Update частично обновляет существующий ресурс
// Доступно только администраторам. Тип, единица измерения и неделимость
// после создания не меняются
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("Update: updating resource id=%d by admin=%d", id, req.AdminID)

	if err := s.checkAdminAccess(ctx, req.AdminID); err != nil {
		s.logger.Warn("Update: access denied for user=%d", req.AdminID)
		return nil, err
	}

	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("Update: resource id=%d not found", id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("Update: repository error for resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if err := s.applyUpdate(resource, req); err != nil {
		s.logger.Warn("Update: invalid payload for resource id=%d: %v", id, err)
		return nil, err
	}

	updated, err := s.resourceRepo.Update(ctx, id, resource)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("Update: resource id=%d not found during update", id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("Update: repository error for resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated resource id=%d", id)
	return models.FromDomainResource(updated), nil
}

// Вспомогательные методы

// buildResource собирает и валидирует domain модель из запроса на создание
func (s *Service) buildResource(req *models.CreateResourceRequest) (*domain.Resource, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: resource name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Type) == "" {
		return nil, fmt.Errorf("%w: resource type is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.CapacityUnit) == "" {
		return nil, fmt.Errorf("%w: capacity unit is required", ErrInvalidInput)
	}
	if req.TotalCapacity <= 0 {
		return nil, fmt.Errorf("%w: total capacity must be positive", ErrInvalidInput)
	}

	status := domain.ResourceStatusAvailable
	if req.Status != nil {
		parsed, err := domain.ParseResourceStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		status = parsed
	}

	resource := &domain.Resource{
		Name:          name,
		Type:          strings.TrimSpace(req.Type),
		Description:   req.Description,
		TotalCapacity: req.TotalCapacity,
		CapacityUnit:  strings.TrimSpace(req.CapacityUnit),
		IsIndivisible: req.IsIndivisible,
		MinAllocation: req.MinAllocation,
		MaxAllocation: req.MaxAllocation,
		Status:        status,
		IsActive:      true,
	}

	if err := validateBounds(resource); err != nil {
		return nil, err
	}

	return resource, nil
}

// applyUpdate накладывает частичное обновление на существующий ресурс
func (s *Service) applyUpdate(resource *domain.Resource, req *models.UpdateResourceRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return fmt.Errorf("%w: resource name is required", ErrInvalidInput)
		}
		resource.Name = name
	}
	if req.Description != nil {
		resource.Description = req.Description
	}
	if req.TotalCapacity != nil {
		if *req.TotalCapacity <= 0 {
			return fmt.Errorf("%w: total capacity must be positive", ErrInvalidInput)
		}
		resource.TotalCapacity = *req.TotalCapacity
	}
	if req.MinAllocation != nil {
		resource.MinAllocation = req.MinAllocation
	}
	if req.MaxAllocation != nil {
		resource.MaxAllocation = req.MaxAllocation
	}
	if req.Status != nil {
		status, err := domain.ParseResourceStatus(*req.Status)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		resource.Status = status
	}
	if req.IsActive != nil {
		resource.IsActive = *req.IsActive
	}

	return validateBounds(resource)
}

// validateBounds проверяет согласованность границ выделения
func validateBounds(resource *domain.Resource) error {
	if resource.MinAllocation != nil && *resource.MinAllocation <= 0 {
		return fmt.Errorf("%w: min allocation must be positive", ErrInvalidInput)
	}
	if resource.MaxAllocation != nil && *resource.MaxAllocation <= 0 {
		return fmt.Errorf("%w: max allocation must be positive", ErrInvalidInput)
	}
	if resource.MinAllocation != nil && resource.MaxAllocation != nil &&
		*resource.MinAllocation > *resource.MaxAllocation {
		return fmt.Errorf("%w: min allocation cannot exceed max allocation", ErrInvalidInput)
	}
	if resource.MaxAllocation != nil && *resource.MaxAllocation > resource.TotalCapacity {
		return fmt.Errorf("%w: max allocation cannot exceed total capacity", ErrInvalidInput)
	}
	return nil
}

// checkAdminAccess проверяет, что пользователь является администратором
func (s *Service) checkAdminAccess(ctx context.Context, userID int64) error {
	user, err := s.userClient.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			s.logger.Warn("checkAdminAccess: user id=%d not found", userID)
			return ErrUserNotFound
		}
		s.logger.Error("checkAdminAccess: failed to get user id=%d: %v", userID, err)
		return fmt.Errorf("%w: checkAdminAccess - failed to get user: %v", ErrInternal, err)
	}

	if !user.IsAdmin() {
		s.logger.Warn("checkAdminAccess: user=%d is not an admin", userID)
		return ErrAccessDenied
	}

	return nil
}
