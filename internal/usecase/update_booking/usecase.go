package update_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	userClient "github.com/m04kA/SMC-ResourceBookingService/internal/integrations/userservice"
)

// UseCase use case для изменения бронирования
// Изменение проходит тот же путь допуска, что и создание: проверка правил
// выделения, остатка ёмкости и квот, но с исключением собственного id
// бронирования из пересечений и подсчета использования
type UseCase struct {
	bookingRepo   BookingRepository
	resourceRepo  ResourceRepository
	limitRepo     LimitRepository
	userClient    UserServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	defaultQuotas domain.DefaultQuotas
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	limitRepo LimitRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	defaultQuotas domain.DefaultQuotas,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		resourceRepo:  resourceRepo,
		limitRepo:     limitRepo,
		userClient:    userClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		defaultQuotas: defaultQuotas,
		logger:        logger,
	}
}

// Execute выполняет use case изменения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: booking=%d, caller=%d", req.BookingID, req.CallerID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем инициатора
	caller, err := uc.userClient.GetUser(ctx, req.CallerID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("UpdateBooking: user id=%d not found", req.CallerID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get user id=%d: %v", req.CallerID, err)
		return nil, fmt.Errorf("%w: failed to get user: %w", ErrInternal, err)
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking

	// 3. Вся проверка и запись выполняются в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("UpdateBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		// 3.1. Права доступа: владелец или администратор
		if booking.UserID != req.CallerID && !caller.IsAdmin() {
			uc.logger.Warn("UpdateBooking: access denied for user=%d to booking id=%d", req.CallerID, req.BookingID)
			return ErrAccessDenied
		}

		// 3.2. Изменять можно только pending/approved и только до окончания
		if !booking.CanBeUpdated() {
			uc.logger.Warn("UpdateBooking: booking id=%d is not updatable, status=%s", req.BookingID, booking.Status)
			return ErrNotUpdatable
		}
		if booking.HasEnded(now) {
			uc.logger.Warn("UpdateBooking: booking id=%d has already ended", req.BookingID)
			return ErrBookingEnded
		}

		// 3.3. Накладываем изменения на копию
		updated := *booking
		if err := applyChanges(&updated, req); err != nil {
			uc.logger.Warn("UpdateBooking: invalid changes for booking id=%d: %v", req.BookingID, err)
			return err
		}

		// 3.4. Проверяем правила выделения ресурса для нового состояния
		resource, err := uc.resourceRepo.GetByID(txCtx, updated.ResourceID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				uc.logger.Warn("UpdateBooking: resource id=%d not found", updated.ResourceID)
				return ErrResourceNotFound
			}
			uc.logger.Error("UpdateBooking: failed to get resource id=%d: %v", updated.ResourceID, err)
			return fmt.Errorf("%w: failed to get resource: %w", ErrInternal, err)
		}

		if err := resource.CheckAllocation(updated.RequestedQuantity, updated.BookingType); err != nil {
			uc.logger.Warn("UpdateBooking: allocation constraint violated for booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}

		// 3.5. Проверяем остаток ёмкости, исключая собственное бронирование
		overlapping, err := uc.bookingRepo.GetOverlapping(txCtx, updated.ResourceID, updated.StartTime, updated.EndTime, &booking.ID)
		if err != nil {
			uc.logger.Error("UpdateBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %w", ErrInternal, err)
		}

		capacity := domain.CalculateCapacity(resource, overlapping)
		if !capacity.Fits(updated.RequestedQuantity) {
			uc.logger.Warn("UpdateBooking: insufficient capacity for booking id=%d: requested=%d, available=%d",
				req.BookingID, updated.RequestedQuantity, capacity.AvailableCapacity)
			return fmt.Errorf("%w: requested %d, available %d",
				ErrInsufficientCapacity, updated.RequestedQuantity, capacity.AvailableCapacity)
		}

		// 3.6. Проверяем квоты владельца, также исключая собственное бронирование
		if err := uc.checkLimits(txCtx, booking.UserID, &updated); err != nil {
			return err
		}

		// 3.7. Подтверждённое бронирование сохраняет полный объём по новому
		// количеству, ожидающее остаётся без выделения
		if updated.Status == domain.StatusApproved {
			allocated := updated.RequestedQuantity
			updated.AllocatedQuantity = &allocated
		} else {
			updated.AllocatedQuantity = nil
		}

		saved, err := uc.bookingRepo.UpdateReservation(txCtx, &updated)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBooking: failed to update booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		result = saved
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateBooking: successfully updated booking id=%d", result.ID)
	return toResponse(result), nil
}

// checkLimits пересчитывает квоты владельца для нового состояния бронирования.
// Использование считается без самого изменяемого бронирования, чтобы его
// старый интервал не засчитывался дважды.
func (uc *UseCase) checkLimits(ctx context.Context, ownerID int64, updated *domain.Booking) error {
	owner, err := uc.userClient.GetUser(ctx, ownerID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("UpdateBooking: owner id=%d not found", ownerID)
			return ErrUserNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get owner id=%d: %v", ownerID, err)
		return fmt.Errorf("%w: failed to get owner: %w", ErrInternal, err)
	}

	stored, err := uc.limitRepo.GetActiveForBooking(ctx, owner.ID, owner.GroupIDs, updated.ResourceID)
	if err != nil {
		uc.logger.Error("UpdateBooking: failed to get limits for user id=%d: %v", owner.ID, err)
		return fmt.Errorf("%w: failed to get limits: %w", ErrInternal, err)
	}

	limits := make([]domain.ResourceLimit, 0, len(stored)+1)
	for _, l := range stored {
		limits = append(limits, *l)
	}
	limits = append(limits, domain.SystemDefaultLimit(owner.ID, uc.defaultQuotas))

	from, to := domain.UsageWindow(updated.StartTime)
	windowBookings, err := uc.bookingRepo.GetUserBookingsBetween(ctx, owner.ID, from, to, &updated.ID)
	if err != nil {
		uc.logger.Error("UpdateBooking: failed to get usage window bookings for user id=%d: %v", owner.ID, err)
		return fmt.Errorf("%w: failed to get usage window bookings: %w", ErrInternal, err)
	}

	userOverlapping, err := uc.bookingRepo.GetUserOverlapping(ctx, owner.ID, updated.StartTime, updated.EndTime, &updated.ID)
	if err != nil {
		uc.logger.Error("UpdateBooking: failed to get overlapping user bookings for user id=%d: %v", owner.ID, err)
		return fmt.Errorf("%w: failed to get overlapping user bookings: %w", ErrInternal, err)
	}

	check := domain.EvaluateLimits(limits, domain.LimitCheckInput{
		StartTime:           updated.StartTime,
		EndTime:             updated.EndTime,
		BookingType:         updated.BookingType,
		WindowBookings:      windowBookings,
		OverlappingBookings: userOverlapping,
	})

	if !check.Valid {
		uc.logger.Warn("UpdateBooking: limit check failed for user id=%d: %d violation(s)",
			owner.ID, len(check.Violations))
		return &LimitViolationError{
			Violations: check.Violations,
			Usage:      check.Usage,
		}
	}

	return nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.CallerID <= 0 {
		return fmt.Errorf("%w: callerID must be positive", ErrInvalidInput)
	}
	if req.Title == nil && req.StartTime == nil && req.EndTime == nil &&
		req.RequestedQuantity == nil && req.BookingType == nil && req.Priority == nil {
		return fmt.Errorf("%w: at least one field must be provided", ErrInvalidInput)
	}
	return nil
}

// applyChanges накладывает частичные изменения на бронирование и валидирует
// итоговое состояние
func applyChanges(booking *domain.Booking, req *Request) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		if len(title) > domain.MaxTitleLength {
			return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, domain.MaxTitleLength)
		}
		booking.Title = title
	}

	if req.StartTime != nil {
		booking.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		booking.EndTime = *req.EndTime
	}
	if err := domain.ValidateInterval(booking.StartTime, booking.EndTime); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.RequestedQuantity != nil {
		if *req.RequestedQuantity <= 0 {
			return fmt.Errorf("%w: requested quantity must be positive", ErrInvalidInput)
		}
		booking.RequestedQuantity = *req.RequestedQuantity
	}

	if req.BookingType != nil {
		bookingType, err := domain.ParseBookingType(*req.BookingType)
		if err != nil {
			return fmt.Errorf("%w: invalid booking type %q", ErrInvalidInput, *req.BookingType)
		}
		booking.BookingType = bookingType
	}

	if req.Priority != nil {
		priority, err := domain.ParseBookingPriority(*req.Priority)
		if err != nil {
			return fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, *req.Priority)
		}
		booking.Priority = priority
	}

	return nil
}
