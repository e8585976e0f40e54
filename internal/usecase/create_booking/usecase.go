package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	userClient "github.com/m04kA/SMC-ResourceBookingService/internal/integrations/userservice"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	resourceRepo  ResourceRepository
	limitRepo     LimitRepository
	userClient    UserServiceClient
	txManager     TransactionManager
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
		defaultQuotas: defaultQuotas,
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка ёмкости и квот выполняется в сериализуемой транзакции с блокировкой
// пересекающихся бронирований (FOR UPDATE), чтобы исключить гонку check-then-act
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, resource=%d, interval=[%s, %s), quantity=%d, type=%s",
		req.UserID, req.ResourceID, req.StartTime.Format(domain.DateFormat),
		req.EndTime.Format(domain.DateFormat), req.RequestedQuantity, req.BookingType)

	// 1. Валидация входных данных
	bookingType, priority, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем пользователя и проверяем, что учетная запись активна
	user, err := uc.userClient.GetUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: user id=%d not found", req.UserID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("CreateBooking: failed to get user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get user: %w", ErrInternal, err)
	}
	if !user.IsActive {
		uc.logger.Warn("CreateBooking: user id=%d is inactive", req.UserID)
		return nil, ErrUserInactive
	}

	// 3. Получаем ресурс и проверяем, что он принимает бронирования
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("CreateBooking: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %w", ErrInternal, err)
	}

	if err := resource.CheckBookable(); err != nil {
		uc.logger.Warn("CreateBooking: resource id=%d is not bookable: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}

	// 4. Проверяем правила выделения ресурса (неделимость, min/max, эксклюзивность)
	if err := resource.CheckAllocation(req.RequestedQuantity, bookingType); err != nil {
		uc.logger.Warn("CreateBooking: allocation constraint violated for resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 5. Выполняем проверку ёмкости, квот и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Получаем пересекающиеся бронирования с блокировкой (FOR UPDATE)
		overlapping, err := uc.bookingRepo.GetOverlapping(txCtx, req.ResourceID, req.StartTime, req.EndTime, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %w", ErrInternal, err)
		}

		// 5.2. Проверяем остаток ёмкости на интервале
		capacity := domain.CalculateCapacity(resource, overlapping)
		if !capacity.Fits(req.RequestedQuantity) {
			uc.logger.Warn("CreateBooking: insufficient capacity for resource id=%d: requested=%d, available=%d",
				req.ResourceID, req.RequestedQuantity, capacity.AvailableCapacity)
			return fmt.Errorf("%w: requested %d, available %d",
				ErrInsufficientCapacity, req.RequestedQuantity, capacity.AvailableCapacity)
		}

		// 5.3. Проверяем квоты пользователя
		if err := uc.checkLimits(txCtx, user, req, bookingType, nil); err != nil {
			return err
		}

		// 5.4. Создаем бронирование
		booking := &domain.Booking{
			ResourceID:        req.ResourceID,
			UserID:            req.UserID,
			Title:             req.Title,
			StartTime:         req.StartTime,
			EndTime:           req.EndTime,
			RequestedQuantity: req.RequestedQuantity,
			BookingType:       bookingType,
			Status:            domain.StatusPending,
			Priority:          priority,
		}

		// Бронирования администраторов подтверждаются автоматически
		if user.IsAdmin() {
			booking.Status = domain.StatusApproved
			booking.ApprovedByID = &req.UserID
			allocated := req.RequestedQuantity
			booking.AllocatedQuantity = &allocated
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, status=%s", result.ID, result.Status)
	return toResponse(result), nil
}

// checkLimits собирает применимые лимиты (включая системный лимит по умолчанию)
// и использование пользователя, затем выполняет чистую проверку квот.
// excludeID исключает бронирование из подсчета использования (для обновлений).
func (uc *UseCase) checkLimits(
	ctx context.Context,
	user *userClient.User,
	req *Request,
	bookingType domain.BookingType,
	excludeID *int64,
) error {
	stored, err := uc.limitRepo.GetActiveForBooking(ctx, user.ID, user.GroupIDs, req.ResourceID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get limits for user id=%d: %v", user.ID, err)
		return fmt.Errorf("%w: failed to get limits: %w", ErrInternal, err)
	}

	limits := make([]domain.ResourceLimit, 0, len(stored)+1)
	for _, l := range stored {
		limits = append(limits, *l)
	}
	limits = append(limits, domain.SystemDefaultLimit(user.ID, uc.defaultQuotas))

	// Выборка бронирований пользователя: окно покрывает день/неделю/месяц
	// от начала предлагаемого интервала
	from, to := domain.UsageWindow(req.StartTime)
	windowBookings, err := uc.bookingRepo.GetUserBookingsBetween(ctx, user.ID, from, to, excludeID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get usage window bookings for user id=%d: %v", user.ID, err)
		return fmt.Errorf("%w: failed to get usage window bookings: %w", ErrInternal, err)
	}

	userOverlapping, err := uc.bookingRepo.GetUserOverlapping(ctx, user.ID, req.StartTime, req.EndTime, excludeID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get overlapping user bookings for user id=%d: %v", user.ID, err)
		return fmt.Errorf("%w: failed to get overlapping user bookings: %w", ErrInternal, err)
	}

	check := domain.EvaluateLimits(limits, domain.LimitCheckInput{
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		BookingType:         bookingType,
		WindowBookings:      windowBookings,
		OverlappingBookings: userOverlapping,
	})

	if !check.Valid {
		uc.logger.Warn("CreateBooking: limit check failed for user id=%d: %d violation(s)",
			user.ID, len(check.Violations))
		return &LimitViolationError{
			Violations: check.Violations,
			Usage:      check.Usage,
		}
	}

	return nil
}
