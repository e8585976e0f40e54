package validate_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	userClient "github.com/m04kA/SMC-ResourceBookingService/internal/integrations/userservice"
)

// Request модель запроса на предварительную проверку квот
type Request struct {
	UserID      int64
	ResourceID  int64
	StartTime   time.Time
	EndTime     time.Time
	BookingType string
}

// Response результат предварительной проверки
// Повторяет структуру вердикта принудительной проверки при создании:
// обе используют одну и ту же чистую функцию оценки квот
type Response struct {
	Valid      bool
	Violations []string
	Usage      domain.UsageStats
}

// UseCase use case предварительной проверки бронирования без записи.
// Даёт пользователю тот же вердикт по квотам, что и создание, но ничего
// не блокирует и не создаёт; результат может устареть к моменту создания
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

// Execute выполняет предварительную проверку квот
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ValidateBooking: user=%d, resource=%d, interval=[%s, %s)",
		req.UserID, req.ResourceID, req.StartTime.Format(domain.DateFormat), req.EndTime.Format(domain.DateFormat))

	bookingType, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ValidateBooking: validation failed: %v", err)
		return nil, err
	}

	user, err := uc.userClient.GetUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("ValidateBooking: user id=%d not found", req.UserID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("ValidateBooking: failed to get user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}

	var result *Response

	// Все выборки выполняются в одной read-only транзакции для
	// согласованного снимка использования
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := uc.resourceRepo.GetByID(txCtx, req.ResourceID); err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				uc.logger.Warn("ValidateBooking: resource id=%d not found", req.ResourceID)
				return ErrResourceNotFound
			}
			uc.logger.Error("ValidateBooking: failed to get resource id=%d: %v", req.ResourceID, err)
			return fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}

		stored, err := uc.limitRepo.GetActiveForBooking(txCtx, user.ID, user.GroupIDs, req.ResourceID)
		if err != nil {
			uc.logger.Error("ValidateBooking: failed to get limits for user id=%d: %v", user.ID, err)
			return fmt.Errorf("%w: failed to get limits: %v", ErrInternal, err)
		}

		limits := make([]domain.ResourceLimit, 0, len(stored)+1)
		for _, l := range stored {
			limits = append(limits, *l)
		}
		limits = append(limits, domain.SystemDefaultLimit(user.ID, uc.defaultQuotas))

		from, to := domain.UsageWindow(req.StartTime)
		windowBookings, err := uc.bookingRepo.GetUserBookingsBetween(txCtx, user.ID, from, to, nil)
		if err != nil {
			uc.logger.Error("ValidateBooking: failed to get usage window bookings for user id=%d: %v", user.ID, err)
			return fmt.Errorf("%w: failed to get usage window bookings: %v", ErrInternal, err)
		}

		userOverlapping, err := uc.bookingRepo.GetUserOverlapping(txCtx, user.ID, req.StartTime, req.EndTime, nil)
		if err != nil {
			uc.logger.Error("ValidateBooking: failed to get overlapping user bookings for user id=%d: %v", user.ID, err)
			return fmt.Errorf("%w: failed to get overlapping user bookings: %v", ErrInternal, err)
		}

		check := domain.EvaluateLimits(limits, domain.LimitCheckInput{
			StartTime:           req.StartTime,
			EndTime:             req.EndTime,
			BookingType:         bookingType,
			WindowBookings:      windowBookings,
			OverlappingBookings: userOverlapping,
		})

		result = &Response{
			Valid:      check.Valid,
			Violations: check.Violations,
			Usage:      check.Usage,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ValidateBooking: user=%d, resource=%d, valid=%v, violations=%d",
		req.UserID, req.ResourceID, result.Valid, len(result.Violations))
	return result, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (domain.BookingType, error) {
	if req.UserID <= 0 {
		return "", fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.ResourceID <= 0 {
		return "", fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}
	if err := domain.ValidateInterval(req.StartTime, req.EndTime); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookingType, err := domain.ParseBookingType(req.BookingType)
	if err != nil {
		return "", fmt.Errorf("%w: invalid booking type %q", ErrInvalidInput, req.BookingType)
	}

	return bookingType, nil
}
