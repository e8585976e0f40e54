package check_capacity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
)

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("check_capacity: resource not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_capacity: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_capacity: internal error")
)

// Request модель запроса на проверку свободной ёмкости
type Request struct {
	ResourceID int64
	StartTime  time.Time
	EndTime    time.Time
}

// Response остаток ёмкости ресурса на интервале
type Response struct {
	ResourceID               int64
	TotalCapacity            int
	CurrentAllocation        int
	AvailableCapacity        int
	ConflictingBookingsCount int
}

// UseCase use case для проверки свободной ёмкости ресурса на интервале.
// Чтение без блокировок: результат носит информационный характер и может
// устареть к моменту создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, resourceRepo ResourceRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		logger:       logger,
	}
}

// Execute выполняет проверку ёмкости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckCapacity: resource=%d, interval=[%s, %s)",
		req.ResourceID, req.StartTime.Format(domain.DateFormat), req.EndTime.Format(domain.DateFormat))

	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}
	if err := domain.ValidateInterval(req.StartTime, req.EndTime); err != nil {
		uc.logger.Warn("CheckCapacity: invalid interval: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("CheckCapacity: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CheckCapacity: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	overlapping, err := uc.bookingRepo.GetOverlapping(ctx, req.ResourceID, req.StartTime, req.EndTime, nil)
	if err != nil {
		uc.logger.Error("CheckCapacity: failed to get overlapping bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
	}

	capacity := domain.CalculateCapacity(resource, overlapping)

	uc.logger.Info("CheckCapacity: resource=%d, available=%d/%d, conflicts=%d",
		req.ResourceID, capacity.AvailableCapacity, capacity.TotalCapacity, capacity.ConflictingBookings)

	return &Response{
		ResourceID:               req.ResourceID,
		TotalCapacity:            capacity.TotalCapacity,
		CurrentAllocation:        capacity.CurrentAllocation,
		AvailableCapacity:        capacity.AvailableCapacity,
		ConflictingBookingsCount: capacity.ConflictingBookings,
	}, nil
}
