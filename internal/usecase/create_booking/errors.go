package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("create_booking: user not found")

	// ErrUserInactive возвращается, когда учетная запись пользователя деактивирована
	ErrUserInactive = errors.New("create_booking: user account is inactive")

	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("create_booking: resource not found")

	// ErrResourceUnavailable возвращается, когда ресурс не принимает бронирования
	// (деактивирован, на обслуживании или отключен)
	ErrResourceUnavailable = errors.New("create_booking: resource is not available for booking")

	// ErrConstraintViolation возвращается, когда запрошенное количество нарушает
	// правила выделения ресурса (неделимость, min/max, эксклюзивность)
	ErrConstraintViolation = errors.New("create_booking: allocation constraint violated")

	// ErrInsufficientCapacity возвращается, когда на запрошенный интервал
	// не хватает свободной ёмкости ресурса
	ErrInsufficientCapacity = errors.New("create_booking: insufficient capacity for requested interval")

	// ErrLimitExceeded возвращается, когда бронирование нарушает квоты пользователя
	ErrLimitExceeded = errors.New("create_booking: usage limit exceeded")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// LimitViolationError несёт список нарушенных квот и текущее использование.
// Разворачивается в ErrLimitExceeded, чтобы обработчики могли матчить через errors.Is.
type LimitViolationError struct {
	Violations []string
	Usage      domain.UsageStats
}

// Error реализует интерфейс error
func (e *LimitViolationError) Error() string {
	return fmt.Sprintf("%v: %d violation(s)", ErrLimitExceeded, len(e.Violations))
}

// Unwrap позволяет errors.Is(err, ErrLimitExceeded)
func (e *LimitViolationError) Unwrap() error {
	return ErrLimitExceeded
}
