package update_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("update_booking: user not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("update_booking: access denied")

	// ErrNotUpdatable возвращается, когда бронирование нельзя изменить
	// (терминальный или активный статус)
	ErrNotUpdatable = errors.New("update_booking: booking cannot be updated in its current status")

	// ErrBookingEnded возвращается при попытке изменить уже завершившееся бронирование
	ErrBookingEnded = errors.New("update_booking: booking has already ended")

	// ErrResourceNotFound возвращается, когда ресурс бронирования не найден
	ErrResourceNotFound = errors.New("update_booking: resource not found")

	// ErrConstraintViolation возвращается, когда новое количество нарушает
	// правила выделения ресурса
	ErrConstraintViolation = errors.New("update_booking: allocation constraint violated")

	// ErrInsufficientCapacity возвращается, когда на новый интервал
	// не хватает свободной ёмкости ресурса
	ErrInsufficientCapacity = errors.New("update_booking: insufficient capacity for requested interval")

	// ErrLimitExceeded возвращается, когда изменение нарушает квоты пользователя
	ErrLimitExceeded = errors.New("update_booking: usage limit exceeded")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
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
