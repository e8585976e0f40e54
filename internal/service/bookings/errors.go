package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrIllegalTransition возвращается при недопустимом переходе статуса
	ErrIllegalTransition = errors.New("illegal booking status transition")

	// ErrBookingEnded возвращается при попытке изменить уже завершившееся бронирование
	ErrBookingEnded = errors.New("booking has already ended")

	// ErrReasonRequired возвращается, когда отклонение не содержит причины
	ErrReasonRequired = errors.New("rejection reason is required")

	// ErrInvalidAllocation возвращается при некорректном выделяемом количестве
	ErrInvalidAllocation = errors.New("invalid allocated quantity")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
