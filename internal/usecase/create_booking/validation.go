package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса и конвертирует
// строковые поля в domain типы
func validateRequest(req *Request) (domain.BookingType, domain.BookingPriority, error) {
	if req.UserID <= 0 {
		return "", "", fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ResourceID <= 0 {
		return "", "", fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Title) == "" {
		return "", "", fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	if len(req.Title) > domain.MaxTitleLength {
		return "", "", fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, domain.MaxTitleLength)
	}

	// Интервал полуоткрытый [start, end), конец строго позже начала
	if err := domain.ValidateInterval(req.StartTime, req.EndTime); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.RequestedQuantity <= 0 {
		return "", "", fmt.Errorf("%w: requested quantity must be positive", ErrInvalidInput)
	}

	bookingType, err := domain.ParseBookingType(req.BookingType)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid booking type %q", ErrInvalidInput, req.BookingType)
	}

	priorityStr := ""
	if req.Priority != nil {
		priorityStr = *req.Priority
	}
	priority, err := domain.ParseBookingPriority(priorityStr)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, priorityStr)
	}

	return bookingType, priority, nil
}
