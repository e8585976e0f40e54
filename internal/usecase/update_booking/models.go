package update_booking

import (
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// Request модель запроса на изменение бронирования
// Все изменяемые поля опциональны: nil означает "оставить как есть"
type Request struct {
	BookingID int64 // ID изменяемого бронирования
	CallerID  int64 // ID инициатора (владелец или администратор)

	Title             *string    `json:"title,omitempty"`
	StartTime         *time.Time `json:"startTime,omitempty"`
	EndTime           *time.Time `json:"endTime,omitempty"`
	RequestedQuantity *int       `json:"requestedQuantity,omitempty"`
	BookingType       *string    `json:"bookingType,omitempty"`
	Priority          *string    `json:"priority,omitempty"`
}

// Response модель ответа с изменённым бронированием
type Response struct {
	ID                int64
	ResourceID        int64
	UserID            int64
	Title             string
	StartTime         time.Time
	EndTime           time.Time
	RequestedQuantity int
	AllocatedQuantity *int
	BookingType       string
	Status            string
	Priority          string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// toResponse конвертирует domain модель в response
func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                b.ID,
		ResourceID:        b.ResourceID,
		UserID:            b.UserID,
		Title:             b.Title,
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		RequestedQuantity: b.RequestedQuantity,
		AllocatedQuantity: b.AllocatedQuantity,
		BookingType:       string(b.BookingType),
		Status:            string(b.Status),
		Priority:          string(b.Priority),
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
