package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID            int64     // ID пользователя-автора
	ResourceID        int64     // ID бронируемого ресурса
	Title             string    // Название бронирования
	StartTime         time.Time // Начало интервала (включительно)
	EndTime           time.Time // Конец интервала (исключительно)
	RequestedQuantity int       // Запрашиваемое количество единиц ёмкости
	BookingType       string    // shared | exclusive
	Priority          *string   // low | normal | high | critical (по умолчанию normal)
}

// Response модель ответа с созданным бронированием
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

	ApprovedByID *int64

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
		ApprovedByID:      b.ApprovedByID,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
