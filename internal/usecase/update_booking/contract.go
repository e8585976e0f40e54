package update_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetOverlapping(ctx context.Context, resourceID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
	GetUserBookingsBetween(ctx context.Context, userID int64, from, to time.Time, excludeID *int64) ([]*domain.Booking, error)
	GetUserOverlapping(ctx context.Context, userID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
	UpdateReservation(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// LimitRepository интерфейс репозитория лимитов
type LimitRepository interface {
	GetActiveForBooking(ctx context.Context, userID int64, groupIDs []int64, resourceID int64) ([]*domain.ResourceLimit, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
