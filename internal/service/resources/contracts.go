package resources

import (
	"context"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/integrations/userservice"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	Create(ctx context.Context, resource *domain.Resource) (*domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context, onlyActive bool) ([]*domain.Resource, error)
	Update(ctx context.Context, id int64, resource *domain.Resource) (*domain.Resource, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
