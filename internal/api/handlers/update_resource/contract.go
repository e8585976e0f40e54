package update_resource

import (
	"context"

	"github.com/m04kA/SMC-ResourceBookingService/internal/service/resources/models"
)

type ResourceService interface {
	Update(ctx context.Context, id int64, req *models.UpdateResourceRequest) (*models.ResourceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
