package approve_booking

import (
	"context"

	"github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings/models"
)

type BookingService interface {
	Approve(ctx context.Context, bookingID int64, req *models.ApproveBookingRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
