package approve_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgIllegalTransition  = "бронирование не может быть подтверждено в текущем статусе"
	msgInvalidAllocation  = "некорректное выделяемое количество"
)

// ApproveBookingRequest HTTP request model
// Тело опционально: без него выделяется запрошенное количество
type ApproveBookingRequest struct {
	AllocatedQuantity *int `json:"allocatedQuantity,omitempty"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/approve - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/approve - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Тело запроса опционально
	var req ApproveBookingRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PATCH /bookings/{id}/approve - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	result, err := h.service.Approve(r.Context(), bookingID, &models.ApproveBookingRequest{
		AdminID:           userID,
		AllocatedQuantity: req.AllocatedQuantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/approve - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrUserNotFound):
			h.logger.Warn("PATCH /bookings/{id}/approve - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/approve - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrIllegalTransition):
			h.logger.Warn("PATCH /bookings/{id}/approve - Illegal transition: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgIllegalTransition)

		case errors.Is(err, bookings.ErrInvalidAllocation):
			h.logger.Warn("PATCH /bookings/{id}/approve - Invalid allocation: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidAllocation)

		default:
			h.logger.Error("PATCH /bookings/{id}/approve - Failed to approve booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/approve - Booking approved successfully: booking_id=%d, admin_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
