package update_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceBookingService/internal/api/middleware"
	updateBooking "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/update_booking"
)

const (
	msgInvalidBookingID     = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректный формат времени, ожидается RFC 3339"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgNotUpdatable         = "бронирование не может быть изменено в текущем статусе"
	msgBookingEnded         = "бронирование уже завершилось"
	msgResourceNotFound     = "ресурс не найден"
	msgInsufficientCapacity = "недостаточно свободной ёмкости на запрошенный интервал"
	msgLimitExceeded        = "превышены лимиты использования"
	msgConstraintViolation  = "запрошенное количество нарушает правила ресурса"
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, userID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var limitErr *updateBooking.LimitViolationError
		if errors.As(err, &limitErr) {
			h.logger.Warn("PATCH /bookings/{id} - Limit exceeded: booking_id=%d, user_id=%d, violations=%d",
				bookingID, userID, len(limitErr.Violations))
			handlers.RespondJSON(w, http.StatusUnprocessableEntity, ViolationsResponse{
				Error:      msgLimitExceeded,
				Violations: limitErr.Violations,
				Usage:      FromDomainUsage(limitErr.Usage),
			})
			return
		}

		switch {
		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateBooking.ErrUserNotFound):
			h.logger.Warn("PATCH /bookings/{id} - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id} - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateBooking.ErrNotUpdatable):
			h.logger.Warn("PATCH /bookings/{id} - Not updatable: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotUpdatable)

		case errors.Is(err, updateBooking.ErrBookingEnded):
			h.logger.Warn("PATCH /bookings/{id} - Booking ended: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgBookingEnded)

		case errors.Is(err, updateBooking.ErrResourceNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Resource not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, updateBooking.ErrInsufficientCapacity):
			h.logger.Warn("PATCH /bookings/{id} - Insufficient capacity: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgInsufficientCapacity)

		case errors.Is(err, updateBooking.ErrConstraintViolation):
			h.logger.Warn("PATCH /bookings/{id} - Constraint violated: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgConstraintViolation)

		case errors.Is(err, updateBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to update booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("PATCH /bookings/{id} - Booking updated successfully: booking_id=%d, user_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
