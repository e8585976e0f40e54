package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректный формат времени, ожидается RFC 3339"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgUserNotFound         = "пользователь не найден"
	msgUserInactive         = "учетная запись пользователя деактивирована"
	msgResourceNotFound     = "ресурс не найден"
	msgResourceUnavailable  = "ресурс недоступен для бронирования"
	msgInsufficientCapacity = "недостаточно свободной ёмкости на запрошенный интервал"
	msgLimitExceeded        = "превышены лимиты использования"
	msgConstraintViolation  = "запрошенное количество нарушает правила ресурса"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Нарушение квот отдаём с полным списком нарушений
		var limitErr *createBooking.LimitViolationError
		if errors.As(err, &limitErr) {
			h.logger.Warn("POST /bookings - Limit exceeded: user_id=%d, resource_id=%d, violations=%d",
				userID, req.ResourceID, len(limitErr.Violations))
			handlers.RespondJSON(w, http.StatusUnprocessableEntity, ViolationsResponse{
				Error:      msgLimitExceeded,
				Violations: limitErr.Violations,
				Usage:      FromDomainUsage(limitErr.Usage),
			})
			return
		}

		switch {
		case errors.Is(err, createBooking.ErrInsufficientCapacity):
			h.logger.Warn("POST /bookings - Insufficient capacity: user_id=%d, resource_id=%d", userID, req.ResourceID)
			handlers.RespondConflict(w, msgInsufficientCapacity)

		case errors.Is(err, createBooking.ErrUserNotFound):
			h.logger.Warn("POST /bookings - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, createBooking.ErrUserInactive):
			h.logger.Warn("POST /bookings - User inactive: user_id=%d", userID)
			handlers.RespondForbidden(w, msgUserInactive)

		case errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("POST /bookings - Resource not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createBooking.ErrResourceUnavailable):
			h.logger.Warn("POST /bookings - Resource unavailable: resource_id=%d", req.ResourceID)
			handlers.RespondConflict(w, msgResourceUnavailable)

		case errors.Is(err, createBooking.ErrConstraintViolation):
			h.logger.Warn("POST /bookings - Constraint violated: user_id=%d, resource_id=%d, error=%v",
				userID, req.ResourceID, err)
			handlers.RespondBadRequest(w, msgConstraintViolation)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, resource_id=%d, error=%v",
				userID, req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, resource_id=%d",
		result.ID, userID, req.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
