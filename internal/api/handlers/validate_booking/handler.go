package validate_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceBookingService/internal/api/middleware"
	validateBooking "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/validate_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC 3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgUserNotFound       = "пользователь не найден"
	msgResourceNotFound   = "ресурс не найден"
)

// ValidateBookingRequest HTTP request model
type ValidateBookingRequest struct {
	ResourceID  int64  `json:"resourceId"`
	StartTime   string `json:"startTime"` // RFC 3339
	EndTime     string `json:"endTime"`   // RFC 3339
	BookingType string `json:"bookingType"`
}

// ValidateBookingResponse HTTP response model
// Вердикт идентичен проверке при создании: та же функция оценки квот
type ValidateBookingResponse struct {
	Valid      bool           `json:"valid"`
	Violations []string       `json:"violations"`
	Usage      UsageStatsView `json:"usage"`
}

// UsageStatsView текущее использование квот в ответе
type UsageStatsView struct {
	DailyHours         float64 `json:"dailyHours"`
	WeeklyHours        float64 `json:"weeklyHours"`
	MonthlyHours       float64 `json:"monthlyHours"`
	ConcurrentBookings int     `json:"concurrentBookings"`
	DailyBookings      int     `json:"dailyBookings"`
}

type Handler struct {
	useCase ValidateBookingUseCase
	logger  Logger
}

func NewHandler(useCase ValidateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/validate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/validate - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ValidateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		h.logger.Warn("POST /bookings/validate - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		h.logger.Warn("POST /bookings/validate - Invalid end time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &validateBooking.Request{
		UserID:      userID,
		ResourceID:  req.ResourceID,
		StartTime:   startTime,
		EndTime:     endTime,
		BookingType: req.BookingType,
	})
	if err != nil {
		switch {
		case errors.Is(err, validateBooking.ErrUserNotFound):
			h.logger.Warn("POST /bookings/validate - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, validateBooking.ErrResourceNotFound):
			h.logger.Warn("POST /bookings/validate - Resource not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, validateBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/validate - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings/validate - Failed to validate booking: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/validate - Validation completed: user_id=%d, resource_id=%d, valid=%v",
		userID, req.ResourceID, result.Valid)
	handlers.RespondJSON(w, http.StatusOK, ValidateBookingResponse{
		Valid:      result.Valid,
		Violations: result.Violations,
		Usage: UsageStatsView{
			DailyHours:         result.Usage.DailyHours,
			WeeklyHours:        result.Usage.WeeklyHours,
			MonthlyHours:       result.Usage.MonthlyHours,
			ConcurrentBookings: result.Usage.ConcurrentBookings,
			DailyBookings:      result.Usage.DailyBookings,
		},
	})
}
