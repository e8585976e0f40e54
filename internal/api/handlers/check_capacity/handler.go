package check_capacity

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	checkCapacity "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/check_capacity"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidParams     = "некорректные параметры запроса, ожидаются start и end в формате RFC 3339"
	msgResourceNotFound  = "ресурс не найден"
)

// CapacityResponse HTTP response model
type CapacityResponse struct {
	ResourceID               int64 `json:"resourceId"`
	TotalCapacity            int   `json:"totalCapacity"`
	CurrentAllocation        int   `json:"currentAllocation"`
	AvailableCapacity        int   `json:"availableCapacity"`
	ConflictingBookingsCount int   `json:"conflictingBookingsCount"`
}

type Handler struct {
	useCase CheckCapacityUseCase
	logger  Logger
}

func NewHandler(useCase CheckCapacityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/capacity?start=&end=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем resourceId из URL
	vars := mux.Vars(r)
	resourceIDStr := vars["resourceId"]

	resourceID, err := strconv.ParseInt(resourceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/capacity - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	// Интервал передаётся query параметрами start и end
	startTime, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		h.logger.Warn("GET /resources/{id}/capacity - Invalid start param: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	endTime, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		h.logger.Warn("GET /resources/{id}/capacity - Invalid end param: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkCapacity.Request{
		ResourceID: resourceID,
		StartTime:  startTime,
		EndTime:    endTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkCapacity.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/capacity - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, checkCapacity.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/capacity - Invalid input: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /resources/{id}/capacity - Failed to check capacity: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/capacity - Capacity checked: resource_id=%d, available=%d/%d",
		resourceID, result.AvailableCapacity, result.TotalCapacity)
	handlers.RespondJSON(w, http.StatusOK, CapacityResponse{
		ResourceID:               result.ResourceID,
		TotalCapacity:            result.TotalCapacity,
		CurrentAllocation:        result.CurrentAllocation,
		AvailableCapacity:        result.AvailableCapacity,
		ConflictingBookingsCount: result.ConflictingBookingsCount,
	})
}
