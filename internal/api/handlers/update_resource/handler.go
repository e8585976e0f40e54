package update_resource

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/resources"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/resources/models"
)

const (
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "ресурс не найден"
	msgForbidden          = "доступ запрещен"
)

// UpdateResourceRequest HTTP request model
// Все поля опциональны: отсутствующее поле не меняется
type UpdateResourceRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	TotalCapacity *int    `json:"totalCapacity,omitempty"`
	MinAllocation *int    `json:"minAllocation,omitempty"`
	MaxAllocation *int    `json:"maxAllocation,omitempty"`
	Status        *string `json:"status,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

type Handler struct {
	service ResourceService
	logger  Logger
}

func NewHandler(service ResourceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/resources/{resourceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем resourceId из URL
	vars := mux.Vars(r)
	resourceIDStr := vars["resourceId"]

	resourceID, err := strconv.ParseInt(resourceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /resources/{id} - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /resources/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /resources/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), resourceID, &models.UpdateResourceRequest{
		AdminID:       userID,
		Name:          req.Name,
		Description:   req.Description,
		TotalCapacity: req.TotalCapacity,
		MinAllocation: req.MinAllocation,
		MaxAllocation: req.MaxAllocation,
		Status:        req.Status,
		IsActive:      req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrResourceNotFound):
			h.logger.Warn("PUT /resources/{id} - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, resources.ErrAccessDenied):
			h.logger.Warn("PUT /resources/{id} - Access denied: resource_id=%d, user_id=%d", resourceID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, resources.ErrUserNotFound):
			h.logger.Warn("PUT /resources/{id} - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, resources.ErrInvalidInput):
			h.logger.Warn("PUT /resources/{id} - Invalid input: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /resources/{id} - Failed to update resource: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /resources/{id} - Resource updated successfully: resource_id=%d, admin_id=%d",
		resourceID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
