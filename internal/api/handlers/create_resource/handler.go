package create_resource

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/resources"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/resources/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgUserNotFound       = "пользователь не найден"
)

// CreateResourceRequest HTTP request model
type CreateResourceRequest struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Description   *string `json:"description,omitempty"`
	TotalCapacity int     `json:"totalCapacity"`
	CapacityUnit  string  `json:"capacityUnit"`
	IsIndivisible bool    `json:"isIndivisible"`
	MinAllocation *int    `json:"minAllocation,omitempty"`
	MaxAllocation *int    `json:"maxAllocation,omitempty"`
	Status        *string `json:"status,omitempty"`
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

// Handle POST /api/v1/resources
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /resources - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &models.CreateResourceRequest{
		AdminID:       userID,
		Name:          req.Name,
		Type:          req.Type,
		Description:   req.Description,
		TotalCapacity: req.TotalCapacity,
		CapacityUnit:  req.CapacityUnit,
		IsIndivisible: req.IsIndivisible,
		MinAllocation: req.MinAllocation,
		MaxAllocation: req.MaxAllocation,
		Status:        req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrAccessDenied):
			h.logger.Warn("POST /resources - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, resources.ErrUserNotFound):
			h.logger.Warn("POST /resources - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, resources.ErrInvalidInput):
			h.logger.Warn("POST /resources - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /resources - Failed to create resource: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources - Resource created successfully: resource_id=%d, admin_id=%d",
		result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
