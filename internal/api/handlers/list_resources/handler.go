package list_resources

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/resources/models"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
)

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

// Handle GET /api/v1/resources
// Query params: onlyActive (опционально, по умолчанию true)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	onlyActive := true
	if onlyActiveStr := r.URL.Query().Get("onlyActive"); onlyActiveStr != "" {
		parsed, err := strconv.ParseBool(onlyActiveStr)
		if err != nil {
			h.logger.Warn("GET /resources - Invalid onlyActive param: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		onlyActive = parsed
	}

	result, err := h.service.List(r.Context(), &models.ListResourcesRequest{
		OnlyActive: onlyActive,
	})
	if err != nil {
		h.logger.Error("GET /resources - Failed to list resources: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /resources - Resources retrieved successfully: count=%d", len(result.Resources))
	handlers.RespondJSON(w, http.StatusOK, result)
}
