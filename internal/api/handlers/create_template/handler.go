package create_template

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/GMS-ScheduleService/internal/api/handlers"
	"github.com/m04kA/GMS-ScheduleService/internal/service/schedule"
	"github.com/m04kA/GMS-ScheduleService/internal/service/schedule/models"
)

const (
	msgInvalidResourceID  = "некорректный идентификатор ресурса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTemplate    = "некорректные параметры шаблона"
	msgResourceNotFound   = "ресурс не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/resources/{resourceId}/templates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil || resourceID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req models.CreateTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/%d/templates - Invalid request body: %v", resourceID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ResourceID = resourceID

	result, err := h.service.CreateTemplate(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrResourceNotFound):
			h.logger.Warn("POST /resources/%d/templates - Resource not found", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /resources/%d/templates - Invalid input: %v", resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidTemplate)

		default:
			h.logger.Error("POST /resources/%d/templates - Failed: error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources/%d/templates - Template created: id=%d, weekday=%d",
		resourceID, result.ID, result.Weekday)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
