package upsert_policy

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
	msgInvalidPolicy      = "некорректные параметры политики отмены"
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

// Handle PUT /api/v1/resources/{resourceId}/policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil || resourceID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req models.UpsertPolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /resources/%d/policy - Invalid request body: %v", resourceID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ResourceID = resourceID

	result, err := h.service.UpsertPolicy(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrResourceNotFound):
			h.logger.Warn("PUT /resources/%d/policy - Resource not found", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /resources/%d/policy - Invalid input: %v", resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidPolicy)

		default:
			h.logger.Error("PUT /resources/%d/policy - Failed: error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /resources/%d/policy - Policy updated: notice=%dh, refund=%.0f%%",
		resourceID, result.MinNoticeHours, result.RefundPercent)
	handlers.RespondJSON(w, http.StatusOK, result)
}
