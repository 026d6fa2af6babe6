package generate_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/GMS-ScheduleService/internal/api/handlers"
	generateSlots "github.com/m04kA/GMS-ScheduleService/internal/usecase/generate_slots"
)

const (
	msgInvalidResourceID  = "некорректный идентификатор ресурса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgResourceNotFound   = "ресурс не найден"
	msgResourceInactive   = "ресурс деактивирован"
	msgNoTemplates        = "у ресурса нет шаблонов доступности"
	msgInvalidRange       = "некорректный диапазон дат генерации"
)

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/resources/{resourceId}/slots/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil || resourceID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/%d/slots/generate - Invalid request body: %v", resourceID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(resourceID)
	if err != nil {
		h.logger.Warn("POST /resources/%d/slots/generate - Invalid dates: %v", resourceID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrResourceNotFound):
			h.logger.Warn("POST /resources/%d/slots/generate - Resource not found", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, generateSlots.ErrResourceInactive):
			h.logger.Warn("POST /resources/%d/slots/generate - Resource inactive", resourceID)
			handlers.RespondConflict(w, msgResourceInactive)

		case errors.Is(err, generateSlots.ErrNoTemplates):
			h.logger.Warn("POST /resources/%d/slots/generate - No templates", resourceID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgNoTemplates)

		case errors.Is(err, generateSlots.ErrInvalidRange), errors.Is(err, generateSlots.ErrInvalidInput):
			h.logger.Warn("POST /resources/%d/slots/generate - Invalid input: %v", resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("POST /resources/%d/slots/generate - Failed: error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources/%d/slots/generate - Generated: inserted=%d, skipped=%d",
		resourceID, result.GeneratedCount, result.SkippedCount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
