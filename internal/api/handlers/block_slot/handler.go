package block_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/GMS-ScheduleService/internal/api/handlers"
	"github.com/m04kA/GMS-ScheduleService/internal/service/schedule"
)

const (
	msgInvalidSlotID  = "некорректный идентификатор слота"
	msgSlotNotFound   = "слот не найден"
	msgSlotHasBookers = "в слоте есть активные бронирования"
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

// HandleBlock PATCH /api/v1/slots/{slotId}/block
func (h *Handler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	result, err := h.service.BlockSlot(r.Context(), slotID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrSlotNotFound):
			h.logger.Warn("PATCH /slots/%d/block - Slot not found", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, schedule.ErrSlotHasBookings):
			h.logger.Warn("PATCH /slots/%d/block - Slot has active bookings", slotID)
			handlers.RespondConflict(w, msgSlotHasBookers)

		default:
			h.logger.Error("PATCH /slots/%d/block - Failed: error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /slots/%d/block - Slot blocked", slotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUnblock PATCH /api/v1/slots/{slotId}/unblock
func (h *Handler) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	result, err := h.service.UnblockSlot(r.Context(), slotID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrSlotNotFound):
			h.logger.Warn("PATCH /slots/%d/unblock - Slot not found", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		default:
			h.logger.Error("PATCH /slots/%d/unblock - Failed: error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /slots/%d/unblock - Slot unblocked", slotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
