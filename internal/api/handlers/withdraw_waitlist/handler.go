package withdraw_waitlist

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/GMS-ScheduleService/internal/api/handlers"
	"github.com/m04kA/GMS-ScheduleService/internal/api/middleware"
	"github.com/m04kA/GMS-ScheduleService/internal/service/waitlist"
)

const (
	msgInvalidEntryID = "некорректный идентификатор записи"
	msgEntryNotFound  = "запись листа ожидания не найдена"
	msgUnauthorized   = "пользователь не аутентифицирован"
)

type Handler struct {
	service WaitlistService
	logger  Logger
}

func NewHandler(service WaitlistService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/waitlist/{entryId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	entryID, err := strconv.ParseInt(mux.Vars(r)["entryId"], 10, 64)
	if err != nil || entryID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	if err := h.service.Withdraw(r.Context(), entryID, userID); err != nil {
		switch {
		case errors.Is(err, waitlist.ErrEntryNotFound):
			h.logger.Warn("DELETE /waitlist/%d - Entry not found: user_id=%d", entryID, userID)
			handlers.RespondNotFound(w, msgEntryNotFound)

		default:
			h.logger.Error("DELETE /waitlist/%d - Failed: user_id=%d, error=%v", entryID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /waitlist/%d - Entry withdrawn: user_id=%d", entryID, userID)
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}
