package reserve_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/GMS-ScheduleService/internal/api/handlers"
	"github.com/m04kA/GMS-ScheduleService/internal/api/middleware"
	reserveSlot "github.com/m04kA/GMS-ScheduleService/internal/usecase/reserve_slot"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSlotNotFound       = "слот не найден"
	msgResourceNotFound   = "ресурс не найден"
	msgSlotUnavailable    = "в слоте нет свободных мест"
	msgSlotInPast         = "слот уже начался"
	msgDuplicateBooking   = "у вас уже есть бронирование на это время"
	msgUnauthorized       = "пользователь не аутентифицирован"
)

type Handler struct {
	useCase ReserveSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req ReserveSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, reserveSlot.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, reserveSlot.ErrResourceNotFound):
			h.logger.Warn("POST /bookings - Resource not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, reserveSlot.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: slot_id=%d, user_id=%d", req.SlotID, userID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, reserveSlot.ErrSlotInPast):
			h.logger.Warn("POST /bookings - Slot in past: slot_id=%d", req.SlotID)
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, reserveSlot.ErrDuplicateBooking):
			h.logger.Warn("POST /bookings - Duplicate booking: slot_id=%d, user_id=%d", req.SlotID, userID)
			handlers.RespondConflict(w, msgDuplicateBooking)

		case errors.Is(err, reserveSlot.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to reserve slot: slot_id=%d, user_id=%d, error=%v",
				req.SlotID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, slot_id=%d, user_id=%d",
		result.ID, req.SlotID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
