package clear_slots

import (
	"context"

	"github.com/m04kA/GMS-ScheduleService/internal/service/schedule/models"
)

type ScheduleService interface {
	ClearSlots(ctx context.Context, req *models.ClearSlotsRequest) (*models.ClearSlotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
