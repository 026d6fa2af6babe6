package block_slot

import (
	"context"

	"github.com/m04kA/GMS-ScheduleService/internal/service/schedule/models"
)

type ScheduleService interface {
	BlockSlot(ctx context.Context, slotID int64) (*models.SlotStatusResponse, error)
	UnblockSlot(ctx context.Context, slotID int64) (*models.SlotStatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
