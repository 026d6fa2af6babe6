package list_templates

import (
	"context"

	"github.com/m04kA/GMS-ScheduleService/internal/service/schedule/models"
)

type ScheduleService interface {
	ListTemplates(ctx context.Context, resourceID int64) (*models.TemplateListResponse, error)
	GetActiveTemplates(ctx context.Context, resourceID int64) (*models.TemplateListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
