package analytics

import (
	"context"
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
)

// AnalyticsRepository интерфейс репозитория дневной статистики
type AnalyticsRepository interface {
	GetByResourceAndRange(ctx context.Context, resourceID int64, from, to time.Time) ([]*domain.DailyStats, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
