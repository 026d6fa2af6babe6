package generate_slots

import (
	"context"
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	BulkInsertIgnoreConflicts(ctx context.Context, slots []*domain.Slot) (int64, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// TemplateRepository интерфейс репозитория шаблонов доступности
type TemplateRepository interface {
	GetLatestByResource(ctx context.Context, resourceID int64) ([]*domain.AvailabilityTemplate, error)
}

// AnalyticsRepository интерфейс репозитория дневной статистики
type AnalyticsRepository interface {
	AddGeneratedSlots(ctx context.Context, resourceID int64, date time.Time, count int) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
