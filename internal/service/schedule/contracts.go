package schedule

import (
	"context"
	"database/sql"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	Deactivate(ctx context.Context, id int64) error
	GetCancellationPolicy(ctx context.Context, resourceID int64) (*domain.CancellationPolicy, error)
	UpsertCancellationPolicy(ctx context.Context, policy *domain.CancellationPolicy) (*domain.CancellationPolicy, error)
}

// TemplateRepository интерфейс репозитория шаблонов доступности
type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.AvailabilityTemplate) (*domain.AvailabilityTemplate, error)
	ListByResource(ctx context.Context, resourceID int64) ([]*domain.AvailabilityTemplate, error)
	GetLatestByResource(ctx context.Context, resourceID int64) ([]*domain.AvailabilityTemplate, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error)
	SetStatus(ctx context.Context, id int64, status domain.SlotStatus) error
	UpdateOccupancy(ctx context.Context, id int64, occupancy int, status domain.SlotStatus) error
	DeleteByResourceAndRange(ctx context.Context, resourceID int64, from, to sql.NullTime) (int64, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountActiveBySlot(ctx context.Context, slotID int64) (int, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
