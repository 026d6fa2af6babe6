package promote_waitlist

import (
	"context"
	"database/sql"
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/internal/usecase/reserve_slot"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	ListByResourceAndRange(ctx context.Context, resourceID int64, from, to sql.NullTime, onlyAvailable bool) ([]*domain.Slot, error)
}

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	ListWaitingForSlot(ctx context.Context, resourceID int64, date time.Time, slotStart, slotEnd string) ([]*domain.WaitlistEntry, error)
	ListWaitingUpcoming(ctx context.Context, from time.Time, limit uint64) ([]*domain.WaitlistEntry, error)
	ExpireOverdue(ctx context.Context, before time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.WaitlistStatus) error
}

// SlotReserver интерфейс резервирования места, промоушен проходит тот же
// путь, что и обычное бронирование
type SlotReserver interface {
	Execute(ctx context.Context, req *reserve_slot.Request) (*reserve_slot.Response, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
