package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/internal/infra/events"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error)
	UpdateOccupancy(ctx context.Context, id int64, occupancy int, status domain.SlotStatus) error
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetCancellationPolicy(ctx context.Context, resourceID int64) (*domain.CancellationPolicy, error)
}

// AnalyticsRepository интерфейс репозитория дневной статистики
type AnalyticsRepository interface {
	Decrement(ctx context.Context, delta domain.StatsDelta) error
}

// WaitlistPromoter интерфейс запуска промоушена листа ожидания
// для освободившегося слота
type WaitlistPromoter interface {
	PromoteForSlot(ctx context.Context, slotID int64)
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	PublishBookingCancelled(ctx context.Context, event events.BookingCancelledEvent)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
