package reserve_slot

import (
	"context"
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/internal/infra/events"
	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error)
	UpdateOccupancy(ctx context.Context, id int64, occupancy int, status domain.SlotStatus) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ExistsActiveByUserAndTime(ctx context.Context, userID int64, kind domain.ResourceKind, date time.Time, startTime types.TimeString) (bool, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// AnalyticsRepository интерфейс репозитория дневной статистики
type AnalyticsRepository interface {
	Increment(ctx context.Context, delta domain.StatsDelta) error
}

// MemberServiceClient интерфейс клиента MemberService
type MemberServiceClient interface {
	IsMemberWithGracefulDegradation(ctx context.Context, userID int64) bool
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event events.BookingConfirmedEvent)
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
