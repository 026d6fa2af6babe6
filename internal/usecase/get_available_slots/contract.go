package get_available_slots

import (
	"context"
	"database/sql"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByResourceAndRange(ctx context.Context, resourceID int64, from, to sql.NullTime, onlyAvailable bool) ([]*domain.Slot, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// MemberServiceClient интерфейс клиента MemberService
type MemberServiceClient interface {
	IsMemberWithGracefulDegradation(ctx context.Context, userID int64) bool
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
