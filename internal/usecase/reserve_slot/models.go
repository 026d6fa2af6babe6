package reserve_slot

import (
	"time"

	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// Request модель запроса на резервирование места в слоте
type Request struct {
	UserID int64   // ID пользователя
	SlotID int64   // ID слота
	Notes  *string // Дополнительные заметки (опционально)

	// IsMember задается явно, когда членство уже известно вызывающей стороне.
	// nil = спросить MemberService.
	IsMember *bool
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID     int64 // ID созданного бронирования
	SlotID int64 // ID слота
	UserID int64 // ID пользователя

	// Денормализованные данные слота
	ResourceID   int64            // ID ресурса
	ResourceKind string           // Тип ресурса
	ResourceName string           // Название ресурса
	Date         time.Time        // Дата слота
	StartTime    types.TimeString // Время начала
	EndTime      types.TimeString // Время окончания

	PricePaid float64 // Итоговая цена (с учетом пиков и членской скидки)
	IsMember  bool    // Применена ли членская скидка
	IsPeak    bool    // Пиковый ли слот
	Status    string  // Статус бронирования

	AvailableSpots int // Свободных мест в слоте после бронирования

	Notes     *string   // Заметки
	CreatedAt time.Time // Время создания
}
