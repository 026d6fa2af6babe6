package get_available_slots

import (
	"time"

	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ResourceID int64      // ID ресурса
	FromDate   *time.Time // Начало диапазона (опционально)
	ToDate     *time.Time // Конец диапазона (опционально)

	// UserID нужен только для расчета персональной цены, nil = цены без скидки
	UserID *int64

	OnlyAvailable bool // true = вернуть только слоты со свободными местами
}

// Response модель ответа со списком слотов
type Response struct {
	ResourceID   int64  // ID ресурса
	ResourceName string // Название ресурса
	IsMember     bool   // Членство пользователя, если UserID задан
	Slots        []Slot // Список слотов
}

// Slot модель слота в выдаче
type Slot struct {
	ID        int64            // ID слота
	Date      time.Time        // Дата слота
	StartTime types.TimeString // Время начала
	EndTime   types.TimeString // Время окончания

	Capacity       int // Вместимость
	AvailableSpots int // Свободных мест

	Price    float64 // Цена для запрашивающего (с членской скидкой, если есть)
	IsPeak   bool    // Пиковый ли слот
	Status   string  // Статус слота
	Bookable bool    // Можно ли забронировать
}
