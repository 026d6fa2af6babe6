package generate_slots

import "time"

// Request модель запроса на генерацию слотов
type Request struct {
	ResourceID int64     // ID ресурса
	FromDate   time.Time // Первая дата диапазона (включительно)
	ToDate     time.Time // Последняя дата диапазона (включительно)
}

// Response модель ответа с итогами генерации
type Response struct {
	ResourceID     int64 // ID ресурса
	GeneratedCount int64 // Количество вставленных слотов
	SkippedCount   int64 // Количество слотов, уже существовавших (повторный запуск)
	DaysProcessed  int   // Количество дней с открытым шаблоном
	DaysClosed     int   // Количество дней без шаблона или с закрытым шаблоном
}
