package cancel_booking

import "time"

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID int64  // ID бронирования
	UserID    int64  // ID пользователя-владельца
	Reason    string // Причина отмены (опционально)
}

// Response модель ответа с результатом отмены
type Response struct {
	BookingID     int64     // ID бронирования
	Status        string    // Новый статус бронирования
	PricePaid     float64   // Уплаченная цена
	RefundAmount  float64   // Сумма возврата по политике отмены
	RefundPercent float64   // Процент возврата
	CancelledAt   time.Time // Время отмены
}
