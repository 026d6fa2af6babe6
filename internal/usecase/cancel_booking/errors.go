package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено или
	// принадлежит другому пользователю
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrAlreadyFinalized возвращается, когда бронирование уже отменено
	// или завершено
	ErrAlreadyFinalized = errors.New("cancel_booking: booking is already cancelled or completed")

	// ErrCancellationWindowClosed возвращается, когда до начала слота
	// осталось меньше минимального срока уведомления
	ErrCancellationWindowClosed = errors.New("cancel_booking: cancellation window is closed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
