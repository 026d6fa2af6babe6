package reserve_slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("reserve_slot: slot not found")

	// ErrResourceNotFound возвращается, когда ресурс слота не найден или деактивирован
	ErrResourceNotFound = errors.New("reserve_slot: resource not found")

	// ErrSlotUnavailable возвращается, когда слот заполнен, заблокирован или отменен
	ErrSlotUnavailable = errors.New("reserve_slot: slot is not available")

	// ErrSlotInPast возвращается при попытке забронировать уже начавшийся слот
	ErrSlotInPast = errors.New("reserve_slot: slot is in the past")

	// ErrDuplicateBooking возвращается, когда у пользователя уже есть активное
	// бронирование на это же время для ресурса того же типа
	ErrDuplicateBooking = errors.New("reserve_slot: user already has an active booking at this time")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_slot: internal error")
)
