package waitlist

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись листа ожидания не найдена
	// или принадлежит другому пользователю
	ErrEntryNotFound = errors.New("waitlist entry not found")

	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("resource not found")

	// ErrAlreadyWaitlisted возвращается, когда пользователь уже стоит
	// в очереди ресурса на эту дату
	ErrAlreadyWaitlisted = errors.New("user is already waitlisted for this resource and date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
