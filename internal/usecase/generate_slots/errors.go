package generate_slots

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("generate_slots: resource not found")

	// ErrResourceInactive возвращается, когда ресурс деактивирован
	ErrResourceInactive = errors.New("generate_slots: resource is deactivated")

	// ErrNoTemplates возвращается, когда у ресурса нет шаблонов доступности
	ErrNoTemplates = errors.New("generate_slots: resource has no availability templates")

	// ErrInvalidRange возвращается при некорректном диапазоне дат генерации
	ErrInvalidRange = errors.New("generate_slots: invalid date range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_slots: internal error")
)
