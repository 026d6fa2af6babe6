package generate_slots

import (
	"fmt"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.FromDate.IsZero() || req.ToDate.IsZero() {
		return fmt.Errorf("%w: fromDate and toDate are required", ErrInvalidInput)
	}

	// Перевернутый диапазон не ошибка: в нем просто нет дней,
	// usecase вернет пустой результат
	from := truncateToDay(req.FromDate)
	to := truncateToDay(req.ToDate)

	days := int(to.Sub(from).Hours()/24) + 1
	if days > domain.MaxGenerationRangeDays {
		return fmt.Errorf("%w: range of %d days exceeds maximum of %d",
			ErrInvalidRange, days, domain.MaxGenerationRangeDays)
	}

	return nil
}
