package generate_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	resourceRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/resource"
)

// UseCase use case для генерации слотов из шаблонов доступности
type UseCase struct {
	slotRepo      SlotRepository
	resourceRepo  ResourceRepository
	templateRepo  TemplateRepository
	analyticsRepo AnalyticsRepository
	txManager     TransactionManager
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepository SlotRepository,
	resourceRepository ResourceRepository,
	templateRepository TemplateRepository,
	analyticsRepository AnalyticsRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:      slotRepository,
		resourceRepo:  resourceRepository,
		templateRepo:  templateRepository,
		analyticsRepo: analyticsRepository,
		txManager:     txManager,
		logger:        logger,
	}
}

// Execute выполняет use case генерации слотов
// Генерация идемпотентна: вставка идет через ON CONFLICT DO NOTHING по ключу
// (resource_id, slot_date, start_time), повторный запуск по тому же диапазону
// не создает дублей и не трогает занятость существующих слотов.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSlots: resource=%d, from=%s, to=%s",
		req.ResourceID, req.FromDate.Format(domain.DateFormat), req.ToDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем ресурс
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GenerateSlots: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GenerateSlots: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if !resource.Active {
		uc.logger.Warn("GenerateSlots: resource id=%d is deactivated", req.ResourceID)
		return nil, ErrResourceInactive
	}

	// 3. Перевернутый диапазон не содержит ни одного дня: слоты не создаются
	if truncateToDay(req.ToDate).Before(truncateToDay(req.FromDate)) {
		uc.logger.Warn("GenerateSlots: empty range for resource=%d, from=%s, to=%s",
			req.ResourceID, req.FromDate.Format(domain.DateFormat), req.ToDate.Format(domain.DateFormat))
		return &Response{ResourceID: req.ResourceID}, nil
	}

	// 4. Получаем действующие шаблоны: по одному на день недели
	templates, err := uc.templateRepo.GetLatestByResource(ctx, req.ResourceID)
	if err != nil {
		uc.logger.Error("GenerateSlots: failed to get templates: %v", err)
		return nil, fmt.Errorf("%w: failed to get templates: %v", ErrInternal, err)
	}
	if len(templates) == 0 {
		uc.logger.Warn("GenerateSlots: resource id=%d has no templates", req.ResourceID)
		return nil, ErrNoTemplates
	}

	byWeekday := make(map[int]*domain.AvailabilityTemplate, len(templates))
	for _, tpl := range templates {
		byWeekday[tpl.Weekday] = tpl
	}

	resp := &Response{ResourceID: req.ResourceID}

	from := truncateToDay(req.FromDate)
	to := truncateToDay(req.ToDate)

	// 5. Вставляем слоты по дням в одной транзакции, статистика по каждому дню
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			tpl, ok := byWeekday[int(day.Weekday())]
			if !ok || !tpl.IsOpen {
				resp.DaysClosed++
				continue
			}

			slots, err := buildDaySlots(resource, tpl, day)
			if err != nil {
				uc.logger.Error("GenerateSlots: failed to build slots for %s: %v",
					day.Format(domain.DateFormat), err)
				return fmt.Errorf("%w: failed to build slots: %v", ErrInternal, err)
			}
			if len(slots) == 0 {
				resp.DaysClosed++
				continue
			}

			inserted, err := uc.slotRepo.BulkInsertIgnoreConflicts(txCtx, slots)
			if err != nil {
				uc.logger.Error("GenerateSlots: failed to insert slots for %s: %v",
					day.Format(domain.DateFormat), err)
				return fmt.Errorf("%w: failed to insert slots: %v", ErrInternal, err)
			}

			if inserted > 0 {
				if err := uc.analyticsRepo.AddGeneratedSlots(txCtx, resource.ID, day, int(inserted)); err != nil {
					uc.logger.Error("GenerateSlots: failed to update daily stats for %s: %v",
						day.Format(domain.DateFormat), err)
					return fmt.Errorf("%w: failed to update daily stats: %v", ErrInternal, err)
				}
			}

			resp.DaysProcessed++
			resp.GeneratedCount += inserted
			resp.SkippedCount += int64(len(slots)) - inserted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GenerateSlots: resource=%d generated=%d skipped=%d days=%d closed=%d",
		resp.ResourceID, resp.GeneratedCount, resp.SkippedCount, resp.DaysProcessed, resp.DaysClosed)

	return resp, nil
}

// buildDaySlots раскатывает шаблон одного дня в набор слотов.
// Последний неполный интервал отбрасывается: слот короче slotDuration
// не генерируется.
func buildDaySlots(resource *domain.Resource, tpl *domain.AvailabilityTemplate, day time.Time) ([]*domain.Slot, error) {
	if !tpl.IsValidWindow() {
		return nil, nil
	}

	startMin, err := tpl.StartTime.Minutes()
	if err != nil {
		return nil, err
	}
	endMin, err := tpl.EndTime.Minutes()
	if err != nil {
		return nil, err
	}

	sessionsCap := tpl.SessionsCap()
	step := tpl.SlotDurationMinutes + tpl.BreakMinutes

	var slots []*domain.Slot
	for cur := startMin; cur+tpl.SlotDurationMinutes <= endMin; cur += step {
		if sessionsCap > 0 && len(slots) >= sessionsCap {
			break
		}

		startTime, err := tpl.StartTime.AddMinutes(cur - startMin)
		if err != nil {
			return nil, err
		}
		endTime, err := startTime.AddMinutes(tpl.SlotDurationMinutes)
		if err != nil {
			return nil, err
		}

		finalPrice, isPeak := domain.SlotPrice(resource, startTime)

		slots = append(slots, &domain.Slot{
			ResourceID: resource.ID,
			Date:       day,
			StartTime:  startTime,
			EndTime:    endTime,
			Capacity:   resource.EffectiveCapacity(),
			Occupancy:  0,
			BasePrice:  resource.BasePrice,
			FinalPrice: finalPrice,
			IsPeak:     isPeak,
			Status:     domain.SlotOpen,
		})
	}

	return slots, nil
}

// truncateToDay обнуляет время, оставляя только дату
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
