package reserve_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/internal/infra/events"
	bookingRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/slot"
)

// UseCase use case для атомарного резервирования места в слоте
type UseCase struct {
	slotRepo      SlotRepository
	bookingRepo   BookingRepository
	resourceRepo  ResourceRepository
	analyticsRepo AnalyticsRepository
	memberClient  MemberServiceClient
	publisher     EventPublisher
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepository SlotRepository,
	bookingRepository BookingRepository,
	resourceRepository ResourceRepository,
	analyticsRepository AnalyticsRepository,
	memberClient MemberServiceClient,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:      slotRepository,
		bookingRepo:   bookingRepository,
		resourceRepo:  resourceRepository,
		analyticsRepo: analyticsRepository,
		memberClient:  memberClient,
		publisher:     publisher,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case резервирования места
// Слот читается с блокировкой FOR UPDATE внутри сериализуемой транзакции:
// проверка вместимости, создание бронирования и инкремент занятости видны
// конкурентам как одна атомарная операция, овербукинг исключен.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: user=%d, slot=%d", req.UserID, req.SlotID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Определяем членство до транзакции: поход во внешний сервис внутри
	// транзакции удерживал бы блокировку строки на время сетевого вызова
	isMember := false
	if req.IsMember != nil {
		isMember = *req.IsMember
	} else {
		isMember = uc.memberClient.IsMemberWithGracefulDegradation(ctx, req.UserID)
	}

	var result *domain.Booking
	var availableSpots int

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Читаем слот с блокировкой строки (FOR UPDATE)
		slot, err := uc.slotRepo.GetByIDForUpdate(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("ReserveSlot: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("ReserveSlot: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// 4.2. Перепроверяем доступность уже под блокировкой
		if !slot.IsBookable() {
			uc.logger.Warn("ReserveSlot: slot id=%d not bookable, occupancy=%d/%d, status=%s",
				slot.ID, slot.Occupancy, slot.Capacity, slot.Status)
			return ErrSlotUnavailable
		}

		// 4.3. Слот должен быть в будущем
		startsAt, err := slot.StartsAt()
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to compute slot start: %v", err)
			return fmt.Errorf("%w: failed to compute slot start: %v", ErrInternal, err)
		}
		if !startsAt.After(now) {
			uc.logger.Warn("ReserveSlot: slot id=%d already started at %s", slot.ID, startsAt)
			return ErrSlotInPast
		}

		// 4.4. Получаем ресурс слота
		resource, err := uc.resourceRepo.GetByID(txCtx, slot.ResourceID)
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to get resource id=%d: %v", slot.ResourceID, err)
			return fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}
		if !resource.Active {
			uc.logger.Warn("ReserveSlot: resource id=%d is deactivated", resource.ID)
			return ErrResourceNotFound
		}

		// 4.5. Запрещаем второе активное бронирование этого пользователя на то
		// же время для ресурсов того же типа
		exists, err := uc.bookingRepo.ExistsActiveByUserAndTime(txCtx, req.UserID, resource.Kind, slot.Date, slot.StartTime)
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to check duplicate booking: %v", err)
			return fmt.Errorf("%w: failed to check duplicate booking: %v", ErrInternal, err)
		}
		if exists {
			uc.logger.Warn("ReserveSlot: user=%d already booked %s slot at %s %s",
				req.UserID, resource.Kind, slot.Date.Format(domain.DateFormat), slot.StartTime)
			return ErrDuplicateBooking
		}

		// 4.6. Цена: хранимая пиковая цена слота плюс членская скидка
		price := slot.FinalPrice
		if isMember {
			price = domain.MemberPrice(price, resource.MemberDiscountPercent)
		}

		// 4.7. Создаем бронирование с денормализацией данных слота
		booking := &domain.Booking{
			SlotID:       slot.ID,
			UserID:       req.UserID,
			ResourceID:   resource.ID,
			ResourceKind: resource.Kind,
			ResourceName: resource.Name,
			SlotDate:     slot.Date,
			StartTime:    slot.StartTime,
			EndTime:      slot.EndTime,
			PricePaid:    price,
			IsMember:     isMember,
			IsPeak:       slot.IsPeak,
			Status:       domain.StatusConfirmed,
			Notes:        req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Частичный уникальный индекс страхует проверку 4.5 от гонки
			if errors.Is(err, bookingRepo.ErrDuplicateBooking) {
				uc.logger.Warn("ReserveSlot: duplicate booking rejected by unique index, user=%d", req.UserID)
				return ErrDuplicateBooking
			}
			uc.logger.Error("ReserveSlot: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 4.8. Инкрементируем занятость и пересчитываем статус слота
		slot.Occupancy++
		if err := uc.slotRepo.UpdateOccupancy(txCtx, slot.ID, slot.Occupancy, slot.DeriveStatus()); err != nil {
			uc.logger.Error("ReserveSlot: failed to update slot occupancy: %v", err)
			return fmt.Errorf("%w: failed to update slot occupancy: %v", ErrInternal, err)
		}

		// 4.9. Инкремент дневной статистики в той же транзакции
		delta := domain.StatsDelta{
			ResourceID:   resource.ID,
			Date:         slot.Date,
			RevenueDelta: price,
			IsPeak:       slot.IsPeak,
			IsMember:     isMember,
		}
		if err := uc.analyticsRepo.Increment(txCtx, delta); err != nil {
			uc.logger.Error("ReserveSlot: failed to increment daily stats: %v", err)
			return fmt.Errorf("%w: failed to increment daily stats: %v", ErrInternal, err)
		}

		result = created
		availableSpots = slot.AvailableSpots()
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ReserveSlot: successfully created booking id=%d, price=%.2f, member=%t",
		result.ID, result.PricePaid, result.IsMember)

	// 5. Публикуем событие после коммита, fire-and-forget
	uc.publisher.PublishBookingConfirmed(ctx, events.BookingConfirmedEvent{
		BookingID:    result.ID,
		UserID:       result.UserID,
		ResourceID:   result.ResourceID,
		ResourceName: result.ResourceName,
		Date:         result.SlotDate.Format(domain.DateFormat),
		StartTime:    result.StartTime.String(),
		EndTime:      result.EndTime.String(),
		Price:        result.PricePaid,
		ConfirmedAt:  result.CreatedAt.Format(time.RFC3339),
	})

	// Конвертируем в response
	return &Response{
		ID:             result.ID,
		SlotID:         result.SlotID,
		UserID:         result.UserID,
		ResourceID:     result.ResourceID,
		ResourceKind:   string(result.ResourceKind),
		ResourceName:   result.ResourceName,
		Date:           result.SlotDate,
		StartTime:      result.StartTime,
		EndTime:        result.EndTime,
		PricePaid:      result.PricePaid,
		IsMember:       result.IsMember,
		IsPeak:         result.IsPeak,
		Status:         string(result.Status),
		AvailableSpots: availableSpots,
		Notes:          result.Notes,
		CreatedAt:      result.CreatedAt,
	}, nil
}
