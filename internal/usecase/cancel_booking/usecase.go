package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/internal/infra/events"
	bookingRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/resource"
	slotRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/slot"
)

// UseCase use case для отмены бронирования с расчетом возврата
type UseCase struct {
	bookingRepo   BookingRepository
	slotRepo      SlotRepository
	resourceRepo  ResourceRepository
	analyticsRepo AnalyticsRepository
	promoter      WaitlistPromoter
	publisher     EventPublisher
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepository BookingRepository,
	slotRepository SlotRepository,
	resourceRepository ResourceRepository,
	analyticsRepository AnalyticsRepository,
	promoter WaitlistPromoter,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepository,
		slotRepo:      slotRepository,
		resourceRepo:  resourceRepository,
		analyticsRepo: analyticsRepository,
		promoter:      promoter,
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

// Execute выполняет use case отмены бронирования
// Отмена, возврат места в слот и декремент статистики выполняются в одной
// сериализуемой транзакции. Промоушен листа ожидания запускается после
// коммита: освободившееся место уже видно конкурентам.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, user=%d", req.BookingID, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var booking *domain.Booking
	var refund float64
	var refundPercent float64
	var freedSlotID int64

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем бронирование
		found, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 3.2. Чужое бронирование неотличимо от несуществующего
		if found.UserID != req.UserID {
			uc.logger.Warn("CancelBooking: booking id=%d belongs to another user", req.BookingID)
			return ErrBookingNotFound
		}

		// 3.3. Отменить можно только активное бронирование
		if !found.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking id=%d has status %s", found.ID, found.Status)
			return ErrAlreadyFinalized
		}

		// 3.4. Политика отмены ресурса, при отсутствии - системная
		policy, err := uc.resourceRepo.GetCancellationPolicy(txCtx, found.ResourceID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrPolicyNotFound) {
				policy = domain.DefaultCancellationPolicy()
			} else {
				uc.logger.Error("CancelBooking: failed to get cancellation policy: %v", err)
				return fmt.Errorf("%w: failed to get cancellation policy: %v", ErrInternal, err)
			}
		}

		// 3.5. Проверяем окно отмены
		startsAt, err := found.StartTime.At(found.SlotDate)
		if err != nil {
			uc.logger.Error("CancelBooking: failed to compute slot start: %v", err)
			return fmt.Errorf("%w: failed to compute slot start: %v", ErrInternal, err)
		}
		if !policy.AllowsCancellationAt(startsAt, now) {
			uc.logger.Warn("CancelBooking: window closed for booking id=%d, requires %dh notice",
				found.ID, policy.MinNoticeHours)
			return fmt.Errorf("%w: requires at least %d hours notice", ErrCancellationWindowClosed, policy.MinNoticeHours)
		}

		// 3.6. Рассчитываем возврат
		refund = policy.RefundFor(found.PricePaid)
		refundPercent = policy.RefundPercent

		// 3.7. Помечаем бронирование отмененным
		if err := uc.bookingRepo.Cancel(txCtx, found.ID, req.Reason); err != nil {
			uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", found.ID, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		// 3.8. Возвращаем место в слот под блокировкой строки
		slot, err := uc.slotRepo.GetByIDForUpdate(txCtx, found.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				// Слот мог быть удален при перегенерации, бронирование все
				// равно отменяется
				uc.logger.Warn("CancelBooking: slot id=%d no longer exists", found.SlotID)
				booking = found
				return nil
			}
			uc.logger.Error("CancelBooking: failed to get slot id=%d: %v", found.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		if slot.Occupancy > 0 {
			slot.Occupancy--
		}
		// DeriveStatus сохраняет blocked/cancelled: отмена бронирования не
		// открывает административно закрытый слот
		if err := uc.slotRepo.UpdateOccupancy(txCtx, slot.ID, slot.Occupancy, slot.DeriveStatus()); err != nil {
			uc.logger.Error("CancelBooking: failed to update slot occupancy: %v", err)
			return fmt.Errorf("%w: failed to update slot occupancy: %v", ErrInternal, err)
		}

		// 3.9. Декремент дневной статистики, счетчики флорятся на нуле
		delta := domain.StatsDelta{
			ResourceID:   found.ResourceID,
			Date:         found.SlotDate,
			RevenueDelta: found.PricePaid,
			IsPeak:       found.IsPeak,
			IsMember:     found.IsMember,
		}
		if err := uc.analyticsRepo.Decrement(txCtx, delta); err != nil {
			uc.logger.Error("CancelBooking: failed to decrement daily stats: %v", err)
			return fmt.Errorf("%w: failed to decrement daily stats: %v", ErrInternal, err)
		}

		booking = found
		if slot.IsBookable() {
			freedSlotID = slot.ID
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelBooking: booking id=%d cancelled, refund=%.2f (%.0f%%)",
		booking.ID, refund, refundPercent)

	// 4. Публикуем событие после коммита, fire-and-forget
	uc.publisher.PublishBookingCancelled(ctx, events.BookingCancelledEvent{
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		ResourceID:   booking.ResourceID,
		ResourceName: booking.ResourceName,
		Date:         booking.SlotDate.Format(domain.DateFormat),
		StartTime:    booking.StartTime.String(),
		RefundAmount: refund,
		Reason:       req.Reason,
		CancelledAt:  now.Format(time.RFC3339),
	})

	// 5. Асинхронный промоушен листа ожидания на освободившееся место.
	// Запускается с фоновым контекстом: жизнь промоушена не привязана к
	// HTTP-запросу отмены.
	if freedSlotID != 0 {
		go uc.promoter.PromoteForSlot(context.Background(), freedSlotID)
	}

	return &Response{
		BookingID:     booking.ID,
		Status:        string(domain.StatusCancelled),
		PricePaid:     booking.PricePaid,
		RefundAmount:  refund,
		RefundPercent: refundPercent,
		CancelledAt:   now,
	}, nil
}
