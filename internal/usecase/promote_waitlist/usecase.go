package promote_waitlist

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/internal/usecase/reserve_slot"
)

// sweepBatchSize максимум ожидающих записей, обрабатываемых за один проход
const sweepBatchSize = 200

// UseCase use case для промоушена листа ожидания.
// Каждый кандидат проходит через обычный путь резервирования: все проверки
// вместимости, дублей и цены выполняются повторно под блокировкой слота,
// промоушен не имеет обходных путей вокруг движка бронирования.
type UseCase struct {
	slotRepo     SlotRepository
	waitlistRepo WaitlistRepository
	reserver     SlotReserver
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepository SlotRepository,
	waitlistRepository WaitlistRepository,
	reserver SlotReserver,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepository,
		waitlistRepo: waitlistRepository,
		reserver:     reserver,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// PromoteForSlot продвигает ожидающих на освободившееся место слота.
// Вызывается после коммита отмены. Ошибки не возвращаются: промоушен
// best-effort, недобранные кандидаты останутся свипу.
func (uc *UseCase) PromoteForSlot(ctx context.Context, slotID int64) {
	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		uc.logger.Error("PromoteWaitlist: failed to get slot id=%d: %v", slotID, err)
		return
	}
	if !slot.IsBookable() {
		return
	}

	entries, err := uc.waitlistRepo.ListWaitingForSlot(ctx, slot.ResourceID, slot.Date,
		slot.StartTime.String(), slot.EndTime.String())
	if err != nil {
		uc.logger.Error("PromoteWaitlist: failed to list candidates for slot id=%d: %v", slotID, err)
		return
	}
	if len(entries) == 0 {
		return
	}

	uc.logger.Info("PromoteWaitlist: slot=%d has %d candidates, %d spots free",
		slot.ID, len(entries), slot.AvailableSpots())

	spots := slot.AvailableSpots()
	for _, entry := range entries {
		if spots <= 0 {
			return
		}
		if uc.promoteEntry(ctx, entry, slot.ID) {
			spots--
		}
	}
}

// promoteEntry пытается забронировать слот для одной записи листа ожидания.
// Возвращает true, если место занято этой записью.
func (uc *UseCase) promoteEntry(ctx context.Context, entry *domain.WaitlistEntry, slotID int64) bool {
	_, err := uc.reserver.Execute(ctx, &reserve_slot.Request{
		UserID: entry.UserID,
		SlotID: slotID,
	})
	if err != nil {
		switch {
		case errors.Is(err, reserve_slot.ErrDuplicateBooking):
			// Пользователь уже занят в это время, запись остается ждать
			// другой слот своего окна
			uc.logger.Info("PromoteWaitlist: entry id=%d skipped, user=%d already booked",
				entry.ID, entry.UserID)
		case errors.Is(err, reserve_slot.ErrSlotUnavailable), errors.Is(err, reserve_slot.ErrSlotInPast):
			uc.logger.Info("PromoteWaitlist: slot id=%d no longer available", slotID)
		default:
			uc.logger.Error("PromoteWaitlist: failed to promote entry id=%d: %v", entry.ID, err)
		}
		return false
	}

	if err := uc.waitlistRepo.UpdateStatus(ctx, entry.ID, domain.WaitlistFulfilled); err != nil {
		// Бронирование уже создано, запись добьет свип либо ручная операция
		uc.logger.Error("PromoteWaitlist: booked entry id=%d but failed to mark fulfilled: %v",
			entry.ID, err)
		return true
	}

	uc.logger.Info("PromoteWaitlist: entry id=%d fulfilled, user=%d booked slot=%d",
		entry.ID, entry.UserID, slotID)
	return true
}

// Sweep выполняет один фоновый проход: протухшие записи переводятся в
// expired, остальные примеряются к свободным слотам своего окна. Свип
// подбирает кандидатов, пропущенных асинхронным промоушеном.
func (uc *UseCase) Sweep(ctx context.Context) (*SweepResult, error) {
	now := uc.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	result := &SweepResult{}

	expired, err := uc.waitlistRepo.ExpireOverdue(ctx, today)
	if err != nil {
		uc.logger.Error("PromoteWaitlist: sweep failed to expire overdue entries: %v", err)
		return nil, err
	}
	result.Expired = expired

	entries, err := uc.waitlistRepo.ListWaitingUpcoming(ctx, today, sweepBatchSize)
	if err != nil {
		uc.logger.Error("PromoteWaitlist: sweep failed to list waiting entries: %v", err)
		return nil, err
	}
	result.Scanned = len(entries)

	for _, entry := range entries {
		day := sql.NullTime{Time: entry.Date, Valid: true}
		slots, err := uc.slotRepo.ListByResourceAndRange(ctx, entry.ResourceID, day, day, true)
		if err != nil {
			uc.logger.Error("PromoteWaitlist: sweep failed to list slots for entry id=%d: %v",
				entry.ID, err)
			continue
		}

		for _, slot := range slots {
			if !entry.MatchesSlot(slot) {
				continue
			}
			if uc.promoteEntry(ctx, entry, slot.ID) {
				result.Promoted++
				break
			}
		}
	}

	if result.Expired > 0 || result.Promoted > 0 {
		uc.logger.Info("PromoteWaitlist: sweep scanned=%d promoted=%d expired=%d",
			result.Scanned, result.Promoted, result.Expired)
	}

	return result, nil
}

// RunSweeper запускает периодический свип до отмены контекста
func (uc *UseCase) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	uc.logger.Info("PromoteWaitlist: sweeper started, interval=%s", interval)

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("PromoteWaitlist: sweeper stopped")
			return
		case <-ticker.C:
			if _, err := uc.Sweep(ctx); err != nil {
				uc.logger.Error("PromoteWaitlist: sweep pass failed: %v", err)
			}
		}
	}
}

