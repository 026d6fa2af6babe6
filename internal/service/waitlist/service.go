package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	resourceRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/resource"
	waitlistRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/waitlist"
	"github.com/m04kA/GMS-ScheduleService/internal/service/waitlist/models"
)

// Service сервис для работы с листом ожидания
type Service struct {
	waitlistRepo WaitlistRepository
	resourceRepo ResourceRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса листа ожидания
func NewService(
	waitlistRepo WaitlistRepository,
	resourceRepo ResourceRepository,
	logger Logger,
) *Service {
	return &Service{
		waitlistRepo: waitlistRepo,
		resourceRepo: resourceRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестирования)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Join ставит пользователя в лист ожидания ресурса на дату и окно времени.
// Повторная постановка на ту же пару ресурс+дата отклоняется.
func (s *Service) Join(ctx context.Context, req *models.JoinRequest) (*models.EntryResponse, error) {
	s.logger.Info("Join: user=%d, resource=%d, date=%s, window=%s-%s",
		req.UserID, req.ResourceID, req.Date.Format("2006-01-02"), req.WindowStart, req.WindowEnd)

	if err := s.validateJoin(req); err != nil {
		s.logger.Warn("Join: validation failed: %v", err)
		return nil, err
	}

	entry, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("Join: invalid time window: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !entry.WindowStart.IsBefore(entry.WindowEnd) {
		s.logger.Warn("Join: empty window %s-%s", entry.WindowStart, entry.WindowEnd)
		return nil, fmt.Errorf("%w: windowStart must be before windowEnd", ErrInvalidInput)
	}

	resource, err := s.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("Join: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("Join: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: Join - repository error: %v", ErrInternal, err)
	}
	if !resource.Active {
		s.logger.Warn("Join: resource id=%d is deactivated", req.ResourceID)
		return nil, ErrResourceNotFound
	}

	created, err := s.waitlistRepo.Create(ctx, entry)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrAlreadyWaitlisted) {
			s.logger.Warn("Join: user=%d already waitlisted for resource=%d on %s",
				req.UserID, req.ResourceID, req.Date.Format("2006-01-02"))
			return nil, ErrAlreadyWaitlisted
		}
		s.logger.Error("Join: repository error: %v", err)
		return nil, fmt.Errorf("%w: Join - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Join: successfully created waitlist entry id=%d", created.ID)
	return models.FromDomainEntry(created), nil
}

// Withdraw снимает ожидающую запись пользователя
func (s *Service) Withdraw(ctx context.Context, entryID, userID int64) error {
	s.logger.Info("Withdraw: entry=%d, user=%d", entryID, userID)

	if err := s.waitlistRepo.Withdraw(ctx, entryID, userID); err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			s.logger.Warn("Withdraw: entry id=%d not found for user=%d", entryID, userID)
			return ErrEntryNotFound
		}
		s.logger.Error("Withdraw: repository error for entry=%d: %v", entryID, err)
		return fmt.Errorf("%w: Withdraw - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Withdraw: successfully withdrew entry id=%d", entryID)
	return nil
}

// ListByUser возвращает записи листа ожидания пользователя
func (s *Service) ListByUser(ctx context.Context, userID int64) (*models.EntryListResponse, error) {
	entries, err := s.waitlistRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListByUser: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListByUser - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainEntryList(entries), nil
}

// validateJoin проверяет входные данные постановки в очередь
func (s *Service) validateJoin(req *models.JoinRequest) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceId must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	reqDay := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	if reqDay.Before(today) {
		return fmt.Errorf("%w: date must not be in the past", ErrInvalidInput)
	}

	if req.Priority != nil && *req.Priority < 0 {
		return fmt.Errorf("%w: priority must not be negative", ErrInvalidInput)
	}

	return nil
}
