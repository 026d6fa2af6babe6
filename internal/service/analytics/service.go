package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	resourceRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/resource"
	"github.com/m04kA/GMS-ScheduleService/internal/service/analytics/models"
)

// Service сервис чтения дневной статистики использования.
// Запись статистики идет из транзакций бронирования и отмены, здесь
// только выдача для отчетности.
type Service struct {
	analyticsRepo AnalyticsRepository
	resourceRepo  ResourceRepository
	logger        Logger
}

// NewService создает новый экземпляр сервиса аналитики
func NewService(
	analyticsRepo AnalyticsRepository,
	resourceRepo ResourceRepository,
	logger Logger,
) *Service {
	return &Service{
		analyticsRepo: analyticsRepo,
		resourceRepo:  resourceRepo,
		logger:        logger,
	}
}

// GetDaily возвращает дневную статистику ресурса за период
func (s *Service) GetDaily(ctx context.Context, resourceID int64, from, to time.Time) (*models.DailyStatsListResponse, error) {
	s.logger.Info("GetDaily: resource=%d, from=%s, to=%s",
		resourceID, from.Format("2006-01-02"), to.Format("2006-01-02"))

	if resourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceId must be positive", ErrInvalidInput)
	}
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: from and to dates are required", ErrInvalidInput)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to date is before from date", ErrInvalidInput)
	}

	if _, err := s.resourceRepo.GetByID(ctx, resourceID); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("GetDaily: resource id=%d not found", resourceID)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("GetDaily: failed to get resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: GetDaily - repository error: %v", ErrInternal, err)
	}

	stats, err := s.analyticsRepo.GetByResourceAndRange(ctx, resourceID, from, to)
	if err != nil {
		s.logger.Error("GetDaily: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: GetDaily - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDaily: returned %d days for resource=%d", len(stats), resourceID)
	return models.FromDomainStatsList(resourceID, stats), nil
}
