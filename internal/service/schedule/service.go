package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	resourceRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/resource"
	slotRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/slot"
	"github.com/m04kA/GMS-ScheduleService/internal/service/schedule/models"
	"github.com/m04kA/GMS-ScheduleService/pkg/ptr"
)

// Service сервис для администрирования расписания: ресурсы, шаблоны
// доступности, политики отмены и ручное управление слотами
type Service struct {
	resourceRepo ResourceRepository
	templateRepo TemplateRepository
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	resourceRepo ResourceRepository,
	templateRepo TemplateRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		templateRepo: templateRepo,
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// CreateResource создает новый ресурс
func (s *Service) CreateResource(ctx context.Context, req *models.CreateResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("CreateResource: creating %s %q", req.Kind, req.Name)

	res, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("CreateResource: invalid peak window: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.validateResource(res); err != nil {
		s.logger.Warn("CreateResource: validation failed: %v", err)
		return nil, err
	}

	created, err := s.resourceRepo.Create(ctx, res)
	if err != nil {
		s.logger.Error("CreateResource: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateResource - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateResource: successfully created resource id=%d", created.ID)
	return models.FromDomainResource(created), nil
}

// GetResource получает ресурс по ID
func (s *Service) GetResource(ctx context.Context, id int64) (*models.ResourceResponse, error) {
	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("GetResource: resource id=%d not found", id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("GetResource: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetResource - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainResource(res), nil
}

// DeactivateResource деактивирует ресурс
// Существующие бронирования не трогаются, новые слоты не генерируются
func (s *Service) DeactivateResource(ctx context.Context, id int64) error {
	s.logger.Info("DeactivateResource: deactivating resource id=%d", id)

	if err := s.resourceRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("DeactivateResource: resource id=%d not found", id)
			return ErrResourceNotFound
		}
		s.logger.Error("DeactivateResource: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeactivateResource - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeactivateResource: successfully deactivated resource id=%d", id)
	return nil
}

// CreateTemplate создает шаблон доступности.
// Существующие шаблоны дня недели не перезаписываются: для генерации
// действует последний созданный, история сохраняется.
func (s *Service) CreateTemplate(ctx context.Context, req *models.CreateTemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("CreateTemplate: resource=%d, weekday=%d, window=%s-%s",
		req.ResourceID, req.Weekday, req.StartTime, req.EndTime)

	tpl, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("CreateTemplate: invalid time format: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.validateTemplate(tpl); err != nil {
		s.logger.Warn("CreateTemplate: validation failed: %v", err)
		return nil, err
	}

	if _, err := s.resourceRepo.GetByID(ctx, tpl.ResourceID); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("CreateTemplate: resource id=%d not found", tpl.ResourceID)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("CreateTemplate: failed to get resource id=%d: %v", tpl.ResourceID, err)
		return nil, fmt.Errorf("%w: CreateTemplate - repository error: %v", ErrInternal, err)
	}

	created, err := s.templateRepo.Create(ctx, tpl)
	if err != nil {
		s.logger.Error("CreateTemplate: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateTemplate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateTemplate: successfully created template id=%d", created.ID)
	return models.FromDomainTemplate(created), nil
}

// ListTemplates возвращает все шаблоны ресурса, включая перекрытые
func (s *Service) ListTemplates(ctx context.Context, resourceID int64) (*models.TemplateListResponse, error) {
	templates, err := s.templateRepo.ListByResource(ctx, resourceID)
	if err != nil {
		s.logger.Error("ListTemplates: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: ListTemplates - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTemplateList(templates), nil
}

// GetActiveTemplates возвращает действующие шаблоны, по одному на день недели
func (s *Service) GetActiveTemplates(ctx context.Context, resourceID int64) (*models.TemplateListResponse, error) {
	templates, err := s.templateRepo.GetLatestByResource(ctx, resourceID)
	if err != nil {
		s.logger.Error("GetActiveTemplates: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: GetActiveTemplates - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTemplateList(templates), nil
}

// UpsertPolicy создает или обновляет политику отмены ресурса
func (s *Service) UpsertPolicy(ctx context.Context, req *models.UpsertPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("UpsertPolicy: resource=%d, notice=%dh, refund=%.0f%%",
		req.ResourceID, req.MinNoticeHours, req.RefundPercent)

	if req.MinNoticeHours < 0 {
		return nil, fmt.Errorf("%w: minNoticeHours must not be negative", ErrInvalidInput)
	}
	if req.RefundPercent < 0 || req.RefundPercent > 100 {
		return nil, fmt.Errorf("%w: refundPercent must be between 0 and 100", ErrInvalidInput)
	}

	if _, err := s.resourceRepo.GetByID(ctx, req.ResourceID); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("UpsertPolicy: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("UpsertPolicy: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: UpsertPolicy - repository error: %v", ErrInternal, err)
	}

	policy := &domain.CancellationPolicy{
		ResourceID:     ptr.Ptr(req.ResourceID),
		MinNoticeHours: req.MinNoticeHours,
		RefundPercent:  req.RefundPercent,
	}

	saved, err := s.resourceRepo.UpsertCancellationPolicy(ctx, policy)
	if err != nil {
		s.logger.Error("UpsertPolicy: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpsertPolicy - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertPolicy: successfully saved policy for resource=%d", req.ResourceID)
	return models.FromDomainPolicy(saved, false), nil
}

// GetPolicy возвращает политику отмены ресурса, при отсутствии - системную
func (s *Service) GetPolicy(ctx context.Context, resourceID int64) (*models.PolicyResponse, error) {
	policy, err := s.resourceRepo.GetCancellationPolicy(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrPolicyNotFound) {
			return models.FromDomainPolicy(domain.DefaultCancellationPolicy(), true), nil
		}
		s.logger.Error("GetPolicy: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: GetPolicy - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPolicy(policy, false), nil
}

// ClearSlots удаляет слоты ресурса в диапазоне дат.
// Бронирования не каскадятся: операция предназначена для чистки будущих
// пустых диапазонов перед перегенерацией.
func (s *Service) ClearSlots(ctx context.Context, req *models.ClearSlotsRequest) (*models.ClearSlotsResponse, error) {
	s.logger.Info("ClearSlots: resource=%d", req.ResourceID)

	if _, err := s.resourceRepo.GetByID(ctx, req.ResourceID); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("ClearSlots: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("ClearSlots: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: ClearSlots - repository error: %v", ErrInternal, err)
	}

	from := sql.NullTime{}
	if req.FromDate != nil {
		from = sql.NullTime{Time: *req.FromDate, Valid: true}
	}
	to := sql.NullTime{}
	if req.ToDate != nil {
		to = sql.NullTime{Time: *req.ToDate, Valid: true}
	}

	deleted, err := s.slotRepo.DeleteByResourceAndRange(ctx, req.ResourceID, from, to)
	if err != nil {
		s.logger.Error("ClearSlots: repository error for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: ClearSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ClearSlots: deleted %d slots for resource=%d", deleted, req.ResourceID)
	return &models.ClearSlotsResponse{DeletedCount: deleted}, nil
}

// BlockSlot закрывает слот для новых бронирований.
// Слот с активными бронированиями заблокировать нельзя, сначала отмена.
// Проверка идет под блокировкой строки слота: конкурирующее резервирование
// либо завершится до проверки и блокировка откажет, либо встанет в очередь
// за блокировкой и увидит слот уже заблокированным.
func (s *Service) BlockSlot(ctx context.Context, slotID int64) (*models.SlotStatusResponse, error) {
	s.logger.Info("BlockSlot: blocking slot id=%d", slotID)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.slotRepo.GetByIDForUpdate(txCtx, slotID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				s.logger.Warn("BlockSlot: slot id=%d not found", slotID)
				return ErrSlotNotFound
			}
			s.logger.Error("BlockSlot: repository error for slot=%d: %v", slotID, err)
			return fmt.Errorf("%w: BlockSlot - repository error: %v", ErrInternal, err)
		}

		active, err := s.bookingRepo.CountActiveBySlot(txCtx, slotID)
		if err != nil {
			s.logger.Error("BlockSlot: failed to count bookings for slot=%d: %v", slotID, err)
			return fmt.Errorf("%w: BlockSlot - repository error: %v", ErrInternal, err)
		}
		if active > 0 {
			s.logger.Warn("BlockSlot: slot id=%d has %d active bookings", slotID, active)
			return ErrSlotHasBookings
		}

		if err := s.slotRepo.SetStatus(txCtx, slotID, domain.SlotBlocked); err != nil {
			s.logger.Error("BlockSlot: repository error for slot=%d: %v", slotID, err)
			return fmt.Errorf("%w: BlockSlot - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("BlockSlot: successfully blocked slot id=%d", slotID)
	return &models.SlotStatusResponse{SlotID: slotID, Status: string(domain.SlotBlocked)}, nil
}

// UnblockSlot открывает заблокированный слот, статус пересчитывается
// из занятости, прочитанной под блокировкой строки
func (s *Service) UnblockSlot(ctx context.Context, slotID int64) (*models.SlotStatusResponse, error) {
	s.logger.Info("UnblockSlot: unblocking slot id=%d", slotID)

	var newStatus domain.SlotStatus
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := s.slotRepo.GetByIDForUpdate(txCtx, slotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				s.logger.Warn("UnblockSlot: slot id=%d not found", slotID)
				return ErrSlotNotFound
			}
			s.logger.Error("UnblockSlot: repository error for slot=%d: %v", slotID, err)
			return fmt.Errorf("%w: UnblockSlot - repository error: %v", ErrInternal, err)
		}

		slot.Status = domain.SlotOpen
		newStatus = slot.DeriveStatus()

		if err := s.slotRepo.SetStatus(txCtx, slotID, newStatus); err != nil {
			s.logger.Error("UnblockSlot: repository error for slot=%d: %v", slotID, err)
			return fmt.Errorf("%w: UnblockSlot - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UnblockSlot: slot id=%d is now %s", slotID, newStatus)
	return &models.SlotStatusResponse{SlotID: slotID, Status: string(newStatus)}, nil
}

// validateResource проверяет бизнес-ограничения ресурса
func (s *Service) validateResource(res *domain.Resource) error {
	if res.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !res.Kind.IsValid() {
		return fmt.Errorf("%w: unknown resource kind %q", ErrInvalidInput, res.Kind)
	}
	if res.Capacity < domain.MinCapacity || res.Capacity > domain.MaxCapacity {
		return fmt.Errorf("%w: capacity must be between %d and %d",
			ErrInvalidInput, domain.MinCapacity, domain.MaxCapacity)
	}
	// Персональные ресурсы всегда один на один
	if res.Kind != domain.KindFacility && res.Capacity != 1 {
		return fmt.Errorf("%w: %s capacity must be 1", ErrInvalidInput, res.Kind)
	}
	if res.BasePrice < 0 {
		return fmt.Errorf("%w: basePrice must not be negative", ErrInvalidInput)
	}
	if (res.PeakStartTime == nil) != (res.PeakEndTime == nil) {
		return fmt.Errorf("%w: peak window requires both start and end", ErrInvalidInput)
	}
	if res.PeakStartTime != nil {
		if !res.PeakStartTime.IsBefore(*res.PeakEndTime) {
			return fmt.Errorf("%w: peakStartTime must be before peakEndTime", ErrInvalidInput)
		}
		if res.PeakMultiplier < 1 {
			return fmt.Errorf("%w: peakMultiplier must be at least 1", ErrInvalidInput)
		}
	}
	if res.MemberDiscountPercent < 0 || res.MemberDiscountPercent > 100 {
		return fmt.Errorf("%w: memberDiscountPercent must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

// validateTemplate проверяет бизнес-ограничения шаблона доступности
func (s *Service) validateTemplate(tpl *domain.AvailabilityTemplate) error {
	if tpl.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceId must be positive", ErrInvalidInput)
	}
	if tpl.Weekday < 0 || tpl.Weekday > 6 {
		return fmt.Errorf("%w: weekday must be between 0 and 6", ErrInvalidInput)
	}
	if tpl.SlotDurationMinutes < domain.MinSlotDurationMinutes || tpl.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if tpl.BreakMinutes < domain.MinBreakMinutes || tpl.BreakMinutes > domain.MaxBreakMinutes {
		return fmt.Errorf("%w: breakMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBreakMinutes, domain.MaxBreakMinutes)
	}
	if tpl.MaxSessionsPerDay != nil && *tpl.MaxSessionsPerDay <= 0 {
		return fmt.Errorf("%w: maxSessionsPerDay must be positive", ErrInvalidInput)
	}
	if tpl.IsOpen && !tpl.IsValidWindow() {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	return nil
}
