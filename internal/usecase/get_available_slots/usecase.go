package get_available_slots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	resourceRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/resource"
)

// UseCase use case для получения слотов ресурса
type UseCase struct {
	slotRepo     SlotRepository
	resourceRepo ResourceRepository
	memberClient MemberServiceClient
	txManager    TransactionManager
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepository SlotRepository,
	resourceRepository ResourceRepository,
	memberClient MemberServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepository,
		resourceRepo: resourceRepository,
		memberClient: memberClient,
		txManager:    txManager,
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов.
// Выдача read-only: цены считаются на лету от хранимой цены слота, занятость
// не трогается. Точная проверка доступности все равно происходит в момент
// резервирования под блокировкой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	from := sql.NullTime{}
	if req.FromDate != nil {
		from = sql.NullTime{Time: *req.FromDate, Valid: true}
	}
	to := sql.NullTime{}
	if req.ToDate != nil {
		to = sql.NullTime{Time: *req.ToDate, Valid: true}
	}

	// Ресурс и слоты читаются в одной read-only транзакции:
	// выдача согласована на один снимок данных
	var (
		resource *domain.Resource
		slots    []*domain.Slot
	)
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error

		resource, err = uc.resourceRepo.GetByID(txCtx, req.ResourceID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				uc.logger.Warn("GetAvailableSlots: resource id=%d not found", req.ResourceID)
				return ErrResourceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get resource id=%d: %v", req.ResourceID, err)
			return fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}

		slots, err = uc.slotRepo.ListByResourceAndRange(txCtx, req.ResourceID, from, to, req.OnlyAvailable)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Членство влияет только на отображаемую цену, запрос к MemberService
	// не держит транзакцию
	isMember := false
	if req.UserID != nil {
		isMember = uc.memberClient.IsMemberWithGracefulDegradation(ctx, *req.UserID)
	}

	resp := &Response{
		ResourceID:   resource.ID,
		ResourceName: resource.Name,
		IsMember:     isMember,
		Slots:        make([]Slot, 0, len(slots)),
	}

	for _, s := range slots {
		price := s.FinalPrice
		if isMember {
			price = domain.MemberPrice(price, resource.MemberDiscountPercent)
		}

		resp.Slots = append(resp.Slots, Slot{
			ID:             s.ID,
			Date:           s.Date,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			Capacity:       s.Capacity,
			AvailableSpots: s.AvailableSpots(),
			Price:          price,
			IsPeak:         s.IsPeak,
			Status:         string(s.Status),
			Bookable:       s.IsBookable(),
		})
	}

	uc.logger.Info("GetAvailableSlots: resource=%d returned %d slots", req.ResourceID, len(resp.Slots))

	return resp, nil
}
