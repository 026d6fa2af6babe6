package schedule

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	slotRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/slot"
)

// --- фейки зависимостей ---

type fakeResourceRepo struct{}

func (f *fakeResourceRepo) Create(_ context.Context, res *domain.Resource) (*domain.Resource, error) {
	return res, nil
}

func (f *fakeResourceRepo) GetByID(_ context.Context, _ int64) (*domain.Resource, error) {
	return nil, nil
}

func (f *fakeResourceRepo) Deactivate(_ context.Context, _ int64) error { return nil }

func (f *fakeResourceRepo) GetCancellationPolicy(_ context.Context, _ int64) (*domain.CancellationPolicy, error) {
	return nil, nil
}

func (f *fakeResourceRepo) UpsertCancellationPolicy(_ context.Context, policy *domain.CancellationPolicy) (*domain.CancellationPolicy, error) {
	return policy, nil
}

type fakeTemplateRepo struct{}

func (f *fakeTemplateRepo) Create(_ context.Context, tpl *domain.AvailabilityTemplate) (*domain.AvailabilityTemplate, error) {
	return tpl, nil
}

func (f *fakeTemplateRepo) ListByResource(_ context.Context, _ int64) ([]*domain.AvailabilityTemplate, error) {
	return nil, nil
}

func (f *fakeTemplateRepo) GetLatestByResource(_ context.Context, _ int64) ([]*domain.AvailabilityTemplate, error) {
	return nil, nil
}

type fakeSlotRepo struct {
	slot   *domain.Slot
	getErr error

	forUpdateCalls int
	setStatusCalls int
	setStatus      domain.SlotStatus
}

func (f *fakeSlotRepo) GetByID(_ context.Context, _ int64) (*domain.Slot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.slot, nil
}

func (f *fakeSlotRepo) GetByIDForUpdate(_ context.Context, _ int64) (*domain.Slot, error) {
	f.forUpdateCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.slot, nil
}

func (f *fakeSlotRepo) SetStatus(_ context.Context, _ int64, status domain.SlotStatus) error {
	f.setStatusCalls++
	f.setStatus = status
	return nil
}

func (f *fakeSlotRepo) UpdateOccupancy(_ context.Context, _ int64, _ int, _ domain.SlotStatus) error {
	return nil
}

func (f *fakeSlotRepo) DeleteByResourceAndRange(_ context.Context, _ int64, _, _ sql.NullTime) (int64, error) {
	return 0, nil
}

type fakeBookingRepo struct {
	active int
}

func (f *fakeBookingRepo) CountActiveBySlot(_ context.Context, _ int64) (int, error) {
	return f.active, nil
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- тестовая обвязка ---

type fixture struct {
	slots    *fakeSlotRepo
	bookings *fakeBookingRepo
	tx       *fakeTxManager
	svc      *Service
}

func newFixture(slot *domain.Slot, activeBookings int) *fixture {
	f := &fixture{
		slots:    &fakeSlotRepo{slot: slot},
		bookings: &fakeBookingRepo{active: activeBookings},
		tx:       &fakeTxManager{},
	}
	f.svc = NewService(&fakeResourceRepo{}, &fakeTemplateRepo{}, f.slots, f.bookings, f.tx, nopLogger{})
	return f
}

func emptySlot() *domain.Slot {
	return &domain.Slot{
		ID:         5,
		ResourceID: 7,
		Date:       time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime:  "09:00",
		EndTime:    "10:00",
		Capacity:   10,
		Occupancy:  0,
		Status:     domain.SlotOpen,
	}
}

// --- тесты ---

func TestBlockSlot(t *testing.T) {
	f := newFixture(emptySlot(), 0)

	resp, err := f.svc.BlockSlot(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, string(domain.SlotBlocked), resp.Status)
	assert.Equal(t, domain.SlotBlocked, f.slots.setStatus)
	// чтение и смена статуса идут внутри одной транзакции под блокировкой строки
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, 1, f.slots.forUpdateCalls)
}

func TestBlockSlot_ActiveBookings(t *testing.T) {
	f := newFixture(emptySlot(), 2)

	_, err := f.svc.BlockSlot(context.Background(), 5)
	assert.ErrorIs(t, err, ErrSlotHasBookings)
	assert.Equal(t, 0, f.slots.setStatusCalls)
}

func TestBlockSlot_StaleOccupancyDoesNotHideBookings(t *testing.T) {
	// занятость в прочитанной строке нулевая, но подсчет бронирований
	// в той же транзакции видит активное бронирование
	slot := emptySlot()
	slot.Occupancy = 0

	f := newFixture(slot, 1)

	_, err := f.svc.BlockSlot(context.Background(), 5)
	assert.ErrorIs(t, err, ErrSlotHasBookings)
	assert.Equal(t, 0, f.slots.setStatusCalls)
}

func TestBlockSlot_NotFound(t *testing.T) {
	f := newFixture(nil, 0)
	f.slots.getErr = slotRepo.ErrSlotNotFound

	_, err := f.svc.BlockSlot(context.Background(), 404)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestUnblockSlot_RecomputesStatus(t *testing.T) {
	slot := emptySlot()
	slot.Occupancy = 4
	slot.Status = domain.SlotBlocked

	f := newFixture(slot, 0)

	resp, err := f.svc.UnblockSlot(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, string(domain.SlotPartiallyBooked), resp.Status)
	assert.Equal(t, 1, f.slots.forUpdateCalls)
}

func TestUnblockSlot_FullSlotStaysFull(t *testing.T) {
	slot := emptySlot()
	slot.Occupancy = 10
	slot.Status = domain.SlotBlocked

	f := newFixture(slot, 0)

	resp, err := f.svc.UnblockSlot(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotFull), resp.Status)
}
