package get_available_slots

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	resourceRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/resource"
	"github.com/m04kA/GMS-ScheduleService/pkg/ptr"
)

// --- фейки зависимостей ---

type fakeSlotRepo struct {
	slots []*domain.Slot

	lastOnlyAvailable bool
}

func (f *fakeSlotRepo) ListByResourceAndRange(_ context.Context, _ int64, _, _ sql.NullTime, onlyAvailable bool) ([]*domain.Slot, error) {
	f.lastOnlyAvailable = onlyAvailable
	return f.slots, nil
}

type fakeResourceRepo struct {
	resource *domain.Resource
	err      error
}

func (f *fakeResourceRepo) GetByID(_ context.Context, _ int64) (*domain.Resource, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resource, nil
}

type fakeMemberClient struct {
	isMember bool
	calls    int
}

func (f *fakeMemberClient) IsMemberWithGracefulDegradation(_ context.Context, _ int64) bool {
	f.calls++
	return f.isMember
}

type fakeTxManager struct {
	readOnlyCalls int
}

func (f *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	f.readOnlyCalls++
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- тестовая обвязка ---

type fixture struct {
	slots  *fakeSlotRepo
	member *fakeMemberClient
	tx     *fakeTxManager
	uc     *UseCase
}

func newFixture(resource *domain.Resource, slots []*domain.Slot) *fixture {
	f := &fixture{
		slots:  &fakeSlotRepo{slots: slots},
		member: &fakeMemberClient{},
		tx:     &fakeTxManager{},
	}
	f.uc = NewUseCase(f.slots, &fakeResourceRepo{resource: resource}, f.member, f.tx, nopLogger{})
	return f
}

func defaultResource() *domain.Resource {
	return &domain.Resource{
		ID:                    7,
		Kind:                  domain.KindFacility,
		Name:                  "Малый зал",
		Capacity:              10,
		MemberDiscountPercent: 15,
		Active:                true,
	}
}

func defaultSlots() []*domain.Slot {
	date := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	return []*domain.Slot{
		{
			ID: 1, ResourceID: 7, Date: date, StartTime: "09:00", EndTime: "10:00",
			Capacity: 10, Occupancy: 4, BasePrice: 100, FinalPrice: 100,
			Status: domain.SlotPartiallyBooked,
		},
		{
			ID: 2, ResourceID: 7, Date: date, StartTime: "18:00", EndTime: "19:00",
			Capacity: 10, Occupancy: 10, BasePrice: 100, FinalPrice: 150, IsPeak: true,
			Status: domain.SlotFull,
		},
	}
}

// --- тесты ---

func TestExecute_PublicListingWithoutUser(t *testing.T) {
	f := newFixture(defaultResource(), defaultSlots())

	resp, err := f.uc.Execute(context.Background(), &Request{ResourceID: 7})
	require.NoError(t, err)

	assert.False(t, resp.IsMember)
	assert.Equal(t, 0, f.member.calls)
	require.Len(t, resp.Slots, 2)

	assert.Equal(t, 100.0, resp.Slots[0].Price)
	assert.Equal(t, 6, resp.Slots[0].AvailableSpots)
	assert.True(t, resp.Slots[0].Bookable)

	assert.Equal(t, 150.0, resp.Slots[1].Price)
	assert.False(t, resp.Slots[1].Bookable)

	// ресурс и слоты читаются в одной read-only транзакции
	assert.Equal(t, 1, f.tx.readOnlyCalls)
}

func TestExecute_MemberSeesDiscountedPrices(t *testing.T) {
	f := newFixture(defaultResource(), defaultSlots())
	f.member.isMember = true

	resp, err := f.uc.Execute(context.Background(), &Request{ResourceID: 7, UserID: ptr.Ptr(int64(42))})
	require.NoError(t, err)

	assert.True(t, resp.IsMember)
	assert.Equal(t, 85.0, resp.Slots[0].Price)
	assert.Equal(t, 127.5, resp.Slots[1].Price)
}

func TestExecute_OnlyAvailablePassedToRepository(t *testing.T) {
	f := newFixture(defaultResource(), nil)

	_, err := f.uc.Execute(context.Background(), &Request{ResourceID: 7, OnlyAvailable: true})
	require.NoError(t, err)
	assert.True(t, f.slots.lastOnlyAvailable)
}

func TestExecute_ResourceNotFound(t *testing.T) {
	f := newFixture(nil, nil)
	f.uc = NewUseCase(f.slots, &fakeResourceRepo{err: resourceRepo.ErrResourceNotFound}, f.member, f.tx, nopLogger{})

	_, err := f.uc.Execute(context.Background(), &Request{ResourceID: 404})
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(defaultResource(), nil)

	_, err := f.uc.Execute(context.Background(), &Request{ResourceID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	from := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -7)
	_, err = f.uc.Execute(context.Background(), &Request{ResourceID: 7, FromDate: &from, ToDate: &to})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
