package reserve_slot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/internal/infra/events"
	bookingRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/slot"
	"github.com/m04kA/GMS-ScheduleService/pkg/ptr"
	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// --- фейки зависимостей ---

type fakeSlotRepo struct {
	slot   *domain.Slot
	getErr error

	updatedOccupancy int
	updatedStatus    domain.SlotStatus
	updateCalls      int
}

func (f *fakeSlotRepo) GetByIDForUpdate(_ context.Context, _ int64) (*domain.Slot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.slot
	return &copied, nil
}

func (f *fakeSlotRepo) UpdateOccupancy(_ context.Context, _ int64, occupancy int, status domain.SlotStatus) error {
	f.updateCalls++
	f.updatedOccupancy = occupancy
	f.updatedStatus = status
	return nil
}

type fakeBookingRepo struct {
	existsActive bool
	createErr    error

	created *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	b.ID = 101
	b.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.created = b
	return b, nil
}

func (f *fakeBookingRepo) ExistsActiveByUserAndTime(_ context.Context, _ int64, _ domain.ResourceKind, _ time.Time, _ types.TimeString) (bool, error) {
	return f.existsActive, nil
}

type fakeResourceRepo struct {
	resource *domain.Resource
}

func (f *fakeResourceRepo) GetByID(_ context.Context, _ int64) (*domain.Resource, error) {
	return f.resource, nil
}

type fakeAnalyticsRepo struct {
	deltas []domain.StatsDelta
}

func (f *fakeAnalyticsRepo) Increment(_ context.Context, delta domain.StatsDelta) error {
	f.deltas = append(f.deltas, delta)
	return nil
}

type fakeMemberClient struct {
	isMember bool
	calls    int
}

func (f *fakeMemberClient) IsMemberWithGracefulDegradation(_ context.Context, _ int64) bool {
	f.calls++
	return f.isMember
}

type fakePublisher struct {
	confirmed []events.BookingConfirmedEvent
}

func (f *fakePublisher) PublishBookingConfirmed(_ context.Context, e events.BookingConfirmedEvent) {
	f.confirmed = append(f.confirmed, e)
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTime struct{ now time.Time }

func (f *fakeTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- тестовая обвязка ---

type fixture struct {
	uc        *UseCase
	slots     *fakeSlotRepo
	bookings  *fakeBookingRepo
	resources *fakeResourceRepo
	analytics *fakeAnalyticsRepo
	member    *fakeMemberClient
	publisher *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	slots := &fakeSlotRepo{
		slot: &domain.Slot{
			ID:         5,
			ResourceID: 7,
			Date:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			StartTime:  "18:00",
			EndTime:    "19:00",
			Capacity:   10,
			Occupancy:  4,
			BasePrice:  100.0,
			FinalPrice: 150.0,
			IsPeak:     true,
			Status:     domain.SlotPartiallyBooked,
		},
	}
	bookings := &fakeBookingRepo{}
	resources := &fakeResourceRepo{
		resource: &domain.Resource{
			ID:                    7,
			Name:                  "Main Gym Hall",
			Kind:                  domain.KindFacility,
			Capacity:              10,
			MemberDiscountPercent: 15.0,
			Active:                true,
		},
	}
	analytics := &fakeAnalyticsRepo{}
	member := &fakeMemberClient{}
	publisher := &fakePublisher{}

	uc := NewUseCase(slots, bookings, resources, analytics, member, publisher, &fakeTxManager{}, nopLogger{})
	uc.WithTimeProvider(&fakeTime{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)})

	return &fixture{
		uc:        uc,
		slots:     slots,
		bookings:  bookings,
		resources: resources,
		analytics: analytics,
		member:    member,
		publisher: publisher,
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SlotID: 5})
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, 150.0, resp.PricePaid)
	assert.False(t, resp.IsMember)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, 5, resp.AvailableSpots)

	assert.Equal(t, 5, f.slots.updatedOccupancy)
	assert.Equal(t, domain.SlotPartiallyBooked, f.slots.updatedStatus)

	require.Len(t, f.analytics.deltas, 1)
	assert.Equal(t, 150.0, f.analytics.deltas[0].RevenueDelta)
	assert.True(t, f.analytics.deltas[0].IsPeak)

	require.Len(t, f.publisher.confirmed, 1)
	assert.Equal(t, int64(101), f.publisher.confirmed[0].BookingID)
}

func TestExecute_MemberDiscountApplied(t *testing.T) {
	f := newFixture(t)
	f.member.isMember = true

	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SlotID: 5})
	require.NoError(t, err)

	assert.Equal(t, 127.5, resp.PricePaid)
	assert.True(t, resp.IsMember)
	assert.Equal(t, 1, f.member.calls)
	assert.Equal(t, 127.5, f.analytics.deltas[0].RevenueDelta)
}

func TestExecute_ExplicitMembershipSkipsLookup(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SlotID: 5, IsMember: ptr.Ptr(true)})
	require.NoError(t, err)

	assert.True(t, resp.IsMember)
	assert.Equal(t, 0, f.member.calls)
}

func TestExecute_LastSpotMarksSlotFull(t *testing.T) {
	f := newFixture(t)
	f.slots.slot.Occupancy = 9

	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SlotID: 5})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.AvailableSpots)
	assert.Equal(t, 10, f.slots.updatedOccupancy)
	assert.Equal(t, domain.SlotFull, f.slots.updatedStatus)
}

func TestExecute_SlotFull(t *testing.T) {
	f := newFixture(t)
	f.slots.slot.Occupancy = 10

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SlotID: 5})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, 0, f.slots.updateCalls)
	assert.Empty(t, f.publisher.confirmed)
}

func TestExecute_SlotBlocked(t *testing.T) {
	f := newFixture(t)
	f.slots.slot.Status = domain.SlotBlocked

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SlotID: 5})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_SlotNotFound(t *testing.T) {
	f := newFixture(t)
	f.slots.getErr = slotRepo.ErrSlotNotFound

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SlotID: 5})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_SlotInPast(t *testing.T) {
	f := newFixture(t)
	f.uc.WithTimeProvider(&fakeTime{now: time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)})

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SlotID: 5})
	assert.ErrorIs(t, err, ErrSlotInPast)
}

func TestExecute_ResourceDeactivated(t *testing.T) {
	f := newFixture(t)
	f.resources.resource.Active = false

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SlotID: 5})
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_DuplicateBooking(t *testing.T) {
	f := newFixture(t)
	f.bookings.existsActive = true

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SlotID: 5})
	assert.ErrorIs(t, err, ErrDuplicateBooking)
	assert.Equal(t, 0, f.slots.updateCalls)
}

func TestExecute_DuplicateRejectedByUniqueIndex(t *testing.T) {
	f := newFixture(t)
	f.bookings.createErr = bookingRepo.ErrDuplicateBooking

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 42, SlotID: 5})
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 0, SlotID: 5})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{UserID: 42, SlotID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	longNotes := string(make([]byte, domain.MaxNotesLength+1))
	_, err = f.uc.Execute(context.Background(), &Request{UserID: 42, SlotID: 5, Notes: ptr.Ptr(longNotes)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
