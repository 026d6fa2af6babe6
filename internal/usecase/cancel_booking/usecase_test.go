package cancel_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/internal/infra/events"
	bookingRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/resource"
	slotRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/slot"
)

// --- фейки зависимостей ---

type fakeBookingRepo struct {
	booking *domain.Booking
	getErr  error

	cancelledID     int64
	cancelledReason string
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	f.cancelledID = id
	f.cancelledReason = reason
	return nil
}

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

type fakeResourceRepo struct {
	policy    *domain.CancellationPolicy
	policyErr error
}

func (f *fakeResourceRepo) GetCancellationPolicy(_ context.Context, _ int64) (*domain.CancellationPolicy, error) {
	if f.policyErr != nil {
		return nil, f.policyErr
	}
	return f.policy, nil
}

type fakeAnalyticsRepo struct {
	deltas []domain.StatsDelta
}

func (f *fakeAnalyticsRepo) Decrement(_ context.Context, delta domain.StatsDelta) error {
	f.deltas = append(f.deltas, delta)
	return nil
}

type fakePromoter struct {
	mu      sync.Mutex
	slotIDs []int64
	done    chan struct{}
}

func newFakePromoter() *fakePromoter {
	return &fakePromoter{done: make(chan struct{}, 1)}
}

func (f *fakePromoter) PromoteForSlot(_ context.Context, slotID int64) {
	f.mu.Lock()
	f.slotIDs = append(f.slotIDs, slotID)
	f.mu.Unlock()
	f.done <- struct{}{}
}

func (f *fakePromoter) promoted(t *testing.T) []int64 {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(time.Second):
		t.Fatal("promoter was not called")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.slotIDs...)
}

type fakePublisher struct {
	cancelled []events.BookingCancelledEvent
}

func (f *fakePublisher) PublishBookingCancelled(_ context.Context, e events.BookingCancelledEvent) {
	f.cancelled = append(f.cancelled, e)
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
	bookings  *fakeBookingRepo
	slots     *fakeSlotRepo
	resources *fakeResourceRepo
	analytics *fakeAnalyticsRepo
	promoter  *fakePromoter
	publisher *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bookings := &fakeBookingRepo{
		booking: &domain.Booking{
			ID:           101,
			SlotID:       5,
			UserID:       42,
			ResourceID:   7,
			ResourceKind: domain.KindFacility,
			ResourceName: "Main Gym Hall",
			SlotDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			StartTime:    "18:00",
			EndTime:      "19:00",
			PricePaid:    150.0,
			IsPeak:       true,
			Status:       domain.StatusConfirmed,
		},
	}
	slots := &fakeSlotRepo{
		slot: &domain.Slot{
			ID:         5,
			ResourceID: 7,
			Date:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			StartTime:  "18:00",
			EndTime:    "19:00",
			Capacity:   10,
			Occupancy:  10,
			Status:     domain.SlotFull,
		},
	}
	resources := &fakeResourceRepo{
		policy: &domain.CancellationPolicy{MinNoticeHours: 24, RefundPercent: 50},
	}
	analytics := &fakeAnalyticsRepo{}
	promoter := newFakePromoter()
	publisher := &fakePublisher{}

	uc := NewUseCase(bookings, slots, resources, analytics, promoter, publisher, &fakeTxManager{}, nopLogger{})
	// За двое суток до начала слота
	uc.WithTimeProvider(&fakeTime{now: time.Date(2026, 3, 13, 18, 0, 0, 0, time.UTC)})

	return &fixture{
		uc:        uc,
		bookings:  bookings,
		slots:     slots,
		resources: resources,
		analytics: analytics,
		promoter:  promoter,
		publisher: publisher,
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 101, UserID: 42, Reason: "schedule conflict"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, 150.0, resp.PricePaid)
	assert.Equal(t, 75.0, resp.RefundAmount)
	assert.Equal(t, 50.0, resp.RefundPercent)

	assert.Equal(t, int64(101), f.bookings.cancelledID)
	assert.Equal(t, "schedule conflict", f.bookings.cancelledReason)

	// Место вернулось в слот, статус пересчитан
	assert.Equal(t, 9, f.slots.updatedOccupancy)
	assert.Equal(t, domain.SlotPartiallyBooked, f.slots.updatedStatus)

	require.Len(t, f.analytics.deltas, 1)
	assert.Equal(t, 150.0, f.analytics.deltas[0].RevenueDelta)

	require.Len(t, f.publisher.cancelled, 1)
	assert.Equal(t, 75.0, f.publisher.cancelled[0].RefundAmount)

	// Освободившееся место запускает промоушен листа ожидания
	assert.Equal(t, []int64{5}, f.promoter.promoted(t))
}

func TestExecute_DefaultPolicyWhenResourceHasNone(t *testing.T) {
	f := newFixture(t)
	f.resources.policyErr = resourceRepo.ErrPolicyNotFound

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 101, UserID: 42})
	require.NoError(t, err)

	// Системная политика: полный возврат
	assert.Equal(t, 150.0, resp.RefundAmount)
	assert.Equal(t, domain.DefaultRefundPercent, resp.RefundPercent)
}

func TestExecute_WindowClosed(t *testing.T) {
	f := newFixture(t)
	// За час до начала при требуемых 24 часах
	f.uc.WithTimeProvider(&fakeTime{now: time.Date(2026, 3, 15, 17, 0, 0, 0, time.UTC)})

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 101, UserID: 42})
	assert.ErrorIs(t, err, ErrCancellationWindowClosed)
	assert.Zero(t, f.bookings.cancelledID)
	assert.Empty(t, f.publisher.cancelled)
}

func TestExecute_WindowBoundary(t *testing.T) {
	f := newFixture(t)
	// Ровно 24 часа до начала - отмена еще разрешена
	f.uc.WithTimeProvider(&fakeTime{now: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)})

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 101, UserID: 42})
	assert.NoError(t, err)
}

func TestExecute_ForeignBookingLooksNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 101, UserID: 99})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_BookingNotFound(t *testing.T) {
	f := newFixture(t)
	f.bookings.getErr = bookingRepo.ErrBookingNotFound

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 101, UserID: 42})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_AlreadyFinalized(t *testing.T) {
	f := newFixture(t)
	f.bookings.booking.Status = domain.StatusCancelled

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 101, UserID: 42})
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestExecute_SlotGoneStillCancels(t *testing.T) {
	f := newFixture(t)
	f.slots.getErr = slotRepo.ErrSlotNotFound

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 101, UserID: 42})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, int64(101), f.bookings.cancelledID)
	assert.Equal(t, 0, f.slots.updateCalls)
}

func TestExecute_BlockedSlotStaysBlocked(t *testing.T) {
	f := newFixture(t)
	f.slots.slot.Status = domain.SlotBlocked
	f.slots.slot.Occupancy = 3

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 101, UserID: 42})
	require.NoError(t, err)

	assert.Equal(t, 2, f.slots.updatedOccupancy)
	assert.Equal(t, domain.SlotBlocked, f.slots.updatedStatus)

	// Заблокированный слот не бронируем - промоушен не запускается
	select {
	case <-f.promoter.done:
		t.Fatal("promoter must not run for a blocked slot")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestExecute_OccupancyFlooredAtZero(t *testing.T) {
	f := newFixture(t)
	f.slots.slot.Occupancy = 0
	f.slots.slot.Status = domain.SlotOpen

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 101, UserID: 42})
	require.NoError(t, err)

	assert.Equal(t, 0, f.slots.updatedOccupancy)
	assert.Equal(t, domain.SlotOpen, f.slots.updatedStatus)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 0, UserID: 42})
	assert.ErrorIs(t, err, ErrInvalidInput)

	longReason := string(make([]byte, domain.MaxReasonLength+1))
	_, err = f.uc.Execute(context.Background(), &Request{BookingID: 101, UserID: 42, Reason: longReason})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
