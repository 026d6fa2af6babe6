package promote_waitlist

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/internal/usecase/reserve_slot"
)

// --- фейки зависимостей ---

type fakeSlotRepo struct {
	slot      *domain.Slot
	getErr    error
	rangeByID map[int64][]*domain.Slot // resourceID -> слоты дня
}

func (f *fakeSlotRepo) GetByID(_ context.Context, _ int64) (*domain.Slot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.slot, nil
}

func (f *fakeSlotRepo) ListByResourceAndRange(_ context.Context, resourceID int64, _, _ sql.NullTime, _ bool) ([]*domain.Slot, error) {
	return f.rangeByID[resourceID], nil
}

type fakeWaitlistRepo struct {
	forSlot  []*domain.WaitlistEntry
	upcoming []*domain.WaitlistEntry
	expired  int64

	statuses map[int64]domain.WaitlistStatus
}

func (f *fakeWaitlistRepo) ListWaitingForSlot(_ context.Context, _ int64, _ time.Time, _, _ string) ([]*domain.WaitlistEntry, error) {
	return f.forSlot, nil
}

func (f *fakeWaitlistRepo) ListWaitingUpcoming(_ context.Context, _ time.Time, _ uint64) ([]*domain.WaitlistEntry, error) {
	return f.upcoming, nil
}

func (f *fakeWaitlistRepo) ExpireOverdue(_ context.Context, _ time.Time) (int64, error) {
	return f.expired, nil
}

func (f *fakeWaitlistRepo) UpdateStatus(_ context.Context, id int64, status domain.WaitlistStatus) error {
	if f.statuses == nil {
		f.statuses = make(map[int64]domain.WaitlistStatus)
	}
	f.statuses[id] = status
	return nil
}

// fakeReserver имитирует движок бронирования: у каждого пользователя
// может быть заранее назначенная ошибка
type fakeReserver struct {
	errByUser map[int64]error

	requests []*reserve_slot.Request
}

func (f *fakeReserver) Execute(_ context.Context, req *reserve_slot.Request) (*reserve_slot.Response, error) {
	f.requests = append(f.requests, req)
	if err := f.errByUser[req.UserID]; err != nil {
		return nil, err
	}
	return &reserve_slot.Response{ID: int64(len(f.requests)), UserID: req.UserID, SlotID: req.SlotID}, nil
}

type fakeTime struct{ now time.Time }

func (f *fakeTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- тестовая обвязка ---

var slotDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func freedSlot(available int) *domain.Slot {
	return &domain.Slot{
		ID:         5,
		ResourceID: 7,
		Date:       slotDate,
		StartTime:  "10:00",
		EndTime:    "11:00",
		Capacity:   10,
		Occupancy:  10 - available,
		Status:     domain.SlotPartiallyBooked,
	}
}

func waitingEntry(id, userID int64) *domain.WaitlistEntry {
	return &domain.WaitlistEntry{
		ID:          id,
		ResourceID:  7,
		UserID:      userID,
		Date:        slotDate,
		WindowStart: "09:00",
		WindowEnd:   "12:00",
		Status:      domain.WaitlistWaiting,
	}
}

func TestPromoteForSlot_FirstCandidateWins(t *testing.T) {
	slots := &fakeSlotRepo{slot: freedSlot(1)}
	waitlist := &fakeWaitlistRepo{
		forSlot: []*domain.WaitlistEntry{waitingEntry(1, 100), waitingEntry(2, 200)},
	}
	reserver := &fakeReserver{}

	uc := NewUseCase(slots, waitlist, reserver, nopLogger{})
	uc.PromoteForSlot(context.Background(), 5)

	// Одно свободное место - бронирование только для первого в очереди
	require.Len(t, reserver.requests, 1)
	assert.Equal(t, int64(100), reserver.requests[0].UserID)
	assert.Equal(t, int64(5), reserver.requests[0].SlotID)
	assert.Equal(t, domain.WaitlistFulfilled, waitlist.statuses[1])
	_, touched := waitlist.statuses[2]
	assert.False(t, touched)
}

func TestPromoteForSlot_SkipsBusyCandidate(t *testing.T) {
	slots := &fakeSlotRepo{slot: freedSlot(1)}
	waitlist := &fakeWaitlistRepo{
		forSlot: []*domain.WaitlistEntry{waitingEntry(1, 100), waitingEntry(2, 200)},
	}
	reserver := &fakeReserver{
		errByUser: map[int64]error{100: reserve_slot.ErrDuplicateBooking},
	}

	uc := NewUseCase(slots, waitlist, reserver, nopLogger{})
	uc.PromoteForSlot(context.Background(), 5)

	// Первый кандидат уже занят в это время: место достается второму,
	// первый остается ждать другой слот
	require.Len(t, reserver.requests, 2)
	assert.Equal(t, domain.WaitlistFulfilled, waitlist.statuses[2])
	_, touched := waitlist.statuses[1]
	assert.False(t, touched)
}

func TestPromoteForSlot_MultipleSpots(t *testing.T) {
	slots := &fakeSlotRepo{slot: freedSlot(2)}
	waitlist := &fakeWaitlistRepo{
		forSlot: []*domain.WaitlistEntry{waitingEntry(1, 100), waitingEntry(2, 200), waitingEntry(3, 300)},
	}
	reserver := &fakeReserver{}

	uc := NewUseCase(slots, waitlist, reserver, nopLogger{})
	uc.PromoteForSlot(context.Background(), 5)

	require.Len(t, reserver.requests, 2)
	assert.Equal(t, domain.WaitlistFulfilled, waitlist.statuses[1])
	assert.Equal(t, domain.WaitlistFulfilled, waitlist.statuses[2])
}

func TestPromoteForSlot_SlotNoLongerBookable(t *testing.T) {
	full := freedSlot(0)
	full.Status = domain.SlotFull

	slots := &fakeSlotRepo{slot: full}
	waitlist := &fakeWaitlistRepo{
		forSlot: []*domain.WaitlistEntry{waitingEntry(1, 100)},
	}
	reserver := &fakeReserver{}

	uc := NewUseCase(slots, waitlist, reserver, nopLogger{})
	uc.PromoteForSlot(context.Background(), 5)

	assert.Empty(t, reserver.requests)
}

func TestSweep_ExpiresAndPromotes(t *testing.T) {
	entry := waitingEntry(1, 100)
	matching := freedSlot(1)
	offWindow := freedSlot(1)
	offWindow.ID = 6
	offWindow.StartTime = "14:00"
	offWindow.EndTime = "15:00"

	slots := &fakeSlotRepo{
		rangeByID: map[int64][]*domain.Slot{7: {offWindow, matching}},
	}
	waitlist := &fakeWaitlistRepo{
		upcoming: []*domain.WaitlistEntry{entry},
		expired:  3,
	}
	reserver := &fakeReserver{}

	uc := NewUseCase(slots, waitlist, reserver, nopLogger{})
	uc.WithTimeProvider(&fakeTime{now: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)})

	result, err := uc.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.Expired)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.Promoted)

	// Слот вне окна пропущен, бронирование по подходящему слоту
	require.Len(t, reserver.requests, 1)
	assert.Equal(t, int64(5), reserver.requests[0].SlotID)
	assert.Equal(t, domain.WaitlistFulfilled, waitlist.statuses[1])
}

func TestSweep_NoMatchingSlots(t *testing.T) {
	slots := &fakeSlotRepo{rangeByID: map[int64][]*domain.Slot{}}
	waitlist := &fakeWaitlistRepo{
		upcoming: []*domain.WaitlistEntry{waitingEntry(1, 100)},
	}
	reserver := &fakeReserver{}

	uc := NewUseCase(slots, waitlist, reserver, nopLogger{})
	uc.WithTimeProvider(&fakeTime{now: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)})

	result, err := uc.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 0, result.Promoted)
	assert.Empty(t, reserver.requests)
}
