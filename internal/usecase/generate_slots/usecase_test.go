package generate_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	resourceRepo "github.com/m04kA/GMS-ScheduleService/internal/infra/storage/resource"
	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// --- фейки зависимостей ---

type fakeSlotRepo struct {
	existing map[string]bool // resource|date|start уже в таблице

	inserted []*domain.Slot
}

func slotKey(s *domain.Slot) string {
	return s.Date.Format(domain.DateFormat) + "|" + s.StartTime.String()
}

func (f *fakeSlotRepo) BulkInsertIgnoreConflicts(_ context.Context, slots []*domain.Slot) (int64, error) {
	if f.existing == nil {
		f.existing = make(map[string]bool)
	}
	var inserted int64
	for _, s := range slots {
		key := slotKey(s)
		if f.existing[key] {
			continue
		}
		f.existing[key] = true
		f.inserted = append(f.inserted, s)
		inserted++
	}
	return inserted, nil
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

type fakeTemplateRepo struct {
	templates []*domain.AvailabilityTemplate
}

func (f *fakeTemplateRepo) GetLatestByResource(_ context.Context, _ int64) ([]*domain.AvailabilityTemplate, error) {
	return f.templates, nil
}

type fakeAnalyticsRepo struct {
	generated map[string]int
}

func (f *fakeAnalyticsRepo) AddGeneratedSlots(_ context.Context, _ int64, date time.Time, count int) error {
	if f.generated == nil {
		f.generated = make(map[string]int)
	}
	f.generated[date.Format(domain.DateFormat)] += count
	return nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- тестовая обвязка ---

func weekdayTemplate(weekday int, start, end string, duration, brk int) *domain.AvailabilityTemplate {
	return &domain.AvailabilityTemplate{
		ResourceID:          7,
		Weekday:             weekday,
		StartTime:           types.TimeString(start),
		EndTime:             types.TimeString(end),
		SlotDurationMinutes: duration,
		BreakMinutes:        brk,
		IsOpen:              true,
	}
}

func newUseCase(slots *fakeSlotRepo, resources *fakeResourceRepo, templates *fakeTemplateRepo, analytics *fakeAnalyticsRepo) *UseCase {
	return NewUseCase(slots, resources, templates, analytics, &fakeTxManager{}, nopLogger{})
}

func defaultResource() *domain.Resource {
	return &domain.Resource{
		ID:        7,
		Name:      "Main Gym Hall",
		Kind:      domain.KindFacility,
		Capacity:  10,
		BasePrice: 100.0,
		Active:    true,
	}
}

// 2026-03-16 is a Monday
var monday = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

func TestExecute_GeneratesSlotsForOpenDays(t *testing.T) {
	slots := &fakeSlotRepo{}
	analytics := &fakeAnalyticsRepo{}
	uc := newUseCase(
		slots,
		&fakeResourceRepo{resource: defaultResource()},
		&fakeTemplateRepo{templates: []*domain.AvailabilityTemplate{
			weekdayTemplate(1, "09:00", "12:00", 60, 0), // Monday: 3 slots
		}},
		analytics,
	)

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 7, FromDate: monday, ToDate: monday})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.GeneratedCount)
	assert.Equal(t, int64(0), resp.SkippedCount)
	assert.Equal(t, 1, resp.DaysProcessed)
	assert.Equal(t, 0, resp.DaysClosed)

	require.Len(t, slots.inserted, 3)
	assert.Equal(t, "09:00", slots.inserted[0].StartTime.String())
	assert.Equal(t, "10:00", slots.inserted[0].EndTime.String())
	assert.Equal(t, "11:00", slots.inserted[2].StartTime.String())
	assert.Equal(t, domain.SlotOpen, slots.inserted[0].Status)
	assert.Equal(t, 10, slots.inserted[0].Capacity)
	assert.Equal(t, 3, analytics.generated[monday.Format(domain.DateFormat)])
}

func TestExecute_SecondRunIsIdempotent(t *testing.T) {
	slots := &fakeSlotRepo{}
	uc := newUseCase(
		slots,
		&fakeResourceRepo{resource: defaultResource()},
		&fakeTemplateRepo{templates: []*domain.AvailabilityTemplate{
			weekdayTemplate(1, "09:00", "12:00", 60, 0),
		}},
		&fakeAnalyticsRepo{},
	)

	req := &Request{ResourceID: 7, FromDate: monday, ToDate: monday}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(3), first.GeneratedCount)

	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.GeneratedCount)
	assert.Equal(t, int64(3), second.SkippedCount)
	assert.Len(t, slots.inserted, 3)
}

func TestExecute_BreaksBetweenSlots(t *testing.T) {
	slots := &fakeSlotRepo{}
	uc := newUseCase(
		slots,
		&fakeResourceRepo{resource: defaultResource()},
		&fakeTemplateRepo{templates: []*domain.AvailabilityTemplate{
			weekdayTemplate(1, "09:00", "12:00", 60, 30), // 09:00, 10:30 — 12:00 не влезает
		}},
		&fakeAnalyticsRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 7, FromDate: monday, ToDate: monday})
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.GeneratedCount)
	assert.Equal(t, "09:00", slots.inserted[0].StartTime.String())
	assert.Equal(t, "10:30", slots.inserted[1].StartTime.String())
}

func TestExecute_SessionsCapLimitsDay(t *testing.T) {
	maxSessions := 2
	tpl := weekdayTemplate(1, "08:00", "20:00", 60, 0)
	tpl.MaxSessionsPerDay = &maxSessions

	slots := &fakeSlotRepo{}
	uc := newUseCase(
		slots,
		&fakeResourceRepo{resource: defaultResource()},
		&fakeTemplateRepo{templates: []*domain.AvailabilityTemplate{tpl}},
		&fakeAnalyticsRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 7, FromDate: monday, ToDate: monday})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.GeneratedCount)
}

func TestExecute_ClosedAndMissingDays(t *testing.T) {
	closed := weekdayTemplate(2, "09:00", "12:00", 60, 0) // Tuesday
	closed.IsOpen = false

	uc := newUseCase(
		&fakeSlotRepo{},
		&fakeResourceRepo{resource: defaultResource()},
		&fakeTemplateRepo{templates: []*domain.AvailabilityTemplate{
			weekdayTemplate(1, "09:00", "12:00", 60, 0),
			closed,
		}},
		&fakeAnalyticsRepo{},
	)

	// Monday..Wednesday: open, closed, no template
	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID: 7,
		FromDate:   monday,
		ToDate:     monday.AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.DaysProcessed)
	assert.Equal(t, 2, resp.DaysClosed)
}

func TestExecute_PeakPricingOnGeneratedSlots(t *testing.T) {
	resource := defaultResource()
	peakStart := types.TimeString("17:00")
	peakEnd := types.TimeString("21:00")
	resource.PeakStartTime = &peakStart
	resource.PeakEndTime = &peakEnd
	resource.PeakMultiplier = 1.5

	slots := &fakeSlotRepo{}
	uc := newUseCase(
		slots,
		&fakeResourceRepo{resource: resource},
		&fakeTemplateRepo{templates: []*domain.AvailabilityTemplate{
			weekdayTemplate(1, "16:00", "19:00", 60, 0), // 16:00 off-peak, 17:00 и 18:00 peak
		}},
		&fakeAnalyticsRepo{},
	)

	_, err := uc.Execute(context.Background(), &Request{ResourceID: 7, FromDate: monday, ToDate: monday})
	require.NoError(t, err)

	require.Len(t, slots.inserted, 3)
	assert.False(t, slots.inserted[0].IsPeak)
	assert.Equal(t, 100.0, slots.inserted[0].FinalPrice)
	assert.True(t, slots.inserted[1].IsPeak)
	assert.Equal(t, 150.0, slots.inserted[1].FinalPrice)
	assert.True(t, slots.inserted[2].IsPeak)
}

func TestExecute_ResourceNotFound(t *testing.T) {
	uc := newUseCase(
		&fakeSlotRepo{},
		&fakeResourceRepo{err: resourceRepo.ErrResourceNotFound},
		&fakeTemplateRepo{},
		&fakeAnalyticsRepo{},
	)

	_, err := uc.Execute(context.Background(), &Request{ResourceID: 7, FromDate: monday, ToDate: monday})
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_ResourceInactive(t *testing.T) {
	resource := defaultResource()
	resource.Active = false

	uc := newUseCase(
		&fakeSlotRepo{},
		&fakeResourceRepo{resource: resource},
		&fakeTemplateRepo{},
		&fakeAnalyticsRepo{},
	)

	_, err := uc.Execute(context.Background(), &Request{ResourceID: 7, FromDate: monday, ToDate: monday})
	assert.ErrorIs(t, err, ErrResourceInactive)
}

func TestExecute_NoTemplates(t *testing.T) {
	uc := newUseCase(
		&fakeSlotRepo{},
		&fakeResourceRepo{resource: defaultResource()},
		&fakeTemplateRepo{},
		&fakeAnalyticsRepo{},
	)

	_, err := uc.Execute(context.Background(), &Request{ResourceID: 7, FromDate: monday, ToDate: monday})
	assert.ErrorIs(t, err, ErrNoTemplates)
}

func TestExecute_RangeValidation(t *testing.T) {
	uc := newUseCase(
		&fakeSlotRepo{},
		&fakeResourceRepo{resource: defaultResource()},
		&fakeTemplateRepo{},
		&fakeAnalyticsRepo{},
	)

	t.Run("inverted range produces no slots", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), &Request{
			ResourceID: 7,
			FromDate:   monday,
			ToDate:     monday.AddDate(0, 0, -1),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.GeneratedCount)
		assert.Equal(t, 0, resp.DaysProcessed)
	})

	t.Run("range over a quarter", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			ResourceID: 7,
			FromDate:   monday,
			ToDate:     monday.AddDate(0, 0, domain.MaxGenerationRangeDays+1),
		})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}
