package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

func TestWaitlistEntry_MatchesSlot(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	entry := &WaitlistEntry{
		ResourceID:  7,
		Date:        date,
		WindowStart: "09:00",
		WindowEnd:   "12:00",
	}

	makeSlot := func(resourceID int64, slotDate time.Time, start, end string) *Slot {
		return &Slot{
			ResourceID: resourceID,
			Date:       slotDate,
			StartTime:  types.TimeString(start),
			EndTime:    types.TimeString(end),
		}
	}

	t.Run("slot inside window", func(t *testing.T) {
		assert.True(t, entry.MatchesSlot(makeSlot(7, date, "10:00", "11:00")))
	})

	t.Run("slot exactly fills window", func(t *testing.T) {
		assert.True(t, entry.MatchesSlot(makeSlot(7, date, "09:00", "12:00")))
	})

	t.Run("slot starts before window", func(t *testing.T) {
		assert.False(t, entry.MatchesSlot(makeSlot(7, date, "08:30", "09:30")))
	})

	t.Run("slot ends after window", func(t *testing.T) {
		assert.False(t, entry.MatchesSlot(makeSlot(7, date, "11:30", "12:30")))
	})

	t.Run("different resource", func(t *testing.T) {
		assert.False(t, entry.MatchesSlot(makeSlot(8, date, "10:00", "11:00")))
	})

	t.Run("different date", func(t *testing.T) {
		assert.False(t, entry.MatchesSlot(makeSlot(7, date.AddDate(0, 0, 1), "10:00", "11:00")))
	})
}
