package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot_DeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    SlotStatus
		occupancy int
		capacity  int
		want      SlotStatus
	}{
		{"empty is open", SlotFull, 0, 10, SlotOpen},
		{"partially booked", SlotOpen, 3, 10, SlotPartiallyBooked},
		{"at capacity is full", SlotOpen, 10, 10, SlotFull},
		{"over capacity stays full", SlotOpen, 11, 10, SlotFull},
		{"blocked is preserved", SlotBlocked, 0, 10, SlotBlocked},
		{"cancelled is preserved", SlotCancelled, 3, 10, SlotCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Slot{Status: tt.status, Occupancy: tt.occupancy, Capacity: tt.capacity}
			assert.Equal(t, tt.want, s.DeriveStatus())
		})
	}
}

func TestSlot_IsBookable(t *testing.T) {
	t.Run("open with free spots", func(t *testing.T) {
		s := &Slot{Status: SlotOpen, Occupancy: 2, Capacity: 5}
		assert.True(t, s.IsBookable())
	})

	t.Run("full slot", func(t *testing.T) {
		s := &Slot{Status: SlotFull, Occupancy: 5, Capacity: 5}
		assert.False(t, s.IsBookable())
	})

	t.Run("blocked slot with free spots", func(t *testing.T) {
		s := &Slot{Status: SlotBlocked, Occupancy: 0, Capacity: 5}
		assert.False(t, s.IsBookable())
	})
}

func TestSlot_AvailableSpots(t *testing.T) {
	assert.Equal(t, 3, (&Slot{Capacity: 5, Occupancy: 2}).AvailableSpots())
	assert.Equal(t, 0, (&Slot{Capacity: 5, Occupancy: 5}).AvailableSpots())
	assert.Equal(t, 0, (&Slot{Capacity: 5, Occupancy: 7}).AvailableSpots())
}

func TestSlot_StartsAt(t *testing.T) {
	s := &Slot{
		Date:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		StartTime: "09:30",
	}

	startsAt, err := s.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC), startsAt)
}

func TestAvailabilityTemplate(t *testing.T) {
	t.Run("valid window", func(t *testing.T) {
		tpl := &AvailabilityTemplate{StartTime: "09:00", EndTime: "18:00", SlotDurationMinutes: 60}
		assert.True(t, tpl.IsValidWindow())
	})

	t.Run("inverted window", func(t *testing.T) {
		tpl := &AvailabilityTemplate{StartTime: "18:00", EndTime: "09:00", SlotDurationMinutes: 60}
		assert.False(t, tpl.IsValidWindow())
	})

	t.Run("sessions cap unlimited by default", func(t *testing.T) {
		tpl := &AvailabilityTemplate{}
		assert.Equal(t, 0, tpl.SessionsCap())
	})

	t.Run("sessions cap set", func(t *testing.T) {
		maxSessions := 4
		tpl := &AvailabilityTemplate{MaxSessionsPerDay: &maxSessions}
		assert.Equal(t, 4, tpl.SessionsCap())
	})
}
