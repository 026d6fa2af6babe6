package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

func timePtr(s string) *types.TimeString {
	ts := types.TimeString(s)
	return &ts
}

func TestIsPeakTime(t *testing.T) {
	peakStart := types.TimeString("17:00")
	peakEnd := types.TimeString("21:00")

	tests := []struct {
		name string
		at   string
		want bool
	}{
		{"before window", "16:59", false},
		{"exactly at start", "17:00", true},
		{"inside window", "19:30", true},
		{"exactly at end is off-peak", "21:00", false},
		{"after window", "22:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsPeakTime(types.TimeString(tt.at), peakStart, peakEnd)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotPrice(t *testing.T) {
	resource := &Resource{
		BasePrice:      100.0,
		PeakStartTime:  timePtr("17:00"),
		PeakEndTime:    timePtr("21:00"),
		PeakMultiplier: 1.5,
	}

	t.Run("off-peak returns base price", func(t *testing.T) {
		price, isPeak := SlotPrice(resource, "10:00")
		assert.Equal(t, 100.0, price)
		assert.False(t, isPeak)
	})

	t.Run("peak multiplies base price", func(t *testing.T) {
		price, isPeak := SlotPrice(resource, "18:00")
		assert.Equal(t, 150.0, price)
		assert.True(t, isPeak)
	})

	t.Run("slot starting at peak end is off-peak", func(t *testing.T) {
		price, isPeak := SlotPrice(resource, "21:00")
		assert.Equal(t, 100.0, price)
		assert.False(t, isPeak)
	})

	t.Run("no peak window keeps base price", func(t *testing.T) {
		flat := &Resource{BasePrice: 80.0}
		price, isPeak := SlotPrice(flat, "18:00")
		assert.Equal(t, 80.0, price)
		assert.False(t, isPeak)
	})

	t.Run("fractional multiplier", func(t *testing.T) {
		odd := &Resource{
			BasePrice:      40.0,
			PeakStartTime:  timePtr("17:00"),
			PeakEndTime:    timePtr("21:00"),
			PeakMultiplier: 1.25,
		}
		price, _ := SlotPrice(odd, "17:00")
		assert.Equal(t, 50.0, price)
	})
}

func TestMemberPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{"standard discount", 100.0, 15.0, 85.0},
		{"zero discount unchanged", 100.0, 0, 100.0},
		{"negative discount unchanged", 100.0, -10, 100.0},
		{"discount clamped to 100", 100.0, 150, 0.0},
		{"rounded to cents", 99.99, 15.0, 84.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MemberPrice(tt.price, tt.discount))
		})
	}
}

func TestRoundToCents(t *testing.T) {
	assert.Equal(t, 10.56, RoundToCents(10.556))
	assert.Equal(t, 10.55, RoundToCents(10.554))
	assert.Equal(t, 0.0, RoundToCents(0))
}
