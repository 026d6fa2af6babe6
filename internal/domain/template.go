package domain

import (
	"time"

	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// AvailabilityTemplate is a recurring weekly availability rule for a resource.
// Weekday follows time.Weekday numbering (0 = Sunday .. 6 = Saturday).
// Several templates may exist for the same resource and weekday; only the
// most recently written one drives slot generation for that day.
type AvailabilityTemplate struct {
	ID         int64
	ResourceID int64
	Weekday    int

	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	BreakMinutes        int
	MaxSessionsPerDay   *int // optional cap independent of per-slot capacity
	IsOpen              bool // false = resource is marked unavailable on this weekday

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValidWindow returns true if the template describes a non-empty day window
func (t *AvailabilityTemplate) IsValidWindow() bool {
	return t.SlotDurationMinutes > 0 && t.StartTime.IsBefore(t.EndTime)
}

// SessionsCap returns the per-day session cap, or 0 when unlimited
func (t *AvailabilityTemplate) SessionsCap() int {
	if t.MaxSessionsPerDay == nil || *t.MaxSessionsPerDay < 0 {
		return 0
	}
	return *t.MaxSessionsPerDay
}
