package domain

import (
	"time"

	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// WaitlistStatus represents the status of a waitlist entry
type WaitlistStatus string

const (
	WaitlistWaiting   WaitlistStatus = "waiting"
	WaitlistOffered   WaitlistStatus = "offered"
	WaitlistExpired   WaitlistStatus = "expired"
	WaitlistFulfilled WaitlistStatus = "fulfilled"
	WaitlistWithdrawn WaitlistStatus = "withdrawn"
)

// WaitlistEntry is a request to be booked onto any slot of a resource within
// a preferred time window on a preferred date. Entries are served FIFO by
// (priority desc, created_at asc) within a resource+date bucket.
type WaitlistEntry struct {
	ID         int64
	ResourceID int64
	UserID     int64

	Date        time.Time
	WindowStart types.TimeString
	WindowEnd   types.TimeString

	Priority int
	Status   WaitlistStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchesSlot reports whether the freed slot falls within the entry's
// preferred window. The slot must lie entirely inside [WindowStart, WindowEnd].
func (e *WaitlistEntry) MatchesSlot(slot *Slot) bool {
	if e.ResourceID != slot.ResourceID {
		return false
	}
	ey, em, ed := e.Date.Date()
	sy, sm, sd := slot.Date.Date()
	if ey != sy || em != sm || ed != sd {
		return false
	}
	if slot.StartTime.IsBefore(e.WindowStart) {
		return false
	}
	return !slot.EndTime.IsAfter(e.WindowEnd)
}
