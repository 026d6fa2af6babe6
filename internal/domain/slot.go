package domain

import (
	"time"

	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// SlotStatus represents the status of a slot
type SlotStatus string

const (
	SlotOpen            SlotStatus = "open"
	SlotPartiallyBooked SlotStatus = "partially_booked"
	SlotFull            SlotStatus = "full"
	SlotBlocked         SlotStatus = "blocked"
	SlotCancelled       SlotStatus = "cancelled"
)

// Slot is a materialized, dated, timed bookable unit generated from an
// availability template. The (resource_id, slot_date, start_time) triple is
// unique; regeneration never creates duplicates.
//
// Occupancy is the single piece of shared mutable state in the system and is
// only ever changed under the slot's row lock.
type Slot struct {
	ID         int64
	ResourceID int64
	Date       time.Time // date only, midnight in the service timezone
	StartTime  types.TimeString
	EndTime    types.TimeString

	Capacity  int
	Occupancy int // 0..Capacity

	BasePrice  float64
	FinalPrice float64 // non-member peak-adjusted price
	IsPeak     bool

	Status SlotStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeriveStatus computes the status implied by occupancy vs capacity.
// Blocked and Cancelled are administrative overrides and are preserved.
func (s *Slot) DeriveStatus() SlotStatus {
	if s.Status == SlotBlocked || s.Status == SlotCancelled {
		return s.Status
	}
	switch {
	case s.Occupancy <= 0:
		return SlotOpen
	case s.Occupancy >= s.Capacity:
		return SlotFull
	default:
		return SlotPartiallyBooked
	}
}

// IsBookable returns true if the slot can accept one more booking
func (s *Slot) IsBookable() bool {
	if s.Status == SlotBlocked || s.Status == SlotCancelled {
		return false
	}
	return s.Occupancy < s.Capacity
}

// AvailableSpots returns the number of free occupancy units
func (s *Slot) AvailableSpots() int {
	free := s.Capacity - s.Occupancy
	if free < 0 {
		return 0
	}
	return free
}

// StartsAt combines the slot date and start time into a point in time
func (s *Slot) StartsAt() (time.Time, error) {
	return s.StartTime.At(s.Date)
}
