package domain

import (
	"time"

	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Booking reserves exactly one occupancy unit on exactly one slot for one
// requester. Resource, date and time fields are denormalized from the slot
// for query convenience and for the audit trail; bookings are never
// hard-deleted.
type Booking struct {
	ID     int64
	SlotID int64
	UserID int64

	// Denormalized slot data
	ResourceID   int64
	ResourceKind ResourceKind
	ResourceName string
	SlotDate     time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString

	PricePaid float64
	IsMember  bool // member pricing applied at reservation time
	IsPeak    bool

	Status BookingStatus
	Notes  *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still holds its occupancy unit
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCompleted returns true if the booking can be marked completed
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusConfirmed
}

// UserBookingsFilter filters a user's booking history
type UserBookingsFilter struct {
	UserID int64
	Status *BookingStatus
}

// ResourceBookingsFilter filters bookings of one resource
type ResourceBookingsFilter struct {
	ResourceID      int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *BookingStatus
	IncludeInactive bool
}
