package domain

import (
	"time"

	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// ResourceKind identifies the kind of bookable resource
type ResourceKind string

const (
	KindFacility     ResourceKind = "facility"
	KindTrainer      ResourceKind = "trainer"
	KindNutritionist ResourceKind = "nutritionist"
)

// IsValid returns true if the kind is one of the known resource kinds
func (k ResourceKind) IsValid() bool {
	return k == KindFacility || k == KindTrainer || k == KindNutritionist
}

// Resource represents a bookable entity: a gym facility, a personal trainer
// or a nutritionist. Facilities may allow more than one concurrent booking
// per slot; trainers and nutritionists always have capacity 1.
//
// The pricing configuration lives on the resource so that all slots of the
// resource share one peak window and one discount policy.
type Resource struct {
	ID       int64
	Name     string
	Kind     ResourceKind
	Capacity int // capacity per slot

	BasePrice             float64
	PeakStartTime         *types.TimeString // nil = no peak window
	PeakEndTime           *types.TimeString
	PeakMultiplier        float64
	MemberDiscountPercent float64 // flat run-time discount for members

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPeakWindow returns true if the resource has a configured peak window
func (r *Resource) HasPeakWindow() bool {
	return r.PeakStartTime != nil && r.PeakEndTime != nil && r.PeakMultiplier > 0
}

// EffectiveCapacity returns the capacity per slot, floored at 1
func (r *Resource) EffectiveCapacity() int {
	if r.Capacity < 1 {
		return 1
	}
	return r.Capacity
}
