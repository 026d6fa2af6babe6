package domain

import (
	"math"

	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// Pricing is a pure function layer: no storage access, no clock access.
// The stored Slot.FinalPrice is always the non-member peak-adjusted price;
// the member discount is applied at reservation time on top of it.

// IsPeakTime reports whether t falls inside the half-open peak window
// [peakStart, peakEnd). A slot starting exactly at peakEnd is off-peak.
func IsPeakTime(t, peakStart, peakEnd types.TimeString) bool {
	return !t.IsBefore(peakStart) && t.IsBefore(peakEnd)
}

// SlotPrice computes the stored price of a slot starting at startTime and
// classifies it as peak or off-peak. When the resource has no peak window the
// base price is returned unchanged.
func SlotPrice(r *Resource, startTime types.TimeString) (finalPrice float64, isPeak bool) {
	price := r.BasePrice
	if r.HasPeakWindow() && IsPeakTime(startTime, *r.PeakStartTime, *r.PeakEndTime) {
		price = price * r.PeakMultiplier
		isPeak = true
	}
	return RoundToCents(price), isPeak
}

// MemberPrice applies the resource's flat member discount to a slot price.
// A non-positive discount leaves the price unchanged.
func MemberPrice(slotPrice float64, discountPercent float64) float64 {
	if discountPercent <= 0 {
		return RoundToCents(slotPrice)
	}
	if discountPercent > 100 {
		discountPercent = 100
	}
	return RoundToCents(slotPrice * (100 - discountPercent) / 100)
}

// RoundToCents rounds a price to the currency's minor-unit precision
func RoundToCents(price float64) float64 {
	return math.Round(price*100) / 100
}
