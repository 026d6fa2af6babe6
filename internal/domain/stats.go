package domain

import "time"

// DailyStats is the append-only per-resource-per-day usage rollup consumed by
// external reporting. Rows are upserted incrementally from the booking and
// cancellation paths and are never read-modified elsewhere. Counters never go
// below zero.
type DailyStats struct {
	ResourceID int64
	Date       time.Time

	TotalSlots         int
	TotalBookings      int
	TotalCancellations int
	TotalRevenue       float64

	PeakBookings    int
	OffPeakBookings int

	MemberBookings    int
	NonMemberBookings int

	UpdatedAt time.Time
}

// StatsDelta describes one increment or decrement applied to a daily rollup
type StatsDelta struct {
	ResourceID   int64
	Date         time.Time
	RevenueDelta float64
	IsPeak       bool
	IsMember     bool
}
