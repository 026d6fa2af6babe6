package domain

import "time"

// CancellationPolicy defines how long before a slot a booking may still be
// cancelled and which fraction of the price is refunded. A policy belongs to
// one resource; when a resource has none, the system default applies.
type CancellationPolicy struct {
	ID             int64
	ResourceID     *int64 // nil = system default row
	MinNoticeHours int
	RefundPercent  float64 // 0..100

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultCancellationPolicy returns the system fallback policy:
// 24 hours notice, full refund.
func DefaultCancellationPolicy() *CancellationPolicy {
	return &CancellationPolicy{
		MinNoticeHours: DefaultMinNoticeHours,
		RefundPercent:  DefaultRefundPercent,
	}
}

// RefundFor computes the refund for a price paid under this policy.
// The result never exceeds pricePaid.
func (p *CancellationPolicy) RefundFor(pricePaid float64) float64 {
	pct := p.RefundPercent
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return RoundToCents(pricePaid * pct / 100)
}

// AllowsCancellationAt reports whether a booking starting at startsAt may be
// cancelled at the moment now. Cancellation is allowed when the remaining
// notice is at least MinNoticeHours.
func (p *CancellationPolicy) AllowsCancellationAt(startsAt, now time.Time) bool {
	notice := startsAt.Sub(now)
	return notice >= time.Duration(p.MinNoticeHours)*time.Hour
}
