package cancel_booking

import (
	"time"

	cancelBooking "github.com/m04kA/GMS-ScheduleService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	BookingID     int64   `json:"bookingId"`
	Status        string  `json:"status"`
	PricePaid     float64 `json:"pricePaid"`
	RefundAmount  float64 `json:"refundAmount"`
	RefundPercent float64 `json:"refundPercent"`
	CancelledAt   string  `json:"cancelledAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		BookingID:     resp.BookingID,
		Status:        resp.Status,
		PricePaid:     resp.PricePaid,
		RefundAmount:  resp.RefundAmount,
		RefundPercent: resp.RefundPercent,
		CancelledAt:   resp.CancelledAt.Format(time.RFC3339),
	}
}
