package reserve_slot

import (
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	reserveSlot "github.com/m04kA/GMS-ScheduleService/internal/usecase/reserve_slot"
)

// ReserveSlotRequest HTTP request model
type ReserveSlotRequest struct {
	SlotID int64   `json:"slotId"`
	Notes  *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID     int64 `json:"id"`
	SlotID int64 `json:"slotId"`
	UserID int64 `json:"userId"`

	ResourceID   int64  `json:"resourceId"`
	ResourceKind string `json:"resourceKind"`
	ResourceName string `json:"resourceName"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`

	PricePaid float64 `json:"pricePaid"`
	IsMember  bool    `json:"isMember"`
	IsPeak    bool    `json:"isPeak"`
	Status    string  `json:"status"`

	AvailableSpots int `json:"availableSpots"`

	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveSlotRequest) ToUseCaseRequest(userID int64) *reserveSlot.Request {
	return &reserveSlot.Request{
		UserID: userID,
		SlotID: r.SlotID,
		Notes:  r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSlot.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.ID,
		SlotID:         resp.SlotID,
		UserID:         resp.UserID,
		ResourceID:     resp.ResourceID,
		ResourceKind:   resp.ResourceKind,
		ResourceName:   resp.ResourceName,
		Date:           resp.Date.Format(domain.DateFormat),
		StartTime:      resp.StartTime.String(),
		EndTime:        resp.EndTime.String(),
		PricePaid:      resp.PricePaid,
		IsMember:       resp.IsMember,
		IsPeak:         resp.IsPeak,
		Status:         resp.Status,
		AvailableSpots: resp.AvailableSpots,
		Notes:          resp.Notes,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
	}
}
