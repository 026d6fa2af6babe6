package get_available_slots

import (
	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	getAvailableSlots "github.com/m04kA/GMS-ScheduleService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`

	Capacity       int `json:"capacity"`
	AvailableSpots int `json:"availableSpots"`

	Price    float64 `json:"price"`
	IsPeak   bool    `json:"isPeak"`
	Status   string  `json:"status"`
	Bookable bool    `json:"bookable"`
}

// SlotListResponse HTTP модель списка слотов
type SlotListResponse struct {
	ResourceID   int64          `json:"resourceId"`
	ResourceName string         `json:"resourceName"`
	IsMember     bool           `json:"isMember"`
	Slots        []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotListResponse {
	out := &SlotListResponse{
		ResourceID:   resp.ResourceID,
		ResourceName: resp.ResourceName,
		IsMember:     resp.IsMember,
		Slots:        make([]SlotResponse, 0, len(resp.Slots)),
	}

	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			ID:             s.ID,
			Date:           s.Date.Format(domain.DateFormat),
			StartTime:      s.StartTime.String(),
			EndTime:        s.EndTime.String(),
			Capacity:       s.Capacity,
			AvailableSpots: s.AvailableSpots,
			Price:          s.Price,
			IsPeak:         s.IsPeak,
			Status:         s.Status,
			Bookable:       s.Bookable,
		})
	}

	return out
}
