package generate_slots

import (
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	generateSlots "github.com/m04kA/GMS-ScheduleService/internal/usecase/generate_slots"
)

// GenerateSlotsRequest HTTP request model
type GenerateSlotsRequest struct {
	FromDate string `json:"fromDate"` // YYYY-MM-DD
	ToDate   string `json:"toDate"`   // YYYY-MM-DD
}

// GenerateSlotsResponse HTTP response model
type GenerateSlotsResponse struct {
	ResourceID     int64 `json:"resourceId"`
	GeneratedCount int64 `json:"generatedCount"`
	SkippedCount   int64 `json:"skippedCount"`
	DaysProcessed  int   `json:"daysProcessed"`
	DaysClosed     int   `json:"daysClosed"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GenerateSlotsRequest) ToUseCaseRequest(resourceID int64) (*generateSlots.Request, error) {
	from, err := time.Parse(domain.DateFormat, r.FromDate)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse(domain.DateFormat, r.ToDate)
	if err != nil {
		return nil, err
	}

	return &generateSlots.Request{
		ResourceID: resourceID,
		FromDate:   from,
		ToDate:     to,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSlots.Response) *GenerateSlotsResponse {
	return &GenerateSlotsResponse{
		ResourceID:     resp.ResourceID,
		GeneratedCount: resp.GeneratedCount,
		SkippedCount:   resp.SkippedCount,
		DaysProcessed:  resp.DaysProcessed,
		DaysClosed:     resp.DaysClosed,
	}
}
