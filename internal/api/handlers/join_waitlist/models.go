package join_waitlist

import (
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/internal/service/waitlist/models"
)

// JoinWaitlistRequest HTTP request model
type JoinWaitlistRequest struct {
	ResourceID  int64  `json:"resourceId"`
	Date        string `json:"date"` // YYYY-MM-DD
	WindowStart string `json:"windowStart"`
	WindowEnd   string `json:"windowEnd"`
	Priority    *int   `json:"priority,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *JoinWaitlistRequest) ToServiceRequest(userID int64) (*models.JoinRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &models.JoinRequest{
		UserID:      userID,
		ResourceID:  r.ResourceID,
		Date:        date,
		WindowStart: r.WindowStart,
		WindowEnd:   r.WindowEnd,
		Priority:    r.Priority,
	}, nil
}
