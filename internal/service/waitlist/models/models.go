package models

import (
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// Request модели

// JoinRequest запрос на постановку в лист ожидания
type JoinRequest struct {
	UserID      int64     `json:"userId"`
	ResourceID  int64     `json:"resourceId"`
	Date        time.Time `json:"date"`
	WindowStart string    `json:"windowStart"` // "09:00"
	WindowEnd   string    `json:"windowEnd"`   // "12:00"
	Priority    *int      `json:"priority,omitempty"`
}

// ToDomain конвертирует request в domain модель
func (r *JoinRequest) ToDomain() (*domain.WaitlistEntry, error) {
	start, err := types.NewTimeStringFromString(r.WindowStart)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(r.WindowEnd)
	if err != nil {
		return nil, err
	}

	priority := domain.DefaultWaitlistPriority
	if r.Priority != nil {
		priority = *r.Priority
	}

	return &domain.WaitlistEntry{
		UserID:      r.UserID,
		ResourceID:  r.ResourceID,
		Date:        r.Date,
		WindowStart: start,
		WindowEnd:   end,
		Priority:    priority,
		Status:      domain.WaitlistWaiting,
	}, nil
}

// Response модели

// EntryResponse ответ с записью листа ожидания
type EntryResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	ResourceID  int64  `json:"resourceId"`
	Date        string `json:"date"` // "2026-03-15"
	WindowStart string `json:"windowStart"`
	WindowEnd   string `json:"windowEnd"`
	Priority    int    `json:"priority"`
	Status      string `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntryListResponse ответ со списком записей
type EntryListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// FromDomainEntry конвертирует domain модель в DTO
func FromDomainEntry(e *domain.WaitlistEntry) *EntryResponse {
	if e == nil {
		return nil
	}

	return &EntryResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		ResourceID:  e.ResourceID,
		Date:        e.Date.Format(domain.DateFormat),
		WindowStart: e.WindowStart.String(),
		WindowEnd:   e.WindowEnd.String(),
		Priority:    e.Priority,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// FromDomainEntryList конвертирует список domain моделей в DTO
func FromDomainEntryList(entries []*domain.WaitlistEntry) *EntryListResponse {
	resp := &EntryListResponse{
		Entries: make([]EntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, *FromDomainEntry(e))
	}
	return resp
}
