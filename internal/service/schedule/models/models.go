package models

import (
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// Request модели

// CreateResourceRequest запрос на создание ресурса
type CreateResourceRequest struct {
	Name                  string   `json:"name"`
	Kind                  string   `json:"kind"` // facility | trainer | nutritionist
	Capacity              int      `json:"capacity"`
	BasePrice             float64  `json:"basePrice"`
	PeakStartTime         *string  `json:"peakStartTime,omitempty"` // "17:00"
	PeakEndTime           *string  `json:"peakEndTime,omitempty"`   // "21:00"
	PeakMultiplier        *float64 `json:"peakMultiplier,omitempty"`
	MemberDiscountPercent *float64 `json:"memberDiscountPercent,omitempty"`
}

// ToDomain конвертирует request в domain модель
func (r *CreateResourceRequest) ToDomain() (*domain.Resource, error) {
	res := &domain.Resource{
		Name:                  r.Name,
		Kind:                  domain.ResourceKind(r.Kind),
		Capacity:              r.Capacity,
		BasePrice:             r.BasePrice,
		MemberDiscountPercent: domain.DefaultMemberDiscountPercent,
		Active:                true,
	}

	if r.PeakStartTime != nil && r.PeakEndTime != nil {
		start, err := types.NewTimeStringFromString(*r.PeakStartTime)
		if err != nil {
			return nil, err
		}
		end, err := types.NewTimeStringFromString(*r.PeakEndTime)
		if err != nil {
			return nil, err
		}
		res.PeakStartTime = &start
		res.PeakEndTime = &end
	}
	if r.PeakMultiplier != nil {
		res.PeakMultiplier = *r.PeakMultiplier
	}
	if r.MemberDiscountPercent != nil {
		res.MemberDiscountPercent = *r.MemberDiscountPercent
	}

	return res, nil
}

// CreateTemplateRequest запрос на создание шаблона доступности
type CreateTemplateRequest struct {
	ResourceID          int64  `json:"resourceId"`
	Weekday             int    `json:"weekday"` // 0 = воскресенье .. 6 = суббота
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	BreakMinutes        int    `json:"breakMinutes"`
	MaxSessionsPerDay   *int   `json:"maxSessionsPerDay,omitempty"`
	IsOpen              bool   `json:"isOpen"`
}

// ToDomain конвертирует request в domain модель
func (r *CreateTemplateRequest) ToDomain() (*domain.AvailabilityTemplate, error) {
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &domain.AvailabilityTemplate{
		ResourceID:          r.ResourceID,
		Weekday:             r.Weekday,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: r.SlotDurationMinutes,
		BreakMinutes:        r.BreakMinutes,
		MaxSessionsPerDay:   r.MaxSessionsPerDay,
		IsOpen:              r.IsOpen,
	}, nil
}

// UpsertPolicyRequest запрос на установку политики отмены ресурса
type UpsertPolicyRequest struct {
	ResourceID     int64   `json:"resourceId"`
	MinNoticeHours int     `json:"minNoticeHours"`
	RefundPercent  float64 `json:"refundPercent"`
}

// ClearSlotsRequest запрос на удаление слотов диапазона дат
type ClearSlotsRequest struct {
	ResourceID int64      `json:"resourceId"`
	FromDate   *time.Time `json:"fromDate,omitempty"`
	ToDate     *time.Time `json:"toDate,omitempty"`
}

// Response модели

// ResourceResponse ответ с данными ресурса
type ResourceResponse struct {
	ID                    int64   `json:"id"`
	Name                  string  `json:"name"`
	Kind                  string  `json:"kind"`
	Capacity              int     `json:"capacity"`
	BasePrice             float64 `json:"basePrice"`
	PeakStartTime         *string `json:"peakStartTime,omitempty"`
	PeakEndTime           *string `json:"peakEndTime,omitempty"`
	PeakMultiplier        float64 `json:"peakMultiplier,omitempty"`
	MemberDiscountPercent float64 `json:"memberDiscountPercent"`
	Active                bool    `json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainResource конвертирует domain модель в DTO
func FromDomainResource(res *domain.Resource) *ResourceResponse {
	if res == nil {
		return nil
	}

	resp := &ResourceResponse{
		ID:                    res.ID,
		Name:                  res.Name,
		Kind:                  string(res.Kind),
		Capacity:              res.Capacity,
		BasePrice:             res.BasePrice,
		PeakMultiplier:        res.PeakMultiplier,
		MemberDiscountPercent: res.MemberDiscountPercent,
		Active:                res.Active,
		CreatedAt:             res.CreatedAt,
		UpdatedAt:             res.UpdatedAt,
	}

	if res.PeakStartTime != nil {
		s := res.PeakStartTime.String()
		resp.PeakStartTime = &s
	}
	if res.PeakEndTime != nil {
		s := res.PeakEndTime.String()
		resp.PeakEndTime = &s
	}

	return resp
}

// TemplateResponse ответ с данными шаблона доступности
type TemplateResponse struct {
	ID                  int64  `json:"id"`
	ResourceID          int64  `json:"resourceId"`
	Weekday             int    `json:"weekday"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	BreakMinutes        int    `json:"breakMinutes"`
	MaxSessionsPerDay   *int   `json:"maxSessionsPerDay,omitempty"`
	IsOpen              bool   `json:"isOpen"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainTemplate конвертирует domain модель в DTO
func FromDomainTemplate(tpl *domain.AvailabilityTemplate) *TemplateResponse {
	if tpl == nil {
		return nil
	}

	return &TemplateResponse{
		ID:                  tpl.ID,
		ResourceID:          tpl.ResourceID,
		Weekday:             tpl.Weekday,
		StartTime:           tpl.StartTime.String(),
		EndTime:             tpl.EndTime.String(),
		SlotDurationMinutes: tpl.SlotDurationMinutes,
		BreakMinutes:        tpl.BreakMinutes,
		MaxSessionsPerDay:   tpl.MaxSessionsPerDay,
		IsOpen:              tpl.IsOpen,
		CreatedAt:           tpl.CreatedAt,
		UpdatedAt:           tpl.UpdatedAt,
	}
}

// TemplateListResponse ответ со списком шаблонов
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// FromDomainTemplateList конвертирует список domain моделей в DTO
func FromDomainTemplateList(templates []*domain.AvailabilityTemplate) *TemplateListResponse {
	resp := &TemplateListResponse{
		Templates: make([]TemplateResponse, 0, len(templates)),
	}
	for _, tpl := range templates {
		resp.Templates = append(resp.Templates, *FromDomainTemplate(tpl))
	}
	return resp
}

// PolicyResponse ответ с политикой отмены
type PolicyResponse struct {
	ResourceID     *int64  `json:"resourceId,omitempty"` // null = системная политика
	MinNoticeHours int     `json:"minNoticeHours"`
	RefundPercent  float64 `json:"refundPercent"`
	IsDefault      bool    `json:"isDefault"`
}

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.CancellationPolicy, isDefault bool) *PolicyResponse {
	if p == nil {
		return nil
	}

	return &PolicyResponse{
		ResourceID:     p.ResourceID,
		MinNoticeHours: p.MinNoticeHours,
		RefundPercent:  p.RefundPercent,
		IsDefault:      isDefault,
	}
}

// ClearSlotsResponse ответ с количеством удаленных слотов
type ClearSlotsResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// SlotStatusResponse ответ после смены статуса слота
type SlotStatusResponse struct {
	SlotID int64  `json:"slotId"`
	Status string `json:"status"`
}
