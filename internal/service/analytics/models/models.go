package models

import (
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
)

// DailyStatsResponse дневная строка статистики ресурса
type DailyStatsResponse struct {
	ResourceID int64  `json:"resourceId"`
	Date       string `json:"date"` // "2026-03-15"

	TotalSlots         int     `json:"totalSlots"`
	TotalBookings      int     `json:"totalBookings"`
	TotalCancellations int     `json:"totalCancellations"`
	TotalRevenue       float64 `json:"totalRevenue"`

	PeakBookings    int `json:"peakBookings"`
	OffPeakBookings int `json:"offPeakBookings"`

	MemberBookings    int `json:"memberBookings"`
	NonMemberBookings int `json:"nonMemberBookings"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// DailyStatsListResponse ответ со статистикой за период
type DailyStatsListResponse struct {
	ResourceID int64                `json:"resourceId"`
	Days       []DailyStatsResponse `json:"days"`

	// Агрегаты по периоду
	TotalBookings int     `json:"totalBookings"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// FromDomainStats конвертирует domain модель в DTO
func FromDomainStats(s *domain.DailyStats) *DailyStatsResponse {
	if s == nil {
		return nil
	}

	return &DailyStatsResponse{
		ResourceID:         s.ResourceID,
		Date:               s.Date.Format(domain.DateFormat),
		TotalSlots:         s.TotalSlots,
		TotalBookings:      s.TotalBookings,
		TotalCancellations: s.TotalCancellations,
		TotalRevenue:       s.TotalRevenue,
		PeakBookings:       s.PeakBookings,
		OffPeakBookings:    s.OffPeakBookings,
		MemberBookings:     s.MemberBookings,
		NonMemberBookings:  s.NonMemberBookings,
		UpdatedAt:          s.UpdatedAt,
	}
}

// FromDomainStatsList конвертирует список domain моделей в DTO с агрегатами
func FromDomainStatsList(resourceID int64, stats []*domain.DailyStats) *DailyStatsListResponse {
	resp := &DailyStatsListResponse{
		ResourceID: resourceID,
		Days:       make([]DailyStatsResponse, 0, len(stats)),
	}

	for _, s := range stats {
		resp.Days = append(resp.Days, *FromDomainStats(s))
		resp.TotalBookings += s.TotalBookings
		resp.TotalRevenue += s.TotalRevenue
	}
	resp.TotalRevenue = domain.RoundToCents(resp.TotalRevenue)

	return resp
}
