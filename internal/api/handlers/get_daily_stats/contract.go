package get_daily_stats

import (
	"context"
	"time"

	"github.com/m04kA/GMS-ScheduleService/internal/service/analytics/models"
)

type AnalyticsService interface {
	GetDaily(ctx context.Context, resourceID int64, from, to time.Time) (*models.DailyStatsListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
