package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/GMS-ScheduleService/pkg/psqlbuilder"
)

// Repository репозиторий суточной аналитики ресурсов.
// Строки только инкрементально upsert-ятся; чтение-модификация вне
// Increment/Decrement не допускается.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аналитики
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Increment увеличивает суточный rollup по факту нового бронирования.
// Вызывается внутри той же транзакции, что и создание бронирования,
// чтобы аналитика не расходилась с бронированиями.
func (r *Repository) Increment(ctx context.Context, delta domain.StatsDelta) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	peak, offPeak := bucketDeltas(delta.IsPeak)
	member, nonMember := bucketDeltas(delta.IsMember)

	const query = `
		INSERT INTO resource_daily_stats (
			resource_id, stat_date, total_bookings, total_revenue,
			peak_bookings, off_peak_bookings, member_bookings, non_member_bookings
		)
		VALUES ($1, $2, 1, $3, $4, $5, $6, $7)
		ON CONFLICT (resource_id, stat_date) DO UPDATE SET
			total_bookings      = resource_daily_stats.total_bookings + 1,
			total_revenue       = resource_daily_stats.total_revenue + EXCLUDED.total_revenue,
			peak_bookings       = resource_daily_stats.peak_bookings + EXCLUDED.peak_bookings,
			off_peak_bookings   = resource_daily_stats.off_peak_bookings + EXCLUDED.off_peak_bookings,
			member_bookings     = resource_daily_stats.member_bookings + EXCLUDED.member_bookings,
			non_member_bookings = resource_daily_stats.non_member_bookings + EXCLUDED.non_member_bookings,
			updated_at          = NOW()`

	_, err := executor.ExecContext(ctx, query,
		delta.ResourceID, delta.Date, delta.RevenueDelta, peak, offPeak, member, nonMember)
	if err != nil {
		return fmt.Errorf("%w: Increment - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// Decrement уменьшает суточный rollup по факту отмены бронирования.
// Счетчики и выручка не опускаются ниже нуля (GREATEST), количество
// отмен при этом растет.
func (r *Repository) Decrement(ctx context.Context, delta domain.StatsDelta) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	peak, offPeak := bucketDeltas(delta.IsPeak)
	member, nonMember := bucketDeltas(delta.IsMember)

	const query = `
		INSERT INTO resource_daily_stats (
			resource_id, stat_date, total_bookings, total_cancellations, total_revenue,
			peak_bookings, off_peak_bookings, member_bookings, non_member_bookings
		)
		VALUES ($1, $2, 0, 1, 0, 0, 0, 0, 0)
		ON CONFLICT (resource_id, stat_date) DO UPDATE SET
			total_bookings      = GREATEST(0, resource_daily_stats.total_bookings - 1),
			total_cancellations = resource_daily_stats.total_cancellations + 1,
			total_revenue       = GREATEST(0, resource_daily_stats.total_revenue - $3),
			peak_bookings       = GREATEST(0, resource_daily_stats.peak_bookings - $4),
			off_peak_bookings   = GREATEST(0, resource_daily_stats.off_peak_bookings - $5),
			member_bookings     = GREATEST(0, resource_daily_stats.member_bookings - $6),
			non_member_bookings = GREATEST(0, resource_daily_stats.non_member_bookings - $7),
			updated_at          = NOW()`

	_, err := executor.ExecContext(ctx, query,
		delta.ResourceID, delta.Date, delta.RevenueDelta, peak, offPeak, member, nonMember)
	if err != nil {
		return fmt.Errorf("%w: Decrement - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// AddGeneratedSlots увеличивает счетчик сгенерированных слотов на дату
func (r *Repository) AddGeneratedSlots(ctx context.Context, resourceID int64, date time.Time, count int) error {
	if count <= 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	const query = `
		INSERT INTO resource_daily_stats (resource_id, stat_date, total_slots)
		VALUES ($1, $2, $3)
		ON CONFLICT (resource_id, stat_date) DO UPDATE SET
			total_slots = resource_daily_stats.total_slots + EXCLUDED.total_slots,
			updated_at  = NOW()`

	if _, err := executor.ExecContext(ctx, query, resourceID, date, count); err != nil {
		return fmt.Errorf("%w: AddGeneratedSlots - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByResourceAndRange возвращает суточные rollup-ы ресурса за период
func (r *Repository) GetByResourceAndRange(ctx context.Context, resourceID int64, from, to time.Time) ([]*domain.DailyStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"resource_id",
		"stat_date",
		"total_slots",
		"total_bookings",
		"total_cancellations",
		"total_revenue",
		"peak_bookings",
		"off_peak_bookings",
		"member_bookings",
		"non_member_bookings",
		"updated_at",
	).
		From("resource_daily_stats").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.GtOrEq{"stat_date": from}).
		Where(squirrel.LtOrEq{"stat_date": to}).
		OrderBy("stat_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceAndRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceAndRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := make([]*domain.DailyStats, 0)
	for rows.Next() {
		var s domain.DailyStats
		var updatedAt sql.NullTime

		err := rows.Scan(
			&s.ResourceID,
			&s.Date,
			&s.TotalSlots,
			&s.TotalBookings,
			&s.TotalCancellations,
			&s.TotalRevenue,
			&s.PeakBookings,
			&s.OffPeakBookings,
			&s.MemberBookings,
			&s.NonMemberBookings,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByResourceAndRange - scan row: %v", ErrScanRow, err)
		}

		s.UpdatedAt = updatedAt.Time
		stats = append(stats, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByResourceAndRange - rows error: %v", ErrScanRow, err)
	}

	return stats, nil
}

// bucketDeltas раскладывает булев признак на пару (истина, ложь) -> (1,0)/(0,1)
func bucketDeltas(flag bool) (int, int) {
	if flag {
		return 1, 0
	}
	return 0, 1
}
