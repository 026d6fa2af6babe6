package template

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/GMS-ScheduleService/pkg/psqlbuilder"
)

var templateColumns = []string{
	"id",
	"resource_id",
	"weekday",
	"start_time",
	"end_time",
	"slot_duration_minutes",
	"break_minutes",
	"max_sessions_per_day",
	"is_open",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с шаблонами доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория шаблонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый шаблон доступности.
// Шаблоны не перезаписываются: для одного (ресурс, день недели) может
// существовать несколько строк, генерацию ведет самая свежая.
func (r *Repository) Create(ctx context.Context, tpl *domain.AvailabilityTemplate) (*domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_templates").
		Columns(
			"resource_id",
			"weekday",
			"start_time",
			"end_time",
			"slot_duration_minutes",
			"break_minutes",
			"max_sessions_per_day",
			"is_open",
		).
		Values(
			tpl.ResourceID,
			tpl.Weekday,
			tpl.StartTime,
			tpl.EndTime,
			tpl.SlotDurationMinutes,
			tpl.BreakMinutes,
			tpl.MaxSessionsPerDay,
			tpl.IsOpen,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&tpl.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	tpl.CreatedAt = createdAt.Time
	tpl.UpdatedAt = updatedAt.Time

	return tpl, nil
}

// GetLatestByResource возвращает по одному самому свежему шаблону
// на каждый день недели для ресурса (DISTINCT ON по weekday)
func (r *Repository) GetLatestByResource(ctx context.Context, resourceID int64) ([]*domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := "DISTINCT ON (weekday) " + templateColumns[0]
	query, args, err := psqlbuilder.Select(append([]string{columns}, templateColumns[1:]...)...).
		From("availability_templates").
		Where(squirrel.Eq{"resource_id": resourceID}).
		OrderBy("weekday ASC, created_at DESC, id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLatestByResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetLatestByResource - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanTemplates(rows)
}

// ListByResource возвращает все шаблоны ресурса, включая устаревшие
func (r *Repository) ListByResource(ctx context.Context, resourceID int64) ([]*domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("availability_templates").
		Where(squirrel.Eq{"resource_id": resourceID}).
		OrderBy("weekday ASC, created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanTemplates(rows)
}

func scanTemplates(rows *sql.Rows) ([]*domain.AvailabilityTemplate, error) {
	templates := make([]*domain.AvailabilityTemplate, 0)

	for rows.Next() {
		var tpl domain.AvailabilityTemplate
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&tpl.ID,
			&tpl.ResourceID,
			&tpl.Weekday,
			&tpl.StartTime,
			&tpl.EndTime,
			&tpl.SlotDurationMinutes,
			&tpl.BreakMinutes,
			&tpl.MaxSessionsPerDay,
			&tpl.IsOpen,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanTemplates - scan row: %v", ErrScanRow, err)
		}

		tpl.CreatedAt = createdAt.Time
		tpl.UpdatedAt = updatedAt.Time

		templates = append(templates, &tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanTemplates - rows error: %v", ErrScanRow, err)
	}

	return templates, nil
}
