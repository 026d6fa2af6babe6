package slot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/GMS-ScheduleService/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"resource_id",
	"slot_date",
	"start_time",
	"end_time",
	"capacity",
	"occupancy",
	"base_price",
	"final_price",
	"is_peak",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// BulkInsertIgnoreConflicts вставляет пачку слотов с семантикой insert-if-absent.
// Конфликты по уникальному ключу (resource_id, slot_date, start_time) молча
// пропускаются: уже существующие слоты (в том числе с занятостью) не трогаются.
// Это делает повторную генерацию идемпотентной.
// Возвращает количество реально созданных слотов.
func (r *Repository) BulkInsertIgnoreConflicts(ctx context.Context, slots []*domain.Slot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("slots").
		Columns(
			"resource_id",
			"slot_date",
			"start_time",
			"end_time",
			"capacity",
			"occupancy",
			"base_price",
			"final_price",
			"is_peak",
			"status",
		)

	for _, s := range slots {
		insertBuilder = insertBuilder.Values(
			s.ResourceID,
			s.Date,
			s.StartTime,
			s.EndTime,
			s.Capacity,
			s.Occupancy,
			s.BasePrice,
			s.FinalPrice,
			s.IsPeak,
			s.Status,
		)
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (resource_id, slot_date, start_time) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: BulkInsertIgnoreConflicts - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: BulkInsertIgnoreConflicts - execute insert: %v", ErrExecQuery, err)
	}

	created, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: BulkInsertIgnoreConflicts - get rows affected: %v", ErrExecQuery, err)
	}

	return created, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает слот по ID с блокировкой строки (SELECT ... FOR UPDATE).
// Должен вызываться только внутри транзакции: блокировка сериализует
// конкурирующие попытки бронирования одного слота.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.getByID(ctx, id, true)
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getByID - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListByResourceAndRange получает слоты ресурса за период [from, to]
// Опционально фильтрует только доступные для бронирования слоты
func (r *Repository) ListByResourceAndRange(ctx context.Context, resourceID int64, from, to sql.NullTime, onlyAvailable bool) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"resource_id": resourceID})

	if from.Valid {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"slot_date": from.Time})
	}
	if to.Valid {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"slot_date": to.Time})
	}

	if onlyAvailable {
		selectBuilder = selectBuilder.
			Where(squirrel.Eq{"status": []string{string(domain.SlotOpen), string(domain.SlotPartiallyBooked)}}).
			Where("occupancy < capacity")
	}

	selectBuilder = selectBuilder.OrderBy("slot_date ASC, start_time ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResourceAndRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResourceAndRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// UpdateOccupancy сохраняет новую занятость и производный статус слота.
// Вызывается только под блокировкой строки слота (FOR UPDATE).
func (r *Repository) UpdateOccupancy(ctx context.Context, id int64, occupancy int, status domain.SlotStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("occupancy", occupancy).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateOccupancy - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateOccupancy - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateOccupancy - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// SetStatus выставляет административный статус слота (blocked / cancelled / open)
func (r *Repository) SetStatus(ctx context.Context, id int64, status domain.SlotStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// DeleteByResourceAndRange удаляет слоты ресурса за период.
// Явная деструктивная операция для полного пересоздания расписания;
// генерация слотов никогда не вызывает ее неявно.
func (r *Repository) DeleteByResourceAndRange(ctx context.Context, resourceID int64, from, to sql.NullTime) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"resource_id": resourceID})

	if from.Valid {
		deleteBuilder = deleteBuilder.Where(squirrel.GtOrEq{"slot_date": from.Time})
	}
	if to.Valid {
		deleteBuilder = deleteBuilder.Where(squirrel.LtOrEq{"slot_date": to.Time})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByResourceAndRange - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByResourceAndRange - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByResourceAndRange - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var s domain.Slot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.ResourceID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.Capacity,
		&s.Occupancy,
		&s.BasePrice,
		&s.FinalPrice,
		&s.IsPeak,
		&s.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
