package waitlist

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GMS-ScheduleService/internal/domain"
	"github.com/m04kA/GMS-ScheduleService/pkg/types"
)

// --- тестовая обвязка ---

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func entryRows() *sqlmock.Rows {
	return sqlmock.NewRows(entryColumns)
}

var testDate = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

func addEntryRow(rows *sqlmock.Rows, id, userID int64, priority int, status string) {
	rows.AddRow(
		id, int64(7), userID, testDate,
		"09:00:00", "12:00:00",
		priority, status, time.Now(), time.Now(),
	)
}

// --- тесты ---

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO waitlist_entries (resource_id,user_id,entry_date,window_start,window_end,priority,status) VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at, updated_at")).
		WithArgs(int64(7), int64(42), testDate, "09:00", "12:00", 0, string(domain.WaitlistWaiting)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(15), now, now))

	entry := &domain.WaitlistEntry{
		ResourceID:  7,
		UserID:      42,
		Date:        testDate,
		WindowStart: "09:00",
		WindowEnd:   "12:00",
		Status:      domain.WaitlistWaiting,
	}

	created, err := repo.Create(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, int64(15), created.ID)
	assert.Equal(t, now, created.CreatedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateWaiting(t *testing.T) {
	repo, mock := newMockRepo(t)

	// частичный уникальный индекс по (resource_id, user_id, entry_date)
	// для статуса waiting отдает 23505
	mock.ExpectQuery(`INSERT INTO waitlist_entries`).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	entry := &domain.WaitlistEntry{
		ResourceID:  7,
		UserID:      42,
		Date:        testDate,
		WindowStart: "09:00",
		WindowEnd:   "12:00",
		Status:      domain.WaitlistWaiting,
	}

	created, err := repo.Create(context.Background(), entry)
	assert.Nil(t, created)
	assert.ErrorIs(t, err, ErrAlreadyWaitlisted)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM waitlist_entries WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(entryRows())

	e, err := repo.GetByID(context.Background(), 404)
	assert.Nil(t, e)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListWaitingForSlot(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := entryRows()
	addEntryRow(rows, 1, 100, 10, "waiting")
	addEntryRow(rows, 2, 200, 0, "waiting")

	// вне транзакции SKIP LOCKED не добавляется
	mock.ExpectQuery(`FROM waitlist_entries WHERE entry_date = \$1 AND resource_id = \$2 AND status = \$3 AND window_start <= \$4 AND window_end >= \$5 ORDER BY priority DESC, created_at ASC, id ASC$`).
		WillReturnRows(rows)

	entries, err := repo.ListWaitingForSlot(context.Background(), 7, testDate, "10:00", "11:00")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, int64(100), entries[0].UserID)
	assert.Equal(t, 10, entries[0].Priority)
	assert.Equal(t, types.TimeString("09:00"), entries[0].WindowStart)
	assert.Equal(t, types.TimeString("12:00"), entries[0].WindowEnd)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListWaitingUpcoming(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := entryRows()
	addEntryRow(rows, 1, 100, 0, "waiting")

	mock.ExpectQuery(`FROM waitlist_entries WHERE status = \$1 AND entry_date >= \$2 ORDER BY entry_date ASC, priority DESC, created_at ASC, id ASC LIMIT 200`).
		WithArgs(string(domain.WaitlistWaiting), testDate).
		WillReturnRows(rows)

	entries, err := repo.ListWaitingUpcoming(context.Background(), testDate, 200)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.WaitlistWaiting, entries[0].Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireOverdue(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE waitlist_entries SET status = $1, updated_at = NOW() WHERE status = $2 AND entry_date < $3")).
		WithArgs(string(domain.WaitlistExpired), string(domain.WaitlistWaiting), testDate).
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.ExpireOverdue(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdraw(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE waitlist_entries SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND status = \$3 AND user_id = \$4`).
		WithArgs(string(domain.WaitlistWithdrawn), int64(15), string(domain.WaitlistWaiting), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Withdraw(context.Background(), 15, 42)
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdraw_ForeignOrFinalized(t *testing.T) {
	repo, mock := newMockRepo(t)

	// чужая или уже не ожидающая запись не затрагивает строк
	mock.ExpectExec(`UPDATE waitlist_entries SET status = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Withdraw(context.Background(), 15, 99)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
