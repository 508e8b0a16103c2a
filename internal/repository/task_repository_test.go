package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow-api/internal/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockRepo backs the repository with sqlmock so the generated SQL can be
// asserted directly, in particular the owner_id scoping on every statement.
func newMockRepo(t *testing.T) (TaskRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewTaskRepository(db), mock
}

func TestGormTaskRepository_FindByOwnerAndIDScopesToOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	// The row exists for another owner, so the scoped query finds nothing.
	mock.ExpectQuery(`SELECT (.+) FROM "tasks" WHERE owner_id = (.+)`).
		WithArgs(7, 42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task", "done", "owner_id", "created_at", "updated_at"}))

	_, err := repo.FindByOwnerAndID(7, 42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_ListByOwnerOrdersByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()

	mock.ExpectQuery(`SELECT count(.+) FROM "tasks" WHERE owner_id = (.+)`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(`SELECT (.+) FROM "tasks" WHERE owner_id = (.+) ORDER BY id ASC`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task", "done", "owner_id", "created_at", "updated_at"}).
			AddRow(1, "task one", false, 7, now, now).
			AddRow(2, "task two", true, 7, now, now))

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(7, "alice", "a@x.com"))

	tasks, total, err := repo.ListByOwner(7, utils.PaginationParams{Page: 1, Limit: 10, Offset: 0})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, tasks, 2)
	require.Equal(t, uint64(1), tasks[0].ID)
	require.Equal(t, uint64(2), tasks[1].ID)
	require.Equal(t, "alice", tasks[0].Owner.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_DeleteByOwnerAndIDNotOwned(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM "tasks" WHERE owner_id = (.+)`).
		WithArgs(7, 42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByOwnerAndID(7, 42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
