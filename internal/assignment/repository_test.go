package assignment

import (
	"context"
	"testing"
	"time"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/order"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db), mock, func() { db.Close() }
}

func TestRepository_AcceptTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO assignments`).
			WithArgs(uint(42), uint(9)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`UPDATE orders`).
			WithArgs(order.StatusAccepted, uint(42), order.StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.AcceptTx(ctx, 42, 9)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyClaimed", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		// ON CONFLICT DO NOTHING swallows the insert for the loser.
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO assignments`).
			WithArgs(uint(42), uint(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.AcceptTx(ctx, 42, 9)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoLongerPending", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO assignments`).
			WithArgs(uint(42), uint(9)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`UPDATE orders`).
			WithArgs(order.StatusAccepted, uint(42), order.StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.AcceptTx(ctx, 42, 9)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_AssignTx(t *testing.T) {
	ctx := context.Background()

	t.Run("ReassignWhileAccepted", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM orders`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).
				AddRow(string(order.StatusAccepted)))
		mock.ExpectExec(`INSERT INTO assignments`).
			WithArgs(uint(42), uint(10)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.AssignTx(ctx, 42, 10)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WorkUnderway", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		// The locked read sees MOVING; no write happens.
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM orders`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).
				AddRow(string(order.StatusMoving)))
		mock.ExpectRollback()

		err := repo.AssignTx(ctx, 42, 10)
		assert.Equal(t, apperr.KindIllegalTransition, apperr.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownOrder", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM orders`).
			WithArgs(uint(404)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}))
		mock.ExpectRollback()

		err := repo.AssignTx(ctx, 404, 10)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ActiveFor(t *testing.T) {
	ctx := context.Background()

	t.Run("Assigned", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectQuery(`FROM assignments`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "staff_id", "assigned_at"}).
				AddRow(1, 42, 9, time.Now()))

		a, err := repo.ActiveFor(ctx, 42)
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, uint(9), a.StaffID)
	})

	t.Run("Unassigned", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectQuery(`FROM assignments`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "staff_id", "assigned_at"}))

		a, err := repo.ActiveFor(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, a)
	})
}

func TestRepository_Delete(t *testing.T) {
	t.Run("Removed", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectExec(`DELETE FROM assignments`).
			WithArgs(uint(42), uint(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), 42, 9))
	})

	t.Run("Missing", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectExec(`DELETE FROM assignments`).
			WithArgs(uint(42), uint(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.Error(t, repo.Delete(context.Background(), 42, 9))
	})
}
