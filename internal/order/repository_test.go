package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db), mock, func() { db.Close() }
}

func sampleOrder() *Order {
	return &Order{
		UserID:      7,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Address:     "12 Garden Lane",
		Status:      StatusPending,
		Total:       20,
		Items: []OrderItem{
			{ServiceID: 1, ServiceName: "Repotting", Quantity: 1, Price: 10, Subtotal: 10},
			{ServiceID: 2, ServiceName: "Watering", Quantity: 2, Price: 5, Subtotal: 10},
		},
	}
}

func TestRepository_CreateOrderTx(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		o := sampleOrder()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(
				o.UserID, nil, nil,
				o.ScheduledAt, o.Address, nil, nil,
				o.Status, o.Total, o.Discount,
			).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(42, now, now))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WithArgs(uint(42), uint(1), "Repotting", 1, 10.0, 10.0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WithArgs(uint(42), uint(2), "Watering", 2, 5.0, 10.0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectExec(`INSERT INTO payments`).
			WithArgs(uint(42), "INVOICE", "PENDING", o.Total).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.CreateOrderTx(ctx, o, false)
		require.NoError(t, err)
		assert.Equal(t, uint(42), o.ID)
		assert.Equal(t, uint(42), o.Items[0].OrderID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("VoucherMarkedUsed", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		o := sampleOrder()
		code := "SPRING10"
		o.VoucherCode = &code
		o.Total = 18
		o.Discount = 2

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(42, now, now))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectExec(`UPDATE vouchers`).
			WithArgs(code, o.UserID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO payments`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.CreateOrderTx(ctx, o, true)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("VoucherAlreadyUsedRollsBack", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		o := sampleOrder()
		code := "SPRING10"
		o.VoucherCode = &code

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(42, now, now))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectExec(`UPDATE vouchers`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.CreateOrderTx(ctx, o, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already used")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsertFailureRollsBack", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		o := sampleOrder()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := repo.CreateOrderTx(ctx, o, false)
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpdateStatusFrom(t *testing.T) {
	ctx := context.Background()

	t.Run("Swapped", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectExec(`UPDATE orders`).
			WithArgs(StatusAccepted, uint(42), StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.UpdateStatusFrom(ctx, 42, StatusPending, StatusAccepted)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("StatusMoved", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectExec(`UPDATE orders`).
			WithArgs(StatusAccepted, uint(42), StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.UpdateStatusFrom(ctx, 42, StatusPending, StatusAccepted)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func orderRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "plant_id", "voucher_code",
		"scheduled_at", "address", "phone", "note",
		"status", "total", "discount", "created_at", "updated_at",
	}).AddRow(
		42, 7, nil, nil,
		now.Add(24*time.Hour), "12 Garden Lane", nil, nil,
		StatusPending, 20.0, 0.0, now, now,
	)
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectQuery(`FROM orders o`).
		WithArgs(uint(42)).
		WillReturnRows(orderRows())
	mock.ExpectQuery(`FROM order_items`).
		WithArgs(uint(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_id", "service_id", "service_name", "quantity", "price", "subtotal",
		}).AddRow(1, 42, 1, "Repotting", 1, 10.0, 10.0))

	o, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, uint(42), o.ID)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Repotting", o.Items[0].ServiceName)
}

func TestRepository_ListAvailable(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectQuery(`LEFT JOIN assignments`).
		WithArgs(StatusPending).
		WillReturnRows(orderRows())

	orders, err := repo.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, StatusPending, orders[0].Status)
}

func TestRepository_ListAssigned(t *testing.T) {
	t.Run("Active", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectQuery(`NOT IN`).
			WithArgs(uint(9), StatusDone, StatusCancelled).
			WillReturnRows(orderRows())

		orders, err := repo.ListAssigned(context.Background(), 9, false)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("History", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectQuery(`IN \(\$2, \$3\)`).
			WithArgs(uint(9), StatusDone, StatusCancelled).
			WillReturnRows(orderRows())

		orders, err := repo.ListAssigned(context.Background(), 9, true)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})
}

func TestRepository_OverrideStatus(t *testing.T) {
	t.Run("Updated", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectExec(`UPDATE orders`).
			WithArgs(StatusCancelled, uint(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.OverrideStatus(context.Background(), 42, StatusCancelled))
	})

	t.Run("UnknownOrder", func(t *testing.T) {
		repo, mock, closeFn := newMockRepo(t)
		defer closeFn()

		mock.ExpectExec(`UPDATE orders`).
			WithArgs(StatusCancelled, uint(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.OverrideStatus(context.Background(), 404, StatusCancelled)
		assert.Error(t, err)
	})
}
