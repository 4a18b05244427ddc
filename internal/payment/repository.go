package payment

import (
	"context"
	"database/sql"
)

type Repository interface {
	ByOrder(ctx context.Context, orderID uint) (*Payment, error)
	SumPaid(ctx context.Context) (float64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ByOrder(ctx context.Context, orderID uint) (*Payment, error) {
	var p Payment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, method, status, amount, created_at, updated_at
		FROM payments
		WHERE order_id = $1
		LIMIT 1
	`, orderID).Scan(&p.ID, &p.OrderID, &p.Method, &p.Status, &p.Amount, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SumPaid totals settled payments for the revenue dashboard.
func (r *repository) SumPaid(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE status = $1
	`, StatusPaid).Scan(&total)

	return total, err
}
