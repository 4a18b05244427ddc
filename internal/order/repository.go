package order

import (
	"context"
	"database/sql"
	"fmt"

	"plantcare-be/internal/logger"
	"plantcare-be/internal/payment"

	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrderTx persists the order header, its line items, the pending
	// payment record and, when markVoucher is set, the voucher's used flag
	// as one transaction.
	CreateOrderTx(ctx context.Context, o *Order, markVoucher bool) error

	GetByID(ctx context.Context, orderID uint) (*Order, error)
	ListByCustomer(ctx context.Context, userID uint) ([]*Order, error)

	// ListAvailable returns pending orders with no active assignment,
	// soonest visit first.
	ListAvailable(ctx context.Context) ([]*Order, error)
	// ListAssigned returns orders whose active assignment belongs to
	// staffID, split by lifecycle phase.
	ListAssigned(ctx context.Context, staffID uint, terminal bool) ([]*Order, error)

	// UpdateStatusFrom is the compare-and-swap every transition goes
	// through. false means the order was not in from anymore.
	UpdateStatusFrom(ctx context.Context, orderID uint, from, to Status) (bool, error)

	List(ctx context.Context, filter *Filter) ([]*Order, error)
	Count(ctx context.Context) (int64, error)
	OverrideStatus(ctx context.Context, orderID uint, to Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrderTx(ctx context.Context, o *Order, markVoucher bool) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Order"),
		zap.String("method", "CreateOrderTx"),
		zap.Uint("user_id", o.UserID),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			user_id, plant_id, voucher_code,
			scheduled_at, address, phone, note,
			status, total, discount
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at
	`,
		o.UserID, o.PlantID, o.VoucherCode,
		o.ScheduledAt, o.Address, o.Phone, o.Note,
		o.Status, o.Total, o.Discount,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (
				order_id, service_id, service_name, quantity, price, subtotal
			) VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id
		`,
			o.ID, item.ServiceID, item.ServiceName,
			item.Quantity, item.Price, item.Subtotal,
		).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.Uint("service_id", item.ServiceID),
				zap.Error(err),
			)
			return err
		}
	}

	if markVoucher && o.VoucherCode != nil {
		res, err := tx.ExecContext(ctx, `
			UPDATE vouchers
			SET used = TRUE
			WHERE code = $1 AND user_id = $2 AND used = FALSE
		`, *o.VoucherCode, o.UserID)
		if err != nil {
			log.Error("failed to mark voucher used", zap.Error(err))
			return err
		}

		affected, _ := res.RowsAffected()
		if affected == 0 {
			// A concurrent booking already consumed it; the discount
			// would be double-spent if we committed.
			return fmt.Errorf("voucher %s already used", *o.VoucherCode)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (order_id, method, status, amount)
		VALUES ($1, $2, $3, $4)
	`, o.ID, "INVOICE", payment.StatusPending, o.Total)
	if err != nil {
		log.Error("failed to insert payment record", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order created", zap.Uint("order_id", o.ID))
	return nil
}

const orderColumns = `
	o.id, o.user_id, o.plant_id, o.voucher_code,
	o.scheduled_at, o.address, o.phone, o.note,
	o.status, o.total, o.discount, o.created_at, o.updated_at
`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.PlantID, &o.VoucherCode,
		&o.ScheduledAt, &o.Address, &o.Phone, &o.Note,
		&o.Status, &o.Total, &o.Discount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.id = $1
	`, orderID))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, service_id, service_name, quantity, price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ServiceID, &item.ServiceName,
			&item.Quantity, &item.Price, &item.Subtotal,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	return o, rows.Err()
}

func (r *repository) queryOrders(ctx context.Context, q string, args ...any) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(zap.String("repo", "Order"))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (r *repository) ListByCustomer(ctx context.Context, userID uint) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
	`, userID)
}

func (r *repository) ListAvailable(ctx context.Context) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		LEFT JOIN assignments a ON a.order_id = o.id
		WHERE o.status = $1 AND a.id IS NULL
		ORDER BY o.scheduled_at ASC
	`, StatusPending)
}

func (r *repository) ListAssigned(ctx context.Context, staffID uint, terminal bool) ([]*Order, error) {
	q := `
		SELECT ` + orderColumns + `
		FROM orders o
		JOIN assignments a ON a.order_id = o.id
		WHERE a.staff_id = $1 AND o.status `
	if terminal {
		q += `IN ($2, $3)`
	} else {
		q += `NOT IN ($2, $3)`
	}
	q += ` ORDER BY o.scheduled_at ASC`

	return r.queryOrders(ctx, q, staffID, StatusDone, StatusCancelled)
}

func (r *repository) UpdateStatusFrom(ctx context.Context, orderID uint, from, to Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, orderID, from)
	if err != nil {
		return false, err
	}

	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *repository) List(ctx context.Context, filter *Filter) ([]*Order, error) {
	limit := int32(20)
	page := int32(1)
	if filter != nil && filter.Limit > 0 {
		limit = filter.Limit
	}
	if filter != nil && filter.Page > 0 {
		page = filter.Page
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	q := `
		SELECT ` + orderColumns + `
		FROM orders o
		WHERE 1=1
	`
	args := []any{}
	argIndex := 1

	if filter != nil && filter.Status != nil {
		q += fmt.Sprintf(" AND o.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	q += fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	return r.queryOrders(ctx, q, args...)
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

func (r *repository) OverrideStatus(ctx context.Context, orderID uint, to Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, to, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
