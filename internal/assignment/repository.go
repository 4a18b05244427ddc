package assignment

import (
	"context"
	"database/sql"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/logger"
	"plantcare-be/internal/order"

	"go.uber.org/zap"
)

type Repository interface {
	// ActiveFor returns nil without error when the order is unassigned.
	ActiveFor(ctx context.Context, orderID uint) (*Assignment, error)

	// AssignTx creates or replaces the order's assignment (admin path).
	// The order row is locked for the duration so the status check cannot
	// race a concurrent staff advance; orders past ACCEPTED are rejected.
	AssignTx(ctx context.Context, orderID, staffID uint) error

	Delete(ctx context.Context, orderID, staffID uint) error

	// AcceptTx is the staff self-claim: assignment insert plus the
	// pending→accepted swap in one transaction. Exactly one of two
	// concurrent calls succeeds; the loser gets a conflict.
	AcceptTx(ctx context.Context, orderID, staffID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ActiveFor(ctx context.Context, orderID uint) (*Assignment, error) {
	var a Assignment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, staff_id, assigned_at
		FROM assignments
		WHERE order_id = $1
		LIMIT 1
	`, orderID).Scan(&a.ID, &a.OrderID, &a.StaffID, &a.AssignedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *repository) AssignTx(ctx context.Context, orderID, staffID uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Assignment"),
		zap.String("method", "AssignTx"),
		zap.Uint("order_id", orderID),
		zap.Uint("staff_id", staffID),
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

	// The row lock holds off a concurrent advance until we commit;
	// without it the status read below could go stale under our feet.
	var status order.Status
	err = tx.QueryRowContext(ctx, `
		SELECT status FROM orders WHERE id = $1 FOR UPDATE
	`, orderID).Scan(&status)
	if err == sql.ErrNoRows {
		return apperr.NotFound("order")
	}
	if err != nil {
		log.Error("failed to lock order row", zap.Error(err))
		return err
	}

	// Reassignment stops once work is underway.
	if status != order.StatusPending && status != order.StatusAccepted {
		return apperr.IllegalTransition("order can no longer be reassigned")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO assignments (order_id, staff_id)
		VALUES ($1, $2)
		ON CONFLICT (order_id)
		DO UPDATE SET staff_id = EXCLUDED.staff_id, assigned_at = NOW()
	`, orderID, staffID)
	if err != nil {
		log.Error("failed to upsert assignment", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit assign transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("staff assigned")
	return nil
}

func (r *repository) Delete(ctx context.Context, orderID, staffID uint) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM assignments WHERE order_id = $1 AND staff_id = $2
	`, orderID, staffID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repository) AcceptTx(ctx context.Context, orderID, staffID uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Assignment"),
		zap.String("method", "AcceptTx"),
		zap.Uint("order_id", orderID),
		zap.Uint("staff_id", staffID),
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

	res, err := tx.ExecContext(ctx, `
		INSERT INTO assignments (order_id, staff_id)
		VALUES ($1, $2)
		ON CONFLICT (order_id) DO NOTHING
	`, orderID, staffID)
	if err != nil {
		log.Error("failed to insert assignment", zap.Error(err))
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return apperr.Conflict("order already assigned")
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, order.StatusAccepted, orderID, order.StatusPending)
	if err != nil {
		log.Error("failed to advance order status", zap.Error(err))
		return err
	}

	affected, _ = res.RowsAffected()
	if affected == 0 {
		// Cancelled (or overridden) between listing and claiming.
		return apperr.Conflict("order is no longer pending")
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit accept transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order accepted")
	return nil
}
