package income

import (
	"context"
	"database/sql"

	"plantcare-be/internal/order"
)

type Repository interface {
	// CountCompleted is the staff member's lifetime count of DONE orders.
	CountCompleted(ctx context.Context, staffID uint) (int, error)

	// InsertBonus writes the bonus unless one already exists for the
	// order; inserted is false on the duplicate path.
	InsertBonus(ctx context.Context, b *Bonus) (inserted bool, err error)

	ListByStaff(ctx context.Context, staffID uint) ([]*Bonus, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountCompleted(ctx context.Context, staffID uint) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM orders o
		JOIN assignments a ON a.order_id = o.id
		WHERE a.staff_id = $1 AND o.status = $2
	`, staffID, order.StatusDone).Scan(&n)

	return n, err
}

func (r *repository) InsertBonus(ctx context.Context, b *Bonus) (bool, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bonuses (order_id, staff_id, milestone, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id) DO NOTHING
		RETURNING id, created_at
	`, b.OrderID, b.StaffID, b.Milestone, b.Amount).
		Scan(&b.ID, &b.CreatedAt)

	if err == sql.ErrNoRows {
		// Conflict path: this order already paid out.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *repository) ListByStaff(ctx context.Context, staffID uint) ([]*Bonus, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, staff_id, milestone, amount, created_at
		FROM bonuses
		WHERE staff_id = $1
		ORDER BY created_at DESC
	`, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Bonus
	for rows.Next() {
		var b Bonus
		if err := rows.Scan(
			&b.ID, &b.OrderID, &b.StaffID, &b.Milestone, &b.Amount, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, &b)
	}

	return res, rows.Err()
}
