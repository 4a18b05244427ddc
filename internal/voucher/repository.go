package voucher

import (
	"context"
	"database/sql"
)

type Repository interface {
	FindForUser(ctx context.Context, code string, userID uint) (*Voucher, error)
	Create(ctx context.Context, v *Voucher) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// FindForUser returns nil without error when no such voucher exists; an
// unknown code is not a failure at booking time.
func (r *repository) FindForUser(ctx context.Context, code string, userID uint) (*Voucher, error) {
	const q = `
		SELECT id, code, user_id, percent, expires_at, used, created_at
		FROM vouchers
		WHERE code = $1 AND user_id = $2
		LIMIT 1
	`

	var v Voucher
	err := r.db.QueryRowContext(ctx, q, code, userID).Scan(
		&v.ID, &v.Code, &v.UserID, &v.Percent, &v.ExpiresAt, &v.Used, &v.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &v, nil
}

// Create is the issuance stub for the external voucher collaborator.
func (r *repository) Create(ctx context.Context, v *Voucher) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO vouchers (code, user_id, percent, expires_at, used)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, created_at
	`, v.Code, v.UserID, v.Percent, v.ExpiresAt).
		Scan(&v.ID, &v.CreatedAt)
}
