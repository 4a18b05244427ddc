package voucher

import "time"

// Voucher is issued to one user by an external collaborator. The core only
// reads it at booking time and flips the used flag when applied.
type Voucher struct {
	ID        uint
	Code      string
	UserID    uint
	Percent   float64
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Valid reports whether the voucher can discount an order for userID at now.
func (v *Voucher) Valid(userID uint, now time.Time) bool {
	if v.UserID != userID || v.Used {
		return false
	}
	if v.Percent <= 0 || v.Percent > 100 {
		return false
	}
	return now.Before(v.ExpiresAt)
}

type CreateVoucherInput struct {
	Code      string    `json:"code" validate:"required"`
	UserID    uint      `json:"user_id" validate:"required"`
	Percent   float64   `json:"percent" validate:"required,gt=0,lte=100"`
	ExpiresAt time.Time `json:"expires_at" validate:"required"`
}
