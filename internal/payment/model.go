package payment

import "time"

const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

// Payment is owned by an external payment collaborator; the core writes the
// initial pending record at booking and reads paid sums for reporting.
type Payment struct {
	ID        uint
	OrderID   uint
	Method    string
	Status    string
	Amount    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
