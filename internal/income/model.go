package income

import "time"

// Bonus is one milestone payout. order_id is unique in storage, which is
// what makes emission idempotent under completion retries.
type Bonus struct {
	ID        uint
	OrderID   uint
	StaffID   uint
	Milestone int
	Amount    float64
	CreatedAt time.Time
}

// Summary is a staff member's bonus history plus aggregate earnings.
type Summary struct {
	Bonuses []*Bonus `json:"bonuses"`
	Total   float64  `json:"total"`
}
