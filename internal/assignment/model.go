package assignment

import "time"

// Assignment binds one staff member to one order. The orders table never
// carries more than one active assignment; the unique constraint on
// order_id is what makes concurrent self-claims race safely.
type Assignment struct {
	ID         uint
	OrderID    uint
	StaffID    uint
	AssignedAt time.Time
}
