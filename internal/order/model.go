package order

import (
	"time"

	"plantcare-be/internal/payment"
)

type Order struct {
	ID          uint
	UserID      uint
	PlantID     *uint
	VoucherCode *string
	ScheduledAt time.Time
	Address     string
	Phone       *string
	Note        *string
	Status      Status
	// Total is the sum of line-item subtotals minus Discount.
	Total     float64
	Discount  float64
	CreatedAt time.Time
	UpdatedAt time.Time
	Items     []OrderItem

	// Payment is attached on detail reads only.
	Payment *payment.Payment `json:",omitempty"`
}

// OrderItem snapshots the catalog price at booking time so later catalog
// edits never change a booked total.
type OrderItem struct {
	ID          uint
	OrderID     uint
	ServiceID   uint
	ServiceName string
	Quantity    int
	Price       float64
	Subtotal    float64
}

type LineItemInput struct {
	ServiceID uint `json:"service_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type CreateOrderInput struct {
	Items       []LineItemInput `json:"items" validate:"required,min=1,dive"`
	ScheduledAt time.Time       `json:"scheduled_at" validate:"required"`
	Address     string          `json:"address" validate:"required"`
	PlantID     *uint           `json:"plant_id"`
	VoucherCode *string         `json:"voucher_code"`
	Phone       *string         `json:"phone"`
	Note        *string         `json:"note"`
}

type Filter struct {
	Status *Status
	Limit  int32
	Page   int32
}
