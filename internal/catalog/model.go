package catalog

import "time"

// CareService is one bookable entry in the plant-care catalog. The order
// engine only ever reads these; pricing is snapshotted onto line items at
// booking time.
type CareService struct {
	ID        uint
	Name      string
	Price     float64
	// Duration of one visit, in minutes.
	Duration  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateServiceInput struct {
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Duration int     `json:"duration" validate:"required,gt=0"`
}

type UpdateServiceInput struct {
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Duration int     `json:"duration" validate:"required,gt=0"`
	Active   bool    `json:"active"`
}
