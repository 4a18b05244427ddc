package plant

import "time"

// Plant belongs to exactly one customer. Orders may reference it but never
// mutate it.
type Plant struct {
	ID          uint
	UserID      uint
	Name        string
	Type        string
	Location    *string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreatePlantInput struct {
	Name        string  `json:"name" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

type UpdatePlantInput struct {
	Name        string  `json:"name" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}
