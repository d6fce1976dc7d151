package domain

import "time"

// BarberService is a bookable service from the shop catalog.
// The ID is an opaque non-empty string, unique within the catalog.
type BarberService struct {
	ID          string    `gorm:"primaryKey;size:40" json:"id"`
	Name        string    `gorm:"size:200;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `json:"price"`
	Image       string    `gorm:"type:text" json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (BarberService) TableName() string {
	return "services"
}

func (s BarberService) EntityID() string {
	return s.ID
}
