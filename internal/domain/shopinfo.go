package domain

import "time"

// ShopInfoID is the fixed synthetic id of the single logical shop row.
const ShopInfoID int64 = 1

// ShopInfo holds the barbershop metadata shown on the home screen.
// It is a singleton row; every mutation is an upsert keyed by ShopInfoID.
type ShopInfo struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:200" json:"name"`
	Address      string    `gorm:"size:200" json:"address"`
	Neighborhood string    `gorm:"size:100" json:"neighborhood"`
	City         string    `gorm:"size:100" json:"city"`
	Number       string    `gorm:"size:20" json:"number"`
	OpeningHours string    `gorm:"size:100" json:"openingHours"`
	Whatsapp     string    `gorm:"size:32" json:"whatsapp"`
	Logo         string    `gorm:"type:text" json:"logo,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName Specify table name
func (ShopInfo) TableName() string {
	return "barbershop_info"
}
