package domain

import (
	"time"

	"github.com/barbeariaprime/primeapp/pkg/common"
)

// Profile is the customer profile, paired 1:1 with an Account.
type Profile struct {
	AccountID    string    `gorm:"primaryKey;size:40;column:account_id" json:"account_id"`
	Name         string    `gorm:"size:200" json:"name"`
	Phone        string    `gorm:"size:32" json:"phone"`
	Address      string    `gorm:"size:200" json:"address"`
	Neighborhood string    `gorm:"size:100" json:"neighborhood"`
	City         string    `gorm:"size:100" json:"city"`
	HouseNumber  string    `gorm:"size:20" json:"houseNumber"`
	Complement   string    `gorm:"size:200" json:"complement"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Profile) TableName() string {
	return "profiles"
}

// Complete reports whether all required fields are filled in.
// Complement is optional. An incomplete profile never blocks other usage.
func (p Profile) Complete() bool {
	return !common.EmptyAny(p.Name, p.Phone, p.Address, p.Neighborhood, p.City, p.HouseNumber)
}

// Account is an authenticated customer account.
type Account struct {
	ID           string    `gorm:"primaryKey;size:40" json:"id"`
	Email        string    `gorm:"size:200;uniqueIndex" json:"email"`
	Phone        string    `gorm:"size:32;index" json:"phone"`
	PasswordHash string    `gorm:"size:200" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Account) TableName() string {
	return "accounts"
}
