package entity

import (
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleDriver   = "driver"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `gorm:"not null;default:customer" json:"role"`

	// preload only when needed
	Orders         []Order         `gorm:"foreignKey:CustomerID" json:"-"`
	PaymentMethods []PaymentMethod `gorm:"foreignKey:CustomerID" json:"-"`
	Employee       *Employee       `gorm:"foreignKey:UserID" json:"-"`
}
