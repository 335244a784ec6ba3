package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	TotalPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
	DeliveryStatus string          `gorm:"size:20;not null;default:Pending;index" json:"deliveryStatus"`

	CustomerID uint `gorm:"index;not null" json:"customerId"`
	Customer   User `json:"-"`

	RestaurantID uint        `gorm:"index;not null" json:"restaurantId"`
	Restaurant   *Restaurant `json:"restaurant,omitempty"` // preload when needed

	PaymentMethodID uint          `gorm:"not null" json:"paymentMethodId"`
	PaymentMethod   PaymentMethod `json:"-"`

	// preload only for detail/confirmation
	Lines      []OrderLine `gorm:"constraint:OnDelete:CASCADE" json:"lines,omitempty"`
	Assignment *Assignment `json:"assignment,omitempty"`
}
