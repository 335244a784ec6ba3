package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultPaymentType = "Cash"

type PaymentMethod struct {
	gorm.Model
	PaymentType string          `gorm:"size:50;not null;uniqueIndex:idx_customer_payment_type" json:"paymentType"`
	TotalSpend  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"totalSpend"`

	CustomerID uint `gorm:"not null;uniqueIndex:idx_customer_payment_type" json:"customerId"`
	Customer   User `json:"-"`

	Orders []Order `json:"-"`
}
