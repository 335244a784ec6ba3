package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine has no soft delete so that it goes away together with its order.
type OrderLine struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"unitPrice"`

	OrderID uint  `gorm:"uniqueIndex:idx_order_line_item;not null" json:"orderId"`
	Order   Order `json:"-"`

	MenuItemID uint     `gorm:"uniqueIndex:idx_order_line_item;not null" json:"menuItemId"`
	MenuItem   MenuItem `json:"-"`
}
