// Package cart holds the per-session shopping cart. A cart only ever contains
// items of a single restaurant.
package cart

import (
	"github.com/shopspring/decimal"
)

// Line is one distinct menu item in the cart.
type Line struct {
	ItemID    uint            `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is keyed to RestaurantID while it has lines; an empty cart has
// RestaurantID 0.
type Cart struct {
	RestaurantID uint   `json:"restaurantId,omitempty"`
	Lines        []Line `json:"lines,omitempty"`
}

const (
	// MaxQuantity caps a single line.
	MaxQuantity = 99
	// MaxLines caps distinct items; the cart has to fit in a session cookie.
	MaxLines = 20
)

func New() *Cart { return &Cart{} }

func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// Add puts line under restaurantID, incrementing the quantity when the item is
// already there. When the cart holds another restaurant's items they are
// discarded first and cleared is true. A non-positive quantity counts as 1 and
// a line never exceeds MaxQuantity.
func (c *Cart) Add(restaurantID uint, line Line) (cleared bool) {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	line.Quantity = min(line.Quantity, MaxQuantity)
	if !c.IsEmpty() && c.RestaurantID != restaurantID {
		c.Clear()
		cleared = true
	}
	c.RestaurantID = restaurantID

	if i := c.index(line.ItemID); i >= 0 {
		c.Lines[i].Quantity = min(c.Lines[i].Quantity+line.Quantity, MaxQuantity)
		return cleared
	}
	c.Lines = append(c.Lines, line)
	return cleared
}

// Increment adds one to the item's quantity, stopping at MaxQuantity. It
// reports false if the item is not in the cart.
func (c *Cart) Increment(itemID uint) bool {
	i := c.index(itemID)
	if i < 0 {
		return false
	}
	if c.Lines[i].Quantity < MaxQuantity {
		c.Lines[i].Quantity++
	}
	return true
}

// Decrement takes one off the item's quantity and drops the line at zero.
func (c *Cart) Decrement(itemID uint) bool {
	i := c.index(itemID)
	if i < 0 {
		return false
	}
	if c.Lines[i].Quantity <= 1 {
		c.removeAt(i)
		return true
	}
	c.Lines[i].Quantity--
	return true
}

// Remove drops the item's line regardless of quantity.
func (c *Cart) Remove(itemID uint) bool {
	i := c.index(itemID)
	if i < 0 {
		return false
	}
	c.removeAt(i)
	return true
}

func (c *Cart) Clear() {
	c.RestaurantID = 0
	c.Lines = nil
}

// Line returns a copy of the item's line.
func (c *Cart) Line(itemID uint) (Line, bool) {
	if i := c.index(itemID); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

// Count is the sum of quantities.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) index(itemID uint) int {
	for i, l := range c.Lines {
		if l.ItemID == itemID {
			return i
		}
	}
	return -1
}

// removing the last line also releases the restaurant key
func (c *Cart) removeAt(i int) {
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	if len(c.Lines) == 0 {
		c.Clear()
	}
}
