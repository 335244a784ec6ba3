package services

import (
	"fmt"

	"github.com/angr3yo/Food-Delivery-DBMS/cart"
	"github.com/shopspring/decimal"
)

// CartService applies cart operations on a session cart. It never persists the
// cart; the web layer loads and saves it around each request.
type CartService struct {
	Catalog *CatalogService
}

func NewCartService(catalog *CatalogService) *CartService {
	return &CartService{Catalog: catalog}
}

type AddToCartIn struct {
	MenuItemID uint `json:"menuItemId" binding:"required"`
	Quantity   int  `json:"quantity" binding:"min=0,max=99"`
}

// AddItem resolves the menu item and adds it. When the cart belonged to another
// restaurant it is emptied first and warning explains what happened.
func (s *CartService) AddItem(c *cart.Cart, in AddToCartIn) (warning string, err error) {
	if in.Quantity < 0 || in.Quantity > cart.MaxQuantity {
		return "", &ValidationError{Field: "quantity", Msg: fmt.Sprintf("must be between 0 and %d", cart.MaxQuantity)}
	}
	item, err := s.Catalog.GetMenuItem(in.MenuItemID)
	if err != nil {
		return "", err
	}
	if !item.Available {
		return "", &ValidationError{Field: "menuItemId", Msg: "item is not available"}
	}

	existing, inCart := c.Line(item.ID)
	switch {
	case inCart && existing.Quantity+max(in.Quantity, 1) > cart.MaxQuantity:
		return "", &ValidationError{Field: "quantity", Msg: fmt.Sprintf("at most %d of one item", cart.MaxQuantity)}
	case !inCart && c.RestaurantID == item.RestaurantID && len(c.Lines) >= cart.MaxLines:
		return "", &ValidationError{Field: "cart", Msg: fmt.Sprintf("cannot hold more than %d different items", cart.MaxLines)}
	}

	previous := c.RestaurantID
	cleared := c.Add(item.RestaurantID, cart.Line{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  in.Quantity,
	})
	if !cleared {
		return "", nil
	}

	name := fmt.Sprintf("restaurant #%d", previous)
	if r, err := s.Catalog.GetRestaurant(previous); err == nil {
		name = r.Name
	}
	return fmt.Sprintf("You can only order from one restaurant at a time. Your cart from %s has been cleared.", name), nil
}

const (
	QuantityIncrease = "increase"
	QuantityDecrease = "decrease"
)

// UpdateQuantity applies an increase/decrease action to one line.
func (s *CartService) UpdateQuantity(c *cart.Cart, itemID uint, action string) error {
	var ok bool
	switch action {
	case QuantityIncrease:
		if l, found := c.Line(itemID); found && l.Quantity >= cart.MaxQuantity {
			return &ValidationError{Field: "quantity", Msg: fmt.Sprintf("at most %d of one item", cart.MaxQuantity)}
		}
		ok = c.Increment(itemID)
	case QuantityDecrease:
		ok = c.Decrement(itemID)
	default:
		return &ValidationError{Field: "action", Msg: "must be increase or decrease"}
	}
	if !ok {
		return &MenuItemNotFoundError{ID: itemID}
	}
	return nil
}

func (s *CartService) RemoveItem(c *cart.Cart, itemID uint) error {
	if !c.Remove(itemID) {
		return &MenuItemNotFoundError{ID: itemID}
	}
	return nil
}

type CartLineView struct {
	ItemID    uint            `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	RestaurantID   uint            `json:"restaurantId,omitempty"`
	RestaurantName string          `json:"restaurantName,omitempty"`
	Lines          []CartLineView  `json:"lines"`
	Count          int             `json:"count"`
	Total          decimal.Decimal `json:"total"`
}

// View is a read-only projection of the cart.
func (s *CartService) View(c *cart.Cart) CartView {
	v := CartView{
		RestaurantID: c.RestaurantID,
		Lines:        make([]CartLineView, 0, len(c.Lines)),
		Count:        c.Count(),
		Total:        c.Total(),
	}
	for _, l := range c.Lines {
		v.Lines = append(v.Lines, CartLineView{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal(),
		})
	}
	if c.RestaurantID != 0 {
		if r, err := s.Catalog.GetRestaurant(c.RestaurantID); err == nil {
			v.RestaurantName = r.Name
		}
	}
	return v
}
