package controllers

import (
	"encoding/json"

	"github.com/angr3yo/Food-Delivery-DBMS/cart"
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/resp"
	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/angr3yo/Food-Delivery-DBMS/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const cartSessionKey = "cart"

// sessionCart is the session value: the cart plus the customer who built it.
type sessionCart struct {
	CustomerID uint       `json:"customerId"`
	Cart       *cart.Cart `json:"cart"`
}

// loadCart decodes the cart kept in the session. A missing or unreadable
// value, or a cart built by another customer, yields an empty cart.
func loadCart(c *gin.Context) *cart.Cart {
	raw, ok := sessions.Default(c).Get(cartSessionKey).(string)
	if !ok || raw == "" {
		return cart.New()
	}
	var sc sessionCart
	if err := json.Unmarshal([]byte(raw), &sc); err != nil || sc.Cart == nil {
		resp.Logger(c).WithError(err).Warn("discarding unreadable session cart")
		return cart.New()
	}
	if uid := utils.CurrentUserID(c); uid == 0 || sc.CustomerID != uid {
		return cart.New()
	}
	return sc.Cart
}

// saveCart writes the cart back under the current customer. It must run
// before the response body is written.
func saveCart(c *gin.Context, ct *cart.Cart) error {
	s := sessions.Default(c)
	if ct == nil || ct.IsEmpty() {
		s.Delete(cartSessionKey)
		return s.Save()
	}
	raw, err := json.Marshal(sessionCart{CustomerID: utils.CurrentUserID(c), Cart: ct})
	if err != nil {
		return err
	}
	s.Set(cartSessionKey, string(raw))
	if err := s.Save(); err != nil {
		// the cookie store only fails when the encoded cart outgrows the cookie
		resp.Logger(c).WithError(err).WithField("lines", len(ct.Lines)).Warn("session cart not saved")
		return &services.ValidationError{Field: "cart", Msg: "is too large to keep, remove some items"}
	}
	return nil
}

func clearCart(c *gin.Context) error {
	return saveCart(c, nil)
}
