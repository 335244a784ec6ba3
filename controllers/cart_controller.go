package controllers

import (
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/resp"
	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/angr3yo/Food-Delivery-DBMS/utils"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	Svc      *services.CartService
	Payments *services.PaymentLedger
}

func NewCartController(s *services.CartService, payments *services.PaymentLedger) *CartController {
	return &CartController{Svc: s, Payments: payments}
}

// GET /cart
// Viewing the cart also makes sure the customer has a payment method to pick.
func (h *CartController) Get(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if err := h.Payments.EnsureDefault(uid); err != nil {
		resp.Error(c, err, "")
		return
	}
	methods, err := h.Payments.List(uid)
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.OK(c, gin.H{"cart": h.Svc.View(loadCart(c)), "paymentMethods": methods})
}

// GET /cart/count
func (h *CartController) Count(c *gin.Context) {
	resp.OK(c, gin.H{"count": loadCart(c).Count()})
}

// POST /cart/items
func (h *CartController) Add(c *gin.Context) {
	var req services.AddToCartIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	ct := loadCart(c)
	warning, err := h.Svc.AddItem(ct, req)
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	if err := saveCart(c, ct); err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.CreatedWith(c, h.Svc.View(ct), resp.Extra{Message: "Item added to cart.", Warning: warning})
}

type UpdateCartItemRequest struct {
	Action string `json:"action" binding:"required,oneof=increase decrease"`
}

// PATCH /cart/items/:itemId
func (h *CartController) Update(c *gin.Context) {
	itemID, ok := utils.ParamUint(c, "itemId")
	if !ok {
		resp.BadRequest(c, "invalid item id")
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	ct := loadCart(c)
	if err := h.Svc.UpdateQuantity(ct, itemID, req.Action); err != nil {
		resp.Error(c, err, "/cart")
		return
	}
	if err := saveCart(c, ct); err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.OK(c, h.Svc.View(ct))
}

// DELETE /cart/items/:itemId
func (h *CartController) Remove(c *gin.Context) {
	itemID, ok := utils.ParamUint(c, "itemId")
	if !ok {
		resp.BadRequest(c, "invalid item id")
		return
	}

	ct := loadCart(c)
	if err := h.Svc.RemoveItem(ct, itemID); err != nil {
		resp.Error(c, err, "/cart")
		return
	}
	if err := saveCart(c, ct); err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.OKWith(c, h.Svc.View(ct), resp.Extra{Message: "Item removed from cart."})
}

// DELETE /cart
func (h *CartController) Clear(c *gin.Context) {
	if err := clearCart(c); err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.OKWith(c, h.Svc.View(loadCart(c)), resp.Extra{Message: "Cart cleared."})
}
