package controllers

import (
	"fmt"

	"github.com/angr3yo/Food-Delivery-DBMS/pkg/resp"
	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/angr3yo/Food-Delivery-DBMS/utils"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders *services.OrderService
	Auth   *services.AuthService
}

func NewOrderController(orders *services.OrderService, auth *services.AuthService) *OrderController {
	return &OrderController{Orders: orders, Auth: auth}
}

type PlaceOrderRequest struct {
	PaymentMethodID uint   `json:"paymentMethodId"`
	PaymentType     string `json:"paymentType"`
}

// POST /orders
// Checks out the session cart. The cart is only cleared once the order is committed.
func (oc *OrderController) Place(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	ct := loadCart(c)
	res, err := oc.Orders.PlaceOrder(c.Request.Context(), services.PlaceOrderInput{
		CustomerID: utils.CurrentUserID(c),
		Cart:       ct,
		Payment: services.PaymentSelection{
			PaymentMethodID: req.PaymentMethodID,
			PaymentType:     req.PaymentType,
		},
	})
	if err != nil {
		resp.Error(c, err, "/cart")
		return
	}

	if err := clearCart(c); err != nil {
		resp.Logger(c).WithError(err).WithField("order_id", res.Order.ID).Error("order placed but session cart not cleared")
	}
	resp.CreatedWith(c, gin.H{"order": res.Order, "assignment": res.Assignment}, resp.Extra{
		Message:  services.MsgOrderPlaced,
		Warning:  res.Warning,
		Redirect: fmt.Sprintf("/orders/%d/confirmation", res.Order.ID),
	})
}

// GET /orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	orders, err := oc.Orders.ListForCustomer(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.OK(c, orders)
}

// GET /orders/:id/confirmation
func (oc *OrderController) Confirmation(c *gin.Context) {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid order id")
		return
	}

	order, warning, err := oc.Orders.Confirmation(utils.CurrentUserID(c), id)
	if err != nil {
		resp.Error(c, err, "/orders")
		return
	}
	resp.OKWith(c, order, resp.Extra{Warning: warning})
}

// GET /profile
func (oc *OrderController) Profile(c *gin.Context) {
	p, err := oc.Auth.CustomerProfile(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.OK(c, p)
}
