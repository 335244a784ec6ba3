package controllers

import (
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/resp"
	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/angr3yo/Food-Delivery-DBMS/utils"
	"github.com/gin-gonic/gin"
)

type PaymentController struct{ Ledger *services.PaymentLedger }

func NewPaymentController(l *services.PaymentLedger) *PaymentController {
	return &PaymentController{Ledger: l}
}

// GET /payment-methods
func (ctl *PaymentController) List(c *gin.Context) {
	methods, err := ctl.Ledger.List(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.OK(c, methods)
}

type PaymentMethodRequest struct {
	PaymentType string `json:"paymentType" binding:"required"`
}

// POST /payment-methods
// Returns the existing method when the customer already has that type.
func (ctl *PaymentController) Create(c *gin.Context) {
	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	pm, err := ctl.Ledger.GetOrCreate(ctl.Ledger.DB, utils.CurrentUserID(c), req.PaymentType)
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.OK(c, pm)
}
