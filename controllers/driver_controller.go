package controllers

import (
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/resp"
	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/angr3yo/Food-Delivery-DBMS/utils"
	"github.com/gin-gonic/gin"
)

type DriverController struct{ Svc *services.AssignmentService }

func NewDriverController(s *services.AssignmentService) *DriverController {
	return &DriverController{Svc: s}
}

// GET /driver/work
func (h *DriverController) Work(c *gin.Context) {
	work, err := h.Svc.CurrentWork(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.OK(c, work)
}

// POST /driver/orders/:id/complete
func (h *DriverController) Complete(c *gin.Context) {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid order id")
		return
	}

	if err := h.Svc.CompleteDelivery(c.Request.Context(), utils.CurrentUserID(c), id); err != nil {
		resp.Error(c, err, "/driver/work")
		return
	}
	resp.OKWith(c, gin.H{"orderId": id}, resp.Extra{Message: "Delivery completed.", Redirect: "/driver/work"})
}
