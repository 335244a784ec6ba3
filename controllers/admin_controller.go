package controllers

import (
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/resp"
	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/angr3yo/Food-Delivery-DBMS/utils"
	"github.com/gin-gonic/gin"
)

// AdminController covers the fleet and manual assignment. Catalog writes live
// on RestaurantController.
type AdminController struct {
	Fleet    *services.FleetService
	Assigner *services.AssignmentService
}

func NewAdminController(fleet *services.FleetService, assigner *services.AssignmentService) *AdminController {
	return &AdminController{Fleet: fleet, Assigner: assigner}
}

// POST /admin/employees
func (ac *AdminController) CreateEmployee(c *gin.Context) {
	var req services.CreateEmployeeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	emp, err := ac.Fleet.CreateEmployee(req)
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.Created(c, emp)
}

// POST /admin/vehicles
func (ac *AdminController) CreateVehicle(c *gin.Context) {
	var req services.CreateVehicleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	v, err := ac.Fleet.CreateVehicle(req)
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.Created(c, v)
}

// POST /admin/orders/:id/assign
func (ac *AdminController) AssignOrder(c *gin.Context) {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid order id")
		return
	}

	a, err := ac.Assigner.RetryPending(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.OK(c, a)
}
