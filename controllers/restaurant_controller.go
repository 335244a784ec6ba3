package controllers

import (
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/resp"
	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/angr3yo/Food-Delivery-DBMS/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RestaurantController struct{ Catalog *services.CatalogService }

func NewRestaurantController(s *services.CatalogService) *RestaurantController {
	return &RestaurantController{Catalog: s}
}

// GET /restaurants
func (ctl *RestaurantController) List(c *gin.Context) {
	rests, err := ctl.Catalog.ListRestaurants(c.Request.Context())
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.OK(c, rests)
}

// GET /restaurants/:id/menu
func (ctl *RestaurantController) Menu(c *gin.Context) {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid restaurant id")
		return
	}

	rest, err := ctl.Catalog.GetRestaurant(id)
	if err != nil {
		resp.Error(c, err, "/restaurants")
		return
	}
	items, err := ctl.Catalog.ListMenu(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err, "/restaurants")
		return
	}
	resp.OK(c, gin.H{"restaurant": rest, "menu": items})
}

type CreateRestaurantRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Cuisine string `json:"cuisine"`
}

// POST /admin/restaurants
func (ctl *RestaurantController) Create(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	rest, err := ctl.Catalog.CreateRestaurant(c.Request.Context(), services.CreateRestaurantInput{
		Name: req.Name, Address: req.Address, Cuisine: req.Cuisine,
	})
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.Created(c, rest)
}

type CreateMenuItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// POST /admin/restaurants/:id/menu
func (ctl *RestaurantController) CreateMenuItem(c *gin.Context) {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid restaurant id")
		return
	}
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	item, err := ctl.Catalog.CreateMenuItem(c.Request.Context(), id, services.CreateMenuItemInput{
		Name: req.Name, Description: req.Description, Price: req.Price,
	})
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.Created(c, item)
}
