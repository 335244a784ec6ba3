package routes

import (
	"net/http"

	"github.com/angr3yo/Food-Delivery-DBMS/configs"
	"github.com/angr3yo/Food-Delivery-DBMS/controllers"
	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/angr3yo/Food-Delivery-DBMS/middlewares"
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/cache"
	"github.com/angr3yo/Food-Delivery-DBMS/repository"
	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/angr3yo/Food-Delivery-DBMS/ws"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators built in main.
type Deps struct {
	DB     *gorm.DB
	Config *configs.Config
	Cache  cache.Cache
	Events services.EventPublisher
	Hub    *ws.OrderHub
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	db := d.DB

	// Repositories
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)

	// Services
	catalog := services.NewCatalogService(
		repository.NewRestaurantRepository(db), repository.NewMenuRepository(db), d.Cache, cfg.CatalogCacheTTL)
	ledger := services.NewPaymentLedger(db, repository.NewPaymentRepository(db))
	assigner := services.NewAssignmentService(db, orderRepo, orderRepo, employeeRepo, vehicleRepo,
		repository.NewAssignmentRepository(db), d.Events)
	orders := services.NewOrderService(db, orderRepo, orderRepo, catalog, ledger, assigner, d.Events)
	auth := services.NewAuthService(userRepo, orderRepo, ledger, cfg.JWTSecret, cfg.JWTTTL)
	fleet := services.NewFleetService(db, userRepo, employeeRepo, vehicleRepo)

	// Controllers
	authCtrl := controllers.NewAuthController(auth)
	restCtrl := controllers.NewRestaurantController(catalog)
	cartCtrl := controllers.NewCartController(services.NewCartService(catalog), ledger)
	payCtrl := controllers.NewPaymentController(ledger)
	orderCtrl := controllers.NewOrderController(orders, auth)
	driverCtrl := controllers.NewDriverController(assigner)
	adminCtrl := controllers.NewAdminController(fleet, assigner)

	anyUser := middlewares.AuthMiddleware(cfg.JWTSecret)
	customer := middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleCustomer)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	// Auth
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
		a.POST("/logout", anyUser, authCtrl.Logout)
		a.GET("/me", anyUser, authCtrl.Me)
	}

	// Catalog (public)
	r.GET("/restaurants", restCtrl.List)
	r.GET("/restaurants/:id/menu", restCtrl.Menu)

	// Cart
	r.GET("/cart/count", middlewares.OptionalAuth(cfg.JWTSecret), cartCtrl.Count)
	cart := r.Group("/cart", customer)
	{
		cart.GET("", cartCtrl.Get)
		cart.DELETE("", cartCtrl.Clear)
		cart.POST("/items", cartCtrl.Add)
		cart.PATCH("/items/:itemId", cartCtrl.Update)
		cart.DELETE("/items/:itemId", cartCtrl.Remove)
	}

	// Customer
	u := r.Group("/", customer)
	{
		u.GET("/payment-methods", payCtrl.List)
		u.POST("/payment-methods", payCtrl.Create)
		u.POST("/orders", orderCtrl.Place)
		u.GET("/orders", orderCtrl.ListForMe)
		u.GET("/orders/:id/confirmation", orderCtrl.Confirmation)
		u.GET("/profile", orderCtrl.Profile)
	}

	// Driver
	drv := r.Group("/driver", middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleDriver))
	{
		drv.GET("/work", driverCtrl.Work)
		drv.POST("/orders/:id/complete", driverCtrl.Complete)
	}

	// Admin
	adm := r.Group("/admin", middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleAdmin))
	{
		adm.POST("/restaurants", restCtrl.Create)
		adm.POST("/restaurants/:id/menu", restCtrl.CreateMenuItem)
		adm.POST("/employees", adminCtrl.CreateEmployee)
		adm.POST("/vehicles", adminCtrl.CreateVehicle)
		adm.POST("/orders/:id/assign", adminCtrl.AssignOrder)
	}

	// WebSocket
	if d.Hub != nil {
		wsGroup := r.Group("/ws", middlewares.WSAuthMiddleware(cfg.JWTSecret))
		wsGroup.GET("/orders/:id", d.Hub.HandleWebSocket)
	}
}
