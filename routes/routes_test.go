package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/angr3yo/Food-Delivery-DBMS/configs"
	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/angr3yo/Food-Delivery-DBMS/middlewares"
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/cache"
	"github.com/angr3yo/Food-Delivery-DBMS/repository"
	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/angr3yo/Food-Delivery-DBMS/ws"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	OK       bool            `json:"ok"`
	Data     json.RawMessage `json:"data"`
	Error    string          `json:"error"`
	Message  string          `json:"message"`
	Warning  string          `json:"warning"`
	Redirect string          `json:"redirect"`
}

type testApp struct {
	db  *gorm.DB
	srv *httptest.Server
	hub *ws.OrderHub
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &configs.Config{
		DBDriver:        "sqlite",
		DBSource:        fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", strings.ReplaceAll(t.Name(), "/", "_")),
		JWTSecret:       "test-secret",
		JWTTTL:          time.Hour,
		SessionSecret:   "test-session-secret",
		SessionName:     "food_session",
		CatalogCacheTTL: time.Minute,
		AdminEmail:      "admin@example.com",
		AdminPassword:   "admin-pass",
	}
	db, err := configs.ConnectionDB(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, configs.SetupDatabase(db))
	require.NoError(t, configs.SeedAdmin(db, cfg))

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewOrderHub(repository.NewOrderRepository(db))
	go hub.Run(ctx)

	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(), middlewares.Sessions(cfg.SessionName, cfg.SessionSecret))
	RegisterRoutes(r, Deps{DB: db, Config: cfg, Cache: cache.Nop(), Events: services.FanOut{hub}, Hub: hub})

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		_ = sqlDB.Close()
	})
	return &testApp{db: db, srv: srv, hub: hub}
}

// client keeps its own cookie jar, so it owns one session and one cart.
type client struct {
	t     *testing.T
	app   *testApp
	http  *http.Client
	token string
}

func (a *testApp) client(t *testing.T) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, app: a, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body any) (int, envelope) {
	c.t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, c.app.srv.URL+path, rdr)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()

	var env envelope
	require.NoError(c.t, json.NewDecoder(res.Body).Decode(&env))
	return res.StatusCode, env
}

func (c *client) login(email, password string) {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/auth/login", gin.H{"email": email, "password": password})
	require.Equal(c.t, http.StatusOK, status, env.Error)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &data))
	c.token = data.Token
}

func (c *client) registerCustomer(email string) {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/auth/register", gin.H{
		"email": email, "password": "secret123", "firstName": "Asha", "lastName": "Rao",
	})
	require.Equal(c.t, http.StatusCreated, status, env.Error)
	c.login(email, "secret123")
}

func (a *testApp) seedCatalog(t *testing.T) {
	t.Helper()
	rests := []entity.Restaurant{{Name: "Biryani House"}, {Name: "Luigi's"}}
	for i := range rests {
		rests[i].ID = uint(i + 5)
		require.NoError(t, a.db.Create(&rests[i]).Error)
	}
	items := []entity.MenuItem{
		{RestaurantID: 5, Name: "Chicken Biryani", Price: decimal.RequireFromString("8.50"), Available: true},
		{RestaurantID: 5, Name: "Gulab Jamun", Price: decimal.RequireFromString("3.00"), Available: true},
		{RestaurantID: 6, Name: "Margherita", Price: decimal.RequireFromString("9.00"), Available: true},
	}
	for i := range items {
		items[i].ID = uint(i + 10)
		require.NoError(t, a.db.Create(&items[i]).Error)
	}
}

func TestHealthAndCatalog(t *testing.T) {
	app := newTestApp(t)
	app.seedCatalog(t)
	anon := app.client(t)

	status, env := anon.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.OK)

	status, env = anon.do(http.MethodGet, "/restaurants", nil)
	require.Equal(t, http.StatusOK, status)
	var rests []entity.Restaurant
	require.NoError(t, json.Unmarshal(env.Data, &rests))
	require.Len(t, rests, 2)
	assert.Equal(t, "Biryani House", rests[0].Name)

	status, _ = anon.do(http.MethodGet, "/restaurants/99/menu", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCartRequiresCustomer(t *testing.T) {
	app := newTestApp(t)
	anon := app.client(t)

	status, _ := anon.do(http.MethodPost, "/cart/items", gin.H{"menuItemId": 10})
	assert.Equal(t, http.StatusUnauthorized, status)

	admin := app.client(t)
	admin.login("admin@example.com", "admin-pass")
	status, _ = admin.do(http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCheckoutThroughSessionCart(t *testing.T) {
	app := newTestApp(t)
	app.seedCatalog(t)
	cust := app.client(t)
	cust.registerCustomer("asha@example.com")

	status, env := cust.do(http.MethodPost, "/cart/items", gin.H{"menuItemId": 12})
	require.Equal(t, http.StatusCreated, status, env.Error)

	// switching restaurants empties the cart with a warning
	status, env = cust.do(http.MethodPost, "/cart/items", gin.H{"menuItemId": 10, "quantity": 2})
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.Equal(t, "You can only order from one restaurant at a time. Your cart from Luigi's has been cleared.", env.Warning)

	status, env = cust.do(http.MethodPost, "/cart/items", gin.H{"menuItemId": 11})
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.Empty(t, env.Warning)

	status, env = cust.do(http.MethodGet, "/cart/count", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"count":3}`, string(env.Data))

	status, env = cust.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var view struct {
		Cart struct {
			RestaurantID uint            `json:"restaurantId"`
			Total        decimal.Decimal `json:"total"`
		} `json:"cart"`
		PaymentMethods []entity.PaymentMethod `json:"paymentMethods"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, uint(5), view.Cart.RestaurantID)
	assert.True(t, decimal.RequireFromString("20.00").Equal(view.Cart.Total))
	require.Len(t, view.PaymentMethods, 1)
	assert.Equal(t, entity.DefaultPaymentType, view.PaymentMethods[0].PaymentType)

	status, env = cust.do(http.MethodPost, "/orders", gin.H{"paymentType": "Cash"})
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.Equal(t, services.MsgOrderPlaced, env.Message)
	// no drivers exist yet
	assert.Equal(t, services.MsgNoDriverAvailable, env.Warning)
	var placed struct {
		Order entity.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &placed))
	assert.Equal(t, fmt.Sprintf("/orders/%d/confirmation", placed.Order.ID), env.Redirect)
	assert.True(t, decimal.RequireFromString("20.00").Equal(placed.Order.TotalPrice))

	status, env = cust.do(http.MethodGet, "/cart/count", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"count":0}`, string(env.Data))

	status, env = cust.do(http.MethodGet, fmt.Sprintf("/orders/%d/confirmation", placed.Order.ID), nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, services.MsgAssignmentPending, env.Warning)

	// a second checkout of the now empty cart is sent back to the cart
	status, env = cust.do(http.MethodPost, "/orders", gin.H{"paymentType": "Cash"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "/cart", env.Redirect)

	status, env = cust.do(http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var profile struct {
		OrderCount    int64           `json:"orderCount"`
		LifetimeSpend decimal.Decimal `json:"lifetimeSpend"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, int64(1), profile.OrderCount)
	assert.True(t, decimal.RequireFromString("20.00").Equal(profile.LifetimeSpend))
}

func TestCartIsPerSession(t *testing.T) {
	app := newTestApp(t)
	app.seedCatalog(t)
	first := app.client(t)
	first.registerCustomer("one@example.com")
	second := app.client(t)
	second.registerCustomer("two@example.com")

	status, _ := first.do(http.MethodPost, "/cart/items", gin.H{"menuItemId": 10})
	require.Equal(t, http.StatusCreated, status)

	_, env := second.do(http.MethodGet, "/cart/count", nil)
	assert.JSONEq(t, `{"count":0}`, string(env.Data))

	status, _ = first.do(http.MethodPatch, "/cart/items/10", gin.H{"action": "decrease"})
	require.Equal(t, http.StatusOK, status)
	_, env = first.do(http.MethodGet, "/cart/count", nil)
	assert.JSONEq(t, `{"count":0}`, string(env.Data))

	status, _ = first.do(http.MethodPatch, "/cart/items/10", gin.H{"action": "explode"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDeliveryLifecycleOverWebSocket(t *testing.T) {
	app := newTestApp(t)
	app.seedCatalog(t)

	admin := app.client(t)
	admin.login("admin@example.com", "admin-pass")
	status, env := admin.do(http.MethodPost, "/admin/employees", gin.H{
		"firstName": "Ravi", "lastName": "K", "email": "ravi@fleet.example.com", "password": "drive123",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	status, env = admin.do(http.MethodPost, "/admin/vehicles", gin.H{"registrationNumber": "ka01ab1234", "type": "Scooter"})
	require.Equal(t, http.StatusCreated, status, env.Error)

	cust := app.client(t)
	cust.registerCustomer("asha@example.com")
	status, _ = cust.do(http.MethodPost, "/cart/items", gin.H{"menuItemId": 10})
	require.Equal(t, http.StatusCreated, status)
	status, env = cust.do(http.MethodPost, "/orders", gin.H{"paymentType": "UPI"})
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.Empty(t, env.Warning)
	var placed struct {
		Order      entity.Order       `json:"order"`
		Assignment *entity.Assignment `json:"assignment"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &placed))
	require.NotNil(t, placed.Assignment)
	orderID := placed.Order.ID

	wsURL := "ws" + strings.TrimPrefix(app.srv.URL, "http") + fmt.Sprintf("/ws/orders/%d?token=%s", orderID, cust.token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var ev services.OrderEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, entity.StatusAssigned, ev.Status)
	require.Eventually(t, func() bool { return app.hub.Subscribers(orderID) == 1 }, 2*time.Second, 10*time.Millisecond)

	driver := app.client(t)
	driver.login("ravi@fleet.example.com", "drive123")
	status, env = driver.do(http.MethodGet, "/driver/work", nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var work []entity.Assignment
	require.NoError(t, json.Unmarshal(env.Data, &work))
	require.Len(t, work, 1)
	assert.Equal(t, orderID, work[0].OrderID)

	status, env = driver.do(http.MethodPost, fmt.Sprintf("/driver/orders/%d/complete", orderID), nil)
	require.Equal(t, http.StatusOK, status, env.Error)

	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, services.EventOrderDelivered, ev.Type)
	assert.Equal(t, entity.StatusDelivered, ev.Status)

	// the assignment is closed, so a second completion finds nothing
	status, _ = driver.do(http.MethodPost, fmt.Sprintf("/driver/orders/%d/complete", orderID), nil)
	assert.Equal(t, http.StatusNotFound, status)

	// another customer cannot watch the order
	other := app.client(t)
	other.registerCustomer("other@example.com")
	_, res, err := websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(app.srv.URL, "http")+fmt.Sprintf("/ws/orders/%d?token=%s", orderID, other.token), nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestSessionCartBelongsToItsCustomer(t *testing.T) {
	app := newTestApp(t)
	app.seedCatalog(t)
	first := app.client(t)
	first.registerCustomer("one@example.com")
	status, _ := first.do(http.MethodPost, "/cart/items", gin.H{"menuItemId": 10, "quantity": 2})
	require.Equal(t, http.StatusCreated, status)

	// same browser, different account
	second := &client{t: t, app: app, http: first.http}
	second.registerCustomer("two@example.com")

	_, env := second.do(http.MethodGet, "/cart/count", nil)
	assert.JSONEq(t, `{"count":0}`, string(env.Data))
	status, env = second.do(http.MethodPost, "/orders", gin.H{"paymentType": "Cash"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "/cart", env.Redirect)
	assert.Equal(t, int64(0), countRows(t, app.db, &entity.Order{}))

	anon := &client{t: t, app: app, http: first.http}
	_, env = anon.do(http.MethodGet, "/cart/count", nil)
	assert.JSONEq(t, `{"count":0}`, string(env.Data))

	_, env = first.do(http.MethodGet, "/cart/count", nil)
	assert.JSONEq(t, `{"count":2}`, string(env.Data))
}

func TestCartRejectsHugeQuantity(t *testing.T) {
	app := newTestApp(t)
	app.seedCatalog(t)
	cust := app.client(t)
	cust.registerCustomer("asha@example.com")

	status, _ := cust.do(http.MethodPost, "/cart/items", gin.H{"menuItemId": 10, "quantity": 1 << 62})
	assert.Equal(t, http.StatusBadRequest, status)
	_, env := cust.do(http.MethodGet, "/cart/count", nil)
	assert.JSONEq(t, `{"count":0}`, string(env.Data))
}

func TestOversizedCartIsReported(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.db.Create(&entity.Restaurant{Name: "Long Names"}).Error)
	var rest entity.Restaurant
	require.NoError(t, app.db.First(&rest).Error)
	for i := 0; i < 20; i++ {
		item := entity.MenuItem{
			RestaurantID: rest.ID,
			Name:         fmt.Sprintf("%02d %s", i, strings.Repeat("very long dish name ", 10)),
			Price:        decimal.RequireFromString("1.00"),
			Available:    true,
		}
		require.NoError(t, app.db.Create(&item).Error)
	}
	var items []entity.MenuItem
	require.NoError(t, app.db.Order("id").Find(&items).Error)

	cust := app.client(t)
	cust.registerCustomer("asha@example.com")

	added := 0
	var rejected envelope
	for _, item := range items {
		status, env := cust.do(http.MethodPost, "/cart/items", gin.H{"menuItemId": item.ID})
		if status != http.StatusCreated {
			require.Equal(t, http.StatusBadRequest, status)
			rejected = env
			break
		}
		added++
	}

	require.NotEmpty(t, rejected.Error, "the session cookie never overflowed")
	assert.Contains(t, rejected.Error, "too large")
	_, env := cust.do(http.MethodGet, "/cart/count", nil)
	assert.JSONEq(t, fmt.Sprintf(`{"count":%d}`, added), string(env.Data))
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
