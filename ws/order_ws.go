package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/resp"
	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/angr3yo/Food-Delivery-DBMS/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// writeWait bounds every write so a subscriber that stops reading is dropped
// instead of stalling the hub.
const writeWait = 5 * time.Second

// ErrHubBusy is returned by Publish when the broadcast queue is full; the
// event is dropped.
var ErrHubBusy = errors.New("order hub busy, event dropped")

// OrderLookup finds an order owned by a customer.
type OrderLookup interface {
	GetOrderForCustomer(customerID, orderID uint) (*entity.Order, error)
}

// OrderHub pushes delivery status changes to the customers watching an order.
type OrderHub struct {
	clients    map[uint]map[*websocket.Conn]bool // orderID -> subscribers
	broadcast  chan services.OrderEvent
	register   chan Subscription
	unregister chan Subscription
	done       chan struct{}
	mu         sync.Mutex
	orders     OrderLookup
}

type Subscription struct {
	Conn    *websocket.Conn
	OrderID uint
	UserID  uint
}

var _ services.EventPublisher = (*OrderHub)(nil)

func NewOrderHub(orders OrderLookup) *OrderHub {
	return &OrderHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan services.OrderEvent, 64),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
		done:       make(chan struct{}),
		orders:     orders,
	}
}

// Run serves register, unregister and broadcast until ctx is done, then
// closes every connection.
func (h *OrderHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, conns := range h.clients {
				for conn := range conns {
					conn.Close()
				}
			}
			h.clients = make(map[uint]map[*websocket.Conn]bool)
			h.mu.Unlock()
			return

		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.OrderID] == nil {
				h.clients[sub.OrderID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.OrderID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.OrderID][sub.Conn]; ok {
				delete(h.clients[sub.OrderID], sub.Conn)
				if len(h.clients[sub.OrderID]) == 0 {
					delete(h.clients, sub.OrderID)
				}
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[ev.OrderID] {
				if err := writeJSON(conn, ev); err != nil {
					logrus.WithError(err).WithField("order_id", ev.OrderID).Debug("ws write failed")
					conn.Close()
					delete(h.clients[ev.OrderID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues ev for the order's subscribers without waiting: a full queue
// drops the event and returns ErrHubBusy.
func (h *OrderHub) Publish(_ context.Context, ev services.OrderEvent) error {
	select {
	case <-h.done:
		return nil
	default:
	}
	select {
	case h.broadcast <- ev:
		return nil
	default:
		return ErrHubBusy
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

// Subscribers reports how many connections watch an order.
func (h *OrderHub) Subscribers(orderID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[orderID])
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket serves /ws/orders/:id. Only the customer who placed the
// order may watch it. The current status is sent right after the upgrade.
func (h *OrderHub) HandleWebSocket(c *gin.Context) {
	orderID, ok := utils.ParamUint(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid order id")
		return
	}
	userID := utils.CurrentUserID(c)

	order, err := h.orders.GetOrderForCustomer(userID, orderID)
	if err != nil {
		if services.IsNotFound(err) {
			resp.NotFound(c, "order not found")
			return
		}
		resp.Error(c, err, "")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		resp.Logger(c).WithError(err).Warn("ws upgrade failed")
		return
	}

	snapshot := services.OrderEvent{
		Type:       "order.status",
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     order.DeliveryStatus,
		At:         order.UpdatedAt,
	}
	if order.Assignment != nil {
		snapshot.DriverID = order.Assignment.EmployeeID
	}
	if err := writeJSON(conn, snapshot); err != nil {
		conn.Close()
		return
	}

	sub := Subscription{Conn: conn, OrderID: order.ID, UserID: userID}
	select {
	case h.register <- sub:
		go h.readUntilClosed(sub)
	case <-h.done:
		conn.Close()
	}
}

// readUntilClosed drains client frames so control messages are handled and a
// closed socket is noticed.
func (h *OrderHub) readUntilClosed(sub Subscription) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
