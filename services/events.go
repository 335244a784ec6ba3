package services

import (
	"context"
	"time"

	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	EventOrderPlaced    = "order.placed"
	EventOrderAssigned  = "order.assigned"
	EventOrderDelivered = "order.delivered"
)

// OrderEvent is emitted after a committed change to an order.
type OrderEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderID    uint      `json:"orderId"`
	CustomerID uint      `json:"customerId"`
	Status     string    `json:"status"`
	DriverID   uint      `json:"driverId,omitempty"`
	VehicleID  uint      `json:"vehicleId,omitempty"`
	At         time.Time `json:"at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
}

func newOrderEvent(typ string, o *entity.Order, a *entity.Assignment) OrderEvent {
	ev := OrderEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     o.DeliveryStatus,
		At:         time.Now().UTC(),
	}
	if a != nil {
		ev.DriverID = a.EmployeeID
		if a.VehicleID != nil {
			ev.VehicleID = *a.VehicleID
		}
	}
	return ev
}

// FanOut publishes to every publisher and logs failures; it never returns an error.
type FanOut []EventPublisher

func (f FanOut) Publish(ctx context.Context, ev OrderEvent) error {
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"event":    ev.Type,
				"order_id": ev.OrderID,
			}).Warn("publish order event failed")
		}
	}
	return nil
}

// EventPublishTimeout bounds how long a committed change waits on its publishers.
var EventPublishTimeout = 3 * time.Second

// publish runs after commit. It is detached from the request's cancellation and
// bounded by EventPublishTimeout, so a slow publisher never holds up the caller
// for longer than that.
func publish(ctx context.Context, p EventPublisher, ev OrderEvent) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), EventPublishTimeout)
	defer cancel()
	if err := p.Publish(ctx, ev); err != nil {
		logrus.WithError(err).WithField("order_id", ev.OrderID).Warn("publish order event failed")
	}
}
