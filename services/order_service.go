package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/angr3yo/Food-Delivery-DBMS/cart"
	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/angr3yo/Food-Delivery-DBMS/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderStore is the write side of order placement. All methods run inside the
// caller's transaction.
type OrderStore interface {
	CreateOrder(tx *gorm.DB, o *entity.Order) error
	AddOrderLine(tx *gorm.DB, l *entity.OrderLine) error
	AssignDriver(tx *gorm.DB, a *entity.Assignment) error
	UpdateStatusFromTo(tx *gorm.DB, orderID uint, from, to string) (bool, error)
}

var _ OrderStore = (*repository.OrderRepository)(nil)

const (
	MsgOrderPlaced       = "Order placed successfully!"
	MsgNoDriverAvailable = "Order placed, but no drivers or vehicles were available for immediate assignment."
	MsgAssignmentPending = "Order placed, but assignment is still pending."
)

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	Store    OrderStore
	Catalog  *CatalogService
	Payments *PaymentLedger
	Assigner *AssignmentService
	Events   EventPublisher
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	store OrderStore,
	catalog *CatalogService,
	payments *PaymentLedger,
	assigner *AssignmentService,
	events EventPublisher,
) *OrderService {
	return &OrderService{
		DB: db, Repo: repo, Store: store, Catalog: catalog,
		Payments: payments, Assigner: assigner, Events: events,
	}
}

// PaymentSelection names an existing method by id or a payment type to get-or-create.
type PaymentSelection struct {
	PaymentMethodID uint
	PaymentType     string
}

type PlaceOrderInput struct {
	CustomerID uint
	Cart       *cart.Cart
	Payment    PaymentSelection
}

type PlaceOrderResult struct {
	Order      *entity.Order
	Assignment *entity.Assignment
	// Warning is set when the order stands without an assignment.
	Warning string
}

// PlaceOrder turns the cart into an order. Order, lines, spend accrual and the
// driver assignment commit together or not at all. Running out of drivers is
// not a failure: the order stays Pending and the result carries a warning.
// The cart is not modified; clearing it is up to the caller.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*PlaceOrderResult, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	c := in.Cart
	total := c.Total()
	log := logrus.WithFields(logrus.Fields{
		"customer_id":   in.CustomerID,
		"restaurant_id": c.RestaurantID,
	})

	res := &PlaceOrderResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pm, err := s.resolvePayment(tx, in)
		if err != nil {
			return err
		}

		order := &entity.Order{
			CustomerID:      in.CustomerID,
			RestaurantID:    c.RestaurantID,
			PaymentMethodID: pm.ID,
			TotalPrice:      total,
			DeliveryStatus:  entity.StatusPending,
		}
		if err := s.Store.CreateOrder(tx, order); err != nil {
			return persistErr("create order", err)
		}

		for _, l := range c.Lines {
			line := &entity.OrderLine{
				OrderID:    order.ID,
				MenuItemID: l.ItemID,
				Name:       l.Name,
				UnitPrice:  l.UnitPrice,
				Quantity:   l.Quantity,
			}
			if err := s.Store.AddOrderLine(tx, line); err != nil {
				return persistErr("add order line", err)
			}
			order.Lines = append(order.Lines, *line)
		}

		if err := s.Payments.Accrue(tx, pm, total); err != nil {
			return persistErr("accrue payment spend", err)
		}

		a, err := s.Assigner.Assign(tx, order)
		var noDriver *NoDriverAvailableError
		switch {
		case errors.As(err, &noDriver):
			res.Warning = MsgNoDriverAvailable
		case err != nil:
			return err
		default:
			order.Assignment = a
			res.Assignment = a
		}

		res.Order = order
		return nil
	})
	if err != nil {
		if isRejection(err) {
			log.WithError(err).Info("order rejected")
			return nil, err
		}
		log.WithError(err).Error("order placement failed")
		return nil, persistErr("commit", err)
	}

	log = log.WithFields(logrus.Fields{"order_id": res.Order.ID, "total": total.StringFixed(2)})
	if res.Assignment != nil {
		log.WithField("driver_id", res.Assignment.EmployeeID).Info("order placed and assigned")
	} else {
		log.Warn("order placed, assignment pending")
	}

	publish(ctx, s.Events, newOrderEvent(EventOrderPlaced, res.Order, nil))
	if res.Assignment != nil {
		publish(ctx, s.Events, newOrderEvent(EventOrderAssigned, res.Order, res.Assignment))
	}
	return res, nil
}

func (s *OrderService) validate(in PlaceOrderInput) error {
	c := in.Cart
	if c == nil || c.IsEmpty() {
		return &EmptyCartError{}
	}
	if in.Payment.PaymentMethodID == 0 && in.Payment.PaymentType == "" {
		return &InvalidPaymentSelectionError{Reason: "no payment method selected"}
	}
	if !c.Total().IsPositive() {
		return &EmptyCartError{Reason: "cart total is zero"}
	}

	if _, err := s.Catalog.GetRestaurant(c.RestaurantID); err != nil {
		var nf *RestaurantNotFoundError
		if errors.As(err, &nf) {
			return &EmptyCartError{Reason: nf.Error()}
		}
		return persistErr("load restaurant", err)
	}

	ids := make([]uint, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.ItemID)
	}
	missing, err := s.Catalog.MissingItems(c.RestaurantID, ids)
	if err != nil {
		return persistErr("load menu", err)
	}
	if len(missing) > 0 {
		return &EmptyCartError{Reason: fmt.Sprintf("items %v are no longer available", missing)}
	}
	return nil
}

func (s *OrderService) resolvePayment(tx *gorm.DB, in PlaceOrderInput) (*entity.PaymentMethod, error) {
	if id := in.Payment.PaymentMethodID; id != 0 {
		pm, err := s.Payments.Find(tx, in.CustomerID, id)
		var nf *PaymentMethodNotFoundError
		if err != nil && !errors.As(err, &nf) {
			return nil, persistErr("load payment method", err)
		}
		return pm, err
	}

	pm, err := s.Payments.GetOrCreate(tx, in.CustomerID, in.Payment.PaymentType)
	var ve *ValidationError
	if errors.As(err, &ve) {
		return nil, &InvalidPaymentSelectionError{Reason: ve.Error()}
	}
	if err != nil {
		return nil, persistErr("resolve payment method", err)
	}
	return pm, nil
}

// ListForCustomer returns the customer's orders, newest first.
func (s *OrderService) ListForCustomer(customerID uint) ([]repository.OrderSummary, error) {
	return s.Repo.ListOrdersForCustomer(customerID, 100)
}

// Confirmation loads one of the customer's orders with lines and assignment.
// warning is set while no driver is attached.
func (s *OrderService) Confirmation(customerID, orderID uint) (order *entity.Order, warning string, err error) {
	order, err = s.Repo.GetOrderForCustomer(customerID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", &OrderNotFoundError{ID: orderID}
	}
	if err != nil {
		return nil, "", err
	}
	if order.Assignment == nil {
		warning = MsgAssignmentPending
	}
	return order, warning, nil
}

// isRejection reports errors caused by the request rather than by storage.
func isRejection(err error) bool {
	var (
		empty   *EmptyCartError
		invalid *InvalidPaymentSelectionError
		pmnf    *PaymentMethodNotFoundError
		trans   *InvalidTransitionError
	)
	return errors.As(err, &empty) || errors.As(err, &invalid) || errors.As(err, &pmnf) ||
		errors.As(err, &trans)
}
