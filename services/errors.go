package services

import (
	"errors"
	"fmt"
)

// EmptyCartError means there is nothing orderable in the cart.
type EmptyCartError struct {
	Reason string
}

func (e *EmptyCartError) Error() string {
	if e.Reason == "" {
		return "cart is empty"
	}
	return "cart is empty: " + e.Reason
}

type InvalidPaymentSelectionError struct {
	Reason string
}

func (e *InvalidPaymentSelectionError) Error() string {
	return "invalid payment selection: " + e.Reason
}

type PaymentMethodNotFoundError struct {
	CustomerID uint
	PaymentID  uint
}

func (e *PaymentMethodNotFoundError) Error() string {
	return fmt.Sprintf("payment method %d not found for customer %d", e.PaymentID, e.CustomerID)
}

// NoDriverAvailableError is returned by assignment when the eligible pool is
// empty. Order placement downgrades it to a warning.
type NoDriverAvailableError struct {
	OrderID   uint
	NoVehicle bool
}

func (e *NoDriverAvailableError) Error() string {
	if e.NoVehicle {
		return fmt.Sprintf("no vehicle available for order %d", e.OrderID)
	}
	return fmt.Sprintf("no driver available for order %d", e.OrderID)
}

// OrderPersistenceError wraps any storage failure during placement or assignment.
type OrderPersistenceError struct {
	Op  string
	Err error
}

func (e *OrderPersistenceError) Error() string {
	return fmt.Sprintf("order persistence failed (%s): %v", e.Op, e.Err)
}

func (e *OrderPersistenceError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }

type RestaurantNotFoundError struct{ ID uint }

func (e *RestaurantNotFoundError) Error() string {
	return fmt.Sprintf("restaurant %d not found", e.ID)
}

type MenuItemNotFoundError struct{ ID uint }

func (e *MenuItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item %d not found", e.ID)
}

type OrderNotFoundError struct{ ID uint }

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %d not found", e.ID)
}

// InvalidTransitionError is a delivery status change that lost a race or
// does not start from the expected status.
type InvalidTransitionError struct {
	OrderID  uint
	From, To string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %d is not %s, cannot move to %s", e.OrderID, e.From, e.To)
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotDriver          = errors.New("user is not a driver")
)

func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *OrderPersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &OrderPersistenceError{Op: op, Err: err}
}
