package services

import (
	"context"
	"testing"

	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placePending(t *testing.T, f *fixture, customerID uint, item *entity.MenuItem) *entity.Order {
	t.Helper()
	res, err := f.orders.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerID: customerID, Cart: cartWith(item.RestaurantID, item), Payment: PaymentSelection{PaymentType: "Cash"},
	})
	require.NoError(t, err)
	return res.Order
}

func TestAssignPicksWithInjectedSource(t *testing.T) {
	f := newFixture(t, nil)
	f.customer(t, 1)
	f.restaurant(t, 1, "Luigi's")
	pizza := f.menuItem(t, 1, 1, "Margherita", "9.00")
	f.driver(t, "Anita")
	f.driver(t, "Ravi")
	last := f.driver(t, "Meera")

	var poolSize int
	f.assigner.Intn = func(n int) int { poolSize = n; return n - 1 }

	res, err := f.orders.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerID: 1, Cart: cartWith(1, pizza), Payment: PaymentSelection{PaymentType: "Cash"},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Assignment)
	assert.Equal(t, 3, poolSize)
	assert.Equal(t, last.ID, res.Assignment.EmployeeID)
	assert.Equal(t, "Meera", res.Assignment.Employee.FirstName)
}

func TestInactiveAndNonDriversAreNotEligible(t *testing.T) {
	f := newFixture(t, nil)
	f.customer(t, 1)
	f.restaurant(t, 1, "Luigi's")
	pizza := f.menuItem(t, 1, 1, "Margherita", "9.00")

	off := f.driver(t, "Off")
	require.NoError(t, f.db.Model(off).Update("active", false).Error)
	cook := &entity.Employee{FirstName: "Cook", Role: "Chef", Active: true}
	require.NoError(t, f.db.Create(cook).Error)

	order := placePending(t, f, 1, pizza)
	assert.Equal(t, entity.StatusPending, order.DeliveryStatus)
	assert.Zero(t, f.count(t, &entity.Assignment{}))
}

func TestCompleteDeliveryFreesDriverForPendingOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.customer(t, 1)
	f.restaurant(t, 1, "Luigi's")
	pizza := f.menuItem(t, 1, 1, "Margherita", "9.00")
	driver, login := f.driverWithLogin(t, "Anita")
	f.vehicle(t, "KA01AB1234")

	first := placePending(t, f, 1, pizza)
	require.Equal(t, entity.StatusAssigned, first.DeliveryStatus)
	second := placePending(t, f, 1, pizza)
	require.Equal(t, entity.StatusPending, second.DeliveryStatus)

	// still busy
	_, err := f.assigner.RetryPending(ctx, second.ID)
	var noDriver *NoDriverAvailableError
	require.ErrorAs(t, err, &noDriver)

	work, err := f.assigner.CurrentWork(login.ID)
	require.NoError(t, err)
	require.Len(t, work, 1)
	assert.Equal(t, first.ID, work[0].OrderID)

	require.NoError(t, f.assigner.CompleteDelivery(ctx, login.ID, first.ID))

	var delivered entity.Order
	require.NoError(t, f.db.First(&delivered, first.ID).Error)
	assert.Equal(t, entity.StatusDelivered, delivered.DeliveryStatus)
	var closed entity.Assignment
	require.NoError(t, f.db.Where("order_id = ?", first.ID).First(&closed).Error)
	assert.NotNil(t, closed.CompletedAt)

	a, err := f.assigner.RetryPending(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, driver.ID, a.EmployeeID)
	assert.NotNil(t, a.VehicleID)

	var reassigned entity.Order
	require.NoError(t, f.db.First(&reassigned, second.ID).Error)
	assert.Equal(t, entity.StatusAssigned, reassigned.DeliveryStatus)

	assert.Contains(t, f.events.types(), EventOrderDelivered)
}

func TestCompleteDeliveryRejects(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	cust := f.customer(t, 1)
	f.restaurant(t, 1, "Luigi's")
	pizza := f.menuItem(t, 1, 1, "Margherita", "9.00")
	_, login := f.driverWithLogin(t, "Anita")
	_, otherLogin := f.driverWithLogin(t, "Ravi")

	f.assigner.Intn = func(int) int { return 0 } // lowest id, Anita
	order := placePending(t, f, 1, pizza)
	require.Equal(t, entity.StatusAssigned, order.DeliveryStatus)

	assert.ErrorIs(t, f.assigner.CompleteDelivery(ctx, cust.ID, order.ID), ErrNotDriver)

	var nf *OrderNotFoundError
	assert.ErrorAs(t, f.assigner.CompleteDelivery(ctx, otherLogin.ID, order.ID), &nf)

	require.NoError(t, f.assigner.CompleteDelivery(ctx, login.ID, order.ID))
	assert.ErrorAs(t, f.assigner.CompleteDelivery(ctx, login.ID, order.ID), &nf)
}

func TestRetryPendingRejectsAssignedOrUnknown(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.customer(t, 1)
	f.restaurant(t, 1, "Luigi's")
	pizza := f.menuItem(t, 1, 1, "Margherita", "9.00")
	f.driver(t, "Anita")

	order := placePending(t, f, 1, pizza)
	require.Equal(t, entity.StatusAssigned, order.DeliveryStatus)

	_, err := f.assigner.RetryPending(ctx, order.ID)
	var it *InvalidTransitionError
	assert.ErrorAs(t, err, &it)

	_, err = f.assigner.RetryPending(ctx, 4242)
	var nf *OrderNotFoundError
	assert.ErrorAs(t, err, &nf)
}
