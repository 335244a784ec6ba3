package services

import (
	"context"
	"errors"
	"time"

	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/angr3yo/Food-Delivery-DBMS/repository"
	"github.com/angr3yo/Food-Delivery-DBMS/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AssignmentService pairs placed orders with a driver and, when the fleet is
// tracked, a vehicle. Candidates are read first and one is picked uniformly at
// random; nothing is locked between the read and the insert.
type AssignmentService struct {
	DB          *gorm.DB
	Orders      OrderStore
	OrderReads  *repository.OrderRepository
	Employees   *repository.EmployeeRepository
	Vehicles    *repository.VehicleRepository
	Assignments *repository.AssignmentRepository
	Events      EventPublisher

	// Intn picks an index in [0, n); nil means math/rand.
	Intn func(n int) int
	Now  func() time.Time
}

func NewAssignmentService(
	db *gorm.DB,
	orders OrderStore,
	orderReads *repository.OrderRepository,
	employees *repository.EmployeeRepository,
	vehicles *repository.VehicleRepository,
	assignments *repository.AssignmentRepository,
	events EventPublisher,
) *AssignmentService {
	return &AssignmentService{
		DB: db, Orders: orders, OrderReads: orderReads,
		Employees: employees, Vehicles: vehicles, Assignments: assignments,
		Events: events, Now: time.Now,
	}
}

func (s *AssignmentService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Assign attaches an eligible driver (and vehicle) to a Pending order inside tx
// and moves it to Assigned. An empty pool is a NoDriverAvailableError and
// leaves nothing written.
func (s *AssignmentService) Assign(tx *gorm.DB, order *entity.Order) (*entity.Assignment, error) {
	drivers, err := s.Employees.ListEligibleDrivers(tx)
	if err != nil {
		return nil, persistErr("list eligible drivers", err)
	}
	driver, ok := utils.PickOne(drivers, s.Intn)
	if !ok {
		return nil, &NoDriverAvailableError{OrderID: order.ID}
	}

	var vehicle *entity.Vehicle
	tracked, err := s.Vehicles.CountActive(tx)
	if err != nil {
		return nil, persistErr("count vehicles", err)
	}
	if tracked > 0 {
		vehicles, err := s.Vehicles.ListEligible(tx)
		if err != nil {
			return nil, persistErr("list eligible vehicles", err)
		}
		v, ok := utils.PickOne(vehicles, s.Intn)
		if !ok {
			return nil, &NoDriverAvailableError{OrderID: order.ID, NoVehicle: true}
		}
		vehicle = &v
	}

	a := &entity.Assignment{
		OrderID:    order.ID,
		EmployeeID: driver.ID,
		AssignedAt: s.now(),
	}
	if vehicle != nil {
		a.VehicleID = &vehicle.ID
	}
	if err := s.Orders.AssignDriver(tx, a); err != nil {
		return nil, persistErr("assign driver", err)
	}
	if err := transition(tx, s.Orders, order.ID, entity.StatusPending, entity.StatusAssigned); err != nil {
		return nil, err
	}

	order.DeliveryStatus = entity.StatusAssigned
	a.Employee = driver
	a.Vehicle = vehicle
	return a, nil
}

// RetryPending tries again to assign an order that was placed without a driver.
func (s *AssignmentService) RetryPending(ctx context.Context, orderID uint) (*entity.Assignment, error) {
	var (
		order *entity.Order
		a     *entity.Assignment
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.OrderReads.GetOrder(tx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &OrderNotFoundError{ID: orderID}
		}
		if err != nil {
			return persistErr("load order", err)
		}
		if order.DeliveryStatus != entity.StatusPending {
			return &InvalidTransitionError{OrderID: orderID, From: entity.StatusPending, To: entity.StatusAssigned}
		}

		a, err = s.Assign(tx, order)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"driver_id": a.EmployeeID,
	}).Info("pending order assigned")
	publish(ctx, s.Events, newOrderEvent(EventOrderAssigned, order, a))
	return a, nil
}

// CompleteDelivery closes the driver's assignment and marks the order Delivered,
// which makes the driver and vehicle eligible again.
func (s *AssignmentService) CompleteDelivery(ctx context.Context, driverUserID, orderID uint) error {
	var (
		order *entity.Order
		a     *entity.Assignment
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		emp, err := s.Employees.GetByUserID(tx, driverUserID)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && emp.Role != entity.EmployeeRoleDriver) {
			return ErrNotDriver
		}
		if err != nil {
			return persistErr("load employee", err)
		}

		err = s.Assignments.FinishWork(tx, emp.ID, orderID, s.now())
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &OrderNotFoundError{ID: orderID}
		}
		if err != nil {
			return persistErr("finish assignment", err)
		}
		if err := transition(tx, s.Orders, orderID, entity.StatusAssigned, entity.StatusDelivered); err != nil {
			return err
		}

		if order, err = s.OrderReads.GetOrder(tx, orderID); err != nil {
			return persistErr("load order", err)
		}
		if a, err = s.Assignments.GetByOrder(tx, orderID); err != nil {
			return persistErr("load assignment", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":  orderID,
		"driver_id": a.EmployeeID,
	}).Info("delivery completed")
	publish(ctx, s.Events, newOrderEvent(EventOrderDelivered, order, a))
	return nil
}

// CurrentWork lists the driver's open assignments.
func (s *AssignmentService) CurrentWork(driverUserID uint) ([]entity.Assignment, error) {
	emp, err := s.Employees.GetByUserID(s.DB, driverUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotDriver
	}
	if err != nil {
		return nil, err
	}
	return s.Assignments.ListOpenForEmployee(emp.ID)
}
