package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/angr3yo/Food-Delivery-DBMS/cart"
	"github.com/angr3yo/Food-Delivery-DBMS/configs"
	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/cache"
	"github.com/angr3yo/Food-Delivery-DBMS/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	db, err := configs.ConnectionDB(&configs.Config{DBDriver: "sqlite", DBSource: dsn})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and serializes access
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, configs.SetupDatabase(db))
	return db
}

type recorder struct {
	mu     sync.Mutex
	events []OrderEvent
}

func (r *recorder) Publish(_ context.Context, ev OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	repo     *repository.OrderRepository
	catalog  *CatalogService
	ledger   *PaymentLedger
	assigner *AssignmentService
	orders   *OrderService
	events   *recorder
}

// newFixture wires the services against a fresh database. wrap, when non-nil,
// decorates the order write side.
func newFixture(t *testing.T, wrap func(OrderStore) OrderStore) *fixture {
	t.Helper()
	db := newTestDB(t)
	repo := repository.NewOrderRepository(db)
	var store OrderStore = repo
	if wrap != nil {
		store = wrap(repo)
	}
	ev := &recorder{}

	catalog := NewCatalogService(repository.NewRestaurantRepository(db), repository.NewMenuRepository(db), cache.Nop(), time.Minute)
	ledger := NewPaymentLedger(db, repository.NewPaymentRepository(db))
	assigner := NewAssignmentService(db, store, repo,
		repository.NewEmployeeRepository(db), repository.NewVehicleRepository(db),
		repository.NewAssignmentRepository(db), ev)
	orders := NewOrderService(db, repo, store, catalog, ledger, assigner, ev)

	return &fixture{db: db, repo: repo, catalog: catalog, ledger: ledger, assigner: assigner, orders: orders, events: ev}
}

func (f *fixture) customer(t *testing.T, id uint) *entity.User {
	t.Helper()
	u := &entity.User{Email: fmt.Sprintf("c%d@example.com", id), Password: "x", Role: entity.RoleCustomer}
	u.ID = id
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) restaurant(t *testing.T, id uint, name string) *entity.Restaurant {
	t.Helper()
	r := &entity.Restaurant{Name: name}
	r.ID = id
	require.NoError(t, f.db.Create(r).Error)
	return r
}

func (f *fixture) menuItem(t *testing.T, id, restaurantID uint, name, price string) *entity.MenuItem {
	t.Helper()
	m := &entity.MenuItem{RestaurantID: restaurantID, Name: name, Price: decimal.RequireFromString(price), Available: true}
	m.ID = id
	require.NoError(t, f.db.Create(m).Error)
	return m
}

func (f *fixture) driver(t *testing.T, first string) *entity.Employee {
	t.Helper()
	e := &entity.Employee{FirstName: first, Role: entity.EmployeeRoleDriver, Active: true}
	require.NoError(t, f.db.Create(e).Error)
	return e
}

// driverWithLogin creates a driver with a linked user account.
func (f *fixture) driverWithLogin(t *testing.T, first string) (*entity.Employee, *entity.User) {
	t.Helper()
	u := &entity.User{Email: strings.ToLower(first) + "@fleet.example.com", Password: "x", Role: entity.RoleDriver}
	require.NoError(t, f.db.Create(u).Error)
	e := &entity.Employee{FirstName: first, Role: entity.EmployeeRoleDriver, Active: true, UserID: &u.ID}
	require.NoError(t, f.db.Create(e).Error)
	return e, u
}

func (f *fixture) vehicle(t *testing.T, reg string) *entity.Vehicle {
	t.Helper()
	v := &entity.Vehicle{RegistrationNumber: reg, Type: "Scooter", Active: true}
	require.NoError(t, f.db.Create(v).Error)
	return v
}

func (f *fixture) count(t *testing.T, model any, query ...any) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if len(query) > 0 {
		q = q.Where(query[0], query[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func cartWith(restaurantID uint, items ...*entity.MenuItem) *cart.Cart {
	c := cart.New()
	for _, m := range items {
		c.Add(restaurantID, cart.Line{ItemID: m.ID, Name: m.Name, UnitPrice: m.Price, Quantity: 1})
	}
	return c
}

func requireMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}
