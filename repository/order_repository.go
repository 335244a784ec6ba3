package repository

import (
	"time"

	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- writes (always inside the caller's transaction) ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Omit(clause.Associations).Create(o).Error
}

func (r *OrderRepository) AddOrderLine(tx *gorm.DB, l *entity.OrderLine) error {
	return tx.Create(l).Error
}

func (r *OrderRepository) AssignDriver(tx *gorm.DB, a *entity.Assignment) error {
	return tx.Omit(clause.Associations).Create(a).Error
}

// UpdateStatusFromTo moves the order only if it is still in from.
func (r *OrderRepository) UpdateStatusFromTo(tx *gorm.DB, orderID uint, from, to string) (bool, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND delivery_status = ?", orderID, from).
		Update("delivery_status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ---------------- reads ----------------

func (r *OrderRepository) GetOrder(tx *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := tx.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderForCustomer loads the order with its lines and assignment.
func (r *OrderRepository) GetOrderForCustomer(customerID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.
		Preload("Lines").
		Preload("Assignment.Employee").
		Preload("Assignment.Vehicle").
		Where("id = ? AND customer_id = ?", orderID, customerID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

type OrderSummary struct {
	ID             uint            `json:"id"`
	RestaurantID   uint            `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	DeliveryStatus string          `json:"deliveryStatus"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ListOrdersForCustomer returns the newest orders first.
func (r *OrderRepository) ListOrdersForCustomer(customerID uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []OrderSummary
	err := r.DB.Table("orders AS o").
		Select("o.id, o.restaurant_id, r.name AS restaurant_name, o.total_price, o.delivery_status, o.created_at").
		Joins("JOIN restaurants r ON r.id = o.restaurant_id").
		Where("o.customer_id = ? AND o.deleted_at IS NULL", customerID).
		Order("o.id DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *OrderRepository) CountForCustomer(customerID uint) (int64, error) {
	var cnt int64
	err := r.DB.Model(&entity.Order{}).Where("customer_id = ?", customerID).Count(&cnt).Error
	return cnt, err
}

func (r *OrderRepository) CountLines(tx *gorm.DB, orderID uint) (int64, error) {
	var cnt int64
	err := tx.Model(&entity.OrderLine{}).Where("order_id = ?", orderID).Count(&cnt).Error
	return cnt, err
}
