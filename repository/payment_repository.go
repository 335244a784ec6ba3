package repository

import (
	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// FirstOrCreate returns the customer's method of that type, creating it with zero spend.
func (r *PaymentRepository) FirstOrCreate(tx *gorm.DB, customerID uint, paymentType string) (*entity.PaymentMethod, error) {
	pm := entity.PaymentMethod{CustomerID: customerID, PaymentType: paymentType}
	if err := tx.Where(entity.PaymentMethod{CustomerID: customerID, PaymentType: paymentType}).
		FirstOrCreate(&pm).Error; err != nil {
		return nil, err
	}
	return &pm, nil
}

func (r *PaymentRepository) GetForCustomer(tx *gorm.DB, customerID, paymentID uint) (*entity.PaymentMethod, error) {
	var pm entity.PaymentMethod
	if err := tx.Where("id = ? AND customer_id = ?", paymentID, customerID).First(&pm).Error; err != nil {
		return nil, err
	}
	return &pm, nil
}

func (r *PaymentRepository) ListByCustomer(customerID uint) ([]entity.PaymentMethod, error) {
	var out []entity.PaymentMethod
	err := r.DB.Where("customer_id = ?", customerID).Order("id").Find(&out).Error
	return out, err
}

func (r *PaymentRepository) CountByCustomer(tx *gorm.DB, customerID uint) (int64, error) {
	var cnt int64
	err := tx.Model(&entity.PaymentMethod{}).Where("customer_id = ?", customerID).Count(&cnt).Error
	return cnt, err
}

// AddTotalSpend increments the stored spend in the database and returns the
// new total, so concurrent accruals on one method are never lost. ROUND keeps
// sqlite, which adds in floating point, at the column's two decimal places.
func (r *PaymentRepository) AddTotalSpend(tx *gorm.DB, paymentID uint, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := tx.Model(&entity.PaymentMethod{}).Where("id = ?", paymentID).
		Update("total_spend", gorm.Expr("ROUND(total_spend + ?, 2)", amount)).Error; err != nil {
		return decimal.Zero, err
	}

	var pm entity.PaymentMethod
	if err := tx.Select("id", "total_spend").First(&pm, paymentID).Error; err != nil {
		return decimal.Zero, err
	}
	return pm.TotalSpend, nil
}
