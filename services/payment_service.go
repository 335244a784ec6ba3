package services

import (
	"errors"
	"strings"

	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/angr3yo/Food-Delivery-DBMS/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentLedger keeps each customer's named payment methods and their lifetime spend.
type PaymentLedger struct {
	DB   *gorm.DB
	Repo *repository.PaymentRepository
}

func NewPaymentLedger(db *gorm.DB, repo *repository.PaymentRepository) *PaymentLedger {
	return &PaymentLedger{DB: db, Repo: repo}
}

// GetOrCreate returns the (customer, paymentType) method, creating it with zero spend.
func (l *PaymentLedger) GetOrCreate(tx *gorm.DB, customerID uint, paymentType string) (*entity.PaymentMethod, error) {
	paymentType = strings.TrimSpace(paymentType)
	if paymentType == "" {
		return nil, &ValidationError{Field: "paymentType", Msg: "is required"}
	}
	if customerID == 0 {
		return nil, &ValidationError{Field: "customerId", Msg: "is required"}
	}
	return l.Repo.FirstOrCreate(tx, customerID, paymentType)
}

// Find returns the customer's method by id.
func (l *PaymentLedger) Find(tx *gorm.DB, customerID, paymentID uint) (*entity.PaymentMethod, error) {
	pm, err := l.Repo.GetForCustomer(tx, customerID, paymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &PaymentMethodNotFoundError{CustomerID: customerID, PaymentID: paymentID}
	}
	return pm, err
}

// Accrue adds amount to the method's stored total spend. pm is refreshed with
// the stored total afterwards; its previous TotalSpend is not trusted.
func (l *PaymentLedger) Accrue(tx *gorm.DB, pm *entity.PaymentMethod, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Msg: "must be greater than zero"}
	}
	total, err := l.Repo.AddTotalSpend(tx, pm.ID, amount)
	if err != nil {
		return err
	}
	pm.TotalSpend = total
	return nil
}

func (l *PaymentLedger) List(customerID uint) ([]entity.PaymentMethod, error) {
	return l.Repo.ListByCustomer(customerID)
}

// EnsureDefault gives a customer without any payment method a "Cash" one.
func (l *PaymentLedger) EnsureDefault(customerID uint) error {
	return l.DB.Transaction(func(tx *gorm.DB) error {
		n, err := l.Repo.CountByCustomer(tx, customerID)
		if err != nil || n > 0 {
			return err
		}
		_, err = l.GetOrCreate(tx, customerID, entity.DefaultPaymentType)
		return err
	})
}

// LifetimeSpend sums the spend of all the customer's methods.
func (l *PaymentLedger) LifetimeSpend(customerID uint) (decimal.Decimal, error) {
	methods, err := l.Repo.ListByCustomer(customerID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, m := range methods {
		total = total.Add(m.TotalSpend)
	}
	return total, nil
}
