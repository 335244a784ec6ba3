package repository

import (
	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"gorm.io/gorm"
)

type EmployeeRepository struct{ DB *gorm.DB }

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository { return &EmployeeRepository{DB: db} }

func (r *EmployeeRepository) Create(tx *gorm.DB, e *entity.Employee) error {
	return tx.Create(e).Error
}

func (r *EmployeeRepository) GetByUserID(tx *gorm.DB, userID uint) (*entity.Employee, error) {
	var e entity.Employee
	if err := tx.Where("user_id = ?", userID).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEligibleDrivers returns active drivers that are not on an undelivered assignment.
func (r *EmployeeRepository) ListEligibleDrivers(tx *gorm.DB) ([]entity.Employee, error) {
	busy := tx.Model(&entity.Assignment{}).
		Select("assignments.employee_id").
		Joins("JOIN orders ON orders.id = assignments.order_id").
		Where("orders.delivery_status = ?", entity.StatusAssigned)

	var out []entity.Employee
	err := tx.Where("role = ? AND active = ?", entity.EmployeeRoleDriver, true).
		Where("id NOT IN (?)", busy).
		Order("id").
		Find(&out).Error
	return out, err
}
