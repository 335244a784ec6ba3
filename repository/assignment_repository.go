package repository

import (
	"time"

	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"gorm.io/gorm"
)

type AssignmentRepository struct{ DB *gorm.DB }

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) GetByOrder(tx *gorm.DB, orderID uint) (*entity.Assignment, error) {
	var a entity.Assignment
	if err := tx.Where("order_id = ?", orderID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) HasAssignment(tx *gorm.DB, orderID uint) (bool, error) {
	var cnt int64
	if err := tx.Model(&entity.Assignment{}).Where("order_id = ?", orderID).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// FinishWork stamps completed_at on the employee's open assignment for the order.
func (r *AssignmentRepository) FinishWork(tx *gorm.DB, employeeID, orderID uint, finishAt time.Time) error {
	res := tx.Model(&entity.Assignment{}).
		Where("employee_id = ? AND order_id = ? AND completed_at IS NULL", employeeID, orderID).
		Update("completed_at", &finishAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListOpenForEmployee returns the employee's assignments that are not completed yet.
func (r *AssignmentRepository) ListOpenForEmployee(employeeID uint) ([]entity.Assignment, error) {
	var out []entity.Assignment
	err := r.DB.
		Preload("Vehicle").
		Preload("Order.Lines").
		Preload("Order.Restaurant").
		Where("employee_id = ? AND completed_at IS NULL", employeeID).
		Order("assigned_at").
		Find(&out).Error
	return out, err
}
