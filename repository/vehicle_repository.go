package repository

import (
	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"gorm.io/gorm"
)

type VehicleRepository struct{ DB *gorm.DB }

func NewVehicleRepository(db *gorm.DB) *VehicleRepository { return &VehicleRepository{DB: db} }

func (r *VehicleRepository) Create(tx *gorm.DB, v *entity.Vehicle) error {
	return tx.Create(v).Error
}

// CountActive tells whether vehicles are tracked at all.
func (r *VehicleRepository) CountActive(tx *gorm.DB) (int64, error) {
	var cnt int64
	err := tx.Model(&entity.Vehicle{}).Where("active = ?", true).Count(&cnt).Error
	return cnt, err
}

// ListEligible returns active vehicles not used by an undelivered assignment.
func (r *VehicleRepository) ListEligible(tx *gorm.DB) ([]entity.Vehicle, error) {
	busy := tx.Model(&entity.Assignment{}).
		Select("assignments.vehicle_id").
		Joins("JOIN orders ON orders.id = assignments.order_id").
		Where("orders.delivery_status = ? AND assignments.vehicle_id IS NOT NULL", entity.StatusAssigned)

	var out []entity.Vehicle
	err := tx.Where("active = ?", true).
		Where("id NOT IN (?)", busy).
		Order("id").
		Find(&out).Error
	return out, err
}
