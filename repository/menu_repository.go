package repository

import (
	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

// FindByRestaurant lists the restaurant's menu
func (r *MenuRepository) FindByRestaurant(restID uint) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.
		Where("restaurant_id = ?", restID).
		Order("name").
		Find(&items).Error
	return items, err
}

func (r *MenuRepository) FindByID(id uint) (*entity.MenuItem, error) {
	var item entity.MenuItem
	if err := r.DB.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindAvailableIn returns the ids among itemIDs that are orderable at the restaurant.
func (r *MenuRepository) FindAvailableIn(restID uint, itemIDs []uint) ([]uint, error) {
	var ids []uint
	if len(itemIDs) == 0 {
		return ids, nil
	}
	err := r.DB.Model(&entity.MenuItem{}).
		Where("restaurant_id = ? AND available = ? AND id IN ?", restID, true, itemIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *MenuRepository) Create(item *entity.MenuItem) error {
	return r.DB.Create(item).Error
}
