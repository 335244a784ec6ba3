package entity

import (
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name    string `gorm:"not null;index" json:"name"`
	Address string `json:"address"`
	Cuisine string `json:"cuisine"`

	MenuItems []MenuItem `json:"-"`
	Orders    []Order    `json:"-"`
}
