package entity

import (
	"gorm.io/gorm"
)

type Vehicle struct {
	gorm.Model
	RegistrationNumber string `gorm:"size:20;uniqueIndex;not null" json:"registrationNumber"`
	Type               string `json:"type"`
	Active             bool   `gorm:"not null;default:true" json:"active"`

	Assignments []Assignment `json:"-"`
}
