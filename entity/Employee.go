package entity

import (
	"gorm.io/gorm"
)

const EmployeeRoleDriver = "Driver"

type Employee struct {
	gorm.Model
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `gorm:"size:30;not null;index" json:"role"`
	Active      bool   `gorm:"not null;default:true" json:"active"`

	// set when the employee can log in (drivers completing deliveries)
	UserID *uint `gorm:"uniqueIndex" json:"userId,omitempty"`
	User   *User `json:"-"`

	Assignments []Assignment `json:"-"` // preload only for work history
}
