package entity

import (
	"time"

	"gorm.io/gorm"
)

type Assignment struct {
	gorm.Model
	AssignedAt  time.Time  `gorm:"not null" json:"assignedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	OrderID uint   `gorm:"uniqueIndex;not null" json:"orderId"`
	Order   *Order `json:"order,omitempty"` // preloaded for the driver's work list

	EmployeeID uint     `gorm:"index;not null" json:"employeeId"`
	Employee   Employee `json:"employee"`

	VehicleID *uint    `gorm:"index" json:"vehicleId,omitempty"`
	Vehicle   *Vehicle `json:"vehicle,omitempty"`
}
