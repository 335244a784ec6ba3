package services

import (
	"gorm.io/gorm"
)

// transition moves the order's delivery status from -> to inside tx. Losing the
// guard (someone else moved it first) is an InvalidTransitionError.
func transition(tx *gorm.DB, store OrderStore, orderID uint, from, to string) error {
	ok, err := store.UpdateStatusFromTo(tx, orderID, from, to)
	if err != nil {
		return persistErr("update delivery status", err)
	}
	if !ok {
		return &InvalidTransitionError{OrderID: orderID, From: from, To: to}
	}
	return nil
}
