package entity

// Delivery status of an order. An order starts Pending, becomes Assigned once a
// driver is attached and Delivered when the driver completes it.
const (
	StatusPending   = "Pending"
	StatusAssigned  = "Assigned"
	StatusDelivered = "Delivered"
)
