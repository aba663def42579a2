package domain

import "time"

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order is a placed order. Items are persisted as a JSON blob in the
// relational store and decoded back on read.
type Order struct {
	ID        string      `json:"id"`
	UserEmail string      `json:"user_email"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem is one line of an order. Vendor is denormalized onto the
// item so vendor order listings need no catalog lookup.
type OrderItem struct {
	ProductID string  `json:"ID"`
	Title     string  `json:"TITLE"`
	Vendor    string  `json:"VENDOR"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// ContainsVendor reports whether any item of the order belongs to the
// given vendor.
func (o Order) ContainsVendor(vendor string) bool {
	for _, item := range o.Items {
		if item.Vendor == vendor {
			return true
		}
	}
	return false
}
