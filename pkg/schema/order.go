package schema

import "time"

// OrderStatus is one of the fixed order progression states.
type OrderStatus string

const (
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
)

// Next returns the status one step further along the progression.
// Delivered is terminal and returns itself.
func (s OrderStatus) Next() OrderStatus {
	switch s {
	case StatusConfirmed:
		return StatusPreparing
	case StatusPreparing:
		return StatusOutForDelivery
	case StatusOutForDelivery:
		return StatusDelivered
	default:
		return StatusDelivered
	}
}

// Order is an immutable snapshot taken from a cart at placement time.
// Later cart mutations never affect it. Only the status field changes,
// and only through tracking.
type Order struct {
	OrderID           string      `json:"order_id"`
	Items             []CartItem  `json:"items"`
	Total             float64     `json:"total"`
	DeliveryAddress   string      `json:"delivery_address"`
	PaymentMethod     string      `json:"payment_method"`
	Status            OrderStatus `json:"status"`
	EstimatedDelivery string      `json:"estimated_delivery"`
	PlacedAt          time.Time   `json:"placed_at"`
}
