package schema

// CartItem is one appended cart line. Lines are never merged by item ID;
// adding the same item twice produces two lines.
type CartItem struct {
	RestaurantID   string  `json:"restaurant_id"`
	RestaurantName string  `json:"restaurant_name,omitempty"`
	ItemID         string  `json:"item_id"`
	ItemName       string  `json:"item_name"`
	Quantity       int     `json:"quantity"`
	Price          float64 `json:"price"`
	Customizations string  `json:"customizations,omitempty"`
}

// Subtotal returns price × quantity for this line.
func (c CartItem) Subtotal() float64 {
	return c.Price * float64(c.Quantity)
}

// Cart holds a session's pending order. Total is always the sum of line
// subtotals, recomputed after every mutation.
type Cart struct {
	RestaurantID   string     `json:"restaurant_id,omitempty"`
	RestaurantName string     `json:"restaurant_name,omitempty"`
	Items          []CartItem `json:"items"`
	Total          float64    `json:"total"`
}

// EmptyCart is the shape returned when a session has no cart. Viewing a
// cart is always answerable, never an error.
func EmptyCart() *Cart {
	return &Cart{Items: []CartItem{}, Total: 0}
}

// Recompute sets Total to the exact sum of line subtotals.
func (c *Cart) Recompute() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	c.Total = total
}
