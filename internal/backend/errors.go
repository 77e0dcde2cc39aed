package backend

import "fmt"

// RestaurantNotFoundError indicates a lookup against an unknown restaurant ID.
type RestaurantNotFoundError struct {
	RestaurantID string
}

func (e *RestaurantNotFoundError) Error() string {
	return fmt.Sprintf("restaurant %s not found", e.RestaurantID)
}

// ItemNotFoundError indicates a menu item lookup miss within a restaurant.
type ItemNotFoundError struct {
	RestaurantID string
	ItemID       string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %s not found on menu of restaurant %s", e.ItemID, e.RestaurantID)
}

// InvalidQuantityError indicates a non-positive quantity in an add-to-cart call.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be a positive integer, got %d", e.Quantity)
}

// CartConflictError indicates an attempt to add items from a second
// restaurant to a cart already bound to another one.
type CartConflictError struct {
	CartRestaurantID      string
	RequestedRestaurantID string
}

func (e *CartConflictError) Error() string {
	return fmt.Sprintf("cart is bound to restaurant %s; cannot add items from %s without placing or clearing the order first",
		e.CartRestaurantID, e.RequestedRestaurantID)
}

// EmptyCartError indicates an order placement against a missing or empty cart.
type EmptyCartError struct {
	SessionID string
}

func (e *EmptyCartError) Error() string {
	return fmt.Sprintf("cart for session %s is empty; add items before placing an order", e.SessionID)
}

// OrderNotFoundError indicates a tracking lookup against an unknown order ID.
type OrderNotFoundError struct {
	OrderID string
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %s not found", e.OrderID)
}
