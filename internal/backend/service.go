// Package backend owns the restaurant reference data and the per-session
// cart/order state machine. All mutation goes through a single lock so the
// cart-to-order transition is observed as one atomic step.
package backend

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"nosh/pkg/schema"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// Service exposes the six food-ordering operations. Restaurant data is
// immutable after construction; carts and orders are guarded by mu.
type Service struct {
	restaurants     []schema.Restaurant
	byID            map[string]*schema.Restaurant
	defaultLocation string

	mu     sync.RWMutex
	carts  map[string]*schema.Cart
	orders map[string]*schema.Order
}

// NewService creates a backend service over the given restaurant catalog.
// defaultLocation is the fallback region used when a searched location has
// no exact match; empty disables the fallback.
func NewService(restaurants []schema.Restaurant, defaultLocation string) *Service {
	byID := make(map[string]*schema.Restaurant, len(restaurants))
	for i := range restaurants {
		byID[restaurants[i].ID] = &restaurants[i]
	}
	return &Service{
		restaurants:     restaurants,
		byID:            byID,
		defaultLocation: defaultLocation,
		carts:           make(map[string]*schema.Cart),
		orders:          make(map[string]*schema.Order),
	}
}

// normalizeLocation lowercases and strips all whitespace so "New  Delhi",
// "new delhi" and "NewDelhi" share one key.
func normalizeLocation(location string) string {
	return strings.ToLower(strings.Join(strings.Fields(location), ""))
}

// SearchRestaurants returns restaurants in the given location, narrowed by
// the optional cuisine (case-insensitive substring) and price range (exact)
// filters. An unknown location falls back to the default region rather than
// failing; this is policy, not an error. Source order is preserved and
// menus are omitted from results.
func (s *Service) SearchRestaurants(location, cuisine, priceRange string) []schema.Restaurant {
	candidates := s.inLocation(location)
	if len(candidates) == 0 && s.defaultLocation != "" {
		candidates = s.inLocation(s.defaultLocation)
	}

	results := make([]schema.Restaurant, 0, len(candidates))
	for _, r := range candidates {
		if cuisine != "" && !strings.Contains(strings.ToLower(r.Cuisine), strings.ToLower(cuisine)) {
			continue
		}
		if priceRange != "" && r.PriceRange != priceRange {
			continue
		}
		summary := *r
		summary.Menu = nil
		results = append(results, summary)
	}
	return results
}

func (s *Service) inLocation(location string) []*schema.Restaurant {
	key := normalizeLocation(location)
	var matches []*schema.Restaurant
	for i := range s.restaurants {
		if normalizeLocation(s.restaurants[i].Location) == key {
			matches = append(matches, &s.restaurants[i])
		}
	}
	return matches
}

// GetMenu returns the full menu of a restaurant.
func (s *Service) GetMenu(restaurantID string) ([]schema.MenuItem, error) {
	r, ok := s.byID[restaurantID]
	if !ok {
		return nil, &RestaurantNotFoundError{RestaurantID: restaurantID}
	}
	menu := make([]schema.MenuItem, len(r.Menu))
	copy(menu, r.Menu)
	return menu, nil
}

// AddToCart appends a new cart line for the session. The cart is created
// lazily on first use and bound to the restaurant; adding from a different
// restaurant afterwards is rejected. Lines are never merged: two identical
// calls produce two lines.
func (s *Service) AddToCart(sessionID, restaurantID, itemID string, quantity int, customizations string) (*schema.Cart, error) {
	if quantity <= 0 {
		return nil, &InvalidQuantityError{Quantity: quantity}
	}

	r, ok := s.byID[restaurantID]
	if !ok {
		return nil, &RestaurantNotFoundError{RestaurantID: restaurantID}
	}

	var item *schema.MenuItem
	for i := range r.Menu {
		if r.Menu[i].ID == itemID {
			item = &r.Menu[i]
			break
		}
	}
	if item == nil {
		return nil, &ItemNotFoundError{RestaurantID: restaurantID, ItemID: itemID}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, exists := s.carts[sessionID]
	if !exists {
		cart = &schema.Cart{
			RestaurantID:   r.ID,
			RestaurantName: r.Name,
			Items:          []schema.CartItem{},
		}
		s.carts[sessionID] = cart
	} else if cart.RestaurantID != restaurantID {
		return nil, &CartConflictError{
			CartRestaurantID:      cart.RestaurantID,
			RequestedRestaurantID: restaurantID,
		}
	}

	cart.Items = append(cart.Items, schema.CartItem{
		RestaurantID:   r.ID,
		RestaurantName: r.Name,
		ItemID:         item.ID,
		ItemName:       item.Name,
		Quantity:       quantity,
		Price:          item.Price,
		Customizations: customizations,
	})
	cart.Recompute()

	return cloneCart(cart), nil
}

// ViewCart returns the session's cart, or the empty-cart shape when none
// exists. Asking what's in the cart is always answerable.
func (s *Service) ViewCart(sessionID string) *schema.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return schema.EmptyCart()
	}
	return cloneCart(cart)
}

// PlaceOrder atomically converts the session's cart into an order: the
// order is created and the cart removed under one lock, so no caller ever
// observes both or neither.
func (s *Service) PlaceOrder(sessionID, deliveryAddress, paymentMethod string) (*schema.Order, error) {
	orderID, err := schema.NewOrderID()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[sessionID]
	if !ok || len(cart.Items) == 0 {
		return nil, &EmptyCartError{SessionID: sessionID}
	}

	order := &schema.Order{
		OrderID:           orderID,
		Items:             make([]schema.CartItem, len(cart.Items)),
		Total:             cart.Total,
		DeliveryAddress:   deliveryAddress,
		PaymentMethod:     paymentMethod,
		Status:            schema.StatusConfirmed,
		EstimatedDelivery: "35-45 minutes",
		PlacedAt:          timeNow(),
	}
	copy(order.Items, cart.Items)

	delete(s.carts, sessionID)
	s.orders[orderID] = order

	slog.Info("order placed",
		"order_id", orderID,
		"session_id", sessionID,
		"items", len(order.Items),
		"total", order.Total,
	)

	return cloneOrder(order), nil
}

// TrackOrder advances the order one step along the fixed status
// progression and returns the updated order. Delivered is terminal:
// tracking a delivered order returns it unchanged.
func (s *Service) TrackOrder(orderID string) (*schema.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, &OrderNotFoundError{OrderID: orderID}
	}

	order.Status = order.Status.Next()
	return cloneOrder(order), nil
}

func cloneCart(cart *schema.Cart) *schema.Cart {
	clone := *cart
	clone.Items = make([]schema.CartItem, len(cart.Items))
	copy(clone.Items, cart.Items)
	return &clone
}

func cloneOrder(order *schema.Order) *schema.Order {
	clone := *order
	clone.Items = make([]schema.CartItem, len(order.Items))
	copy(clone.Items, order.Items)
	return &clone
}
