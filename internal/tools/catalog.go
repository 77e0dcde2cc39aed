package tools

import (
	"context"
	"encoding/json"
)

// RegisterCatalog installs the six food-ordering tools. Descriptions are
// written for the model: they are the only documentation it sees.
func RegisterCatalog(r *Registry) error {
	defs := []*Definition{
		{
			Name:        "search_restaurants",
			Description: "Search for restaurants by delivery location, optionally filtered by cuisine and price range. Unknown locations fall back to the default delivery region.",
			InputSchema: objectSchema(map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "Delivery city or area, e.g. 'Vadodara'",
				},
				"cuisine": map[string]any{
					"type":        "string",
					"description": "Optional cuisine filter, e.g. 'Italian'",
				},
				"price_range": map[string]any{
					"type":        "string",
					"description": "Optional exact price range filter: '$', '$$' or '$$$'",
				},
			}, "location"),
			Handler: func(ctx context.Context, args map[string]any, tc *Context) (any, error) {
				restaurants := tc.Backend.SearchRestaurants(
					stringArg(args, "location"),
					stringArg(args, "cuisine"),
					stringArg(args, "price_range"),
				)
				return map[string]any{"restaurants": restaurants, "count": len(restaurants)}, nil
			},
		},
		{
			Name:        "get_menu",
			Description: "Get the full menu of a restaurant by its restaurant_id.",
			InputSchema: objectSchema(map[string]any{
				"restaurant_id": map[string]any{
					"type":        "string",
					"description": "Restaurant identifier from search results, e.g. 'rest_001'",
				},
			}, "restaurant_id"),
			Handler: func(ctx context.Context, args map[string]any, tc *Context) (any, error) {
				menu, err := tc.Backend.GetMenu(stringArg(args, "restaurant_id"))
				if err != nil {
					return nil, err
				}
				return map[string]any{"menu": menu}, nil
			},
		},
		{
			Name:        "add_to_cart",
			Description: "Add a menu item to the user's cart. Each call appends a new cart line; quantities of repeated calls are not merged. All items in one cart must come from the same restaurant.",
			InputSchema: objectSchema(map[string]any{
				"restaurant_id": map[string]any{
					"type":        "string",
					"description": "Restaurant the item belongs to",
				},
				"item_id": map[string]any{
					"type":        "string",
					"description": "Menu item identifier, e.g. 'item_001'",
				},
				"quantity": map[string]any{
					"type":        "integer",
					"description": "Number of units, a positive integer (default 1)",
				},
				"customizations": map[string]any{
					"type":        "string",
					"description": "Optional free-text customizations, e.g. 'extra spicy'",
				},
			}, "restaurant_id", "item_id"),
			Handler: func(ctx context.Context, args map[string]any, tc *Context) (any, error) {
				cart, err := tc.Backend.AddToCart(
					tc.SessionID,
					stringArg(args, "restaurant_id"),
					stringArg(args, "item_id"),
					intArg(args, "quantity", 1),
					stringArg(args, "customizations"),
				)
				if err != nil {
					return nil, err
				}
				return map[string]any{"cart": cart}, nil
			},
		},
		{
			Name:        "view_cart",
			Description: "Show the current contents and total of the user's cart. Always succeeds; an empty cart has no items and a total of 0.",
			InputSchema: objectSchema(map[string]any{}),
			Handler: func(ctx context.Context, args map[string]any, tc *Context) (any, error) {
				return map[string]any{"cart": tc.Backend.ViewCart(tc.SessionID)}, nil
			},
		},
		{
			Name:        "place_order",
			Description: "Place an order from the user's cart. Requires a delivery address and a payment method; fails if the cart is empty. The cart is consumed by a successful order.",
			InputSchema: objectSchema(map[string]any{
				"delivery_address": map[string]any{
					"type":        "string",
					"description": "Full delivery address",
				},
				"payment_method": map[string]any{
					"type":        "string",
					"description": "Payment method, e.g. 'card', 'cash', 'upi'",
				},
			}, "delivery_address", "payment_method"),
			Handler: func(ctx context.Context, args map[string]any, tc *Context) (any, error) {
				order, err := tc.Backend.PlaceOrder(
					tc.SessionID,
					stringArg(args, "delivery_address"),
					stringArg(args, "payment_method"),
				)
				if err != nil {
					return nil, err
				}
				return map[string]any{"order": order}, nil
			},
		},
		{
			Name:        "track_order",
			Description: "Track the delivery status of a placed order by its order_id.",
			InputSchema: objectSchema(map[string]any{
				"order_id": map[string]any{
					"type":        "string",
					"description": "Order identifier returned by place_order",
				},
			}, "order_id"),
			Handler: func(ctx context.Context, args map[string]any, tc *Context) (any, error) {
				order, err := tc.Backend.TrackOrder(stringArg(args, "order_id"))
				if err != nil {
					return nil, err
				}
				return map[string]any{"order": order}, nil
			},
		},
	}

	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// intArg reads an integer argument. Decoded JSON numbers arrive as
// float64; json.Number shows up when the decoder uses it.
func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return fallback
}
