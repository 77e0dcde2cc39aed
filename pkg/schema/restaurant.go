package schema

// Restaurant is a read-only reference record keyed by ID.
type Restaurant struct {
	ID         string     `json:"restaurant_id" yaml:"restaurant_id"`
	Name       string     `json:"name" yaml:"name"`
	Cuisine    string     `json:"cuisine" yaml:"cuisine"`
	Location   string     `json:"location" yaml:"location"`
	Rating     float64    `json:"rating" yaml:"rating"`
	PriceRange string     `json:"price_range" yaml:"price_range"`
	Menu       []MenuItem `json:"menu,omitempty" yaml:"menu"`
}

// MenuItem is a single dish on a restaurant's menu.
type MenuItem struct {
	ID          string  `json:"item_id" yaml:"item_id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
}
