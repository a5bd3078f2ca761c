package models

// FoodItem is kitchen-supplied item metadata. Only the catalog keys matter
// to the board; the metadata is passed through for display.
type FoodItem map[string]any

// FoodCatalog holds the two kitchen item buckets. The key sets decide which
// foodOrder entries count as pizzas vs snacks when aggregating.
type FoodCatalog struct {
	Pizzas map[string]FoodItem `json:"pizzas"`
	Snacks map[string]FoodItem `json:"snacks"`
}

// Catalog document ids inside the foodItems collection. Any other document
// id in that collection is ignored.
const (
	CatalogPizzas = "pizzas"
	CatalogSnacks = "snacks"
)

// DefaultFoodCatalog seeds a fresh store with a usable kitchen menu.
func DefaultFoodCatalog() FoodCatalog {
	return FoodCatalog{
		Pizzas: map[string]FoodItem{
			"margherita": {"name": "Margherita"},
			"pepperoni":  {"name": "Pepperoni"},
			"veggie":     {"name": "Veggie"},
		},
		Snacks: map[string]FoodItem{
			"fries":    {"name": "Fries"},
			"wings":    {"name": "Wings"},
			"nachos":   {"name": "Nachos"},
			"halloumi": {"name": "Halloumi Bites"},
		},
	}
}
