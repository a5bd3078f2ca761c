// Package stats derives the board's food and headcount aggregates.
//
// Aggregates are recomputed in full from the current group list and catalog
// on every change. Nothing here is incremental: with a few dozen groups a
// full pass is cheap, and a pure recompute cannot drift from its inputs.
package stats

import (
	"checkinboard/internal/models"
)

// Summary is the board header's daily totals.
type Summary struct {
	People        int `json:"people"`
	PizzaActual   int `json:"pizzaActual"`
	PizzaEstimate int `json:"pizzaEstimate"`
	SnackActual   int `json:"snackActual"`
	SnackEstimate int `json:"snackEstimate"`
	Drinks        int `json:"drinks"`
}

// GroupFood is one group's food numbers for its card summary.
type GroupFood struct {
	PizzaActual   int `json:"pizzaActual"`
	PizzaEstimate int `json:"pizzaEstimate"`
	SnackActual   int `json:"snackActual"`
	SnackEstimate int `json:"snackEstimate"`
}

// Compute derives the daily totals from the full group list.
//
// Per group: headcount adds teamSize; the Food & Drink tier adds two drinks
// per head; either food tier adds ceil(teamSize/2) to both food estimates.
// Actuals sum the group's foodOrder quantities over the catalog's key sets,
// so order entries for items no longer in the catalog simply stop counting.
func Compute(groups []models.Group, catalog models.FoodCatalog) Summary {
	var s Summary
	for _, g := range groups {
		size := max(g.TeamSize, 0)
		s.People += size
		if g.Package == models.PackageFoodDrink {
			s.Drinks += size * 2
		}
		if g.HasFoodPackage() {
			s.PizzaEstimate += foodEstimate(size)
			s.SnackEstimate += foodEstimate(size)
		}
		s.PizzaActual += orderedTotal(g.FoodOrder, catalog.Pizzas)
		s.SnackActual += orderedTotal(g.FoodOrder, catalog.Snacks)
	}
	return s
}

// ComputeGroup derives one group's card food summary using the same
// catalog-driven sums and the same ceil(teamSize/2) estimate rule.
func ComputeGroup(g models.Group, catalog models.FoodCatalog) GroupFood {
	size := max(g.TeamSize, 0)
	return GroupFood{
		PizzaActual:   orderedTotal(g.FoodOrder, catalog.Pizzas),
		PizzaEstimate: foodEstimate(size),
		SnackActual:   orderedTotal(g.FoodOrder, catalog.Snacks),
		SnackEstimate: foodEstimate(size),
	}
}

// foodEstimate is ceil(teamSize / 2): one pizza and one snack per pair.
func foodEstimate(teamSize int) int {
	return (teamSize + 1) / 2
}

// orderedTotal sums the order quantities for keys present in the bucket.
// Missing order entries count as zero.
func orderedTotal(order map[string]int, bucket map[string]models.FoodItem) int {
	total := 0
	for key := range bucket {
		total += order[key]
	}
	return total
}
