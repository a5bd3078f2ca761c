package stats

import (
	"testing"

	"checkinboard/internal/models"
)

func testCatalog() models.FoodCatalog {
	return models.FoodCatalog{
		Pizzas: map[string]models.FoodItem{
			"margherita": {"name": "Margherita"},
			"pepperoni":  {"name": "Pepperoni"},
		},
		Snacks: map[string]models.FoodItem{
			"fries": {"name": "Fries"},
			"wings": {"name": "Wings"},
		},
	}
}

func TestCompute(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name   string
		groups []models.Group
		want   Summary
	}{
		{
			name:   "empty board",
			groups: nil,
			want:   Summary{},
		},
		{
			name: "food and drink package contributions",
			groups: []models.Group{
				{TeamSize: 5, Package: models.PackageFoodDrink},
			},
			want: Summary{People: 5, Drinks: 10, PizzaEstimate: 3, SnackEstimate: 3},
		},
		{
			name: "food package has no drinks",
			groups: []models.Group{
				{TeamSize: 4, Package: models.PackageFood},
			},
			want: Summary{People: 4, PizzaEstimate: 2, SnackEstimate: 2},
		},
		{
			name: "no package counts heads only",
			groups: []models.Group{
				{TeamSize: 6, Package: models.PackageNone},
			},
			want: Summary{People: 6},
		},
		{
			name: "actuals follow catalog key sets",
			groups: []models.Group{
				{
					TeamSize: 2,
					Package:  models.PackageFood,
					FoodOrder: map[string]int{
						"margherita": 2,
						"fries":      3,
						"discontinued-special": 9, // not in catalog, ignored
					},
				},
			},
			want: Summary{People: 2, PizzaActual: 2, PizzaEstimate: 1, SnackActual: 3, SnackEstimate: 1},
		},
		{
			name: "multiple groups accumulate",
			groups: []models.Group{
				{TeamSize: 5, Package: models.PackageFoodDrink},
				{TeamSize: 3, Package: models.PackageFood, FoodOrder: map[string]int{"wings": 1}},
				{TeamSize: 2, Package: models.PackageNone},
			},
			want: Summary{
				People:        10,
				Drinks:        10,
				PizzaEstimate: 3 + 2,
				SnackEstimate: 3 + 2,
				SnackActual:   1,
			},
		},
		{
			name: "negative team size clamps to zero",
			groups: []models.Group{
				{TeamSize: -4, Package: models.PackageFoodDrink},
			},
			want: Summary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.groups, catalog); got != tt.want {
				t.Errorf("Compute() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	catalog := testCatalog()
	groups := []models.Group{
		{TeamSize: 5, Package: models.PackageFoodDrink, FoodOrder: map[string]int{"margherita": 1}},
		{TeamSize: 3, Package: models.PackageFood},
	}

	first := Compute(groups, catalog)
	second := Compute(groups, catalog)
	if first != second {
		t.Errorf("recompute on unchanged input differs: %+v then %+v", first, second)
	}
}

func TestComputeToleratesDanglingReferences(t *testing.T) {
	// A group pointing at a deleted staff member or area must still count.
	groups := []models.Group{
		{
			TeamSize:           4,
			Package:            models.PackageFood,
			AssignedTeamMember: "Deleted Person",
			AssignedAreas:      []string{"Demolished Mezzanine"},
		},
	}

	got := Compute(groups, testCatalog())
	want := Summary{People: 4, PizzaEstimate: 2, SnackEstimate: 2}
	if got != want {
		t.Errorf("Compute() = %+v, want %+v", got, want)
	}
}

func TestComputeGroup(t *testing.T) {
	catalog := testCatalog()
	g := models.Group{
		TeamSize: 5,
		Package:  models.PackageFoodDrink,
		FoodOrder: map[string]int{
			"margherita": 2,
			"pepperoni":  1,
			"fries":      4,
		},
	}

	got := ComputeGroup(g, catalog)
	want := GroupFood{PizzaActual: 3, PizzaEstimate: 3, SnackActual: 4, SnackEstimate: 3}
	if got != want {
		t.Errorf("ComputeGroup() = %+v, want %+v", got, want)
	}
}
