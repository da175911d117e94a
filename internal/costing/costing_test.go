package costing

import (
	"errors"
	"math"
	"testing"

	"pasteleria-pro/internal/catalog"
	"pasteleria-pro/internal/units"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestIngredientUnitCost(t *testing.T) {
	t.Run("PerBaseUnit", func(t *testing.T) {
		// 1000 g for $1000: $1 per gram.
		got, err := IngredientUnitCost(1000, units.Gram, 1000)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !almostEqual(got, 1) {
			t.Errorf("Expected unit cost 1, got %v", got)
		}
	})

	t.Run("PurchasedInKilograms", func(t *testing.T) {
		// 1 kg for $500: $0.50 per gram.
		got, err := IngredientUnitCost(1, units.Kilogram, 500)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !almostEqual(got, 0.5) {
			t.Errorf("Expected unit cost 0.5, got %v", got)
		}
	})

	t.Run("ZeroPurchasedQuantity", func(t *testing.T) {
		_, err := IngredientUnitCost(0, units.Gram, 100)
		if !errors.Is(err, ErrInvalidPurchase) {
			t.Errorf("Expected ErrInvalidPurchase, got %v", err)
		}
	})
}

func TestIngredientCost(t *testing.T) {
	t.Run("CrossUnitSameClass", func(t *testing.T) {
		// 1 kg for $500, using 500 g: ($500/1000g) * 500g = $250.
		got, err := IngredientCost(1, units.Kilogram, 500, 500, units.Gram)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !almostEqual(got, 250) {
			t.Errorf("Expected cost 250, got %v", got)
		}
	})

	t.Run("Linearity", func(t *testing.T) {
		base, err := IngredientCost(1000, units.Gram, 1000, 40, units.Gram)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		for _, k := range []float64{0, 0.5, 1, 3, 10} {
			scaled, err := IngredientCost(1000, units.Gram, 1000, 40*k, units.Gram)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !almostEqual(scaled, base*k) {
				t.Errorf("Expected cost(%v*q) == %v*cost(q), got %v vs %v", k, k, scaled, base*k)
			}
		}
	})

	t.Run("ClassMismatch", func(t *testing.T) {
		_, err := IngredientCost(1, units.Kilogram, 500, 500, units.Milliliter)
		if !errors.Is(err, ErrUnitClassMismatch) {
			t.Errorf("Expected ErrUnitClassMismatch, got %v", err)
		}
	})
}

func testIngredients() map[string]catalog.Ingredient {
	return map[string]catalog.Ingredient{
		"flour": {
			ID: "flour", Name: "Harina", Unit: units.Gram,
			PurchasedQuantity: 1000, Price: 1000, Quantity: 5000,
		},
		"butter": {
			ID: "butter", Name: "Manteca", Unit: units.Kilogram,
			PurchasedQuantity: 1, Price: 500, Quantity: 3,
		},
	}
}

func TestRecipeCost(t *testing.T) {
	ingredients := testIngredients()

	t.Run("NoIngredients", func(t *testing.T) {
		got, err := RecipeCost(catalog.Recipe{Name: "Vacía", YieldAmount: 1}, ingredients)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != 0 {
			t.Errorf("Expected cost 0, got %v", got)
		}
	})

	t.Run("SingleLine", func(t *testing.T) {
		// Flour is $1 per gram; 250 g of it costs $250.
		r := catalog.Recipe{
			Name: "Bizcochuelo", YieldAmount: 1,
			Ingredients: []catalog.RecipeIngredient{
				{IngredientID: "flour", Quantity: 250, Unit: units.Gram},
			},
		}
		got, err := RecipeCost(r, ingredients)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !almostEqual(got, 250) {
			t.Errorf("Expected cost 250, got %v", got)
		}
	})

	t.Run("MixedUnits", func(t *testing.T) {
		// 250 g of flour ($250) plus 500 g of butter purchased by the kilogram ($250).
		r := catalog.Recipe{
			Name: "Torta", YieldAmount: 1,
			Ingredients: []catalog.RecipeIngredient{
				{IngredientID: "flour", Quantity: 250, Unit: units.Gram},
				{IngredientID: "butter", Quantity: 500, Unit: units.Gram},
			},
		}
		got, err := RecipeCost(r, ingredients)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !almostEqual(got, 500) {
			t.Errorf("Expected cost 500, got %v", got)
		}
	})

	t.Run("DanglingIngredient", func(t *testing.T) {
		r := catalog.Recipe{
			Name: "Fantasma", YieldAmount: 1,
			Ingredients: []catalog.RecipeIngredient{
				{IngredientID: "deleted", Quantity: 100, Unit: units.Gram},
			},
		}
		got, err := RecipeCost(r, ingredients)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != 0 {
			t.Errorf("Expected dangling reference to contribute 0, got %v", got)
		}
	})

	t.Run("ClassMismatchPropagates", func(t *testing.T) {
		r := catalog.Recipe{
			Name: "Rota", YieldAmount: 1,
			Ingredients: []catalog.RecipeIngredient{
				{IngredientID: "flour", Quantity: 100, Unit: units.Milliliter},
			},
		}
		_, err := RecipeCost(r, ingredients)
		if !errors.Is(err, ErrUnitClassMismatch) {
			t.Errorf("Expected ErrUnitClassMismatch, got %v", err)
		}
	})
}

func TestRecipeCostPerYield(t *testing.T) {
	ingredients := testIngredients()
	r := catalog.Recipe{
		Name: "Docena de alfajores", YieldAmount: 12,
		Ingredients: []catalog.RecipeIngredient{
			{IngredientID: "flour", Quantity: 600, Unit: units.Gram},
		},
	}
	got, err := RecipeCostPerYield(r, ingredients)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !almostEqual(got, 50) {
		t.Errorf("Expected cost per yield 50, got %v", got)
	}
}

func TestEventCosts(t *testing.T) {
	ingredients := testIngredients()
	recipes := map[string]catalog.Recipe{
		"cake": {
			ID: "cake", Name: "Torta", YieldAmount: 1,
			Ingredients: []catalog.RecipeIngredient{
				{IngredientID: "flour", Quantity: 250, Unit: units.Gram},
			},
		},
	}

	t.Run("CostAndPrice", func(t *testing.T) {
		// Recipe costs $250; multiplier 2 brings ingredients to $500.
		// No labor, no extras, margin 50 prices it at $750.
		e := catalog.Event{
			Name: "Cumpleaños", ProfitMargin: 50,
			Recipes: []catalog.RecipeUsage{{RecipeID: "cake", Multiplier: 2}},
		}

		cost, err := EventTotalCost(e, recipes, ingredients)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !almostEqual(cost, 500) {
			t.Errorf("Expected total cost 500, got %v", cost)
		}

		price, err := EventPrice(e, recipes, ingredients)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !almostEqual(price, 750) {
			t.Errorf("Expected price 750, got %v", price)
		}
	})

	t.Run("LaborAndExtras", func(t *testing.T) {
		e := catalog.Event{
			Name:              "Casamiento",
			Recipes:           []catalog.RecipeUsage{{RecipeID: "cake", Multiplier: 1}},
			PartnerHours:      4,
			PartnerHourlyRate: 100,
			ExtraHelpCost:     50,
			ExtraExpenses:     25,
		}

		if got := EventLaborCost(e); !almostEqual(got, 450) {
			t.Errorf("Expected labor cost 450, got %v", got)
		}

		cost, err := EventTotalCost(e, recipes, ingredients)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !almostEqual(cost, 250+450+25) {
			t.Errorf("Expected total cost 725, got %v", cost)
		}
	})

	t.Run("ZeroMarginDefault", func(t *testing.T) {
		e := catalog.Event{
			Name:    "Sin margen",
			Recipes: []catalog.RecipeUsage{{RecipeID: "cake", Multiplier: 1}},
		}
		price, err := EventPrice(e, recipes, ingredients)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !almostEqual(price, 250) {
			t.Errorf("Expected price to equal cost with no margin, got %v", price)
		}
	})

	t.Run("DanglingRecipe", func(t *testing.T) {
		e := catalog.Event{
			Name:    "Receta borrada",
			Recipes: []catalog.RecipeUsage{{RecipeID: "missing", Multiplier: 3}},
		}
		got, err := EventIngredientsCost(e, recipes, ingredients)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != 0 {
			t.Errorf("Expected dangling recipe to contribute 0, got %v", got)
		}
	})
}

func TestOrderCost(t *testing.T) {
	ingredients := testIngredients()
	recipes := map[string]catalog.Recipe{
		"cake": {
			ID: "cake", Name: "Torta", YieldAmount: 1,
			Ingredients: []catalog.RecipeIngredient{
				{IngredientID: "flour", Quantity: 250, Unit: units.Gram},
			},
		},
	}

	o := catalog.Order{
		CustomerName: "Ana",
		Status:       catalog.StatusPending,
		Items: []catalog.OrderItem{
			{RecipeID: "cake", Quantity: 3},
			{RecipeID: "missing", Quantity: 2},
		},
		TotalPrice: 900,
	}

	got, err := OrderCost(o, recipes, ingredients)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !almostEqual(got, 750) {
		t.Errorf("Expected derived cost 750, got %v", got)
	}
	// The manually entered price is independent of the derived cost.
	if o.TotalPrice == got {
		t.Error("Test fixture should keep TotalPrice distinct from derived cost")
	}
}
