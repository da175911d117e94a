// Package costing derives monetary values from current catalog records.
// Every function is pure and deterministic: safe to call repeatedly for
// display, never mutating its inputs. Unresolved ingredient or recipe
// references contribute zero instead of failing; mixing units from
// different classes is the one condition reported as an error.
package costing

import (
	"errors"
	"fmt"

	"pasteleria-pro/internal/catalog"
	"pasteleria-pro/internal/units"
)

// ErrUnitClassMismatch reports an attempt to cost a quantity whose unit
// belongs to a different class than the ingredient's purchase unit,
// e.g. grams of an ingredient bought by the liter.
var ErrUnitClassMismatch = errors.New("used unit and purchased unit belong to different classes")

// ErrInvalidPurchase reports a non-positive purchased quantity, which
// has no defined unit cost. Repository-level validation prevents such
// records from being stored in the first place.
var ErrInvalidPurchase = errors.New("purchased quantity must be positive")

// IngredientUnitCost is the cost of one base unit (gram, milliliter or
// piece) of the ingredient, derived from a single purchase record.
func IngredientUnitCost(purchasedQuantity float64, purchasedUnit units.Unit, price float64) (float64, error) {
	if purchasedQuantity <= 0 {
		return 0, ErrInvalidPurchase
	}
	return price / units.ToBase(purchasedQuantity, purchasedUnit), nil
}

// IngredientCost is the cost of using usedQuantity (in usedUnit) of an
// ingredient purchased as purchasedQuantity (in purchasedUnit) for
// price. The two units may differ but must share a class.
func IngredientCost(purchasedQuantity float64, purchasedUnit units.Unit, price, usedQuantity float64, usedUnit units.Unit) (float64, error) {
	if usedUnit.Class() != purchasedUnit.Class() {
		return 0, fmt.Errorf("%w: used %s, purchased %s", ErrUnitClassMismatch, usedUnit, purchasedUnit)
	}
	unitCost, err := IngredientUnitCost(purchasedQuantity, purchasedUnit, price)
	if err != nil {
		return 0, err
	}
	return unitCost * units.ToBase(usedQuantity, usedUnit), nil
}

// RecipeCost sums the cost of every ingredient line. Lines referencing
// an ingredient that is no longer in the catalog contribute zero.
func RecipeCost(r catalog.Recipe, ingredients map[string]catalog.Ingredient) (float64, error) {
	var total float64
	for _, line := range r.Ingredients {
		ing, ok := ingredients[line.IngredientID]
		if !ok {
			continue
		}
		cost, err := IngredientCost(ing.PurchasedQuantity, ing.Unit, ing.Price, line.Quantity, line.Unit)
		if err != nil {
			return 0, fmt.Errorf("recipe %q, ingredient %q: %w", r.Name, ing.Name, err)
		}
		total += cost
	}
	return total, nil
}

// RecipeCostPerYield is the recipe cost divided by its yield amount,
// i.e. the cost of one produced unit (one cake, one dozen).
func RecipeCostPerYield(r catalog.Recipe, ingredients map[string]catalog.Ingredient) (float64, error) {
	if r.YieldAmount <= 0 {
		return 0, fmt.Errorf("recipe %q has no yield", r.Name)
	}
	cost, err := RecipeCost(r, ingredients)
	if err != nil {
		return 0, err
	}
	return cost / r.YieldAmount, nil
}

// EventIngredientsCost sums recipe costs scaled by their multipliers.
// Usages referencing a deleted recipe contribute zero.
func EventIngredientsCost(e catalog.Event, recipes map[string]catalog.Recipe, ingredients map[string]catalog.Ingredient) (float64, error) {
	var total float64
	for _, usage := range e.Recipes {
		r, ok := recipes[usage.RecipeID]
		if !ok {
			continue
		}
		cost, err := RecipeCost(r, ingredients)
		if err != nil {
			return 0, err
		}
		total += cost * usage.Multiplier
	}
	return total, nil
}

// EventLaborCost is the partner's hours at their rate plus hired help.
func EventLaborCost(e catalog.Event) float64 {
	return e.PartnerHours*e.PartnerHourlyRate + e.ExtraHelpCost
}

// EventTotalCost is ingredients plus labor plus extra expenses.
func EventTotalCost(e catalog.Event, recipes map[string]catalog.Recipe, ingredients map[string]catalog.Ingredient) (float64, error) {
	ingredientsCost, err := EventIngredientsCost(e, recipes, ingredients)
	if err != nil {
		return 0, err
	}
	return ingredientsCost + EventLaborCost(e) + e.ExtraExpenses, nil
}

// EventPrice applies the profit margin to the total cost. A margin of
// 30 prices the event at cost times 1.30.
func EventPrice(e catalog.Event, recipes map[string]catalog.Recipe, ingredients map[string]catalog.Ingredient) (float64, error) {
	totalCost, err := EventTotalCost(e, recipes, ingredients)
	if err != nil {
		return 0, err
	}
	return totalCost * (1 + e.ProfitMargin/100), nil
}

// OrderCost is the derived production cost of an order's items. It is
// independent of the order's manually entered TotalPrice.
func OrderCost(o catalog.Order, recipes map[string]catalog.Recipe, ingredients map[string]catalog.Ingredient) (float64, error) {
	var total float64
	for _, item := range o.Items {
		r, ok := recipes[item.RecipeID]
		if !ok {
			continue
		}
		cost, err := RecipeCost(r, ingredients)
		if err != nil {
			return 0, err
		}
		total += cost * float64(item.Quantity)
	}
	return total, nil
}
