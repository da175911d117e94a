// Package stock computes new ingredient snapshots reflecting the
// consumption or restoration implied by a set of recipe usages. The
// adjustment never fails: dangling references and cross-class recipe
// lines are skipped, and consumed stock is clamped at zero.
package stock

import (
	"slices"

	"pasteleria-pro/internal/catalog"
	"pasteleria-pro/internal/units"
)

// Direction selects whether usages consume stock or give it back.
type Direction int

const (
	Consume Direction = iota
	Restore
)

// Adjust returns a new ingredient slice with quantities adjusted for
// the given usages. The input slice is not mutated.
//
// Usages are processed in list order. Because consumption clamps each
// ingredient at zero per step, the final result under a deficit depends
// on that order; processing in insertion order keeps it reproducible.
func Adjust(ingredients []catalog.Ingredient, recipes map[string]catalog.Recipe, usages []catalog.RecipeUsage, direction Direction) []catalog.Ingredient {
	adjusted := slices.Clone(ingredients)

	index := make(map[string]int, len(adjusted))
	for i, ing := range adjusted {
		index[ing.ID] = i
	}

	for _, usage := range usages {
		recipe, ok := recipes[usage.RecipeID]
		if !ok {
			continue
		}
		for _, line := range recipe.Ingredients {
			i, ok := index[line.IngredientID]
			if !ok {
				continue
			}
			ing := adjusted[i]
			if line.Unit.Class() != ing.Unit.Class() {
				continue
			}

			usedBase := units.ToBase(line.Quantity, line.Unit) * usage.Multiplier
			used := units.FromBase(usedBase, ing.Unit)

			switch direction {
			case Consume:
				ing.Quantity = max(0, ing.Quantity-used)
			case Restore:
				ing.Quantity += used
			}
			adjusted[i] = ing
		}
	}

	return adjusted
}
