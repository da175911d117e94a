package store

import (
	"encoding/json"
	"fmt"
	"slices"

	"pasteleria-pro/internal/catalog"
	"pasteleria-pro/internal/units"
)

// State is the full in-memory snapshot of the shop's records. It is
// persisted as one JSON blob and handed out to callers only as copies.
type State struct {
	Ingredients []catalog.Ingredient `json:"ingredients"`
	Recipes     []catalog.Recipe     `json:"recipes"`
	Events      []catalog.Event      `json:"events"`
	Orders      []catalog.Order      `json:"orders"`
}

// Clone returns a deep copy of the state. Nested slices are copied so
// mutations on the clone never leak into the original.
func (st State) Clone() State {
	cloned := State{
		Ingredients: slices.Clone(st.Ingredients),
		Recipes:     slices.Clone(st.Recipes),
		Events:      slices.Clone(st.Events),
		Orders:      slices.Clone(st.Orders),
	}
	for i := range cloned.Recipes {
		cloned.Recipes[i].Ingredients = slices.Clone(cloned.Recipes[i].Ingredients)
	}
	for i := range cloned.Events {
		cloned.Events[i].Recipes = slices.Clone(cloned.Events[i].Recipes)
	}
	for i := range cloned.Orders {
		cloned.Orders[i].Items = slices.Clone(cloned.Orders[i].Items)
	}
	return cloned
}

// IngredientIndex builds an id lookup over the current ingredients.
func (st State) IngredientIndex() map[string]catalog.Ingredient {
	index := make(map[string]catalog.Ingredient, len(st.Ingredients))
	for _, ing := range st.Ingredients {
		index[ing.ID] = ing
	}
	return index
}

// RecipeIndex builds an id lookup over the current recipes.
func (st State) RecipeIndex() map[string]catalog.Recipe {
	index := make(map[string]catalog.Recipe, len(st.Recipes))
	for _, r := range st.Recipes {
		index[r.ID] = r
	}
	return index
}

// persistedIngredient mirrors catalog.Ingredient with pointer fields
// for the two that older snapshots may omit: purchasedQuantity was
// introduced after quantity, and snapshots predating it used quantity
// as the amount per purchase.
type persistedIngredient struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Unit              units.Unit `json:"unit"`
	PurchasedQuantity *float64   `json:"purchasedQuantity"`
	Price             float64    `json:"price"`
	Quantity          *float64   `json:"quantity"`
}

type persistedState struct {
	Ingredients []persistedIngredient `json:"ingredients"`
	Recipes     []catalog.Recipe      `json:"recipes"`
	Events      []catalog.Event       `json:"events"`
	Orders      []catalog.Order       `json:"orders"`
}

// decodeState parses a persisted snapshot, applying the one-time legacy
// migration: a missing quantity defaults to 0 and a missing
// purchasedQuantity defaults to the (possibly legacy) quantity value.
func decodeState(data []byte) (State, error) {
	var persisted persistedState
	if err := json.Unmarshal(data, &persisted); err != nil {
		return State{}, fmt.Errorf("failed to parse persisted state: %w", err)
	}

	st := State{
		Recipes: persisted.Recipes,
		Events:  persisted.Events,
		Orders:  persisted.Orders,
	}
	for _, p := range persisted.Ingredients {
		quantity := 0.0
		if p.Quantity != nil {
			quantity = *p.Quantity
		}
		purchased := quantity
		if p.PurchasedQuantity != nil {
			purchased = *p.PurchasedQuantity
		}
		st.Ingredients = append(st.Ingredients, catalog.Ingredient{
			ID:                p.ID,
			Name:              p.Name,
			Unit:              p.Unit,
			PurchasedQuantity: purchased,
			Price:             p.Price,
			Quantity:          quantity,
		})
	}
	return st, nil
}
