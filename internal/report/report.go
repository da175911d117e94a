// Package report builds the derived read-only views the shop works
// from day to day: the dashboard summary, the per-event shopping list
// and order filtering. It consumes snapshots and never mutates state.
package report

import (
	"sort"
	"strings"
	"time"

	"pasteleria-pro/internal/catalog"
	"pasteleria-pro/internal/costing"
	"pasteleria-pro/internal/store"
	"pasteleria-pro/internal/units"
)

// dateLayout matches the date strings stored on events.
const dateLayout = "2006-01-02"

// maxUpcoming caps the upcoming-events list on the dashboard.
const maxUpcoming = 5

// Summary is the dashboard view: record counts, aggregate money
// figures over all events, and the next few upcoming events.
type Summary struct {
	Ingredients int
	Recipes     int
	Events      int
	Orders      int

	Revenue float64
	Cost    float64
	Profit  float64

	Upcoming []catalog.Event
}

// BuildSummary derives the dashboard summary from a snapshot. Revenue
// sums event prices, cost sums event total costs, profit is the
// difference.
func BuildSummary(st store.State, now time.Time) (Summary, error) {
	summary := Summary{
		Ingredients: len(st.Ingredients),
		Recipes:     len(st.Recipes),
		Events:      len(st.Events),
		Orders:      len(st.Orders),
	}

	recipes := st.RecipeIndex()
	ingredients := st.IngredientIndex()

	for _, e := range st.Events {
		cost, err := costing.EventTotalCost(e, recipes, ingredients)
		if err != nil {
			return Summary{}, err
		}
		price, err := costing.EventPrice(e, recipes, ingredients)
		if err != nil {
			return Summary{}, err
		}
		summary.Cost += cost
		summary.Revenue += price
	}
	summary.Profit = summary.Revenue - summary.Cost

	summary.Upcoming = upcomingEvents(st.Events, now)
	return summary, nil
}

// upcomingEvents returns the next events on or after now, soonest
// first. Events with unparseable dates are left out.
func upcomingEvents(events []catalog.Event, now time.Time) []catalog.Event {
	today := now.Truncate(24 * time.Hour)

	type dated struct {
		event catalog.Event
		date  time.Time
	}
	var upcoming []dated
	for _, e := range events {
		d, err := time.Parse(dateLayout, e.Date)
		if err != nil || d.Before(today) {
			continue
		}
		upcoming = append(upcoming, dated{event: e, date: d})
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].date.Before(upcoming[j].date)
	})

	var result []catalog.Event
	for i, d := range upcoming {
		if i == maxUpcoming {
			break
		}
		result = append(result, d.event)
	}
	return result
}

// ShoppingItem is one aggregated line of an event's shopping list.
type ShoppingItem struct {
	IngredientID string
	Name         string
	Quantity     float64
	Unit         units.Unit
	Cost         float64
}

// ShoppingList aggregates the total quantity and cost per ingredient
// across an event's recipe usages, in order of first appearance.
// Quantities are accumulated in the base unit and reported in the unit
// of the ingredient's first recipe line, so lines written in grams and
// kilograms of the same ingredient add up correctly. Dangling recipe or
// ingredient references are skipped.
func ShoppingList(e catalog.Event, recipes map[string]catalog.Recipe, ingredients map[string]catalog.Ingredient) ([]ShoppingItem, error) {
	type entry struct {
		item         ShoppingItem
		baseQuantity float64
	}
	var entries []*entry
	byIngredient := make(map[string]*entry)

	for _, usage := range e.Recipes {
		recipe, ok := recipes[usage.RecipeID]
		if !ok {
			continue
		}
		for _, line := range recipe.Ingredients {
			ing, ok := ingredients[line.IngredientID]
			if !ok {
				continue
			}

			totalQuantity := line.Quantity * usage.Multiplier
			cost, err := costing.IngredientCost(ing.PurchasedQuantity, ing.Unit, ing.Price, totalQuantity, line.Unit)
			if err != nil {
				return nil, err
			}

			en, ok := byIngredient[ing.ID]
			if !ok {
				en = &entry{item: ShoppingItem{
					IngredientID: ing.ID,
					Name:         ing.Name,
					Unit:         line.Unit,
				}}
				byIngredient[ing.ID] = en
				entries = append(entries, en)
			}
			en.baseQuantity += units.ToBase(totalQuantity, line.Unit)
			en.item.Cost += cost
		}
	}

	items := make([]ShoppingItem, 0, len(entries))
	for _, en := range entries {
		en.item.Quantity = units.FromBase(en.baseQuantity, en.item.Unit)
		items = append(items, en.item)
	}
	return items, nil
}

// FilterOrders returns the orders whose customer name contains term,
// case-insensitively. An empty term matches everything.
func FilterOrders(orders []catalog.Order, term string) []catalog.Order {
	if term == "" {
		return orders
	}
	term = strings.ToLower(term)
	var matched []catalog.Order
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.CustomerName), term) {
			matched = append(matched, o)
		}
	}
	return matched
}
