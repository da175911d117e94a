package catalog

import (
	"pasteleria-pro/internal/units"
)

// Ingredient is a purchasable supply. Unit cost is derived from one
// purchase: Price buys PurchasedQuantity of the ingredient, expressed
// in Unit. Quantity is the current on-hand stock in the same unit.
type Ingredient struct {
	ID                string     `json:"id"`
	Name              string     `json:"name" validate:"required"`
	Unit              units.Unit `json:"unit" validate:"oneof=g kg ml l u"`
	PurchasedQuantity float64    `json:"purchasedQuantity" validate:"gt=0"`
	Price             float64    `json:"price" validate:"gte=0"`
	Quantity          float64    `json:"quantity" validate:"gte=0"`
}

// RecipeIngredient is one line of a recipe: how much of an ingredient
// the recipe consumes. The unit must share a class with the referenced
// ingredient's unit but need not equal it (purchased in kg, used in g).
type RecipeIngredient struct {
	IngredientID string     `json:"ingredientId" validate:"required"`
	Quantity     float64    `json:"quantity" validate:"gt=0"`
	Unit         units.Unit `json:"unit" validate:"oneof=g kg ml l u"`
}

// Recipe produces YieldAmount of YieldUnit (a free-text label such as
// "cake") from an ordered list of ingredient lines.
type Recipe struct {
	ID              string             `json:"id"`
	Name            string             `json:"name" validate:"required"`
	YieldAmount     float64            `json:"yieldAmount" validate:"gt=0"`
	YieldUnit       string             `json:"yieldUnit"`
	PreparationTime int                `json:"preparationTime" validate:"gte=0"`
	Ingredients     []RecipeIngredient `json:"ingredients" validate:"dive"`
}

// RecipeUsage scales a recipe's base yield: a multiplier of 2 means the
// recipe is produced twice.
type RecipeUsage struct {
	RecipeID   string  `json:"recipeId" validate:"required"`
	Multiplier float64 `json:"multiplier" validate:"gt=0"`
}

// Event is a catering engagement. Cost is derived from its recipe
// usages plus labor and extras; price applies the profit margin.
type Event struct {
	ID                string        `json:"id"`
	Name              string        `json:"name" validate:"required"`
	Date              string        `json:"date"`
	Pax               int           `json:"pax" validate:"gte=0"`
	Recipes           []RecipeUsage `json:"recipes" validate:"dive"`
	PartnerHours      float64       `json:"partnerHours" validate:"gte=0"`
	PartnerHourlyRate float64       `json:"partnerHourlyRate" validate:"gte=0"`
	ExtraHelpCost     float64       `json:"extraHelpCost" validate:"gte=0"`
	ProfitMargin      float64       `json:"profitMargin" validate:"gte=0"`
	ExtraExpenses     float64       `json:"extraExpenses" validate:"gte=0"`
}

// OrderStatus is the lifecycle state of a customer order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderItem is one line of an order: Quantity whole units of a recipe.
type OrderItem struct {
	RecipeID string `json:"recipeId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Notes    string `json:"notes"`
}

// Order is a customer order. TotalPrice is entered by hand and is never
// reconciled against the derived cost of its items.
type Order struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customerName" validate:"required"`
	DeliveryDate string      `json:"deliveryDate"`
	Status       OrderStatus `json:"status" validate:"oneof=pending completed cancelled"`
	Items        []OrderItem `json:"items" validate:"dive"`
	TotalPrice   float64     `json:"totalPrice" validate:"gte=0"`
	DepositPaid  float64     `json:"depositPaid" validate:"gte=0"`
	Notes        string      `json:"notes"`
}

// Usages maps the order's items onto recipe usages, with the item
// quantity acting as the multiplier. Stock adjustment for orders runs
// through the same path as for events.
func (o Order) Usages() []RecipeUsage {
	usages := make([]RecipeUsage, 0, len(o.Items))
	for _, item := range o.Items {
		usages = append(usages, RecipeUsage{
			RecipeID:   item.RecipeID,
			Multiplier: float64(item.Quantity),
		})
	}
	return usages
}

// Balance is the amount still owed on the order.
func (o Order) Balance() float64 {
	return o.TotalPrice - o.DepositPaid
}
