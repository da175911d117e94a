package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// InvalidEntityError reports that an entity failed field-level
// validation at the repository boundary. In particular it is the guard
// against a zero purchasedQuantity, which would otherwise surface as a
// division by zero deep inside cost calculation.
type InvalidEntityError struct {
	Kind string
	Err  error
}

func (e *InvalidEntityError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Kind, e.Err)
}

func (e *InvalidEntityError) Unwrap() error {
	return e.Err
}

// ValidateIngredient checks the ingredient's field-level invariants:
// purchasedQuantity > 0, quantity >= 0, a known unit and a name.
func ValidateIngredient(i Ingredient) error {
	if err := validate.Struct(i); err != nil {
		return &InvalidEntityError{Kind: "ingredient", Err: err}
	}
	return nil
}

// ValidateRecipe checks the recipe and every ingredient line.
func ValidateRecipe(r Recipe) error {
	if err := validate.Struct(r); err != nil {
		return &InvalidEntityError{Kind: "recipe", Err: err}
	}
	return nil
}

// ValidateEvent checks the event and every recipe usage.
func ValidateEvent(e Event) error {
	if err := validate.Struct(e); err != nil {
		return &InvalidEntityError{Kind: "event", Err: err}
	}
	return nil
}

// ValidateOrder checks the order, its status and every item.
func ValidateOrder(o Order) error {
	if err := validate.Struct(o); err != nil {
		return &InvalidEntityError{Kind: "order", Err: err}
	}
	return nil
}
