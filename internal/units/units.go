package units

// Unit is one of the fixed measurement units the shop works with.
// The string values match the persisted JSON representation.
type Unit string

const (
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Piece      Unit = "u"
)

// Class groups units that can be converted into each other.
// Conversions are only valid within a class.
type Class string

const (
	Mass   Class = "mass"
	Volume Class = "volume"
	Count  Class = "count"
)

// All lists every supported unit.
var All = []Unit{Gram, Kilogram, Milliliter, Liter, Piece}

// Class returns the compatibility class of the unit. Unknown units are
// treated as count so that callers stay total over arbitrary input.
func (u Unit) Class() Class {
	switch u {
	case Gram, Kilogram:
		return Mass
	case Milliliter, Liter:
		return Volume
	default:
		return Count
	}
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	switch u {
	case Gram, Kilogram, Milliliter, Liter, Piece:
		return true
	}
	return false
}

// Base returns the base unit of the unit's class: gram for mass,
// milliliter for volume, piece for count.
func (u Unit) Base() Unit {
	switch u.Class() {
	case Mass:
		return Gram
	case Volume:
		return Milliliter
	default:
		return Piece
	}
}

// ToBase expresses a quantity in the base unit of its class.
func ToBase(quantity float64, u Unit) float64 {
	if u == Kilogram || u == Liter {
		return quantity * 1000
	}
	return quantity
}

// FromBase expresses a base-unit quantity in the target unit.
// Inverse of ToBase for every unit.
func FromBase(baseQuantity float64, u Unit) float64 {
	if u == Kilogram || u == Liter {
		return baseQuantity / 1000
	}
	return baseQuantity
}

// Compatible returns the units sharing a class with u, in display order.
func Compatible(u Unit) []Unit {
	switch u.Class() {
	case Mass:
		return []Unit{Gram, Kilogram}
	case Volume:
		return []Unit{Milliliter, Liter}
	default:
		return []Unit{Piece}
	}
}
