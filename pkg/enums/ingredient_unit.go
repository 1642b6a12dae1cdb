package enums

import "fmt"

// IngredientUnit is the unit of measure stock and recipe quantities are
// expressed in.
type IngredientUnit string

const (
	IngredientUnitPiece      IngredientUnit = "piece"
	IngredientUnitGram       IngredientUnit = "gram"
	IngredientUnitMilliliter IngredientUnit = "milliliter"
)

var validIngredientUnits = []IngredientUnit{
	IngredientUnitPiece,
	IngredientUnitGram,
	IngredientUnitMilliliter,
}

func (u IngredientUnit) String() string {
	return string(u)
}

func (u IngredientUnit) IsValid() bool {
	for _, candidate := range validIngredientUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

func ParseIngredientUnit(value string) (IngredientUnit, error) {
	for _, candidate := range validIngredientUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ingredient unit %q", value)
}
