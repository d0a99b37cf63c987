package nutrition

import (
	"errors"
	"fmt"

	"github.com/dukerupert/macrolog/internal/model"
)

const (
	// OunceGrams is one US ounce in grams.
	OunceGrams = 28.3495
	// DefaultGramsPerUnit approximates one serving of a per-mass food when
	// the entry has no serving weight. It is a rough default, not a
	// conversion.
	DefaultGramsPerUnit = 100
)

// ErrUnknownFood is returned by Convert for a key missing from the table.
var ErrUnknownFood = errors.New("unknown food")

// Conversion is the result of converting a quantity of a reference food.
type Conversion struct {
	Macros model.Macro
	Note   string
}

// Convert computes macros for quantity of the reference food key measured in
// unit. An empty unit means the food's natural measure.
func Convert(key string, quantity float64, unit string) (Conversion, error) {
	e, ok := byKey[key]
	if !ok {
		return Conversion{}, fmt.Errorf("convert %q: %w", key, ErrUnknownFood)
	}

	switch b := e.Basis.(type) {
	case PerMass:
		return convertPerMass(b, quantity, unit), nil
	case PerUnit:
		return convertPerUnit(b, quantity, unit), nil
	default:
		return Conversion{}, fmt.Errorf("convert %q: unsupported basis %T", key, b)
	}
}

func convertPerMass(b PerMass, quantity float64, unit string) Conversion {
	var grams float64
	switch unit {
	case "", "g":
		grams = quantity
	case "oz":
		grams = quantity * OunceGrams
	case "cup", "tbsp", "slice", "unit":
		gpu := b.GramsPerUnit
		if gpu <= 0 {
			gpu = DefaultGramsPerUnit
		}
		grams = quantity * gpu
	default:
		grams = quantity
	}
	return Conversion{Macros: b.Macros.Scale(grams / b.GramsPerBasis)}
}

func convertPerUnit(b PerUnit, quantity float64, unit string) Conversion {
	if unit == "" || unit == b.Unit {
		return Conversion{Macros: b.Macros.Scale(quantity)}
	}

	var grams float64
	switch unit {
	case "g":
		grams = quantity
	case "oz":
		grams = quantity * OunceGrams
	case "cup", "tbsp", "slice", "unit":
		grams = quantity * b.GramsPerUnit
	}

	if grams > 0 && b.GramsPerUnit > 0 {
		return Conversion{Macros: b.Macros.Scale(grams / b.GramsPerUnit)}
	}
	return Conversion{
		Macros: b.Macros.Scale(quantity),
		Note:   "Assumed unit " + b.Unit,
	}
}
