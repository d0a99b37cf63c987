package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// Macro holds calories and the three macronutrients in grams.
type Macro struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns the field-wise sum of m and o, each field rounded to one decimal.
func (m Macro) Add(o Macro) Macro {
	return Macro{
		Calories: Round1(m.Calories + o.Calories),
		Protein:  Round1(m.Protein + o.Protein),
		Carbs:    Round1(m.Carbs + o.Carbs),
		Fat:      Round1(m.Fat + o.Fat),
	}
}

// Scale returns m multiplied by factor, each field rounded to one decimal.
func (m Macro) Scale(factor float64) Macro {
	return Macro{
		Calories: Round1(m.Calories * factor),
		Protein:  Round1(m.Protein * factor),
		Carbs:    Round1(m.Carbs * factor),
		Fat:      Round1(m.Fat * factor),
	}
}

func (m Macro) IsZero() bool {
	return m == Macro{}
}

// Round1 rounds v to one decimal place. Rounding works on the shortest
// decimal form of v, so 0.15 becomes 0.2 rather than following its binary
// approximation. NaN and infinities are returned unchanged.
func Round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
