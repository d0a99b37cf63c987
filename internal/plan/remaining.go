package plan

import (
	"math"

	"github.com/dukerupert/macrolog/internal/model"
)

// Remaining compares consumed macros against a plan's daily targets.
type Remaining struct {
	Targets   model.Macro `json:"targets"`
	Consumed  model.Macro `json:"consumed"`
	Remaining model.Macro `json:"remaining"`
	Over      model.Macro `json:"over"`
}

// RemainingFor returns what is left of pl's targets after consumed. Fields
// that are exceeded are reported as zero in Remaining and as the excess in
// Over. Calories are whole kcal; grams keep one decimal.
func RemainingFor(pl model.Plan, consumed model.Macro) Remaining {
	targets := pl.Targets()
	raw := model.Macro{
		Calories: targets.Calories - consumed.Calories,
		Protein:  targets.Protein - consumed.Protein,
		Carbs:    targets.Carbs - consumed.Carbs,
		Fat:      targets.Fat - consumed.Fat,
	}

	return Remaining{
		Targets:  targets,
		Consumed: consumed,
		Remaining: model.Macro{
			Calories: math.Max(0, math.Round(raw.Calories)),
			Protein:  math.Max(0, model.Round1(raw.Protein)),
			Carbs:    math.Max(0, model.Round1(raw.Carbs)),
			Fat:      math.Max(0, model.Round1(raw.Fat)),
		},
		Over: model.Macro{
			Calories: math.Max(0, math.Round(-raw.Calories)),
			Protein:  math.Max(0, model.Round1(-raw.Protein)),
			Carbs:    math.Max(0, model.Round1(-raw.Carbs)),
			Fat:      math.Max(0, model.Round1(-raw.Fat)),
		},
	}
}
