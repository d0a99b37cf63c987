package plan

import (
	"testing"

	"github.com/dukerupert/macrolog/internal/model"
)

func TestRemainingFor(t *testing.T) {
	pl := model.Plan{TargetCalories: 2000, ProteinG: 150, CarbsG: 200, FatG: 60}
	consumed := model.Macro{Calories: 1500.4, Protein: 160.25, Carbs: 120, Fat: 59.5}

	got := RemainingFor(pl, consumed)

	wantRemaining := model.Macro{Calories: 500, Protein: 0, Carbs: 80, Fat: 0.5}
	if got.Remaining != wantRemaining {
		t.Errorf("remaining = %+v, want %+v", got.Remaining, wantRemaining)
	}
	wantOver := model.Macro{Protein: 10.3}
	if got.Over != wantOver {
		t.Errorf("over = %+v, want %+v", got.Over, wantOver)
	}
	if got.Targets != pl.Targets() {
		t.Errorf("targets = %+v, want %+v", got.Targets, pl.Targets())
	}
	if got.Consumed != consumed {
		t.Errorf("consumed = %+v, want %+v", got.Consumed, consumed)
	}
}

func TestRemainingForNothingEaten(t *testing.T) {
	pl := model.Plan{TargetCalories: 1539, ProteinG: 135, CarbsG: 115, FatG: 60}
	got := RemainingFor(pl, model.Macro{})
	if got.Remaining != pl.Targets() {
		t.Errorf("remaining = %+v, want targets %+v", got.Remaining, pl.Targets())
	}
	if !got.Over.IsZero() {
		t.Errorf("over = %+v, want zero", got.Over)
	}
}
