package plan

import (
	"math"
	"testing"
	"time"

	"github.com/dukerupert/macrolog/internal/model"
)

var fixedNow = time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)

func TestComputeDefaultProfile(t *testing.T) {
	p := model.Profile{Gender: model.GenderMale, HeightCm: 175, WeightKg: 75, GoalWeightKg: 70, Units: model.UnitsMetric}
	got := ComputeAt(p, fixedNow)

	// bmr = 750 + 1093.75 - 150 + 5
	if got.BMR != 1699 {
		t.Errorf("bmr = %d, want 1699", got.BMR)
	}
	if got.TDEE != 2039 {
		t.Errorf("tdee = %d, want 2039", got.TDEE)
	}
	if got.TargetCalories != 1539 {
		t.Errorf("target = %d, want 1539", got.TargetCalories)
	}
	if got.ProteinG != 135 || got.FatG != 60 {
		t.Errorf("protein/fat = %d/%d, want 135/60", got.ProteinG, got.FatG)
	}
	if got.CarbsG != 115 {
		t.Errorf("carbs = %d, want 115", got.CarbsG)
	}
	if got.DeltaKg != -5 {
		t.Errorf("delta = %v, want -5", got.DeltaKg)
	}
	if got.DailyDeltaKcal != -500 {
		t.Errorf("daily delta = %d, want -500", got.DailyDeltaKcal)
	}
	if got.DaysToGoal != 77 || got.WeeksToGoal != 11 {
		t.Errorf("timeline = %d days / %v weeks, want 77 / 11", got.DaysToGoal, got.WeeksToGoal)
	}
	wantDate := time.Date(2026, 5, 18, 0, 0, 0, 0, time.UTC)
	if !got.TargetDate.Equal(wantDate) {
		t.Errorf("target date = %v, want %v", got.TargetDate, wantDate)
	}
	if got.AgeAssumed != 30 {
		t.Errorf("age = %d, want 30", got.AgeAssumed)
	}
}

func TestComputeCeilingApplies(t *testing.T) {
	p := model.Profile{Gender: model.GenderFemale, HeightCm: 165, WeightKg: 60, GoalWeightKg: 65}
	got := ComputeAt(p, fixedNow)

	// tdee 1584.3, +500 would exceed 1.2*tdee = 1901.16
	if got.TargetCalories != 1901 {
		t.Errorf("target = %d, want 1901", got.TargetCalories)
	}
	if got.DailyDeltaKcal != 317 {
		t.Errorf("daily delta = %d, want 317", got.DailyDeltaKcal)
	}
	if got.DaysToGoal != 122 {
		t.Errorf("days = %d, want 122", got.DaysToGoal)
	}
	if got.WeeksToGoal != 17.4 {
		t.Errorf("weeks = %v, want 17.4", got.WeeksToGoal)
	}
}

func TestComputeFloorWinsOverCeiling(t *testing.T) {
	p := model.Profile{Gender: model.GenderFemale, HeightCm: 100, WeightKg: 30, GoalWeightKg: 28}
	got := ComputeAt(p, fixedNow)
	if got.TargetCalories != MinCalories {
		t.Errorf("target = %d, want %d", got.TargetCalories, MinCalories)
	}
}

func TestComputeMaintain(t *testing.T) {
	p := model.DefaultProfile()
	p.GoalWeightKg = p.WeightKg
	got := ComputeAt(p, fixedNow)

	if got.DailyDeltaKcal != 0 {
		t.Errorf("daily delta = %d, want 0", got.DailyDeltaKcal)
	}
	if got.TargetCalories != got.TDEE {
		t.Errorf("target = %d, want tdee %d", got.TargetCalories, got.TDEE)
	}
	if got.WeeksToGoal != 0 || got.DaysToGoal != 0 {
		t.Errorf("timeline = %d / %v, want 0", got.DaysToGoal, got.WeeksToGoal)
	}
	if !got.TargetDate.Equal(fixedNow.Truncate(24 * time.Hour)) {
		t.Errorf("target date = %v, want today", got.TargetDate)
	}
}

func TestComputeSafetyBounds(t *testing.T) {
	for _, gender := range []model.Gender{model.GenderMale, model.GenderFemale} {
		for w := 30.0; w <= 300; w += 10 {
			for h := 100.0; h <= 250; h += 10 {
				for _, goal := range []float64{w - 20, w, w + 20} {
					p := model.Profile{Gender: gender, HeightCm: h, WeightKg: w, GoalWeightKg: goal}
					got := ComputeAt(p, fixedNow)

					bmr := BMR(p)
					tdee := bmr * ActivityMultiplier
					target := float64(got.TargetCalories)

					if target < MinCalories {
						t.Fatalf("%+v: target %v below %d", p, target, MinCalories)
					}
					if target < 0.8*bmr-0.5 {
						t.Fatalf("%+v: target %v below 80%% of bmr %v", p, target, bmr)
					}
					if math.Max(MinCalories, 0.8*bmr) <= 1.2*tdee && target > 1.2*tdee+0.5 {
						t.Fatalf("%+v: target %v above 120%% of tdee %v", p, target, tdee)
					}
					if got.CarbsG < 0 {
						t.Fatalf("%+v: negative carbs %d", p, got.CarbsG)
					}
				}
			}
		}
	}
}

func TestComputeUsesClock(t *testing.T) {
	p := model.DefaultProfile()
	before := time.Now().UTC().Truncate(24 * time.Hour)
	got := Compute(p)
	if got.TargetDate.Before(before.AddDate(0, 0, got.DaysToGoal)) {
		t.Errorf("target date %v earlier than today + %d days", got.TargetDate, got.DaysToGoal)
	}
}
