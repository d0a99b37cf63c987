// Package plan derives calorie and macro targets from a body profile.
package plan

import (
	"math"
	"time"

	"github.com/dukerupert/macrolog/internal/model"
)

const (
	AgeAssumed         = 30
	ActivityMultiplier = 1.2 // sedentary
	KcalPerKg          = 7700
	DailyDeltaKcal     = 500 // about 0.45 kg per week
	MinCalories        = 1200
	ProteinPerKg       = 1.8
	FatPerKg           = 0.8
)

// BMR returns the Mifflin-St Jeor basal metabolic rate at AgeAssumed.
func BMR(p model.Profile) float64 {
	s := -161.0
	if p.Gender == model.GenderMale {
		s = 5
	}
	return 10*p.WeightKg + 6.25*p.HeightCm - 5*AgeAssumed + s
}

// Compute returns the plan for p as of now.
func Compute(p model.Profile) model.Plan {
	return ComputeAt(p, time.Now())
}

// ComputeAt returns the plan for p with the timeline measured from now.
// Target calories never fall below max(1200, 0.8*BMR); they are capped at
// 1.2*TDEE unless that cap is itself below the floor.
func ComputeAt(p model.Profile, now time.Time) model.Plan {
	bmr := BMR(p)
	tdee := bmr * ActivityMultiplier
	deltaKg := p.GoalWeightKg - p.WeightKg

	delta := 0.0
	switch {
	case deltaKg < 0:
		delta = -DailyDeltaKcal
	case deltaKg > 0:
		delta = DailyDeltaKcal
	}

	floor := math.Max(MinCalories, bmr*0.8)
	ceiling := tdee * 1.2
	target := math.Max(math.Min(tdee+delta, ceiling), floor)

	proteinG := math.Round(p.WeightKg * ProteinPerKg)
	fatG := math.Round(p.WeightKg * FatPerKg)
	carbsG := math.Max(0, math.Round((target-(proteinG*4+fatG*9))/4))

	days := 0.0
	if gap := math.Abs(tdee - target); gap > 0 {
		days = math.Abs(deltaKg) * KcalPerKg / gap
	}
	roundedDays := int(math.Round(days))

	day := now.UTC().Truncate(24 * time.Hour)

	return model.Plan{
		AgeAssumed:     AgeAssumed,
		BMR:            int(math.Round(bmr)),
		TDEE:           int(math.Round(tdee)),
		TargetCalories: int(math.Round(target)),
		ProteinG:       int(proteinG),
		FatG:           int(fatG),
		CarbsG:         int(carbsG),
		DeltaKg:        model.Round1(deltaKg),
		DailyDeltaKcal: int(math.Round(target - tdee)),
		DaysToGoal:     roundedDays,
		WeeksToGoal:    model.Round1(days / 7),
		TargetDate:     day.AddDate(0, 0, roundedDays),
	}
}
