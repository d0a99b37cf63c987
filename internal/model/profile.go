package model

import (
	"errors"
	"fmt"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// ErrInvalidProfile is returned by Profile.Validate.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile holds the body parameters a plan is derived from.
type Profile struct {
	Gender       Gender  `json:"gender"`
	HeightCm     float64 `json:"height_cm"`
	WeightKg     float64 `json:"weight_kg"`
	GoalWeightKg float64 `json:"goal_weight_kg"`
	Units        Units   `json:"units"`
}

// DefaultProfile returns the profile used before anything has been saved.
func DefaultProfile() Profile {
	return Profile{
		Gender:       GenderMale,
		HeightCm:     175,
		WeightKg:     75,
		GoalWeightKg: 70,
		Units:        UnitsMetric,
	}
}

// Validate checks the profile against the ranges the input form accepts.
func (p Profile) Validate() error {
	switch p.Gender {
	case GenderMale, GenderFemale:
	default:
		return fmt.Errorf("%w: gender must be %q or %q", ErrInvalidProfile, GenderMale, GenderFemale)
	}
	switch p.Units {
	case UnitsMetric, UnitsImperial:
	default:
		return fmt.Errorf("%w: units must be %q or %q", ErrInvalidProfile, UnitsMetric, UnitsImperial)
	}
	if p.HeightCm < 100 || p.HeightCm > 250 {
		return fmt.Errorf("%w: height must be between 100 and 250 cm", ErrInvalidProfile)
	}
	if p.WeightKg < 30 || p.WeightKg > 300 {
		return fmt.Errorf("%w: weight must be between 30 and 300 kg", ErrInvalidProfile)
	}
	if p.GoalWeightKg < 30 || p.GoalWeightKg > 300 {
		return fmt.Errorf("%w: goal weight must be between 30 and 300 kg", ErrInvalidProfile)
	}
	return nil
}

// Plan is derived entirely from a Profile and the current date.
type Plan struct {
	AgeAssumed     int       `json:"age_assumed"`
	BMR            int       `json:"bmr"`
	TDEE           int       `json:"tdee"`
	TargetCalories int       `json:"target_calories"`
	ProteinG       int       `json:"protein_g"`
	FatG           int       `json:"fat_g"`
	CarbsG         int       `json:"carbs_g"`
	DeltaKg        float64   `json:"delta_kg"`
	DailyDeltaKcal int       `json:"daily_delta_kcal"`
	DaysToGoal     int       `json:"days_to_goal"`
	WeeksToGoal    float64   `json:"weeks_to_goal"`
	TargetDate     time.Time `json:"target_date"`
}

// Targets returns the plan's daily targets as a Macro.
func (p Plan) Targets() Macro {
	return Macro{
		Calories: float64(p.TargetCalories),
		Protein:  float64(p.ProteinG),
		Carbs:    float64(p.CarbsG),
		Fat:      float64(p.FatG),
	}
}
