package service

import (
	"strings"

	"github.com/nutricoach/backend/internal/models"
)

// NutritionCalculator derives calorie, macro and micronutrient targets from a
// user profile using the Mifflin-St Jeor equation and standard RDA tables.
// All methods are pure functions of the profile.
type NutritionCalculator struct{}

// NewNutritionCalculator creates a new NutritionCalculator instance
func NewNutritionCalculator() *NutritionCalculator {
	return &NutritionCalculator{}
}

var activityMultipliers = map[string]float64{
	models.ActivitySedentary:        1.2,
	models.ActivityLightlyActive:    1.375,
	models.ActivityModeratelyActive: 1.55,
	models.ActivityVeryActive:       1.725,
	models.ActivityExtremelyActive:  1.9,
}

// CalculateBMR computes Basal Metabolic Rate using the Mifflin-St Jeor equation.
// Missing attributes fall back to population defaults.
func (c *NutritionCalculator) CalculateBMR(profile *models.UserProfile) float64 {
	weight := profile.WeightKg
	if weight <= 0 {
		weight = 70
	}
	height := profile.HeightCm
	if height <= 0 {
		height = 170
	}
	age := float64(profile.Age)
	if age <= 0 {
		age = 30
	}

	if profile.Gender == "male" {
		return 10*weight + 6.25*height - 5*age + 5
	}
	return 10*weight + 6.25*height - 5*age - 161
}

// CalculateTDEE computes Total Daily Energy Expenditure as BMR scaled by the
// user's activity level.
func (c *NutritionCalculator) CalculateTDEE(profile *models.UserProfile) float64 {
	bmr := c.CalculateBMR(profile)
	multiplier, ok := activityMultipliers[profile.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers[models.ActivityModeratelyActive]
	}
	return bmr * multiplier
}

// CalculateCalorieTarget computes the daily calorie target, honoring an
// explicit user override and otherwise adjusting TDEE for the primary goal.
func (c *NutritionCalculator) CalculateCalorieTarget(profile *models.UserProfile) float64 {
	if profile.TargetCalories > 0 {
		return profile.TargetCalories
	}

	tdee := c.CalculateTDEE(profile)
	switch profile.PrimaryGoal {
	case models.GoalWeightLoss:
		return tdee - 500
	case models.GoalWeightGain:
		return tdee + 500
	case models.GoalMuscleGain:
		return tdee + 300
	default:
		return tdee
	}
}

// CalculateMacroTargets distributes the calorie target across protein, fat,
// carbs and fiber. Protein scales with body weight per goal, fat is a fixed
// share of calories, carbs take the remainder, and fiber follows the
// 14 g / 1000 kcal guideline capped at 35 g.
func (c *NutritionCalculator) CalculateMacroTargets(profile *models.UserProfile, totalCalories float64) models.MacroTargets {
	weight := profile.WeightKg
	if weight <= 0 {
		weight = 70
	}

	var proteinPerKg float64
	switch {
	case profile.PrimaryGoal == models.GoalMuscleGain:
		proteinPerKg = 2.2
	case profile.PrimaryGoal == models.GoalWeightLoss:
		proteinPerKg = 2.0
	case profile.ActivityLevel == models.ActivityVeryActive || profile.ActivityLevel == models.ActivityExtremelyActive:
		proteinPerKg = 1.8
	default:
		proteinPerKg = 1.2
	}

	proteinG := weight * proteinPerKg
	proteinCalories := proteinG * 4

	var fatPercent float64
	switch profile.PrimaryGoal {
	case models.GoalMuscleGain:
		fatPercent = 0.25
	case models.GoalWeightLoss:
		fatPercent = 0.30
	default:
		fatPercent = 0.28
	}

	fatCalories := totalCalories * fatPercent
	fatG := fatCalories / 9

	carbCalories := totalCalories - proteinCalories - fatCalories
	carbG := carbCalories / 4
	if carbG < 0 {
		carbG = 0
	}

	fiberG := totalCalories / 1000 * 14
	if fiberG > 35 {
		fiberG = 35
	}

	return models.MacroTargets{
		Calories: totalCalories,
		ProteinG: proteinG,
		CarbsG:   carbG,
		FatG:     fatG,
		FiberG:   fiberG,
	}
}

// CalculateMicronutrientTargets builds the RDA/DRI table for the user's age
// and gender, then adjusts for health conditions.
func (c *NutritionCalculator) CalculateMicronutrientTargets(profile *models.UserProfile) map[string]float64 {
	age := profile.Age
	if age <= 0 {
		age = 30
	}

	var targets map[string]float64
	if profile.Gender == "female" {
		targets = map[string]float64{
			"vitamin_a_mcg":   700,
			"vitamin_c_mg":    75,
			"vitamin_d_mcg":   20,
			"vitamin_e_mg":    15,
			"vitamin_k_mcg":   90,
			"thiamin_mg":      1.1,
			"riboflavin_mg":   1.1,
			"niacin_mg":       14,
			"vitamin_b6_mg":   1.3,
			"folate_mcg":      400,
			"vitamin_b12_mcg": 2.4,
			"calcium_mg":      1000,
			"iron_mg":         18,
			"magnesium_mg":    310,
			"phosphorus_mg":   700,
			"potassium_mg":    2600,
			"sodium_mg":       2300, // upper limit
			"zinc_mg":         8,
		}
		if age > 50 {
			targets["vitamin_b6_mg"] = 1.5
			targets["calcium_mg"] = 1200
			targets["iron_mg"] = 8
		}
		if age > 30 {
			targets["magnesium_mg"] = 320
		}
	} else {
		targets = map[string]float64{
			"vitamin_a_mcg":   900,
			"vitamin_c_mg":    90,
			"vitamin_d_mcg":   20,
			"vitamin_e_mg":    15,
			"vitamin_k_mcg":   120,
			"thiamin_mg":      1.2,
			"riboflavin_mg":   1.3,
			"niacin_mg":       16,
			"vitamin_b6_mg":   1.3,
			"folate_mcg":      400,
			"vitamin_b12_mcg": 2.4,
			"calcium_mg":      1000,
			"iron_mg":         8,
			"magnesium_mg":    400,
			"phosphorus_mg":   700,
			"potassium_mg":    3400,
			"sodium_mg":       2300, // upper limit
			"zinc_mg":         11,
		}
		if age > 50 {
			targets["vitamin_b6_mg"] = 1.7
		}
		if age > 70 {
			targets["calcium_mg"] = 1200
		}
		if age > 30 {
			targets["magnesium_mg"] = 420
		}
	}

	for _, condition := range profile.HealthConditions {
		name := strings.ToLower(condition.Name)
		switch {
		case strings.Contains(name, "anemia"):
			targets["iron_mg"] *= 1.5
		case strings.Contains(name, "osteoporosis"):
			targets["calcium_mg"] *= 1.2
			targets["vitamin_d_mcg"] *= 1.5
		case strings.Contains(name, "hypertension"):
			targets["sodium_mg"] = 1500
			targets["potassium_mg"] *= 1.2
		}
	}

	return targets
}

// Targets computes the full set of nutrition targets for a profile.
func (c *NutritionCalculator) Targets(profile *models.UserProfile) NutritionTargets {
	calories := c.CalculateCalorieTarget(profile)
	return NutritionTargets{
		Macros:         c.CalculateMacroTargets(profile, calories),
		Micronutrients: c.CalculateMicronutrientTargets(profile),
		BMR:            c.CalculateBMR(profile),
		TDEE:           c.CalculateTDEE(profile),
		Method:         "mifflin_st_jeor",
	}
}
