package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
)

// Gap classification thresholds as ratios of current intake to target.
const (
	criticalThreshold = 0.5
	deficitThreshold  = 0.8
	excessThreshold   = 1.5
)

// macroNutrients fixes the analysis order so repeated runs produce identical
// adjustment lists.
var macroNutrients = []string{"calories", "protein_g", "carbs_g", "fat_g", "fiber_g"}

var nutrientBenefits = map[string]string{
	"protein_g": "muscle maintenance and repair",
	"fiber_g":   "digestive health and blood sugar control",
	"calories":  "energy balance and metabolic function",
	"carbs_g":   "energy production and brain function",
	"fat_g":     "hormone production and nutrient absorption",
}

var nutrientFoodSources = map[string][]string{
	"protein_g":     {"lean meats", "fish", "eggs", "legumes", "dairy", "nuts"},
	"fiber_g":       {"whole grains", "vegetables", "fruits", "legumes", "nuts"},
	"calories":      {"healthy fats", "whole grains", "lean proteins", "fruits"},
	"carbs_g":       {"whole grains", "fruits", "vegetables", "legumes"},
	"fat_g":         {"avocados", "nuts", "olive oil", "fatty fish", "seeds"},
	"iron_mg":       {"red meat", "spinach", "lentils", "fortified cereals"},
	"calcium_mg":    {"dairy products", "leafy greens", "sardines", "almonds"},
	"vitamin_c_mg":  {"citrus fruits", "bell peppers", "strawberries", "broccoli"},
	"vitamin_d_mcg": {"fatty fish", "fortified milk", "egg yolks", "mushrooms"},
}

var nutrientHealthImpacts = map[string]map[string]string{
	"protein_g": {
		"critical": "Risk of muscle loss and impaired immune function",
		"high":     "Reduced muscle protein synthesis and recovery",
		"excess":   "Potential kidney strain and dehydration",
	},
	"fiber_g": {
		"critical": "Digestive issues and blood sugar instability",
		"high":     "Suboptimal digestive health and satiety",
		"excess":   "Potential digestive discomfort and bloating",
	},
	"calories": {
		"critical": "Risk of malnutrition and metabolic slowdown",
		"high":     "Energy deficiency and potential muscle loss",
		"excess":   "Weight gain and metabolic dysfunction",
	},
}

// AnalyzeNutrientGaps compares intake against macro targets and emits one
// adjustment per flagged nutrient. Nutrients with a non-positive target are
// skipped. The result is deterministic for identical inputs.
func AnalyzeNutrientGaps(targets models.MacroTargets, intake types.NutrientIntake) []models.NutrientAdjustment {
	macros := map[string]float64{
		"calories":  targets.Calories,
		"protein_g": targets.ProteinG,
		"carbs_g":   targets.CarbsG,
		"fat_g":     targets.FatG,
		"fiber_g":   targets.FiberG,
	}

	var adjustments []models.NutrientAdjustment
	for _, nutrient := range macroNutrients {
		target := macros[nutrient]
		if target <= 0 {
			continue
		}
		current := intake.Get(nutrient)
		ratio := current / target

		if ratio >= deficitThreshold && ratio <= excessThreshold {
			continue // within acceptable range
		}

		gap := target - current
		direction := "increase"
		if gap < 0 {
			direction = "decrease"
		}
		unit := "g"
		if nutrient == "calories" {
			unit = "kcal"
		}

		adjustments = append(adjustments, models.NutrientAdjustment{
			NutrientName:        nutrient,
			CurrentIntake:       current,
			RecommendedIntake:   target,
			AdjustmentAmount:    math.Abs(gap),
			AdjustmentDirection: direction,
			Unit:                unit,
			Reason:              nutrientGapReason(nutrient, ratio),
			HealthImpact:        nutrientHealthImpact(nutrient, gapSeverity(ratio)),
			FoodSources:         foodSourcesForNutrient(nutrient),
		})
	}

	return adjustments
}

// gapSeverity classifies a ratio into the severity keys used for health-impact
// lookup and priority assignment.
func gapSeverity(ratio float64) string {
	switch {
	case ratio < criticalThreshold:
		return "critical"
	case ratio < deficitThreshold:
		return "high"
	default:
		return "excess"
	}
}

func nutrientGapReason(nutrient string, ratio float64) string {
	var severity string
	switch {
	case ratio < criticalThreshold:
		severity = "critically low"
	case ratio < deficitThreshold:
		severity = "below target"
	default:
		severity = "above recommended levels"
	}

	benefit, ok := nutrientBenefits[nutrient]
	if !ok {
		benefit = "overall health"
	}
	return fmt.Sprintf("Your %s intake is %s, which may impact %s.", strings.ReplaceAll(nutrient, "_", " "), severity, benefit)
}

func nutrientHealthImpact(nutrient, severity string) string {
	if impacts, ok := nutrientHealthImpacts[nutrient]; ok {
		if impact, ok := impacts[severity]; ok {
			return impact
		}
	}
	return "May affect overall health and wellness"
}

func foodSourcesForNutrient(nutrient string) []string {
	if sources, ok := nutrientFoodSources[nutrient]; ok {
		return sources
	}
	return []string{"varied whole foods"}
}

// adjustmentPriority maps an adjustment's severity wording to a priority.
// Critical deficits outrank everything else; the first critical adjustment
// wins ties.
func adjustmentPriority(adj models.NutrientAdjustment) models.Priority {
	if strings.Contains(strings.ToLower(adj.Reason), "critical") {
		return models.PriorityCritical
	}
	return models.PriorityMedium
}

// generateNutrientGapRecommendation wraps the gap analysis into a single
// nutrient_adjustment recommendation, or nil when intake is within range.
func (e *RecommendationEngine) generateNutrientGapRecommendation(profile *models.UserProfile, targets models.MacroTargets, intake types.NutrientIntake) *models.Recommendation {
	adjustments := AnalyzeNutrientGaps(targets, intake)
	if len(adjustments) == 0 {
		return nil
	}

	priority := models.PriorityMedium
	expectedImpact := "medium"
	for _, adj := range adjustments {
		if p := adjustmentPriority(adj); p < priority {
			priority = p
		}
		if strings.Contains(strings.ToLower(adj.Reason), "critical") {
			expectedImpact = "high"
		}
	}

	var goals []string
	if profile.PrimaryGoal != "" {
		goals = []string{profile.PrimaryGoal}
	}

	return &models.Recommendation{
		UserID:                   profile.UserID,
		RecommendationType:       models.TypeNutrientAdjustment,
		Title:                    "Nutrition Balance Optimization",
		Description:              "Adjust your nutrient intake to better meet your daily targets",
		ConfidenceLevel:          models.ConfidenceHigh,
		NutrientAdjustments:      adjustments,
		ModelVersion:             modelVersion,
		ModelConfidence:          0.85,
		FeaturesUsed:             []string{"current_intake", "targets", "user_profile"},
		UserGoals:                goals,
		HealthConditions:         profile.ConditionNames(),
		DietaryRestrictions:      profile.RestrictionTypes(),
		Priority:                 priority,
		ExpectedImpact:           expectedImpact,
		ImplementationDifficulty: "easy",
		TimeHorizon:              "immediate",
	}
}
