package service

import (
	"strings"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
)

// ConditionTag is a recognized health-condition category. Free-text condition
// names are normalized to a tag once, and rule packs dispatch on the tag
// instead of re-parsing strings.
type ConditionTag string

const (
	ConditionDiabetes     ConditionTag = "diabetes"
	ConditionHypertension ConditionTag = "hypertension"
	ConditionHeartDisease ConditionTag = "heart_disease"
	ConditionAnemia       ConditionTag = "anemia"
	ConditionOsteoporosis ConditionTag = "osteoporosis"
	ConditionUnrecognized ConditionTag = "unrecognized"
)

// NormalizeCondition maps a free-text condition name to its tag via
// case-insensitive keyword matching.
func NormalizeCondition(name string) ConditionTag {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "diabetes"):
		return ConditionDiabetes
	case strings.Contains(lower, "hypertension"), strings.Contains(lower, "blood pressure"):
		return ConditionHypertension
	case strings.Contains(lower, "heart"), strings.Contains(lower, "cardiovascular"):
		return ConditionHeartDisease
	case strings.Contains(lower, "anemia"):
		return ConditionAnemia
	case strings.Contains(lower, "osteoporosis"):
		return ConditionOsteoporosis
	default:
		return ConditionUnrecognized
	}
}

// conditionRulePack evaluates one condition against current intake and emits
// at most one recommendation.
type conditionRulePack func(profile *models.UserProfile, intake types.NutrientIntake) *models.Recommendation

var conditionRulePacks = map[ConditionTag]conditionRulePack{
	ConditionDiabetes:     diabetesRecommendation,
	ConditionHypertension: hypertensionRecommendation,
	ConditionHeartDisease: heartHealthRecommendation,
	ConditionAnemia:       anemiaRecommendation,
	ConditionOsteoporosis: boneHealthRecommendation,
}

// generateHealthOptimizationRecommendations runs the rule pack for each
// recognized condition the user has. Packs run independently; duplicate
// conditions normalizing to the same tag trigger the pack only once.
func (e *RecommendationEngine) generateHealthOptimizationRecommendations(profile *models.UserProfile, intake types.NutrientIntake) []*models.Recommendation {
	var recommendations []*models.Recommendation
	seen := make(map[ConditionTag]bool)

	for _, condition := range profile.HealthConditions {
		tag := NormalizeCondition(condition.Name)
		if tag == ConditionUnrecognized || seen[tag] {
			continue
		}
		seen[tag] = true

		pack := conditionRulePacks[tag]
		if rec := pack(profile, intake); rec != nil {
			recommendations = append(recommendations, rec)
		}
	}

	return recommendations
}

func conditionRecommendation(profile *models.UserProfile, condition string, title, description string, confidence float64, difficulty, horizon string, adjustments []models.NutrientAdjustment) *models.Recommendation {
	var goals []string
	if profile.PrimaryGoal != "" {
		goals = []string{profile.PrimaryGoal}
	}
	return &models.Recommendation{
		UserID:                   profile.UserID,
		RecommendationType:       models.TypeHealthOptimization,
		Title:                    title,
		Description:              description,
		ConfidenceLevel:          models.ConfidenceHigh,
		NutrientAdjustments:      adjustments,
		ModelVersion:             modelVersion,
		ModelConfidence:          confidence,
		FeaturesUsed:             []string{"health_conditions", "current_intake", "clinical_guidelines"},
		UserGoals:                goals,
		HealthConditions:         []string{condition},
		Priority:                 models.PriorityHigh,
		ExpectedImpact:           "high",
		ImplementationDifficulty: difficulty,
		TimeHorizon:              horizon,
	}
}

func diabetesRecommendation(profile *models.UserProfile, intake types.NutrientIntake) *models.Recommendation {
	fiber := intake.Get("fiber_g")

	var adjustments []models.NutrientAdjustment
	if fiber < 25 {
		adjustments = append(adjustments, models.NutrientAdjustment{
			NutrientName:         "fiber_g",
			CurrentIntake:        fiber,
			RecommendedIntake:    30,
			AdjustmentAmount:     30 - fiber,
			AdjustmentDirection:  "increase",
			Unit:                 "g",
			Reason:               "Higher fiber intake helps regulate blood sugar levels",
			HealthImpact:         "Improved glucose control and insulin sensitivity",
			FoodSources:          []string{"whole grains", "legumes", "vegetables", "fruits with skin"},
			SupplementSuggestion: "Consider a fiber supplement if dietary intake is insufficient",
		})
	}

	if len(adjustments) == 0 {
		return nil
	}
	return conditionRecommendation(profile, "diabetes",
		"Diabetes Management Nutrition",
		"Optimize your nutrition to better manage blood sugar levels",
		0.90, "medium", "long_term", adjustments)
}

func hypertensionRecommendation(profile *models.UserProfile, intake types.NutrientIntake) *models.Recommendation {
	sodium := intake.Get("sodium_mg")
	potassium := intake.Get("potassium_mg")

	var adjustments []models.NutrientAdjustment
	if sodium > 2300 {
		adjustments = append(adjustments, models.NutrientAdjustment{
			NutrientName:         "sodium_mg",
			CurrentIntake:        sodium,
			RecommendedIntake:    1500,
			AdjustmentAmount:     sodium - 1500,
			AdjustmentDirection:  "decrease",
			Unit:                 "mg",
			Reason:               "Reducing sodium intake helps lower blood pressure",
			HealthImpact:         "Reduced risk of cardiovascular events",
			FoodSources:          []string{"fresh fruits", "vegetables", "unsalted nuts", "herbs and spices"},
			SupplementSuggestion: "Focus on whole foods rather than supplements",
		})
	}
	if potassium < 3500 {
		adjustments = append(adjustments, models.NutrientAdjustment{
			NutrientName:         "potassium_mg",
			CurrentIntake:        potassium,
			RecommendedIntake:    4700,
			AdjustmentAmount:     4700 - potassium,
			AdjustmentDirection:  "increase",
			Unit:                 "mg",
			Reason:               "Adequate potassium helps counteract sodium's effects on blood pressure",
			HealthImpact:         "Better blood pressure control",
			FoodSources:          []string{"bananas", "oranges", "potatoes", "spinach", "beans"},
			SupplementSuggestion: "Consult healthcare provider before potassium supplements",
		})
	}

	if len(adjustments) == 0 {
		return nil
	}
	return conditionRecommendation(profile, "hypertension",
		"Blood Pressure Management",
		"Nutritional strategies to help manage blood pressure",
		0.88, "medium", "long_term", adjustments)
}

func heartHealthRecommendation(profile *models.UserProfile, intake types.NutrientIntake) *models.Recommendation {
	fiber := intake.Get("fiber_g")

	var adjustments []models.NutrientAdjustment
	if fiber < 25 {
		adjustments = append(adjustments, models.NutrientAdjustment{
			NutrientName:         "fiber_g",
			CurrentIntake:        fiber,
			RecommendedIntake:    30,
			AdjustmentAmount:     30 - fiber,
			AdjustmentDirection:  "increase",
			Unit:                 "g",
			Reason:               "Soluble fiber helps reduce cholesterol levels",
			HealthImpact:         "Improved cardiovascular health and cholesterol profile",
			FoodSources:          []string{"oats", "beans", "apples", "barley", "psyllium"},
			SupplementSuggestion: "Consider psyllium husk supplement",
		})
	}

	if len(adjustments) == 0 {
		return nil
	}
	return conditionRecommendation(profile, "heart_disease",
		"Heart Health Optimization",
		"Nutrition recommendations to support cardiovascular health",
		0.85, "medium", "long_term", adjustments)
}

func anemiaRecommendation(profile *models.UserProfile, intake types.NutrientIntake) *models.Recommendation {
	iron := intake.Get("iron_mg")
	vitaminC := intake.Get("vitamin_c_mg")

	var adjustments []models.NutrientAdjustment
	if iron < 15 {
		adjustments = append(adjustments, models.NutrientAdjustment{
			NutrientName:         "iron_mg",
			CurrentIntake:        iron,
			RecommendedIntake:    18,
			AdjustmentAmount:     18 - iron,
			AdjustmentDirection:  "increase",
			Unit:                 "mg",
			Reason:               "Adequate iron intake is essential for red blood cell production",
			HealthImpact:         "Improved energy levels and oxygen transport",
			FoodSources:          []string{"lean red meat", "spinach", "lentils", "fortified cereals"},
			SupplementSuggestion: "Consider iron supplement with healthcare provider guidance",
		})
	}
	if vitaminC < 75 {
		adjustments = append(adjustments, models.NutrientAdjustment{
			NutrientName:         "vitamin_c_mg",
			CurrentIntake:        vitaminC,
			RecommendedIntake:    90,
			AdjustmentAmount:     90 - vitaminC,
			AdjustmentDirection:  "increase",
			Unit:                 "mg",
			Reason:               "Vitamin C enhances iron absorption",
			HealthImpact:         "Better iron utilization and absorption",
			FoodSources:          []string{"citrus fruits", "bell peppers", "strawberries", "broccoli"},
			SupplementSuggestion: "Vitamin C supplement can be taken with iron-rich meals",
		})
	}

	if len(adjustments) == 0 {
		return nil
	}
	return conditionRecommendation(profile, "anemia",
		"Anemia Management Nutrition",
		"Nutritional support for managing anemia and improving iron status",
		0.92, "easy", "medium_term", adjustments)
}

func boneHealthRecommendation(profile *models.UserProfile, intake types.NutrientIntake) *models.Recommendation {
	calcium := intake.Get("calcium_mg")
	vitaminD := intake.Get("vitamin_d_mcg")

	var adjustments []models.NutrientAdjustment
	if calcium < 1000 {
		adjustments = append(adjustments, models.NutrientAdjustment{
			NutrientName:         "calcium_mg",
			CurrentIntake:        calcium,
			RecommendedIntake:    1200,
			AdjustmentAmount:     1200 - calcium,
			AdjustmentDirection:  "increase",
			Unit:                 "mg",
			Reason:               "Adequate calcium is essential for bone strength and density",
			HealthImpact:         "Reduced risk of fractures and bone loss",
			FoodSources:          []string{"dairy products", "leafy greens", "sardines", "almonds"},
			SupplementSuggestion: "Calcium citrate supplement if dietary intake is insufficient",
		})
	}
	if vitaminD < 15 {
		adjustments = append(adjustments, models.NutrientAdjustment{
			NutrientName:         "vitamin_d_mcg",
			CurrentIntake:        vitaminD,
			RecommendedIntake:    20,
			AdjustmentAmount:     20 - vitaminD,
			AdjustmentDirection:  "increase",
			Unit:                 "mcg",
			Reason:               "Vitamin D is crucial for calcium absorption and bone health",
			HealthImpact:         "Better calcium utilization and bone mineralization",
			FoodSources:          []string{"fatty fish", "fortified milk", "egg yolks", "mushrooms"},
			SupplementSuggestion: "Vitamin D3 supplement recommended, especially in winter",
		})
	}

	if len(adjustments) == 0 {
		return nil
	}
	return conditionRecommendation(profile, "osteoporosis",
		"Bone Health Support",
		"Nutritional strategies to support bone health and prevent osteoporosis",
		0.87, "easy", "long_term", adjustments)
}
