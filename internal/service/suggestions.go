package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
)

// mealShareFactor models one meal's share of the remaining daily need.
const mealShareFactor = 0.30

// suggestionNutrients are the nutrients whose deficits trigger food-level
// suggestions.
var suggestionNutrients = []string{"protein_g", "fiber_g"}

// generateFoodSuggestionRecommendation asks the suggestion generator for foods
// that close the user's protein/fiber deficits. Returns (nil, nil) when no
// nutrient is below 80% of target or the generator produced nothing; generator
// failures surface as an error for the caller to log and absorb.
func (e *RecommendationEngine) generateFoodSuggestionRecommendation(ctx context.Context, profile *models.UserProfile, targets models.MacroTargets, intake types.NutrientIntake, mealType string) (*models.Recommendation, error) {
	if e.generator == nil {
		return nil, nil
	}

	macroTargets := map[string]float64{
		"protein_g": targets.ProteinG,
		"fiber_g":   targets.FiberG,
	}

	var deficitNutrients []string
	for _, nutrient := range suggestionNutrients {
		if intake.Get(nutrient) < macroTargets[nutrient]*0.8 {
			deficitNutrients = append(deficitNutrients, nutrient)
		}
	}
	if len(deficitNutrients) == 0 {
		return nil, nil
	}

	mealTargets := MealNutrientTargets{
		Calories: remainingNeed(targets.Calories, intake.Get("calories")),
		ProteinG: remainingNeed(targets.ProteinG, intake.Get("protein_g")),
		CarbsG:   remainingNeed(targets.CarbsG, intake.Get("carbs_g")),
		FatG:     remainingNeed(targets.FatG, intake.Get("fat_g")),
	}

	targetMealType := mealType
	if targetMealType == "" {
		targetMealType = nextMealType(e.now())
	}

	restrictions := profile.RestrictionTypes()

	callCtx, cancel := context.WithTimeout(ctx, e.suggestionTimeout)
	defer cancel()

	suggestions, err := e.generator.GenerateMealSuggestions(callCtx, userSummary(profile), mealTargets, restrictions, targetMealType)
	if err != nil {
		return nil, fmt.Errorf("suggestion generator: %w", err)
	}
	if len(suggestions) == 0 {
		return nil, nil
	}
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}

	foodSuggestions := make(models.FoodSuggestionList, 0, len(suggestions))
	for _, suggestion := range suggestions {
		fs := convertSuggestion(suggestion, targetMealType)
		fs.NutritionalBenefits = deficitNutrients
		fs.AllergenWarnings = ScreenAllergens(suggestion, profile.Allergies)
		foodSuggestions = append(foodSuggestions, fs)
	}

	var goals []string
	if profile.PrimaryGoal != "" {
		goals = []string{profile.PrimaryGoal}
	}

	return &models.Recommendation{
		UserID:                   profile.UserID,
		RecommendationType:       models.TypeFoodSuggestion,
		Title:                    fmt.Sprintf("Smart %s Suggestions", cases.Title(language.English).String(targetMealType)),
		Description:              fmt.Sprintf("Personalized food recommendations to help you meet your %s goals", strings.Join(deficitNutrients, ", ")),
		ConfidenceLevel:          models.ConfidenceMedium,
		FoodSuggestions:          foodSuggestions,
		ModelVersion:             modelVersion,
		ModelConfidence:          0.75,
		FeaturesUsed:             []string{"nutrition_gaps", "user_preferences", "ai_analysis"},
		UserGoals:                goals,
		HealthConditions:         profile.ConditionNames(),
		DietaryRestrictions:      restrictions,
		Priority:                 models.PriorityMedium,
		ExpectedImpact:           "medium",
		ImplementationDifficulty: "easy",
		TimeHorizon:              "immediate",
	}, nil
}

// remainingNeed is the still-unmet part of a daily target scaled to one meal.
func remainingNeed(target, current float64) float64 {
	remaining := target - current
	if remaining < 0 {
		remaining = 0
	}
	return remaining * mealShareFactor
}

// nextMealType picks the upcoming meal from the time of day.
func nextMealType(now time.Time) string {
	switch hour := now.Hour(); {
	case hour >= 5 && hour < 11:
		return "breakfast"
	case hour >= 11 && hour < 15:
		return "lunch"
	case hour >= 15 && hour < 18:
		return "snack"
	default:
		return "dinner"
	}
}

// convertSuggestion maps a generator suggestion onto the stored FoodSuggestion
// shape. Dietary-restriction conformance is taken on trust from the generator;
// only allergens are screened independently.
func convertSuggestion(suggestion MealSuggestion, mealType string) models.FoodSuggestion {
	name := suggestion.Name
	if name == "" {
		name = "Unknown"
	}
	reason := suggestion.Rationale
	if reason == "" {
		reason = "Nutritionally balanced option"
	}
	return models.FoodSuggestion{
		FoodName:                   name,
		ServingSize:                1.0,
		ServingUnit:                "serving",
		Calories:                   suggestion.EstimatedNutrition.Calories,
		ProteinG:                   suggestion.EstimatedNutrition.ProteinG,
		CarbsG:                     suggestion.EstimatedNutrition.CarbsG,
		FatG:                       suggestion.EstimatedNutrition.FatG,
		Reason:                     reason,
		MealType:                   mealType,
		PriorityScore:              0.8,
		NutritionalBenefits:        []string{},
		MatchesDietaryRestrictions: true,
		AllergenWarnings:           []string{},
	}
}
