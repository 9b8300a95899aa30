package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/nutricoach/backend/internal/models"
)

// inconsistentLoggerThreshold gates meal-plan generation: users with fewer
// logged items than this over the trailing window are assumed to benefit from
// a prepared plan.
const (
	inconsistentLoggerThreshold = 5
	recentLogWindowDays         = 3
)

// generateMealPlanRecommendation assembles a full-day plan for users who log
// inconsistently. Each meal slot gets its own generator call, issued
// concurrently with a bounded timeout; a slot whose call fails or times out
// simply has no suggestion. Returns (nil, nil) when the user logs consistently
// or no slot produced a suggestion.
func (e *RecommendationEngine) generateMealPlanRecommendation(ctx context.Context, profile *models.UserProfile, nutritionProfile *models.NutritionProfile) (*models.Recommendation, error) {
	if e.generator == nil {
		return nil, nil
	}

	since := e.now().AddDate(0, 0, -recentLogWindowDays)
	logCount, err := e.intake.CountRecentLogs(ctx, profile.UserID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent food logs: %w", err)
	}
	if logCount >= inconsistentLoggerThreshold {
		return nil, nil
	}

	targets := nutritionProfile.Macros()
	summary := userSummary(profile)
	restrictions := profile.RestrictionTypes()

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		meals = make(map[string][]models.FoodSuggestion)
	)

	for mealType, fraction := range nutritionProfile.Distribution() {
		wg.Add(1)
		go func(mealType string, fraction float64) {
			defer wg.Done()

			slotTargets := MealNutrientTargets{
				Calories: targets.Calories * fraction,
				ProteinG: targets.ProteinG * fraction,
				CarbsG:   targets.CarbsG * fraction,
				FatG:     targets.FatG * fraction,
			}

			callCtx, cancel := context.WithTimeout(ctx, e.suggestionTimeout)
			defer cancel()

			suggestions, err := e.generator.GenerateMealSuggestions(callCtx, summary, slotTargets, restrictions, mealType)
			if err != nil {
				log.Printf("meal plan slot %s for user %s: %v", mealType, profile.UserID, err)
				return
			}
			if len(suggestions) == 0 {
				return
			}

			// One suggestion per slot.
			fs := convertSuggestion(suggestions[0], mealType)

			mu.Lock()
			meals[mealType] = []models.FoodSuggestion{fs}
			mu.Unlock()
		}(mealType, fraction)
	}
	wg.Wait()

	if len(meals) == 0 {
		return nil, nil
	}

	// Plan totals are the full-day targets, not the sum of returned
	// suggestions: the plan declares what the day should add up to.
	plan := &models.MealPlanData{
		Date:            e.now(),
		Meals:           meals,
		TotalCalories:   targets.Calories,
		TotalProteinG:   targets.ProteinG,
		TotalCarbsG:     targets.CarbsG,
		TotalFatG:       targets.FatG,
		TotalFiberG:     targets.FiberG,
		PlanType:        "daily",
		DifficultyLevel: "easy",
		PrepTimeMinutes: 45,
		CostEstimate:    25.0,
	}

	var goals []string
	if profile.PrimaryGoal != "" {
		goals = []string{profile.PrimaryGoal}
	}

	return &models.Recommendation{
		UserID:                   profile.UserID,
		RecommendationType:       models.TypeMealPlan,
		Title:                    "Personalized Daily Meal Plan",
		Description:              "A complete meal plan designed to meet your nutritional goals and preferences",
		ConfidenceLevel:          models.ConfidenceMedium,
		MealPlan:                 plan,
		ModelVersion:             modelVersion,
		ModelConfidence:          0.70,
		FeaturesUsed:             []string{"nutrition_targets", "user_preferences", "meal_distribution"},
		UserGoals:                goals,
		HealthConditions:         profile.ConditionNames(),
		DietaryRestrictions:      restrictions,
		Priority:                 models.PriorityLow,
		ExpectedImpact:           "high",
		ImplementationDifficulty: "medium",
		TimeHorizon:              "short_term",
	}, nil
}
