package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
	"gorm.io/gorm"
)

const (
	modelVersion = "1.0"

	// maxRecommendations bounds the result of a generation pass.
	maxRecommendations = 10

	// defaultSuggestionTimeout bounds each outbound suggestion-generator call.
	defaultSuggestionTimeout = 20 * time.Second
)

// RecommendationEngine turns a user's profile, health conditions and current
// intake into a ranked set of recommendations. The engine holds no mutable
// state of its own; all persistence goes through the database and repository.
type RecommendationEngine struct {
	db         *gorm.DB
	calculator TargetCalculator
	intake     IntakeAggregator
	generator  SuggestionGenerator

	suggestionTimeout time.Duration
	now               func() time.Time
}

// NewRecommendationEngine creates a new RecommendationEngine instance
func NewRecommendationEngine(db *gorm.DB, calculator TargetCalculator, intake IntakeAggregator, generator SuggestionGenerator) *RecommendationEngine {
	return &RecommendationEngine{
		db:                db,
		calculator:        calculator,
		intake:            intake,
		generator:         generator,
		suggestionTimeout: defaultSuggestionTimeout,
		now:               time.Now,
	}
}

// Generate produces up to 10 recommendations for the user, ranked by priority
// then confidence. currentIntake may be nil, in which case today's intake is
// fetched. Sub-generator failures are logged and skipped; any unexpected
// failure yields an empty list rather than an error, so an empty result is
// indistinguishable from "nothing needed".
func (e *RecommendationEngine) Generate(ctx context.Context, profile *models.UserProfile, currentIntake types.NutrientIntake) (recs []*models.Recommendation) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic generating recommendations for user %s: %v", profile.UserID, r)
			recs = []*models.Recommendation{}
		}
	}()

	// Non-nil even when nothing fires, so callers serialize it as [].
	recs = []*models.Recommendation{}

	nutritionProfile, err := e.getOrCreateNutritionProfile(ctx, profile)
	if err != nil {
		log.Printf("error loading nutrition profile for user %s: %v", profile.UserID, err)
		return []*models.Recommendation{}
	}

	if currentIntake == nil {
		intake, err := e.intake.DailyIntake(ctx, profile.UserID, e.now())
		if err != nil {
			log.Printf("error fetching daily intake for user %s: %v", profile.UserID, err)
			intake = types.NutrientIntake{}
		}
		currentIntake = intake
	}

	targets := nutritionProfile.Macros()

	if rec := e.generateNutrientGapRecommendation(profile, targets, currentIntake); rec != nil {
		recs = append(recs, rec)
	}

	rec, err := e.generateFoodSuggestionRecommendation(ctx, profile, targets, currentIntake, "")
	if err != nil {
		log.Printf("error generating food suggestions for user %s: %v", profile.UserID, err)
	} else if rec != nil {
		recs = append(recs, rec)
	}

	rec, err = e.generateMealPlanRecommendation(ctx, profile, nutritionProfile)
	if err != nil {
		log.Printf("error generating meal plan for user %s: %v", profile.UserID, err)
	} else if rec != nil {
		recs = append(recs, rec)
	}

	recs = append(recs, e.generateHealthOptimizationRecommendations(profile, currentIntake)...)

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority < recs[j].Priority
		}
		return recs[i].ModelConfidence > recs[j].ModelConfidence
	})

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// getOrCreateNutritionProfile loads the user's stored nutrition targets,
// computing and persisting them on first use. This is the engine's only
// write-through-create side effect.
func (e *RecommendationEngine) getOrCreateNutritionProfile(ctx context.Context, profile *models.UserProfile) (*models.NutritionProfile, error) {
	var nutritionProfile models.NutritionProfile
	err := e.db.WithContext(ctx).Where("user_id = ?", profile.UserID).First(&nutritionProfile).Error
	if err == nil {
		return &nutritionProfile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load nutrition profile: %w", err)
	}

	targets := e.calculator.Targets(profile)
	nutritionProfile = models.NutritionProfile{
		UserID:               profile.UserID,
		Calories:             targets.Macros.Calories,
		ProteinG:             targets.Macros.ProteinG,
		CarbsG:               targets.Macros.CarbsG,
		FatG:                 targets.Macros.FatG,
		FiberG:               targets.Macros.FiberG,
		MicronutrientTargets: targets.Micronutrients,
		BMR:                  targets.BMR,
		TDEE:                 targets.TDEE,
		CalculationMethod:    targets.Method,
	}
	if err := e.db.WithContext(ctx).Create(&nutritionProfile).Error; err != nil {
		return nil, fmt.Errorf("failed to create nutrition profile: %w", err)
	}
	return &nutritionProfile, nil
}

// userSummary builds the demographic summary passed to the suggestion generator.
func userSummary(profile *models.UserProfile) UserSummary {
	return UserSummary{
		Age:              profile.Age,
		Gender:           profile.Gender,
		ActivityLevel:    profile.ActivityLevel,
		PrimaryGoal:      profile.PrimaryGoal,
		HealthConditions: profile.ConditionNames(),
	}
}
