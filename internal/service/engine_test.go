package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/testhelpers"
	"github.com/nutricoach/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubGenerator is an in-package SuggestionGenerator test double.
type stubGenerator struct {
	suggestions []MealSuggestion
	err         error

	mu    sync.Mutex
	calls []string
}

func (g *stubGenerator) GenerateMealSuggestions(ctx context.Context, summary UserSummary, targets MealNutrientTargets, dietaryRestrictions []string, mealType string) ([]MealSuggestion, error) {
	g.mu.Lock()
	g.calls = append(g.calls, mealType)
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return g.suggestions, nil
}

// failingCalculator trips the engine's panic recovery.
type failingCalculator struct{}

func (failingCalculator) Targets(profile *models.UserProfile) NutritionTargets {
	panic("calculator exploded")
}

func newTestEngine(t *testing.T, db *gorm.DB, generator SuggestionGenerator) *RecommendationEngine {
	t.Helper()
	return NewRecommendationEngine(db, NewNutritionCalculator(), NewIntakeService(db), generator)
}

func seedUserProfile(t *testing.T, db *gorm.DB, conditions ...string) *models.UserProfile {
	t.Helper()

	user := models.User{Name: "Test User", Email: uuid.New().String() + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	profile := models.UserProfile{
		UserID:        user.ID,
		Age:           30,
		Gender:        "male",
		HeightCm:      180,
		WeightKg:      80,
		ActivityLevel: models.ActivityModeratelyActive,
		PrimaryGoal:   models.GoalMaintenance,
	}
	require.NoError(t, db.Create(&profile).Error)

	for _, name := range conditions {
		require.NoError(t, db.Create(&models.HealthCondition{UserID: user.ID, Name: name}).Error)
	}
	require.NoError(t, db.Preload("HealthConditions").Preload("DietaryRestrictions").
		Where("user_id = ?", user.ID).First(&profile).Error)

	return &profile
}

func TestGenerateCreatesNutritionProfileOnFirstRun(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	engine := newTestEngine(t, db, &stubGenerator{})
	profile := seedUserProfile(t, db)

	engine.Generate(context.Background(), profile, types.NutrientIntake{})

	var np models.NutritionProfile
	require.NoError(t, db.Where("user_id = ?", profile.UserID).First(&np).Error)
	assert.Equal(t, "mifflin_st_jeor", np.CalculationMethod)
	assert.Greater(t, np.Calories, 0.0)
	assert.Greater(t, np.ProteinG, 0.0)
}

func TestGenerateRankingAndTruncation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	engine := newTestEngine(t, db, &stubGenerator{
		suggestions: []MealSuggestion{{Name: "Lentil bowl"}},
	})

	// Many conditions plus an empty intake produce gap, food, meal plan
	// and condition recommendations in one pass.
	profile := seedUserProfile(t, db,
		"diabetes", "hypertension", "heart disease", "anemia", "osteoporosis")

	recs := engine.Generate(context.Background(), profile, types.NutrientIntake{})
	require.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), maxRecommendations)

	for i := 1; i < len(recs); i++ {
		if recs[i-1].Priority == recs[i].Priority {
			assert.GreaterOrEqual(t, recs[i-1].ModelConfidence, recs[i].ModelConfidence,
				"equal priority must be ordered by descending confidence")
		} else {
			assert.Less(t, recs[i-1].Priority, recs[i].Priority,
				"lower priority value must come first")
		}
	}

	// Empty intake means critical calorie deficit, which outranks all
	// condition recommendations.
	assert.Equal(t, models.TypeNutrientAdjustment, recs[0].RecommendationType)
	assert.Equal(t, models.PriorityCritical, recs[0].Priority)
}

func TestGenerateAbsorbsGeneratorFailure(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	engine := newTestEngine(t, db, &stubGenerator{err: errors.New("upstream down")})
	profile := seedUserProfile(t, db, "diabetes")

	recs := engine.Generate(context.Background(), profile, types.NutrientIntake{})

	require.NotEmpty(t, recs)
	for _, rec := range recs {
		assert.NotEqual(t, models.TypeFoodSuggestion, rec.RecommendationType)
		assert.NotEqual(t, models.TypeMealPlan, rec.RecommendationType)
	}
}

func TestGenerateRecoversFromPanic(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	engine := NewRecommendationEngine(db, failingCalculator{}, NewIntakeService(db), &stubGenerator{})
	profile := seedUserProfile(t, db)

	recs := engine.Generate(context.Background(), profile, types.NutrientIntake{})
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestGenerateFetchesIntakeWhenNil(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	engine := newTestEngine(t, db, &stubGenerator{})
	profile := seedUserProfile(t, db)

	// A fully on-target day: macros from the calculator logged as one entry.
	targets := NewNutritionCalculator().Targets(profile)
	require.NoError(t, db.Create(&models.FoodLog{
		UserID:   profile.UserID,
		FoodName: "Balanced day",
		LoggedAt: time.Now(),
		Calories: targets.Macros.Calories,
		ProteinG: targets.Macros.ProteinG,
		CarbsG:   targets.Macros.CarbsG,
		FatG:     targets.Macros.FatG,
		FiberG:   targets.Macros.FiberG,
	}).Error)

	recs := engine.Generate(context.Background(), profile, nil)
	assert.NotNil(t, recs, "an empty result must serialize as [], not null")
	for _, rec := range recs {
		assert.NotEqual(t, models.TypeNutrientAdjustment, rec.RecommendationType,
			"on-target intake must not produce a gap recommendation")
	}
}
