package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
	pgvector "github.com/pgvector/pgvector-go"
)

// UserSummary is the demographic and health summary given to the suggestion
// generator when asking for meal ideas.
type UserSummary struct {
	Age              int      `json:"age"`
	Gender           string   `json:"gender"`
	ActivityLevel    string   `json:"activity_level"`
	PrimaryGoal      string   `json:"primary_goal"`
	HealthConditions []string `json:"health_conditions"`
}

// MealNutrientTargets are the nutrient amounts a single meal should provide.
type MealNutrientTargets struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// SuggestionGenerator proposes candidate meals for a set of nutrient targets
// and constraints. Implementations may fail or return an empty list; callers
// must treat both as "no suggestions".
type SuggestionGenerator interface {
	GenerateMealSuggestions(ctx context.Context, summary UserSummary, targets MealNutrientTargets, dietaryRestrictions []string, mealType string) ([]MealSuggestion, error)
}

// NutritionTargets bundles the calculator's output for one user.
type NutritionTargets struct {
	Macros         models.MacroTargets
	Micronutrients map[string]float64
	BMR            float64
	TDEE           float64
	Method         string
}

// TargetCalculator computes nutrition targets from a profile. Implementations
// must be deterministic for identical input so recommendation reasoning is
// reproducible.
type TargetCalculator interface {
	Targets(profile *models.UserProfile) NutritionTargets
}

// IntakeAggregator supplies summed daily intake and logging activity for a user.
type IntakeAggregator interface {
	DailyIntake(ctx context.Context, userID uuid.UUID, day time.Time) (types.NutrientIntake, error)
	CountRecentLogs(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
}

// EmbeddingGenerator produces the vector stored alongside food catalog entries.
type EmbeddingGenerator interface {
	GenerateEmbedding(text string) (pgvector.Vector, error)
}

// RecommendationRepository persists and queries recommendation records.
type RecommendationRepository interface {
	CreateBatch(ctx context.Context, recs []*models.Recommendation) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*models.Recommendation, error)
	FindByUser(ctx context.Context, userID uuid.UUID, activeOnly bool, limit int) ([]*models.Recommendation, error)
	FindRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Recommendation, error)
	UpdateFeedback(ctx context.Context, id, userID uuid.UUID, isAccepted bool, rating *int, feedback *string) (bool, error)
	DeactivateStale(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountActive(ctx context.Context, userID uuid.UUID) (int64, error)
	CountAccepted(ctx context.Context, userID uuid.UUID) (int64, error)
	AverageRating(ctx context.Context, userID uuid.UUID) (*float64, error)
	CountByType(ctx context.Context, userID uuid.UUID) (map[models.RecommendationType]int64, error)
}
