package mocks

import (
	"context"
	"sync"

	"github.com/nutricoach/backend/internal/service"
	"github.com/pgvector/pgvector-go"
)

// MockEmbeddingService is a mock implementation of the embedding service
type MockEmbeddingService struct{}

func (m *MockEmbeddingService) GenerateEmbedding(text string) (pgvector.Vector, error) {
	return pgvector.NewVector([]float32{0.1, 0.2, 0.3}), nil
}

// MockSuggestionGenerator returns canned meal suggestions. Set Err to force a
// failure or leave Suggestions nil to simulate an empty result.
type MockSuggestionGenerator struct {
	Suggestions []service.MealSuggestion
	Err         error

	// Calls records the meal types requested. Guarded by mu because the
	// meal plan builder calls concurrently.
	Calls []string
	mu    sync.Mutex
}

func (m *MockSuggestionGenerator) GenerateMealSuggestions(ctx context.Context, summary service.UserSummary, targets service.MealNutrientTargets, dietaryRestrictions []string, mealType string) ([]service.MealSuggestion, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, mealType)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Suggestions, nil
}
