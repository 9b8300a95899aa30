package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/models"
	"gorm.io/gorm"
)

// FoodService handles food catalog operations
type FoodService struct {
	db               *gorm.DB
	embeddingService EmbeddingGenerator
}

// NewFoodService creates a new FoodService instance
func NewFoodService(db *gorm.DB, embeddingService EmbeddingGenerator) *FoodService {
	return &FoodService{
		db:               db,
		embeddingService: embeddingService,
	}
}

// CreateFood adds a catalog entry, generating its search embedding from the
// name and description.
func (s *FoodService) CreateFood(ctx context.Context, food *models.Food) (*models.Food, error) {
	vec, err := s.embeddingService.GenerateEmbedding(food.Name + " " + food.Description)
	if err != nil {
		return nil, err
	}
	food.Embedding = vec
	if err := s.db.WithContext(ctx).Create(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}

// GetFood retrieves a food by ID
func (s *FoodService) GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	var food models.Food
	if err := s.db.WithContext(ctx).First(&food, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

// SearchFoods searches the catalog. On Postgres the query combines keyword
// matching with embedding similarity; other dialects use keyword matching only.
func (s *FoodService) SearchFoods(ctx context.Context, query string) ([]*models.Food, error) {
	var foods []models.Food

	dbQuery := s.db.WithContext(ctx)

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		if s.db.Dialector.Name() == "postgres" {
			vec, err := s.embeddingService.GenerateEmbedding(query)
			if err != nil {
				return nil, err
			}

			subQuery := s.db.Model(&models.Food{}).
				Select("id, embedding <-> ? as similarity", vec).
				Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?",
					like, like, like)

			dbQuery = dbQuery.Joins("JOIN (?) as search ON foods.id = search.id", subQuery).
				Order("search.similarity ASC")
		} else {
			dbQuery = dbQuery.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?",
				like, like, like)
		}
	}

	if err := dbQuery.Find(&foods).Error; err != nil {
		return nil, err
	}

	result := make([]*models.Food, len(foods))
	for i := range foods {
		result[i] = &foods[i]
	}
	return result, nil
}
