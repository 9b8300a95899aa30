package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/nutricoach/backend/config"
	"github.com/nutricoach/backend/internal/service"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupAPI wires the services and registers every route group under /api/v1.
// The Redis client and S3 config may be nil; the features backed by them
// degrade instead of failing startup.
func SetupAPI(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config, jwtSecret string) {
	v1 := router.Group("/api/v1")
	{
		authService := service.NewAuthService(db, jwtSecret)
		profileService := service.NewProfileService(db)
		intakeService := service.NewIntakeService(db)
		foodService := service.NewFoodService(db, service.NewEmbeddingService())

		var generator service.SuggestionGenerator
		llmService, err := service.NewLLMService(redisClient)
		if err != nil {
			log.Printf("LLM service unavailable, meal suggestions disabled: %v", err)
		} else {
			generator = llmService
		}

		var photoService *service.PhotoService
		if s3Config != nil {
			photoService = service.NewPhotoService(db, s3Config)
		}

		calculator := service.NewNutritionCalculator()
		engine := service.NewRecommendationEngine(db, calculator, intakeService, generator)
		repo := service.NewRecommendationRepository(db)
		recommendationService := service.NewRecommendationService(repo)

		authHandler := NewAuthHandler(authService)
		profileHandler := NewProfileHandler(profileService, authService)
		nutritionHandler := NewNutritionHandler(intakeService, photoService, authService)
		foodHandler := NewFoodHandler(foodService, authService)
		recommendationHandler := NewRecommendationHandler(engine, recommendationService, profileService, authService, repo)

		authHandler.RegisterRoutes(v1)
		profileHandler.RegisterRoutes(v1)
		nutritionHandler.RegisterRoutes(v1)
		foodHandler.RegisterRoutes(v1)
		recommendationHandler.RegisterRoutes(v1)
	}
}
