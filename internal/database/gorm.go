package database

import (
	"fmt"

	"github.com/nutricoach/backend/config"
	"github.com/nutricoach/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewGormDB opens the ORM connection used by the services.
func NewGormDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the application tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.HealthCondition{},
		&models.DietaryRestriction{},
		&models.NutritionProfile{},
		&models.FoodLog{},
		&models.Food{},
		&models.Recommendation{},
	)
}
