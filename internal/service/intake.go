package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
	"gorm.io/gorm"
)

// IntakeService sums logged food items into daily nutrient intake.
type IntakeService struct {
	db *gorm.DB
}

// NewIntakeService creates a new IntakeService instance
func NewIntakeService(db *gorm.DB) *IntakeService {
	return &IntakeService{db: db}
}

// LogFood stores one food log entry for a user.
func (s *IntakeService) LogFood(ctx context.Context, entry *models.FoodLog) (*models.FoodLog, error) {
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to log food: %w", err)
	}
	return entry, nil
}

// DailyIntake returns the summed nutrient intake for the user on the given
// day. Macros become the fixed keys (calories, protein_g, ...) and logged
// micronutrients merge in by name. Unlogged nutrients read as 0.
func (s *IntakeService) DailyIntake(ctx context.Context, userID uuid.UUID, day time.Time) (types.NutrientIntake, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var logs []models.FoodLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, start, end).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load food logs: %w", err)
	}

	intake := types.NutrientIntake{
		"calories":  0,
		"protein_g": 0,
		"carbs_g":   0,
		"fat_g":     0,
		"fiber_g":   0,
	}
	for _, entry := range logs {
		intake["calories"] += entry.Calories
		intake["protein_g"] += entry.ProteinG
		intake["carbs_g"] += entry.CarbsG
		intake["fat_g"] += entry.FatG
		intake["fiber_g"] += entry.FiberG
		for name, amount := range entry.Micronutrients {
			intake[name] += amount
		}
	}

	return intake, nil
}

// CountRecentLogs returns how many food items the user logged since the given
// time. The meal-plan builder uses this as its inconsistent-logging signal.
func (s *IntakeService) CountRecentLogs(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.FoodLog{}).
		Where("user_id = ? AND logged_at >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count food logs: %w", err)
	}
	return count, nil
}

// ListLogs returns the user's food logs for a day, newest first.
func (s *IntakeService) ListLogs(ctx context.Context, userID uuid.UUID, day time.Time) ([]*models.FoodLog, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var logs []*models.FoodLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, start, end).
		Order("logged_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list food logs: %w", err)
	}
	return logs, nil
}
