package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound          = errors.New("profile not found")
	ErrNutritionProfileNotFound = errors.New("nutrition profile not found")
)

// ProfileService manages user profiles and their health metadata.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile loads the user's profile with health conditions attached.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).
		Preload("HealthConditions").
		Preload("DietaryRestrictions").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// GetNutritionProfile returns the user's computed nutrition targets. The row
// only exists after a recommendation run has calculated it.
func (s *ProfileService) GetNutritionProfile(ctx context.Context, userID uuid.UUID) (*models.NutritionProfile, error) {
	var np models.NutritionProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&np).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNutritionProfileNotFound
		}
		return nil, fmt.Errorf("failed to load nutrition profile: %w", err)
	}
	return &np, nil
}

// UpdateProfile applies the non-nil fields of the request to the user's
// profile. Conditions and restrictions replace the existing sets when
// provided. A changed body metric invalidates the cached nutrition profile
// so targets get recalculated on the next recommendation run.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	targetsChanged := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if req.Age != nil {
			updates["age"] = *req.Age
			targetsChanged = true
		}
		if req.Gender != nil {
			updates["gender"] = *req.Gender
			targetsChanged = true
		}
		if req.HeightCm != nil {
			updates["height_cm"] = *req.HeightCm
			targetsChanged = true
		}
		if req.WeightKg != nil {
			updates["weight_kg"] = *req.WeightKg
			targetsChanged = true
		}
		if req.ActivityLevel != nil {
			updates["activity_level"] = *req.ActivityLevel
			targetsChanged = true
		}
		if req.PrimaryGoal != nil {
			updates["primary_goal"] = *req.PrimaryGoal
			targetsChanged = true
		}
		if req.TargetWeightKg != nil {
			updates["target_weight_kg"] = *req.TargetWeightKg
		}
		if req.TargetCalories != nil {
			updates["target_calories"] = *req.TargetCalories
			targetsChanged = true
		}
		if req.Allergies != nil {
			updates["allergies"] = models.JSONBStringArray(req.Allergies)
		}
		if len(updates) > 0 {
			if err := tx.Model(profile).Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.HealthConditions != nil {
			if err := tx.Where("user_id = ?", userID).Delete(&models.HealthCondition{}).Error; err != nil {
				return err
			}
			for _, c := range req.HealthConditions {
				record := models.HealthCondition{
					UserID:   userID,
					Name:     c.Name,
					Severity: c.Severity,
					Notes:    c.Notes,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
			}
			targetsChanged = true
		}

		if req.DietaryRestrictions != nil {
			if err := tx.Where("user_id = ?", userID).Delete(&models.DietaryRestriction{}).Error; err != nil {
				return err
			}
			for _, r := range req.DietaryRestrictions {
				record := models.DietaryRestriction{
					UserID:   userID,
					Type:     r.Type,
					Severity: r.Severity,
					Notes:    r.Notes,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
			}
		}

		if targetsChanged {
			// Drop the stale targets row; the engine recreates it.
			if err := tx.Where("user_id = ?", userID).Delete(&models.NutritionProfile{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetProfile(ctx, userID)
}
