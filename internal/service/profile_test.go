package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/testhelpers"
	"github.com/nutricoach/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func intPtr(v int) *int           { return &v }

func TestGetProfile(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()

	profile := seedUserProfile(t, db, "diabetes")

	got, err := svc.GetProfile(ctx, profile.UserID)
	require.NoError(t, err)
	require.Len(t, got.HealthConditions, 1)
	assert.Equal(t, "diabetes", got.HealthConditions[0].Name)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestGetNutritionProfile(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()

	profile := seedUserProfile(t, db)

	_, err := svc.GetNutritionProfile(ctx, profile.UserID)
	assert.ErrorIs(t, err, ErrNutritionProfileNotFound)

	require.NoError(t, db.Create(&models.NutritionProfile{
		UserID:            profile.UserID,
		Calories:          2100,
		CalculationMethod: "mifflin_st_jeor",
	}).Error)

	np, err := svc.GetNutritionProfile(ctx, profile.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2100.0, np.Calories)
}

func TestUpdateProfile(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()

	t.Run("scalar fields applied", func(t *testing.T) {
		profile := seedUserProfile(t, db)

		updated, err := svc.UpdateProfile(ctx, profile.UserID, &types.UpdateProfileRequest{
			Age:            intPtr(42),
			WeightKg:       floatPtr(75),
			PrimaryGoal:    strPtr(models.GoalWeightLoss),
			TargetCalories: floatPtr(1800),
		})
		require.NoError(t, err)
		assert.Equal(t, 42, updated.Age)
		assert.Equal(t, 75.0, updated.WeightKg)
		assert.Equal(t, models.GoalWeightLoss, updated.PrimaryGoal)
		assert.Equal(t, 1800.0, updated.TargetCalories)
		// Untouched fields survive the partial update.
		assert.Equal(t, "male", updated.Gender)
		assert.Equal(t, 180.0, updated.HeightCm)
	})

	t.Run("condition set replaced", func(t *testing.T) {
		profile := seedUserProfile(t, db, "diabetes", "anemia")

		updated, err := svc.UpdateProfile(ctx, profile.UserID, &types.UpdateProfileRequest{
			HealthConditions: []types.ConditionInput{
				{Name: "hypertension", Severity: "moderate"},
			},
		})
		require.NoError(t, err)
		require.Len(t, updated.HealthConditions, 1)
		assert.Equal(t, "hypertension", updated.HealthConditions[0].Name)
		assert.Equal(t, "moderate", updated.HealthConditions[0].Severity)
	})

	t.Run("target change drops the cached nutrition profile", func(t *testing.T) {
		profile := seedUserProfile(t, db)
		require.NoError(t, db.Create(&models.NutritionProfile{
			UserID:            profile.UserID,
			Calories:          2000,
			CalculationMethod: "mifflin_st_jeor",
		}).Error)

		_, err := svc.UpdateProfile(ctx, profile.UserID, &types.UpdateProfileRequest{
			WeightKg: floatPtr(90),
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.NutritionProfile{}).
			Where("user_id = ?", profile.UserID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("non-target update keeps the nutrition profile", func(t *testing.T) {
		profile := seedUserProfile(t, db)
		require.NoError(t, db.Create(&models.NutritionProfile{
			UserID:            profile.UserID,
			Calories:          2000,
			CalculationMethod: "mifflin_st_jeor",
		}).Error)

		_, err := svc.UpdateProfile(ctx, profile.UserID, &types.UpdateProfileRequest{
			Allergies: []string{"peanuts"},
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.NutritionProfile{}).
			Where("user_id = ?", profile.UserID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, uuid.New(), &types.UpdateProfileRequest{
			Age: intPtr(40),
		})
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}
