package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFoodDefaultsLoggedAt(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewIntakeService(db)

	entry, err := svc.LogFood(context.Background(), &models.FoodLog{
		UserID:   uuid.New(),
		FoodName: "Apple",
		Calories: 95,
	})
	require.NoError(t, err)
	assert.False(t, entry.LoggedAt.IsZero())
	assert.NotEqual(t, uuid.Nil, entry.ID)
}

func TestDailyIntake(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewIntakeService(db)
	ctx := context.Background()

	userID := uuid.New()
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	logEntry := func(loggedAt time.Time, mutate func(*models.FoodLog)) {
		entry := &models.FoodLog{
			UserID:   userID,
			FoodName: "Test food",
			LoggedAt: loggedAt,
		}
		if mutate != nil {
			mutate(entry)
		}
		_, err := svc.LogFood(ctx, entry)
		require.NoError(t, err)
	}

	logEntry(day.Add(8*time.Hour), func(e *models.FoodLog) {
		e.Calories = 400
		e.ProteinG = 20
		e.CarbsG = 50
		e.FatG = 12
		e.FiberG = 6
		e.Micronutrients = models.JSONBFloatMap{"iron_mg": 3, "vitamin_c_mg": 40}
	})
	logEntry(day.Add(13*time.Hour), func(e *models.FoodLog) {
		e.Calories = 600
		e.ProteinG = 35
		e.Micronutrients = models.JSONBFloatMap{"iron_mg": 2, "calcium_mg": 250}
	})
	// Logged just past midnight the next day, must not count.
	logEntry(day.AddDate(0, 0, 1).Add(time.Minute), func(e *models.FoodLog) {
		e.Calories = 1000
	})
	// Another user's log on the same day, must not count.
	logEntry(day.Add(12*time.Hour), func(e *models.FoodLog) {
		e.UserID = uuid.New()
		e.Calories = 500
	})

	intake, err := svc.DailyIntake(ctx, userID, day)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, intake["calories"])
	assert.Equal(t, 55.0, intake["protein_g"])
	assert.Equal(t, 50.0, intake["carbs_g"])
	assert.Equal(t, 12.0, intake["fat_g"])
	assert.Equal(t, 6.0, intake["fiber_g"])
	assert.Equal(t, 5.0, intake["iron_mg"])
	assert.Equal(t, 40.0, intake["vitamin_c_mg"])
	assert.Equal(t, 250.0, intake["calcium_mg"])

	// Unlogged nutrients read as zero through the accessor.
	assert.Equal(t, 0.0, intake.Get("sodium_mg"))
}

func TestDailyIntakeEmptyDay(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewIntakeService(db)

	intake, err := svc.DailyIntake(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0.0, intake["calories"])
	assert.Equal(t, 0.0, intake["protein_g"])
	assert.Equal(t, 0.0, intake["fiber_g"])
}

func TestCountRecentLogs(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewIntakeService(db)
	ctx := context.Background()

	userID := uuid.New()
	now := time.Now()

	for _, age := range []time.Duration{time.Hour, 25 * time.Hour, 100 * time.Hour} {
		_, err := svc.LogFood(ctx, &models.FoodLog{
			UserID:   userID,
			FoodName: "Test food",
			LoggedAt: now.Add(-age),
		})
		require.NoError(t, err)
	}

	count, err := svc.CountRecentLogs(ctx, userID, now.Add(-72*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListLogsOrder(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewIntakeService(db)
	ctx := context.Background()

	userID := uuid.New()
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	for hour, name := range map[int]string{8: "Oatmeal", 13: "Salad", 19: "Soup"} {
		_, err := svc.LogFood(ctx, &models.FoodLog{
			UserID:   userID,
			FoodName: name,
			LoggedAt: day.Add(time.Duration(hour) * time.Hour),
		})
		require.NoError(t, err)
	}

	logs, err := svc.ListLogs(ctx, userID, day)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "Soup", logs[0].FoodName)
	assert.Equal(t, "Salad", logs[1].FoodName)
	assert.Equal(t, "Oatmeal", logs[2].FoodName)
}
