package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRecommendation(t *testing.T, db *gorm.DB, userID uuid.UUID, mutate func(*models.Recommendation)) *models.Recommendation {
	t.Helper()
	rec := &models.Recommendation{
		UserID:             userID,
		RecommendationType: models.TypeNutrientAdjustment,
		Title:              "Test recommendation",
		ConfidenceLevel:    models.ConfidenceHigh,
		ModelVersion:       "1.0",
		ModelConfidence:    0.85,
		Priority:           models.PriorityMedium,
		IsActive:           true,
	}
	if mutate != nil {
		mutate(rec)
	}
	// Create skips a false IsActive because of the column default and then
	// backfills true into the struct, so capture the intent first.
	active := rec.IsActive
	require.NoError(t, db.Create(rec).Error)
	if !active {
		require.NoError(t, db.Model(rec).Update("is_active", false).Error)
		rec.IsActive = false
	}
	return rec
}

func TestRecommendationServiceGetByID(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecommendationService(NewRecommendationRepository(db))
	ctx := context.Background()

	userID := uuid.New()
	rec := seedRecommendation(t, db, userID, nil)

	got, err := svc.GetByID(ctx, rec.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)

	// Another user's recommendation reads as not found.
	got, err = svc.GetByID(ctx, rec.ID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordFeedback(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecommendationService(NewRecommendationRepository(db))
	ctx := context.Background()

	userID := uuid.New()
	rec := seedRecommendation(t, db, userID, nil)

	t.Run("valid feedback persists", func(t *testing.T) {
		rating := 4
		text := "helpful"
		updated, err := svc.RecordFeedback(ctx, rec.ID, userID, true, &rating, &text)
		require.NoError(t, err)
		assert.True(t, updated)

		var stored models.Recommendation
		require.NoError(t, db.First(&stored, "id = ?", rec.ID).Error)
		assert.True(t, stored.IsViewed)
		assert.True(t, stored.IsAccepted)
		require.NotNil(t, stored.UserRating)
		assert.Equal(t, 4, *stored.UserRating)
		require.NotNil(t, stored.UserFeedback)
		assert.Equal(t, "helpful", *stored.UserFeedback)
	})

	t.Run("rating out of range rejected without mutation", func(t *testing.T) {
		target := seedRecommendation(t, db, userID, nil)

		rating := 6
		_, err := svc.RecordFeedback(ctx, target.ID, userID, true, &rating, nil)
		assert.ErrorIs(t, err, ErrInvalidRating)

		var stored models.Recommendation
		require.NoError(t, db.First(&stored, "id = ?", target.ID).Error)
		assert.False(t, stored.IsViewed)
		assert.False(t, stored.IsAccepted)
		assert.Nil(t, stored.UserRating)
	})

	t.Run("overlong feedback rejected", func(t *testing.T) {
		text := strings.Repeat("a", 1001)
		_, err := svc.RecordFeedback(ctx, rec.ID, userID, false, nil, &text)
		assert.ErrorIs(t, err, ErrFeedbackTooLong)
	})

	t.Run("feedback at the limit accepted", func(t *testing.T) {
		text := strings.Repeat("a", 1000)
		updated, err := svc.RecordFeedback(ctx, rec.ID, userID, false, nil, &text)
		require.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("unknown recommendation reports not updated", func(t *testing.T) {
		updated, err := svc.RecordFeedback(ctx, uuid.New(), userID, true, nil, nil)
		require.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestDeactivateStale(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewRecommendationRepository(db)
	svc := NewRecommendationService(repo)
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	userID := uuid.New()

	fresh := seedRecommendation(t, db, userID, nil)
	stale := seedRecommendation(t, db, userID, nil)
	inactive := seedRecommendation(t, db, userID, func(r *models.Recommendation) {
		r.IsActive = false
	})

	// Backdate the stale and inactive records past the cutoff.
	old := svc.now().AddDate(0, 0, -10)
	require.NoError(t, db.Model(&models.Recommendation{}).
		Where("id IN ?", []uuid.UUID{stale.ID, inactive.ID}).
		Update("created_at", old).Error)

	count, err := svc.DeactivateStale(ctx, userID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var stored models.Recommendation
	require.NoError(t, db.First(&stored, "id = ?", stale.ID).Error)
	assert.False(t, stored.IsActive)
	var storedFresh models.Recommendation
	require.NoError(t, db.First(&storedFresh, "id = ?", fresh.ID).Error)
	assert.True(t, storedFresh.IsActive)

	// Idempotent: a second pass finds nothing left to deactivate.
	count, err = svc.DeactivateStale(ctx, userID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Non-positive daysOld falls back to the 7-day default.
	count, err = svc.DeactivateStale(ctx, userID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestListForUser(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecommendationService(NewRecommendationRepository(db))
	ctx := context.Background()

	userID := uuid.New()
	seedRecommendation(t, db, userID, func(r *models.Recommendation) { r.Priority = models.PriorityLow })
	seedRecommendation(t, db, userID, func(r *models.Recommendation) { r.Priority = models.PriorityCritical })
	seedRecommendation(t, db, userID, func(r *models.Recommendation) {
		r.Priority = models.PriorityHigh
		r.IsActive = false
	})

	recs, err := svc.ListForUser(ctx, userID, true, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, models.PriorityCritical, recs[0].Priority)
	assert.Equal(t, models.PriorityLow, recs[1].Priority)

	recs, err = svc.ListForUser(ctx, userID, false, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestGetStats(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecommendationService(NewRecommendationRepository(db))
	ctx := context.Background()

	userID := uuid.New()

	t.Run("empty user has nil average rating", func(t *testing.T) {
		stats, err := svc.GetStats(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.TotalRecommendations)
		assert.Nil(t, stats.AverageRating)
		assert.Empty(t, stats.RecentRecommendations)
	})

	rating3, rating5 := 3, 5
	seedRecommendation(t, db, userID, func(r *models.Recommendation) {
		r.RecommendationType = models.TypeMealPlan
		r.UserRating = &rating3
	})
	seedRecommendation(t, db, userID, func(r *models.Recommendation) {
		r.IsAccepted = true
		r.UserRating = &rating5
	})
	seedRecommendation(t, db, userID, func(r *models.Recommendation) {
		r.IsActive = false
	})

	t.Run("populated stats", func(t *testing.T) {
		stats, err := svc.GetStats(ctx, userID)
		require.NoError(t, err)

		assert.Equal(t, int64(3), stats.TotalRecommendations)
		assert.Equal(t, int64(2), stats.ActiveRecommendations)
		assert.Equal(t, int64(1), stats.AcceptedRecommendations)
		require.NotNil(t, stats.AverageRating)
		assert.InDelta(t, 4.0, *stats.AverageRating, 0.001)
		assert.Equal(t, int64(2), stats.RecommendationsByType[models.TypeNutrientAdjustment])
		assert.Equal(t, int64(1), stats.RecommendationsByType[models.TypeMealPlan])
		assert.Len(t, stats.RecentRecommendations, 3)
	})
}
