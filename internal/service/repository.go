package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/models"
	"gorm.io/gorm"
)

// gormRecommendationRepository is the GORM-backed RecommendationRepository.
type gormRecommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository creates a GORM-backed recommendation repository.
func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &gormRecommendationRepository{db: db}
}

func (r *gormRecommendationRepository) CreateBatch(ctx context.Context, recs []*models.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(recs).Error; err != nil {
		return fmt.Errorf("failed to store recommendations: %w", err)
	}
	return nil
}

func (r *gormRecommendationRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*models.Recommendation, error) {
	var rec models.Recommendation
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}
	return &rec, nil
}

func (r *gormRecommendationRepository) FindByUser(ctx context.Context, userID uuid.UUID, activeOnly bool, limit int) ([]*models.Recommendation, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var recs []*models.Recommendation
	err := query.Order("priority ASC").Order("created_at DESC").Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return recs, nil
}

func (r *gormRecommendationRepository) FindRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Recommendation, error) {
	var recs []*models.Recommendation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent recommendations: %w", err)
	}
	return recs, nil
}

func (r *gormRecommendationRepository) UpdateFeedback(ctx context.Context, id, userID uuid.UUID, isAccepted bool, rating *int, feedback *string) (bool, error) {
	updates := map[string]interface{}{
		"is_viewed":   true,
		"is_accepted": isAccepted,
	}
	if rating != nil {
		updates["user_rating"] = *rating
	}
	if feedback != nil {
		updates["user_feedback"] = *feedback
	}

	result := r.db.WithContext(ctx).
		Model(&models.Recommendation{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update recommendation feedback: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormRecommendationRepository) DeactivateStale(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Recommendation{}).
		Where("user_id = ? AND is_active = ? AND created_at < ?", userID, true, cutoff).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate stale recommendations: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormRecommendationRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Recommendation{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *gormRecommendationRepository) CountActive(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Recommendation{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *gormRecommendationRepository) CountAccepted(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Recommendation{}).
		Where("user_id = ? AND is_accepted = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *gormRecommendationRepository) AverageRating(ctx context.Context, userID uuid.UUID) (*float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&models.Recommendation{}).
		Select("AVG(user_rating)").
		Where("user_id = ? AND user_rating IS NOT NULL", userID).
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute average rating: %w", err)
	}
	return avg, nil
}

func (r *gormRecommendationRepository) CountByType(ctx context.Context, userID uuid.UUID) (map[models.RecommendationType]int64, error) {
	var rows []struct {
		RecommendationType models.RecommendationType
		Count              int64
	}
	err := r.db.WithContext(ctx).Model(&models.Recommendation{}).
		Select("recommendation_type, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("recommendation_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count recommendations by type: %w", err)
	}

	counts := make(map[models.RecommendationType]int64, len(rows))
	for _, row := range rows {
		counts[row.RecommendationType] = row.Count
	}
	return counts, nil
}
