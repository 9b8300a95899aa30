package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/models"
)

var (
	// ErrInvalidRating is returned when a feedback rating is outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrFeedbackTooLong is returned when feedback text exceeds 1000 characters.
	ErrFeedbackTooLong = errors.New("feedback must be at most 1000 characters")
)

const (
	maxFeedbackLength = 1000

	// defaultStaleDays is how old an active recommendation may get before a
	// generation pass deactivates it.
	defaultStaleDays = 7

	defaultListLimit = 10
	recentStatsLimit = 5
)

// RecommendationStats summarizes a user's recommendation history.
type RecommendationStats struct {
	TotalRecommendations    int64                               `json:"total_recommendations"`
	ActiveRecommendations   int64                               `json:"active_recommendations"`
	AcceptedRecommendations int64                               `json:"accepted_recommendations"`
	AverageRating           *float64                            `json:"average_rating"`
	RecommendationsByType   map[models.RecommendationType]int64 `json:"recommendations_by_type"`
	RecentRecommendations   []*models.Recommendation            `json:"recent_recommendations"`
}

// RecommendationService manages the lifecycle of stored recommendations:
// retrieval, feedback, staleness deactivation and statistics.
type RecommendationService struct {
	repo RecommendationRepository
	now  func() time.Time
}

// NewRecommendationService creates a new RecommendationService instance
func NewRecommendationService(repo RecommendationRepository) *RecommendationService {
	return &RecommendationService{
		repo: repo,
		now:  time.Now,
	}
}

// GetByID returns the recommendation only if it belongs to the user; a
// recommendation owned by someone else reads as not found (nil, nil).
func (s *RecommendationService) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Recommendation, error) {
	return s.repo.FindByID(ctx, id, userID)
}

// RecordFeedback marks the recommendation viewed and records acceptance,
// rating and feedback text. Validation failures reject the call before any
// state changes. Returns false when the recommendation does not exist for
// the user.
func (s *RecommendationService) RecordFeedback(ctx context.Context, id, userID uuid.UUID, isAccepted bool, rating *int, feedback *string) (bool, error) {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return false, ErrInvalidRating
	}
	if feedback != nil && len(*feedback) > maxFeedbackLength {
		return false, ErrFeedbackTooLong
	}
	return s.repo.UpdateFeedback(ctx, id, userID, isAccepted, rating, feedback)
}

// ListForUser returns the user's recommendations sorted by priority then
// recency, limited.
func (s *RecommendationService) ListForUser(ctx context.Context, userID uuid.UUID, activeOnly bool, limit int) ([]*models.Recommendation, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.FindByUser(ctx, userID, activeOnly, limit)
}

// DeactivateStale turns off active recommendations older than daysOld days.
// Already-inactive records are untouched, so repeated calls are idempotent.
func (s *RecommendationService) DeactivateStale(ctx context.Context, userID uuid.UUID, daysOld int) (int64, error) {
	if daysOld <= 0 {
		daysOld = defaultStaleDays
	}
	cutoff := s.now().AddDate(0, 0, -daysOld)
	return s.repo.DeactivateStale(ctx, userID, cutoff)
}

// GetStats aggregates recommendation statistics for a user. AverageRating is
// nil when no recommendation has been rated.
func (s *RecommendationService) GetStats(ctx context.Context, userID uuid.UUID) (*RecommendationStats, error) {
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	active, err := s.repo.CountActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	accepted, err := s.repo.CountAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	avgRating, err := s.repo.AverageRating(ctx, userID)
	if err != nil {
		return nil, err
	}
	byType, err := s.repo.CountByType(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.FindRecent(ctx, userID, recentStatsLimit)
	if err != nil {
		return nil, err
	}

	return &RecommendationStats{
		TotalRecommendations:    total,
		ActiveRecommendations:   active,
		AcceptedRecommendations: accepted,
		AverageRating:           avgRating,
		RecommendationsByType:   byType,
		RecentRecommendations:   recent,
	}, nil
}
