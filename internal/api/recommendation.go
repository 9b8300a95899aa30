package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/middleware"
	"github.com/nutricoach/backend/internal/service"
	"github.com/nutricoach/backend/internal/types"
)

type RecommendationHandler struct {
	engine                *service.RecommendationEngine
	recommendationService *service.RecommendationService
	profileService        *service.ProfileService
	authService           *service.AuthService
	repo                  service.RecommendationRepository
}

func NewRecommendationHandler(
	engine *service.RecommendationEngine,
	recommendationService *service.RecommendationService,
	profileService *service.ProfileService,
	authService *service.AuthService,
	repo service.RecommendationRepository,
) *RecommendationHandler {
	return &RecommendationHandler{
		engine:                engine,
		recommendationService: recommendationService,
		profileService:        profileService,
		authService:           authService,
		repo:                  repo,
	}
}

func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup) {
	recs := router.Group("/recommendations", middleware.AuthMiddleware(h.authService))
	{
		recs.POST("/generate", h.Generate)
		recs.GET("", h.List)
		recs.GET("/stats", h.Stats)
		recs.GET("/:id", h.Get)
		recs.POST("/:id/feedback", h.Feedback)
		recs.POST("/deactivate", h.Deactivate)
	}
}

// Generate runs a full recommendation pass: stale active recommendations are
// retired first so the new batch replaces rather than piles onto them.
func (h *RecommendationHandler) Generate(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	if _, err := h.recommendationService.DeactivateStale(c.Request.Context(), userID, 0); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate stale recommendations"})
		return
	}

	recommendations := h.engine.Generate(c.Request.Context(), profile, nil)
	if len(recommendations) > 0 {
		if err := h.repo.CreateBatch(c.Request.Context(), recommendations); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store recommendations"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"count":           len(recommendations),
		"generated_at":    time.Now().UTC(),
	})
}

func (h *RecommendationHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	activeOnly := c.DefaultQuery("active_only", "true") == "true"
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return
	}

	recommendations, err := h.recommendationService.ListForUser(c.Request.Context(), userID, activeOnly, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}

func (h *RecommendationHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recommendation id"})
		return
	}

	rec, err := h.recommendationService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recommendation"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recommendation not found"})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *RecommendationHandler) Feedback(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recommendation id"})
		return
	}

	var req types.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.recommendationService.RecordFeedback(c.Request.Context(), id, userID, req.IsAccepted, req.Rating, req.Feedback)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRating) || errors.Is(err, service.ErrFeedbackTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record feedback"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recommendation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback recorded"})
}

func (h *RecommendationHandler) Deactivate(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	daysOld, err := strconv.Atoi(c.DefaultQuery("days_old", "7"))
	if err != nil || daysOld < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days_old must be a positive integer"})
		return
	}

	count, err := h.recommendationService.DeactivateStale(c.Request.Context(), userID, daysOld)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deactivated": count})
}

func (h *RecommendationHandler) Stats(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	stats, err := h.recommendationService.GetStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
