package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/middleware"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/service"
	"github.com/nutricoach/backend/internal/types"
)

// maxPhotoSize caps meal photo uploads at 5 MiB.
const maxPhotoSize = 5 << 20

type NutritionHandler struct {
	intakeService *service.IntakeService
	photoService  *service.PhotoService
	authService   *service.AuthService
}

func NewNutritionHandler(intakeService *service.IntakeService, photoService *service.PhotoService, authService *service.AuthService) *NutritionHandler {
	return &NutritionHandler{
		intakeService: intakeService,
		photoService:  photoService,
		authService:   authService,
	}
}

func (h *NutritionHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/food-logs", middleware.AuthMiddleware(h.authService))
	{
		logs.POST("", h.LogFood)
		logs.GET("", h.ListLogs)
		logs.GET("/intake", h.DailyIntake)
		logs.POST("/:id/photo", h.UploadPhoto)
	}
}

func (h *NutritionHandler) LogFood(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req types.LogFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &models.FoodLog{
		UserID:         userID,
		FoodName:       req.FoodName,
		MealType:       req.MealType,
		ServingSize:    req.ServingSize,
		ServingUnit:    req.ServingUnit,
		Calories:       req.Calories,
		ProteinG:       req.ProteinG,
		CarbsG:         req.CarbsG,
		FatG:           req.FatG,
		FiberG:         req.FiberG,
		Micronutrients: req.Micronutrients,
	}

	created, err := h.intakeService.LogFood(c.Request.Context(), entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log food"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *NutritionHandler) ListLogs(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	day, err := parseDay(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
		return
	}

	logs, err := h.intakeService.ListLogs(c.Request.Context(), userID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch food logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"food_logs": logs})
}

func (h *NutritionHandler) DailyIntake(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	day, err := parseDay(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
		return
	}

	intake, err := h.intakeService.DailyIntake(c.Request.Context(), userID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch daily intake"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   day.Format("2006-01-02"),
		"intake": intake,
	})
}

func (h *NutritionHandler) UploadPhoto(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if h.photoService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo storage is not configured"})
		return
	}

	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food log id"})
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo must be at most 5MB"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read photo"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/png" && contentType != "image/jpeg" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo must be a PNG or JPEG image"})
		return
	}

	photoURL, err := h.photoService.UploadMealPhoto(c.Request.Context(), userID, logID, data, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": photoURL})
}

func parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", raw)
}
