package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/middleware"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/service"
)

type FoodHandler struct {
	foodService *service.FoodService
	authService *service.AuthService
}

func NewFoodHandler(foodService *service.FoodService, authService *service.AuthService) *FoodHandler {
	return &FoodHandler{
		foodService: foodService,
		authService: authService,
	}
}

func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	foods := router.Group("/foods")
	{
		foods.GET("", h.SearchFoods)
		foods.GET("/:id", h.GetFood)
		foods.POST("", middleware.AuthMiddleware(h.authService), h.CreateFood)
	}
}

func (h *FoodHandler) SearchFoods(c *gin.Context) {
	foods, err := h.foodService.SearchFoods(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search foods"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

func (h *FoodHandler) GetFood(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food id"})
		return
	}

	food, err := h.foodService.GetFood(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Food not found"})
		return
	}

	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) CreateFood(c *gin.Context) {
	var food models.Food
	if err := c.ShouldBindJSON(&food); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if food.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	created, err := h.foodService.CreateFood(c.Request.Context(), &food)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create food"})
		return
	}

	c.JSON(http.StatusCreated, created)
}
