package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/mocks"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/service"
	"github.com/nutricoach/backend/internal/testhelpers"
	"github.com/nutricoach/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)

	authService := service.NewAuthService(db, "test-secret")
	profileService := service.NewProfileService(db)
	intakeService := service.NewIntakeService(db)
	generator := &mocks.MockSuggestionGenerator{}
	engine := service.NewRecommendationEngine(db, service.NewNutritionCalculator(), intakeService, generator)
	repo := service.NewRecommendationRepository(db)
	recommendationService := service.NewRecommendationService(repo)

	router := gin.New()
	v1 := router.Group("/api/v1")
	NewAuthHandler(authService).RegisterRoutes(v1)
	NewProfileHandler(profileService, authService).RegisterRoutes(v1)
	NewRecommendationHandler(engine, recommendationService, profileService, authService, repo).RegisterRoutes(v1)

	return &testAPI{router: router, db: db, auth: authService}
}

// registerUser creates an account through the API and returns its token and id.
func (a *testAPI) registerUser(t *testing.T) (string, uuid.UUID) {
	t.Helper()

	email := uuid.New().String() + "@example.com"
	resp := a.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	claims, err := a.auth.ValidateToken(body.Token)
	require.NoError(t, err)
	return body.Token, claims.UserID
}

func (a *testAPI) request(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) completeProfile(t *testing.T, token string) {
	t.Helper()
	resp := a.request(t, http.MethodPut, "/api/v1/profile", token, types.UpdateProfileRequest{
		Age:           intp(30),
		Gender:        strp("female"),
		HeightCm:      floatp(165),
		WeightKg:      floatp(60),
		ActivityLevel: strp(models.ActivityModeratelyActive),
		PrimaryGoal:   strp(models.GoalMaintenance),
		HealthConditions: []types.ConditionInput{
			{Name: "diabetes", Severity: "moderate"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code)
}

func intp(v int) *int           { return &v }
func strp(v string) *string     { return &v }
func floatp(v float64) *float64 { return &v }

func TestGenerateEndpoint(t *testing.T) {
	api := setupTestAPI(t)
	token, userID := api.registerUser(t)
	api.completeProfile(t, token)

	resp := api.request(t, http.MethodPost, "/api/v1/recommendations/generate", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Recommendations []models.Recommendation `json:"recommendations"`
		Count           int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Greater(t, body.Count, 0)
	assert.Len(t, body.Recommendations, body.Count)

	var stored int64
	require.NoError(t, api.db.Model(&models.Recommendation{}).
		Where("user_id = ? AND is_active = ?", userID, true).Count(&stored).Error)
	assert.Equal(t, int64(body.Count), stored)

	t.Run("requires auth", func(t *testing.T) {
		resp := api.request(t, http.MethodPost, "/api/v1/recommendations/generate", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestListEndpoint(t *testing.T) {
	api := setupTestAPI(t)
	token, userID := api.registerUser(t)

	require.NoError(t, api.db.Create(&models.Recommendation{
		UserID:             userID,
		RecommendationType: models.TypeNutrientAdjustment,
		Title:              "Active rec",
		ConfidenceLevel:    models.ConfidenceHigh,
		ModelVersion:       "1.0",
		Priority:           models.PriorityHigh,
		IsActive:           true,
	}).Error)
	inactive := models.Recommendation{
		UserID:             userID,
		RecommendationType: models.TypeNutrientAdjustment,
		Title:              "Inactive rec",
		ConfidenceLevel:    models.ConfidenceHigh,
		ModelVersion:       "1.0",
		Priority:           models.PriorityLow,
		IsActive:           false,
	}
	require.NoError(t, api.db.Create(&inactive).Error)
	// Create skips false because of the column default, set it explicitly.
	require.NoError(t, api.db.Model(&inactive).Update("is_active", false).Error)

	resp := api.request(t, http.MethodGet, "/api/v1/recommendations", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Recommendations []models.Recommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Recommendations, 1)
	assert.Equal(t, "Active rec", body.Recommendations[0].Title)

	t.Run("active_only=false includes inactive", func(t *testing.T) {
		resp := api.request(t, http.MethodGet, "/api/v1/recommendations?active_only=false", token, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Len(t, body.Recommendations, 2)
	})

	t.Run("bad limit rejected", func(t *testing.T) {
		resp := api.request(t, http.MethodGet, "/api/v1/recommendations?limit=500", token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestFeedbackEndpoint(t *testing.T) {
	api := setupTestAPI(t)
	token, userID := api.registerUser(t)

	rec := models.Recommendation{
		UserID:             userID,
		RecommendationType: models.TypeNutrientAdjustment,
		Title:              "Rec",
		ConfidenceLevel:    models.ConfidenceHigh,
		ModelVersion:       "1.0",
		Priority:           models.PriorityMedium,
		IsActive:           true,
	}
	require.NoError(t, api.db.Create(&rec).Error)

	path := fmt.Sprintf("/api/v1/recommendations/%s/feedback", rec.ID)

	t.Run("valid feedback", func(t *testing.T) {
		resp := api.request(t, http.MethodPost, path, token, types.FeedbackRequest{
			IsAccepted: true,
			Rating:     intp(5),
		})
		require.Equal(t, http.StatusOK, resp.Code)

		var stored models.Recommendation
		require.NoError(t, api.db.First(&stored, "id = ?", rec.ID).Error)
		assert.True(t, stored.IsAccepted)
	})

	t.Run("rating out of range", func(t *testing.T) {
		resp := api.request(t, http.MethodPost, path, token, types.FeedbackRequest{
			Rating: intp(6),
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("unknown recommendation", func(t *testing.T) {
		unknown := fmt.Sprintf("/api/v1/recommendations/%s/feedback", uuid.New())
		resp := api.request(t, http.MethodPost, unknown, token, types.FeedbackRequest{})
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestGetAndStatsEndpoints(t *testing.T) {
	api := setupTestAPI(t)
	token, userID := api.registerUser(t)

	rec := models.Recommendation{
		UserID:             userID,
		RecommendationType: models.TypeMealPlan,
		Title:              "Plan",
		ConfidenceLevel:    models.ConfidenceMedium,
		ModelVersion:       "1.0",
		Priority:           models.PriorityLow,
		IsActive:           true,
	}
	require.NoError(t, api.db.Create(&rec).Error)

	t.Run("get by id", func(t *testing.T) {
		resp := api.request(t, http.MethodGet, "/api/v1/recommendations/"+rec.ID.String(), token, nil)
		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("get unknown id", func(t *testing.T) {
		resp := api.request(t, http.MethodGet, "/api/v1/recommendations/"+uuid.NewString(), token, nil)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("stats", func(t *testing.T) {
		resp := api.request(t, http.MethodGet, "/api/v1/recommendations/stats", token, nil)
		require.Equal(t, http.StatusOK, resp.Code)

		var stats service.RecommendationStats
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &stats))
		assert.Equal(t, int64(1), stats.TotalRecommendations)
		assert.Nil(t, stats.AverageRating)
	})
}
