package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SuggestionIngredient is one ingredient in a generated meal suggestion.
type SuggestionIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// SuggestionNutrition is the generator's nutrition estimate for a suggestion.
type SuggestionNutrition struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// MealSuggestion is a structured meal idea returned by the suggestion generator.
type MealSuggestion struct {
	Name               string                 `json:"name"`
	Ingredients        []SuggestionIngredient `json:"ingredients"`
	Instructions       string                 `json:"instructions"`
	EstimatedNutrition SuggestionNutrition    `json:"estimated_nutrition"`
	Rationale          string                 `json:"rationale"`
	PrepTimeMinutes    int                    `json:"prep_time_minutes"`
	Difficulty         string                 `json:"difficulty"`
}

// LLMService generates meal suggestions through the DeepSeek API
type LLMService struct {
	apiKey string
	apiURL string
	client *http.Client
	redis  *redis.Client
}

// suggestionCacheTTL bounds how long an identical suggestion request is served
// from Redis instead of the API.
const suggestionCacheTTL = time.Hour

// NewLLMService creates a new LLMService instance. The Redis client is
// optional; without it responses are not cached.
func NewLLMService(redisClient *redis.Client) (*LLMService, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("DEEPSEEK_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("DEEPSEEK_API_URL")
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}

	return &LLMService{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 30 * time.Second},
		redis:  redisClient,
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the DeepSeek API
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

const suggestionSystemPrompt = `You are a professional nutritionist. For the given meal request, provide exactly 3 meal suggestions in JSON format with the following structure:
{
    "suggestions": [
        {
            "name": "Meal Name",
            "ingredients": [
                {"name": "ingredient", "quantity": "amount", "unit": "unit"}
            ],
            "instructions": "Brief preparation steps",
            "estimated_nutrition": {
                "calories": 350,
                "protein_g": 25,
                "carbs_g": 40,
                "fat_g": 12
            },
            "rationale": "Why this meal is good for the user",
            "prep_time_minutes": 20,
            "difficulty": "easy"
        }
    ]
}

Note: the estimated_nutrition fields must be numbers, not strings.
The difficulty field must be one of: easy, medium, hard.`

// GenerateMealSuggestions asks the DeepSeek API for meal ideas matching the
// user's profile and the nutrient targets of a single meal. An identical
// request within the cache TTL is served from Redis.
func (s *LLMService) GenerateMealSuggestions(ctx context.Context, summary UserSummary, targets MealNutrientTargets, dietaryRestrictions []string, mealType string) ([]MealSuggestion, error) {
	restrictions := "none"
	if len(dietaryRestrictions) > 0 {
		restrictions = strings.Join(dietaryRestrictions, ", ")
	}

	prompt := fmt.Sprintf(`Generate 3 healthy %s meal suggestions for a user with the following profile:

User Profile:
- Age: %d
- Gender: %s
- Activity Level: %s
- Primary Goal: %s
- Health Conditions: %s

Nutrition Targets for this meal:
- Calories: %.0f
- Protein: %.0fg
- Carbs: %.0fg
- Fat: %.0fg

Dietary Restrictions: %s`,
		mealType,
		summary.Age,
		summary.Gender,
		summary.ActivityLevel,
		summary.PrimaryGoal,
		strings.Join(summary.HealthConditions, ", "),
		targets.Calories,
		targets.ProteinG,
		targets.CarbsG,
		targets.FatG,
		restrictions,
	)

	if cached, ok := s.cachedSuggestions(ctx, prompt); ok {
		return cached, nil
	}

	reqBody := Request{
		Model: "deepseek-chat",
		Messages: []Message{
			{Role: "system", Content: suggestionSystemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from API")
	}

	suggestions, err := parseSuggestions(result.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	s.cacheSuggestions(ctx, prompt, suggestions)
	return suggestions, nil
}

// parseSuggestions handles both the documented {"suggestions": [...]} wrapper
// and a bare array, since models occasionally drop the wrapper.
func parseSuggestions(content string) ([]MealSuggestion, error) {
	var wrapper struct {
		Suggestions []MealSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err == nil && len(wrapper.Suggestions) > 0 {
		return wrapper.Suggestions, nil
	}

	var bare []MealSuggestion
	if err := json.Unmarshal([]byte(content), &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("failed to parse suggestions: %q", content)
}

func suggestionCacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "suggestions:" + hex.EncodeToString(sum[:])
}

func (s *LLMService) cachedSuggestions(ctx context.Context, prompt string) ([]MealSuggestion, bool) {
	if s.redis == nil {
		return nil, false
	}
	data, err := s.redis.Get(ctx, suggestionCacheKey(prompt)).Bytes()
	if err != nil {
		return nil, false
	}
	var suggestions []MealSuggestion
	if err := json.Unmarshal(data, &suggestions); err != nil {
		return nil, false
	}
	return suggestions, true
}

func (s *LLMService) cacheSuggestions(ctx context.Context, prompt string, suggestions []MealSuggestion) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(suggestions)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, suggestionCacheKey(prompt), data, suggestionCacheTTL).Err(); err != nil {
		log.Printf("failed to cache suggestions: %v", err)
	}
}
