package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecommendationType identifies the kind of recommendation produced by the engine.
type RecommendationType string

const (
	TypeDailyNutrition     RecommendationType = "daily_nutrition"
	TypeFoodSuggestion     RecommendationType = "food_suggestion"
	TypeMealPlan           RecommendationType = "meal_plan"
	TypeNutrientAdjustment RecommendationType = "nutrient_adjustment"
	TypeHealthOptimization RecommendationType = "health_optimization"
)

// ConfidenceLevel expresses how much trust the engine places in a recommendation.
type ConfidenceLevel string

const (
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceVeryHigh ConfidenceLevel = "very_high"
)

// Priority is the ordered recommendation priority. 1 is the highest.
type Priority int

const (
	PriorityCritical      Priority = 1
	PriorityHigh          Priority = 2
	PriorityMedium        Priority = 3
	PriorityLow           Priority = 4
	PriorityInformational Priority = 5
)

// NutrientAdjustment describes a single increase/decrease directive for one nutrient.
type NutrientAdjustment struct {
	NutrientName         string   `json:"nutrient_name"`
	CurrentIntake        float64  `json:"current_intake"`
	RecommendedIntake    float64  `json:"recommended_intake"`
	AdjustmentAmount     float64  `json:"adjustment_amount"`
	AdjustmentDirection  string   `json:"adjustment_direction"` // increase, decrease
	Unit                 string   `json:"unit"`
	Reason               string   `json:"reason"`
	HealthImpact         string   `json:"health_impact"`
	FoodSources          []string `json:"food_sources"`
	SupplementSuggestion string   `json:"supplement_suggestion,omitempty"`
}

// FoodSuggestion is a single proposed food with estimated nutrition and context.
type FoodSuggestion struct {
	FoodID                     *uuid.UUID `json:"food_reference,omitempty"`
	FoodName                   string     `json:"food_name"`
	ServingSize                float64    `json:"serving_size"`
	ServingUnit                string     `json:"serving_unit"`
	Calories                   float64    `json:"calories"`
	ProteinG                   float64    `json:"protein_g"`
	CarbsG                     float64    `json:"carbs_g"`
	FatG                       float64    `json:"fat_g"`
	FiberG                     float64    `json:"fiber_g,omitempty"`
	Reason                     string     `json:"reason"`
	MealType                   string     `json:"meal_type,omitempty"`
	PriorityScore              float64    `json:"priority_score"`
	NutritionalBenefits        []string   `json:"nutritional_benefits"`
	MatchesDietaryRestrictions bool       `json:"matches_dietary_restrictions"`
	AllergenWarnings           []string   `json:"allergen_warnings"`
}

// MealPlanData is a full day's plan across meal slots. The declared totals are the
// day's macro targets, not the sum of the returned suggestions.
type MealPlanData struct {
	Date            time.Time                   `json:"date"`
	Meals           map[string][]FoodSuggestion `json:"meals"`
	TotalCalories   float64                     `json:"total_calories"`
	TotalProteinG   float64                     `json:"total_protein_g"`
	TotalCarbsG     float64                     `json:"total_carbs_g"`
	TotalFatG       float64                     `json:"total_fat_g"`
	TotalFiberG     float64                     `json:"total_fiber_g"`
	PlanType        string                      `json:"plan_type"`         // daily, weekly
	DifficultyLevel string                      `json:"difficulty_level"`  // easy, medium, hard
	PrepTimeMinutes int                         `json:"prep_time_minutes,omitempty"`
	CostEstimate    float64                     `json:"cost_estimate,omitempty"`
}

// Value implements the driver.Valuer interface
func (m MealPlanData) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *MealPlanData) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// NutrientAdjustmentList stores adjustments as a JSONB column.
type NutrientAdjustmentList []NutrientAdjustment

// Value implements the driver.Valuer interface
func (l NutrientAdjustmentList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *NutrientAdjustmentList) Scan(value interface{}) error {
	if value == nil {
		*l = NutrientAdjustmentList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// FoodSuggestionList stores food suggestions as a JSONB column.
type FoodSuggestionList []FoodSuggestion

// Value implements the driver.Valuer interface
func (l FoodSuggestionList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *FoodSuggestionList) Scan(value interface{}) error {
	if value == nil {
		*l = FoodSuggestionList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Recommendation is the top-level unit produced by the engine and served to clients.
type Recommendation struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID             uuid.UUID          `gorm:"type:uuid;not null;index:idx_recommendations_user_active" json:"user_id"`
	RecommendationType RecommendationType `gorm:"size:50;not null;index" json:"recommendation_type"`

	Title           string          `gorm:"size:255;not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	ConfidenceLevel ConfidenceLevel `gorm:"size:20;not null" json:"confidence_level"`

	FoodSuggestions     FoodSuggestionList     `gorm:"type:jsonb;not null;default:'[]'" json:"food_suggestions"`
	MealPlan            *MealPlanData          `gorm:"type:jsonb" json:"meal_plan,omitempty"`
	NutrientAdjustments NutrientAdjustmentList `gorm:"type:jsonb;not null;default:'[]'" json:"nutrient_adjustments"`

	ModelVersion    string           `gorm:"size:20;not null" json:"model_version"`
	ModelConfidence float64          `gorm:"not null" json:"model_confidence"`
	FeaturesUsed    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"features_used"`

	UserGoals           JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"user_goals"`
	HealthConditions    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"health_conditions"`
	DietaryRestrictions JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"dietary_restrictions"`

	Priority                 Priority `gorm:"not null;index" json:"priority"`
	ExpectedImpact           string   `gorm:"size:20" json:"expected_impact"`           // high, medium, low
	ImplementationDifficulty string   `gorm:"size:20" json:"implementation_difficulty"` // easy, medium, hard
	TimeHorizon              string   `gorm:"size:20" json:"time_horizon"`              // immediate, short_term, medium_term, long_term

	IsActive     bool    `gorm:"not null;default:true;index:idx_recommendations_user_active" json:"is_active"`
	IsViewed     bool    `gorm:"not null;default:false" json:"is_viewed"`
	IsAccepted   bool    `gorm:"not null;default:false" json:"is_accepted"`
	UserFeedback *string `gorm:"type:text" json:"user_feedback,omitempty"`
	UserRating   *int    `json:"user_rating,omitempty"`

	ValidUntil *time.Time `json:"valid_until,omitempty"`
}

// TableName returns the table name for the Recommendation model
func (Recommendation) TableName() string {
	return "recommendations"
}

// BeforeCreate assigns the row ID before insert.
func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
