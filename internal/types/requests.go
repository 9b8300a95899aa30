package types

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ConditionInput is one health condition in a profile update.
type ConditionInput struct {
	Name     string `json:"name" binding:"required"`
	Severity string `json:"severity,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// RestrictionInput is one dietary restriction in a profile update.
type RestrictionInput struct {
	Type     string `json:"type" binding:"required"`
	Severity string `json:"severity,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// UpdateProfileRequest is the payload for updating a user's profile.
type UpdateProfileRequest struct {
	Age                 *int               `json:"age,omitempty"`
	Gender              *string            `json:"gender,omitempty"`
	HeightCm            *float64           `json:"height_cm,omitempty"`
	WeightKg            *float64           `json:"weight_kg,omitempty"`
	ActivityLevel       *string            `json:"activity_level,omitempty"`
	PrimaryGoal         *string            `json:"primary_goal,omitempty"`
	TargetWeightKg      *float64           `json:"target_weight_kg,omitempty"`
	TargetCalories      *float64           `json:"target_calories,omitempty"`
	HealthConditions    []ConditionInput   `json:"health_conditions,omitempty"`
	DietaryRestrictions []RestrictionInput `json:"dietary_restrictions,omitempty"`
	Allergies           []string           `json:"allergies,omitempty"`
}

// FeedbackRequest is the payload for recommendation feedback submission.
type FeedbackRequest struct {
	IsAccepted bool    `json:"is_accepted"`
	Rating     *int    `json:"rating,omitempty"`
	Feedback   *string `json:"feedback,omitempty"`
}

// LogFoodRequest is the payload for logging a food item.
type LogFoodRequest struct {
	FoodName       string             `json:"food_name" binding:"required"`
	MealType       string             `json:"meal_type,omitempty"`
	ServingSize    float64            `json:"serving_size,omitempty"`
	ServingUnit    string             `json:"serving_unit,omitempty"`
	Calories       float64            `json:"calories"`
	ProteinG       float64            `json:"protein_g"`
	CarbsG         float64            `json:"carbs_g"`
	FatG           float64            `json:"fat_g"`
	FiberG         float64            `json:"fiber_g"`
	Micronutrients map[string]float64 `json:"micronutrients,omitempty"`
}
