package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONBFloatMap is a custom type for handling nutrient-name → amount maps in JSONB
type JSONBFloatMap map[string]float64

// Value implements the driver.Valuer interface
func (m JSONBFloatMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *JSONBFloatMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONBFloatMap{}
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

// MacroTargets holds the five macro targets the gap analyzer works against.
// Calories must be positive; gram targets are non-negative.
type MacroTargets struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

// NutritionProfile stores a user's calculated targets and meal preferences.
type NutritionProfile struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Calories float64 `gorm:"not null" json:"calories"`
	ProteinG float64 `gorm:"not null" json:"protein_g"`
	CarbsG   float64 `gorm:"not null" json:"carbs_g"`
	FatG     float64 `gorm:"not null" json:"fat_g"`
	FiberG   float64 `gorm:"not null" json:"fiber_g"`

	MicronutrientTargets JSONBFloatMap `gorm:"type:jsonb;not null;default:'{}'" json:"micronutrient_targets"`

	BMR               float64 `json:"bmr"`
	TDEE              float64 `json:"tdee"`
	CalculationMethod string  `gorm:"size:50" json:"calculation_method"`

	MealDistribution JSONBFloatMap `gorm:"type:jsonb;not null;default:'{}'" json:"meal_distribution"`
}

func (NutritionProfile) TableName() string {
	return "nutrition_profiles"
}

// BeforeCreate assigns the row ID before insert.
func (p *NutritionProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Macros returns the profile's macro targets as a value type.
func (p *NutritionProfile) Macros() MacroTargets {
	return MacroTargets{
		Calories: p.Calories,
		ProteinG: p.ProteinG,
		CarbsG:   p.CarbsG,
		FatG:     p.FatG,
		FiberG:   p.FiberG,
	}
}

// Distribution returns the meal-distribution mapping, falling back to the
// default 25/35/30/10 split when none is stored.
func (p *NutritionProfile) Distribution() map[string]float64 {
	if len(p.MealDistribution) > 0 {
		return p.MealDistribution
	}
	return map[string]float64{
		"breakfast": 0.25,
		"lunch":     0.35,
		"dinner":    0.30,
		"snack":     0.10,
	}
}

// FoodLog is one logged food item for a user.
type FoodLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_food_logs_user_date" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FoodID   *uuid.UUID `gorm:"type:uuid" json:"food_id,omitempty"`
	FoodName string     `gorm:"size:255;not null" json:"food_name"`
	MealType string     `gorm:"size:20" json:"meal_type"` // breakfast, lunch, dinner, snack
	LoggedAt time.Time  `gorm:"not null;index:idx_food_logs_user_date" json:"logged_at"`

	ServingSize float64 `json:"serving_size"`
	ServingUnit string  `gorm:"size:50" json:"serving_unit"`

	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`

	Micronutrients JSONBFloatMap `gorm:"type:jsonb;not null;default:'{}'" json:"micronutrients"`

	PhotoURL string `gorm:"size:255" json:"photo_url,omitempty"`
}

func (FoodLog) TableName() string {
	return "food_logs"
}

// BeforeCreate assigns the row ID before insert.
func (f *FoodLog) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
