package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
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
	return json.Unmarshal(bytes, a)
}

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	LastLogin    *time.Time     `json:"last_login,omitempty"`
}

// BeforeCreate assigns the row ID before insert.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Activity levels and goals recognized by the target calculator.
const (
	ActivitySedentary        = "sedentary"
	ActivityLightlyActive    = "lightly_active"
	ActivityModeratelyActive = "moderately_active"
	ActivityVeryActive       = "very_active"
	ActivityExtremelyActive  = "extremely_active"

	GoalWeightLoss        = "weight_loss"
	GoalWeightGain        = "weight_gain"
	GoalMuscleGain        = "muscle_gain"
	GoalMaintenance       = "maintenance"
	GoalHealthImprovement = "health_improvement"
)

// UserProfile carries the physiological attributes and preferences the
// recommendation engine reasons about.
type UserProfile struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Age           int     `json:"age"`
	Gender        string  `gorm:"size:10" json:"gender"` // male, female, other
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	ActivityLevel string  `gorm:"size:30" json:"activity_level"`
	PrimaryGoal   string  `gorm:"size:30" json:"primary_goal"`

	TargetWeightKg float64 `json:"target_weight_kg,omitempty"`
	TargetCalories float64 `json:"target_calories,omitempty"`

	HealthConditions    []HealthCondition    `gorm:"foreignKey:UserID;references:UserID" json:"health_conditions"`
	DietaryRestrictions []DietaryRestriction `gorm:"foreignKey:UserID;references:UserID" json:"dietary_restrictions"`
	Allergies           JSONBStringArray     `gorm:"type:jsonb;not null;default:'[]'" json:"allergies"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// BeforeCreate assigns the row ID before insert.
func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// RestrictionTypes returns the type strings of the profile's dietary restrictions.
func (p *UserProfile) RestrictionTypes() []string {
	out := make([]string, 0, len(p.DietaryRestrictions))
	for _, r := range p.DietaryRestrictions {
		out = append(out, r.Type)
	}
	return out
}

// ConditionNames returns the names of the profile's health conditions.
func (p *UserProfile) ConditionNames() []string {
	out := make([]string, 0, len(p.HealthConditions))
	for _, c := range p.HealthConditions {
		out = append(out, c.Name)
	}
	return out
}

// HealthCondition represents a diagnosed condition attached to a user.
type HealthCondition struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Severity  string    `gorm:"size:20" json:"severity,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (HealthCondition) TableName() string {
	return "health_conditions"
}

// BeforeCreate assigns the row ID before insert.
func (c *HealthCondition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DietaryRestriction represents a dietary restriction entry for a user.
type DietaryRestriction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"size:50;not null" json:"type"` // vegetarian, vegan, gluten_free, ...
	Severity  string    `gorm:"size:20" json:"severity,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DietaryRestriction) TableName() string {
	return "dietary_restrictions"
}

// BeforeCreate assigns the row ID before insert.
func (r *DietaryRestriction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
