package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Food is a catalog entry with per-serving nutrient values. The embedding
// column backs semantic search on Postgres; other dialects fall back to
// keyword matching.
type Food struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"size:255;not null;index" json:"name"`
	BrandName   string `gorm:"size:255" json:"brand_name,omitempty"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:50" json:"category"`

	ServingSize float64 `json:"serving_size"`
	ServingUnit string  `gorm:"size:50" json:"serving_unit"`

	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
	SugarG   float64 `json:"sugar_g"`
	SodiumMg float64 `json:"sodium_mg"`

	Micronutrients JSONBFloatMap `gorm:"type:jsonb;not null;default:'{}'" json:"micronutrients"`

	Embedding pgvector.Vector `gorm:"type:vector(3)" json:"-"`
}

func (Food) TableName() string {
	return "foods"
}

// BeforeCreate assigns the row ID before insert.
func (f *Food) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
