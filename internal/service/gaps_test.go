package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMacroTargets() models.MacroTargets {
	return models.MacroTargets{
		Calories: 2000,
		ProteinG: 100,
		CarbsG:   250,
		FatG:     65,
		FiberG:   30,
	}
}

func TestAnalyzeNutrientGapsClassification(t *testing.T) {
	targets := testMacroTargets()

	tests := []struct {
		name          string
		protein       float64
		wantFlagged   bool
		wantDirection string
		wantSeverity  string
	}{
		{"critical deficit below half", 40, true, "increase", "critically low"},
		{"high deficit between half and eighty percent", 70, true, "increase", "below target"},
		{"within range at exactly eighty percent", 80, false, "", ""},
		{"within range at exactly one and a half times", 150, false, "", ""},
		{"excess above one and a half times", 160, true, "decrease", "above recommended levels"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intake := types.NutrientIntake{
				"calories":  2000,
				"protein_g": tt.protein,
				"carbs_g":   250,
				"fat_g":     65,
				"fiber_g":   30,
			}

			adjustments := AnalyzeNutrientGaps(targets, intake)

			var proteinAdj *models.NutrientAdjustment
			for i := range adjustments {
				if adjustments[i].NutrientName == "protein_g" {
					proteinAdj = &adjustments[i]
				}
			}

			if !tt.wantFlagged {
				assert.Nil(t, proteinAdj)
				return
			}
			require.NotNil(t, proteinAdj)
			assert.Equal(t, tt.wantDirection, proteinAdj.AdjustmentDirection)
			assert.Contains(t, proteinAdj.Reason, tt.wantSeverity)
			assert.Contains(t, proteinAdj.Reason, "protein g intake")
		})
	}
}

func TestAnalyzeNutrientGapsSkipsZeroTargets(t *testing.T) {
	targets := models.MacroTargets{Calories: 2000}
	intake := types.NutrientIntake{"calories": 2000}

	adjustments := AnalyzeNutrientGaps(targets, intake)
	assert.Empty(t, adjustments)
}

func TestAnalyzeNutrientGapsUnitsAndAmounts(t *testing.T) {
	targets := testMacroTargets()
	intake := types.NutrientIntake{
		"calories":  800,
		"protein_g": 100,
		"carbs_g":   250,
		"fat_g":     65,
		"fiber_g":   30,
	}

	adjustments := AnalyzeNutrientGaps(targets, intake)
	require.Len(t, adjustments, 1)

	adj := adjustments[0]
	assert.Equal(t, "calories", adj.NutrientName)
	assert.Equal(t, "kcal", adj.Unit)
	assert.InDelta(t, 1200, adj.AdjustmentAmount, 0.001)
	assert.InDelta(t, 800, adj.CurrentIntake, 0.001)
	assert.InDelta(t, 2000, adj.RecommendedIntake, 0.001)
	assert.NotEmpty(t, adj.FoodSources)
}

func TestAnalyzeNutrientGapsDeterministicOrder(t *testing.T) {
	targets := testMacroTargets()
	intake := types.NutrientIntake{} // everything critically low

	first := AnalyzeNutrientGaps(targets, intake)
	second := AnalyzeNutrientGaps(targets, intake)
	require.Equal(t, first, second)

	var names []string
	for _, adj := range first {
		names = append(names, adj.NutrientName)
	}
	assert.Equal(t, []string{"calories", "protein_g", "carbs_g", "fat_g", "fiber_g"}, names)
}

func TestGenerateNutrientGapRecommendation(t *testing.T) {
	engine := &RecommendationEngine{}
	profile := &models.UserProfile{
		UserID:      uuid.New(),
		PrimaryGoal: models.GoalWeightLoss,
	}
	targets := testMacroTargets()

	t.Run("no gaps yields no recommendation", func(t *testing.T) {
		intake := types.NutrientIntake{
			"calories":  2000,
			"protein_g": 100,
			"carbs_g":   250,
			"fat_g":     65,
			"fiber_g":   30,
		}
		assert.Nil(t, engine.generateNutrientGapRecommendation(profile, targets, intake))
	})

	t.Run("critical gap escalates priority and impact", func(t *testing.T) {
		intake := types.NutrientIntake{
			"calories":  2000,
			"protein_g": 20, // critical
			"carbs_g":   250,
			"fat_g":     65,
			"fiber_g":   30,
		}

		rec := engine.generateNutrientGapRecommendation(profile, targets, intake)
		require.NotNil(t, rec)
		assert.Equal(t, models.TypeNutrientAdjustment, rec.RecommendationType)
		assert.Equal(t, "Nutrition Balance Optimization", rec.Title)
		assert.Equal(t, models.PriorityCritical, rec.Priority)
		assert.Equal(t, "high", rec.ExpectedImpact)
		assert.InDelta(t, 0.85, rec.ModelConfidence, 0.001)
		assert.Equal(t, []string{models.GoalWeightLoss}, []string(rec.UserGoals))
	})

	t.Run("moderate gap stays medium priority", func(t *testing.T) {
		intake := types.NutrientIntake{
			"calories":  2000,
			"protein_g": 70, // high deficit, not critical
			"carbs_g":   250,
			"fat_g":     65,
			"fiber_g":   30,
		}

		rec := engine.generateNutrientGapRecommendation(profile, targets, intake)
		require.NotNil(t, rec)
		assert.Equal(t, models.PriorityMedium, rec.Priority)
		assert.Equal(t, "medium", rec.ExpectedImpact)
	})
}
