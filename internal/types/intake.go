package types

// NutrientIntake maps nutrient names (calories, protein_g, sodium_mg, ...) to
// the amounts consumed for a given day. Unset nutrients read as 0.
type NutrientIntake map[string]float64

// Get returns the consumed amount for a nutrient, defaulting to 0.
func (n NutrientIntake) Get(name string) float64 {
	if n == nil {
		return 0
	}
	return n[name]
}
