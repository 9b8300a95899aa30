package service

import (
	"fmt"
	"strings"
)

// allergenGroup pairs a group name with its recognition keywords. A slice
// keeps screening order stable across runs.
type allergenGroup struct {
	name     string
	keywords []string
}

var commonAllergens = []allergenGroup{
	{"milk", []string{"milk", "dairy", "cheese", "butter", "cream"}},
	{"eggs", []string{"egg", "eggs"}},
	{"fish", []string{"fish", "salmon", "tuna", "cod"}},
	{"shellfish", []string{"shrimp", "crab", "lobster", "shellfish"}},
	{"tree nuts", []string{"almond", "walnut", "pecan", "cashew", "pistachio"}},
	{"peanuts", []string{"peanut", "peanuts"}},
	{"wheat", []string{"wheat", "flour", "bread", "pasta"}},
	{"soy", []string{"soy", "tofu", "soybean", "edamame"}},
}

// ScreenAllergens checks a suggestion's name and ingredient text against the
// user's allergy list and returns "May contain {group}" warnings.
//
// This is a best-effort keyword match, not a safety guarantee: it can miss
// allergens hidden behind uncommon ingredient names, and callers must not
// treat an empty result as confirmation a food is safe.
func ScreenAllergens(suggestion MealSuggestion, userAllergies []string) []string {
	var warnings []string

	var sb strings.Builder
	sb.WriteString(strings.ToLower(suggestion.Name))
	for _, ingredient := range suggestion.Ingredients {
		sb.WriteString(" ")
		sb.WriteString(strings.ToLower(ingredient.Name))
	}
	text := sb.String()

	for _, allergy := range userAllergies {
		allergyLower := strings.ToLower(allergy)
		for _, group := range commonAllergens {
			if !allergyNamesGroup(allergyLower, group) {
				continue
			}
			for _, keyword := range group.keywords {
				if strings.Contains(text, keyword) {
					warnings = append(warnings, fmt.Sprintf("May contain %s", group.name))
					break
				}
			}
		}
	}

	return warnings
}

// allergyNamesGroup reports whether the user's allergy string refers to the
// group: either the allergy names (part of) the group, or one of the group's
// keywords appears in the allergy text.
func allergyNamesGroup(allergyLower string, group allergenGroup) bool {
	if strings.Contains(group.name, allergyLower) {
		return true
	}
	for _, keyword := range group.keywords {
		if strings.Contains(allergyLower, keyword) {
			return true
		}
	}
	return false
}
