package itinerary

import "strings"

// Meal keywords, in detection priority order.
const (
	MealBreakfast = "breakfast"
	MealBrunch    = "brunch"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
)

// MealKeywords is the fixed keyword list DetectMeals scans for.
var MealKeywords = []string{MealBreakfast, MealBrunch, MealLunch, MealDinner}

// DetectMeals returns the meal keywords found in category + " " + description.
//
// Matching is case-insensitive substring containment, so "Lunchbox" counts as
// lunch. Results follow MealKeywords order, not text position.
func DetectMeals(category, description string) []string {
	text := strings.ToLower(category + " " + description)

	var found []string
	for _, kw := range MealKeywords {
		if strings.Contains(text, kw) {
			found = append(found, kw)
		}
	}
	return found
}
