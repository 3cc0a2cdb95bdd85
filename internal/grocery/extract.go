package grocery

import (
	"strings"

	"grocery-planner/internal/planner"
)

// ExtractItems turns one meal's raw ingredient strings into grocery item
// candidates. Candidates carry the meal's identity for traceability but no
// id and no department; classification and id assignment happen in Build.
//
// Empty and whitespace-only ingredient strings are discarded. A meal whose
// generator emitted no recognized ingredient field decodes to zero
// ingredients (see planner.Meal), so it simply contributes zero candidates.
// One malformed meal can never abort list generation for the rest.
func ExtractItems(meal planner.Meal) []GroceryItem {
	var candidates []GroceryItem
	for _, raw := range meal.Ingredients {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		candidates = append(candidates, GroceryItem{
			Name:            name,
			RelatedMealID:   meal.ID,
			RelatedMealName: meal.Name,
		})
	}
	return candidates
}
