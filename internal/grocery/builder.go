package grocery

import (
	"fmt"
	"log"
	"strings"

	"grocery-planner/internal/planner"
)

// Build aggregates the meals' ingredients into a sectioned grocery list.
//
// Pipeline: extract candidates from every meal, classify each into a
// department, deduplicate on lower-cased name keeping the first occurrence,
// partition into departments, prune empty departments, and assign a fresh
// opaque id to every surviving item. Departments come out alphabetical;
// items keep extraction order within their department.
//
// Build is a full replace: calling it twice on the same meals yields the same
// {name, department, quantity} content with different ids.
func Build(planID string, meals []planner.Meal) (*GroceryList, error) {
	var candidates []GroceryItem
	for _, meal := range meals {
		extracted := ExtractItems(meal)
		if len(extracted) == 0 {
			log.Printf("Meal '%s' contributed 0 items to the grocery list", meal.Name)
			continue
		}
		candidates = append(candidates, extracted...)
	}

	list := &GroceryList{ID: planID}
	seen := make(map[string]struct{})
	for _, candidate := range candidates {
		key := strings.ToLower(candidate.Name)
		if _, dup := seen[key]; dup {
			// Multiple meals sharing an ingredient appear once on the list.
			continue
		}
		seen[key] = struct{}{}

		id, err := generateID("itm")
		if err != nil {
			return nil, fmt.Errorf("failed to assign item id: %w", err)
		}
		candidate.ID = id
		candidate.Department = Classify(candidate.Name)

		sec := list.ensureSection(candidate.Department)
		sec.Items = append(sec.Items, candidate)
	}

	return list, nil
}
