package grocery

import (
	"testing"

	"grocery-planner/internal/planner"
)

func TestExtractItems(t *testing.T) {
	t.Run("carries meal identity", func(t *testing.T) {
		meal := planner.Meal{
			ID:          "meal-abc",
			Name:        "Tacos",
			Ingredients: []string{"Ground Beef", "Tortillas"},
		}

		got := ExtractItems(meal)
		if len(got) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(got))
		}
		for _, item := range got {
			if item.RelatedMealID != "meal-abc" || item.RelatedMealName != "Tacos" {
				t.Errorf("candidate %q lost meal identity: %+v", item.Name, item)
			}
			if item.ID != "" {
				t.Errorf("candidate %q should not carry an id yet", item.Name)
			}
			if item.Department != "" {
				t.Errorf("candidate %q should not be classified yet", item.Name)
			}
		}
	})

	t.Run("discards blank ingredients", func(t *testing.T) {
		meal := planner.Meal{
			Name:        "Soup",
			Ingredients: []string{"  Carrots  ", "", "   ", "Celery"},
		}

		got := ExtractItems(meal)
		if len(got) != 2 {
			t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
		}
		if got[0].Name != "Carrots" || got[1].Name != "Celery" {
			t.Errorf("expected trimmed names, got %q and %q", got[0].Name, got[1].Name)
		}
	})

	t.Run("meal without ingredients yields nothing", func(t *testing.T) {
		if got := ExtractItems(planner.Meal{Name: "Mystery"}); len(got) != 0 {
			t.Errorf("expected no candidates, got %+v", got)
		}
	})
}
