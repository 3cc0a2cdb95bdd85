package planner

import (
	"encoding/json"
	"testing"
)

func TestMealUnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		data string
		want []string
	}{
		{
			"ingredients key",
			`{"name": "Tacos", "ingredients": ["Beef", "Tortillas"]}`,
			[]string{"Beef", "Tortillas"},
		},
		{
			"mainIngredients key",
			`{"name": "Tacos", "mainIngredients": ["Beef", "Tortillas"]}`,
			[]string{"Beef", "Tortillas"},
		},
		{
			"main_ingredients key",
			`{"name": "Tacos", "main_ingredients": ["Beef", "Tortillas"]}`,
			[]string{"Beef", "Tortillas"},
		},
		{
			"no recognized key",
			`{"name": "Tacos"}`,
			nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var meal Meal
			if err := json.Unmarshal([]byte(tc.data), &meal); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if meal.Name != "Tacos" {
				t.Errorf("expected name Tacos, got %q", meal.Name)
			}
			if len(meal.Ingredients) != len(tc.want) {
				t.Fatalf("expected %d ingredients, got %v", len(tc.want), meal.Ingredients)
			}
			for i := range tc.want {
				if meal.Ingredients[i] != tc.want[i] {
					t.Errorf("ingredient %d: got %q, want %q", i, meal.Ingredients[i], tc.want[i])
				}
			}
		})
	}

	t.Run("ingredients wins over aliases", func(t *testing.T) {
		data := `{"name": "Tacos", "ingredients": ["Beef"], "mainIngredients": ["Chicken"]}`
		var meal Meal
		if err := json.Unmarshal([]byte(data), &meal); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if len(meal.Ingredients) != 1 || meal.Ingredients[0] != "Beef" {
			t.Errorf("expected canonical key to win, got %v", meal.Ingredients)
		}
	})
}
