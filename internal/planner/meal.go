package planner

import (
	"encoding/json"
	"time"
)

// Meal is a single generated meal: a name plus the free-text ingredient list
// the grocery engine consumes.
type Meal struct {
	ID          string   `json:"id,omitempty"`
	Day         string   `json:"day,omitempty"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
}

// UnmarshalJSON accepts the upstream generator's two naming conventions for
// the ingredient list ("ingredients", "mainIngredients"/"main_ingredients").
// A meal with none of them decodes to zero ingredients rather than an error.
func (m *Meal) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID                   string   `json:"id"`
		Day                  string   `json:"day"`
		Name                 string   `json:"name"`
		Ingredients          []string `json:"ingredients"`
		MainIngredients      []string `json:"mainIngredients"`
		MainIngredientsSnake []string `json:"main_ingredients"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.ID = raw.ID
	m.Day = raw.Day
	m.Name = raw.Name
	switch {
	case raw.Ingredients != nil:
		m.Ingredients = raw.Ingredients
	case raw.MainIngredients != nil:
		m.Ingredients = raw.MainIngredients
	default:
		m.Ingredients = raw.MainIngredientsSnake
	}
	return nil
}

// MealPlan is a generated weekly plan.
type MealPlan struct {
	ID              int64     `json:"id,omitempty"`
	WeekStart       time.Time `json:"week_start,omitempty"`
	Meals           []Meal    `json:"meals"`
	TotalPrep       string    `json:"total_prep_estimate,omitempty"`
	OriginalRequest string    `json:"original_request,omitempty"`
}
