package planner

import (
	"context"
	"path/filepath"
	"testing"

	"grocery-planner/internal/database"
)

func newTestPlanRepository(t *testing.T) *PlanRepository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPlanRepository(db.SQL)
}

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save and get latest", func(t *testing.T) {
		repo := newTestPlanRepository(t)
		plan := &MealPlan{
			Meals:           []Meal{{Day: "Monday", Name: "Tacos", Ingredients: []string{"Beef"}}},
			TotalPrep:       "1 hour",
			OriginalRequest: "cheap dinners",
		}

		id, err := repo.Save(ctx, "user-1", plan)
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if id == 0 {
			t.Error("expected non-zero plan id")
		}

		got, err := repo.GetLatest(ctx, "user-1")
		if err != nil {
			t.Fatalf("GetLatest failed: %v", err)
		}
		if got == nil {
			t.Fatal("expected a plan")
		}
		if len(got.Meals) != 1 || got.Meals[0].Name != "Tacos" {
			t.Errorf("unexpected meals: %+v", got.Meals)
		}
		if got.OriginalRequest != "cheap dinners" {
			t.Errorf("unexpected request: %q", got.OriginalRequest)
		}
	})

	t.Run("latest wins", func(t *testing.T) {
		repo := newTestPlanRepository(t)
		repo.Save(ctx, "user-1", &MealPlan{Meals: []Meal{{Name: "Old"}}})
		repo.Save(ctx, "user-1", &MealPlan{Meals: []Meal{{Name: "New"}}})

		got, err := repo.GetLatest(ctx, "user-1")
		if err != nil {
			t.Fatalf("GetLatest failed: %v", err)
		}
		if got.Meals[0].Name != "New" {
			t.Errorf("expected newest plan, got %q", got.Meals[0].Name)
		}
	})

	t.Run("no plan yields nil", func(t *testing.T) {
		repo := newTestPlanRepository(t)
		got, err := repo.GetLatest(ctx, "user-unknown")
		if err != nil {
			t.Fatalf("GetLatest failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("list recent is per user and bounded", func(t *testing.T) {
		repo := newTestPlanRepository(t)
		for i := 0; i < 3; i++ {
			repo.Save(ctx, "user-1", &MealPlan{Meals: []Meal{{Name: "A"}}})
		}
		repo.Save(ctx, "user-2", &MealPlan{Meals: []Meal{{Name: "B"}}})

		plans, err := repo.ListRecentByUserID(ctx, "user-1", 2)
		if err != nil {
			t.Fatalf("ListRecentByUserID failed: %v", err)
		}
		if len(plans) != 2 {
			t.Fatalf("expected 2 plans, got %d", len(plans))
		}
		for _, p := range plans {
			if p.UserID != "user-1" {
				t.Errorf("expected user-1 plans only, got %q", p.UserID)
			}
		}
	})
}
