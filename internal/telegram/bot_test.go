package telegram

import (
	"strings"
	"testing"

	"grocery-planner/internal/grocery"
	"grocery-planner/internal/planner"
)

func TestFormatSectionsMarkdown(t *testing.T) {
	t.Run("renders sections with markers", func(t *testing.T) {
		list := &grocery.GroceryList{
			ID: "tg-1",
			Sections: []grocery.GroceryDepartment{
				{Name: "Dairy & Eggs", Items: []grocery.GroceryItem{
					{ID: "itm-1", Name: "Milk", Quantity: "1 gallon"},
					{ID: "itm-2", Name: "Eggs", IsChecked: true},
				}},
				{Name: "Produce", Items: []grocery.GroceryItem{
					{ID: "itm-3", Name: "Onion"},
				}},
			},
		}

		got := formatSectionsMarkdown(list)
		for _, want := range []string{"*Dairy & Eggs*", "*Produce*", "⬜ Milk (1 gallon)", "✅ Eggs", "⬜ Onion"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected %q in output:\n%s", want, got)
			}
		}
		if strings.Index(got, "Dairy & Eggs") > strings.Index(got, "Produce") {
			t.Error("expected section order preserved")
		}
	})

	t.Run("empty list", func(t *testing.T) {
		got := formatSectionsMarkdown(&grocery.GroceryList{ID: "tg-1"})
		if !strings.Contains(got, "Empty") {
			t.Errorf("expected empty-list hint, got:\n%s", got)
		}
	})
}

func TestFormatPlanMarkdown(t *testing.T) {
	plan := &planner.MealPlan{
		Meals: []planner.Meal{
			{Day: "Monday", Name: "Tacos"},
			{Name: "Leftovers"},
		},
		TotalPrep: "About 2 hours",
	}

	got := formatPlanMarkdown(plan)
	for _, want := range []string{"*Monday*: Tacos", "• Leftovers", "About 2 hours"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestListKeyboard(t *testing.T) {
	list := &grocery.GroceryList{
		ID: "tg-1",
		Sections: []grocery.GroceryDepartment{
			{Name: "Dairy & Eggs", Items: []grocery.GroceryItem{
				{ID: "itm-1", Name: "Milk"},
				{ID: "itm-2", Name: "Eggs", IsChecked: true},
			}},
		},
	}

	kb := listKeyboard(list)
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("expected one row per item, got %d", len(kb.InlineKeyboard))
	}

	row := kb.InlineKeyboard[0]
	if len(row) != 2 {
		t.Fatalf("expected toggle and delete buttons, got %d", len(row))
	}
	if *row[0].CallbackData != "chk|itm-1" {
		t.Errorf("unexpected toggle callback: %q", *row[0].CallbackData)
	}
	if *row[1].CallbackData != "del|itm-1" {
		t.Errorf("unexpected delete callback: %q", *row[1].CallbackData)
	}

	checkedLabel := kb.InlineKeyboard[1][0].Text
	if !strings.HasPrefix(checkedLabel, "✅") {
		t.Errorf("expected checked item label marked, got %q", checkedLabel)
	}
}

func TestPlanIDFor(t *testing.T) {
	if got := planIDFor(12345); got != "tg-12345" {
		t.Errorf("unexpected plan id: %q", got)
	}
	if planIDFor(1) == planIDFor(2) {
		t.Error("expected distinct plan ids per user")
	}
}
