package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"grocery-planner/internal/llm"
	"grocery-planner/internal/shared"
)

type mockTextGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (m *mockTextGenerator) GenerateContent(_ context.Context, prompt string) (llm.ContentResponse, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{
		Content: m.response,
		Usage:   shared.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150, Model: "test-model"},
	}, nil
}

func TestGeneratePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("parses plan and assigns meal ids", func(t *testing.T) {
		mock := &mockTextGenerator{response: `{
			"meals": [
				{"day": "Monday", "name": "Tacos", "ingredients": ["Beef", "Tortillas"]},
				{"day": "Tuesday", "name": "Chili", "main_ingredients": ["Beef", "Beans"]}
			],
			"total_prep_estimate": "About 2 hours"
		}`}

		plan, meta, err := NewPlanner(mock).GeneratePlan(ctx, "cheap dinners")
		if err != nil {
			t.Fatalf("GeneratePlan failed: %v", err)
		}
		if len(plan.Meals) != 2 {
			t.Fatalf("expected 2 meals, got %d", len(plan.Meals))
		}
		for _, meal := range plan.Meals {
			if !strings.HasPrefix(meal.ID, "meal-") {
				t.Errorf("meal %q: expected generated id, got %q", meal.Name, meal.ID)
			}
			if len(meal.Ingredients) == 0 {
				t.Errorf("meal %q: expected ingredients", meal.Name)
			}
		}
		if plan.TotalPrep != "About 2 hours" {
			t.Errorf("unexpected total prep: %q", plan.TotalPrep)
		}
		if plan.OriginalRequest != "cheap dinners" {
			t.Errorf("expected original request retained, got %q", plan.OriginalRequest)
		}
		if meta.AgentName != "Planner" || meta.Usage.TotalTokens != 150 {
			t.Errorf("unexpected meta: %+v", meta)
		}
		if !strings.Contains(mock.lastPrompt, "cheap dinners") {
			t.Error("expected user request embedded in prompt")
		}
	})

	t.Run("propagates generator failure", func(t *testing.T) {
		mock := &mockTextGenerator{err: errors.New("rate limited")}
		if _, _, err := NewPlanner(mock).GeneratePlan(ctx, "anything"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		mock := &mockTextGenerator{response: "not json"}
		if _, _, err := NewPlanner(mock).GeneratePlan(ctx, "anything"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("rejects plan without meals", func(t *testing.T) {
		mock := &mockTextGenerator{response: `{"meals": []}`}
		if _, _, err := NewPlanner(mock).GeneratePlan(ctx, "anything"); err == nil {
			t.Fatal("expected error")
		}
	})
}
