package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"grocery-planner/internal/llm"
	"grocery-planner/internal/shared"
)

// Planner generates weekly meal plans through an LLM. The grocery engine
// only sees the resulting []Meal; it never talks to the LLM itself.
type Planner struct {
	textGen llm.TextGenerator
}

// NewPlanner creates a new Planner instance.
func NewPlanner(textGen llm.TextGenerator) *Planner {
	return &Planner{textGen: textGen}
}

const planPromptTemplate = `
You are an expert meal planner for a household. Based on the user's request,
create a 7-day dinner plan (Monday to Sunday).

User Request: "%s"

Instructions:
1. Pick one meal per day that fits the request.
2. List the grocery ingredients needed for each meal as short free-text strings.
3. Return the result strictly as a JSON object with this structure:
{
  "meals": [
    {"day": "Monday", "name": "Meal Name", "ingredients": ["item 1", "item 2"]},
    ...
  ],
  "total_prep_estimate": "Summary of prep time for the week"
}

Return ONLY the raw JSON string. Do not wrap the response in markdown code blocks.
`

// GeneratePlan creates a meal plan based on a user request.
func (p *Planner) GeneratePlan(ctx context.Context, request string) (*MealPlan, shared.AgentMeta, error) {
	start := time.Now()

	resp, err := p.textGen.GenerateContent(ctx, fmt.Sprintf(planPromptTemplate, request))
	meta := shared.AgentMeta{
		AgentName: "Planner",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	if err != nil {
		return nil, meta, fmt.Errorf("failed to generate meal plan from LLM: %w", err)
	}

	var plan MealPlan
	if err := json.Unmarshal([]byte(resp.Content), &plan); err != nil {
		return nil, meta, fmt.Errorf("failed to parse meal plan JSON: %w. Response: %s", err, resp.Content)
	}
	if len(plan.Meals) == 0 {
		return nil, meta, fmt.Errorf("meal plan contains no meals. Response: %s", resp.Content)
	}

	plan.OriginalRequest = request
	for i := range plan.Meals {
		if plan.Meals[i].ID == "" {
			id, err := gonanoid.New()
			if err != nil {
				return nil, meta, fmt.Errorf("failed to generate meal id: %w", err)
			}
			plan.Meals[i].ID = "meal-" + id
		}
	}

	return &plan, meta, nil
}
