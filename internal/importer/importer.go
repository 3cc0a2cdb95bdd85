package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"grocery-planner/internal/llm"
	"grocery-planner/internal/planner"
	"grocery-planner/internal/shared"

	"github.com/PuerkitoBio/goquery"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Importer fetches a recipe URL and extracts a single meal from it.
type Importer struct {
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// NewImporter creates a new Importer instance.
func NewImporter(textGen llm.TextGenerator) *Importer {
	return &Importer{
		textGen: textGen,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ImportURL fetches the URL, strips page noise, and extracts the meal name
// and ingredient list via the LLM.
func (imp *Importer) ImportURL(ctx context.Context, url string) (*planner.Meal, shared.AgentMeta, error) {
	content, err := imp.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return nil, shared.AgentMeta{}, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the meal name and grocery
ingredients from the following page content.
Return the result strictly as a JSON object with this structure:
{
  "name": "Meal Name",
  "ingredients": ["item 1", "item 2", ...]
}

Return ONLY the raw JSON string. Do not wrap the response in markdown code blocks.

Page Content:
%s
`, content)

	start := time.Now()
	resp, err := imp.textGen.GenerateContent(ctx, prompt)
	meta := shared.AgentMeta{
		AgentName: "Importer",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	if err != nil {
		return nil, meta, fmt.Errorf("ai extraction failed: %w", err)
	}

	var meal planner.Meal
	if err := json.Unmarshal([]byte(resp.Content), &meal); err != nil {
		return nil, meta, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp.Content)
	}
	if meal.Name == "" {
		return nil, meta, fmt.Errorf("no meal name extracted. Response: %s", resp.Content)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, meta, fmt.Errorf("failed to generate meal id: %w", err)
	}
	meal.ID = "meal-" + id

	return &meal, meta, nil
}

func (imp *Importer) fetchAndCleanHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}

	resp, err := imp.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
