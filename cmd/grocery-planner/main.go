package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"grocery-planner/internal/config"
	"grocery-planner/internal/database"
	"grocery-planner/internal/grocery"
	"grocery-planner/internal/llm"
	"grocery-planner/internal/metrics"
	"grocery-planner/internal/planner"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	store := grocery.NewRepository(db.SQL)
	engine := grocery.NewEngine(store, cfg.StoreTimeout)
	planRepo := planner.NewPlanRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	// Commands operate on one plan's list; the plan id is shared flag-style.
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	planID := fs.String("plan", "default", "Meal plan id whose grocery list to act on")

	switch command {
	case "plan":
		request := fs.String("request", "", "Free-text meal plan request")
		fs.Parse(args)
		if *request == "" {
			log.Fatal("plan requires -request \"...\"")
		}
		runPlan(ctx, cfg, engine, planRepo, metricsStore, *planID, *request)
	case "show":
		fs.Parse(args)
		list, err := engine.List(ctx, *planID)
		if err != nil {
			log.Fatalf("Failed to load list: %v", err)
		}
		printList(list)
	case "export":
		headers := fs.Bool("headers", cfg.ExportHeaders, "Include department headers")
		fs.Parse(args)
		text, err := engine.Export(ctx, *planID, grocery.ExportOptions{DepartmentHeaders: *headers})
		if err != nil {
			log.Fatalf("Failed to export list: %v", err)
		}
		fmt.Print(text)
	case "add":
		name := fs.String("name", "", "Item name")
		quantity := fs.String("qty", "", "Optional quantity, e.g. \"2 lbs\"")
		section := fs.String("section", "", "Optional department override")
		fs.Parse(args)
		item, err := engine.AddItem(ctx, *planID, *name, *quantity, *section)
		if err != nil {
			log.Fatalf("Failed to add item: %v", err)
		}
		fmt.Printf("Added %q to %s (%s)\n", item.Name, item.Department, item.ID)
	case "check", "uncheck":
		id := fs.String("id", "", "Item id")
		fs.Parse(args)
		if *id == "" {
			log.Fatalf("%s requires -id", command)
		}
		if command == "check" {
			err = engine.Check(ctx, *planID, *id)
		} else {
			err = engine.Uncheck(ctx, *planID, *id)
		}
		if err != nil {
			log.Fatalf("Failed to %s item: %v", command, err)
		}
	case "remove":
		id := fs.String("id", "", "Item id")
		fs.Parse(args)
		if *id == "" {
			log.Fatal("remove requires -id")
		}
		if err := engine.RemoveItem(ctx, *planID, *id); err != nil {
			log.Fatalf("Failed to remove item: %v", err)
		}
	case "clear":
		fs.Parse(args)
		if err := engine.ClearAll(ctx, *planID); err != nil {
			log.Fatalf("Failed to clear list: %v", err)
		}
		fmt.Println("Grocery list cleared.")
	case "reorganize":
		fs.Parse(args)
		list, err := engine.Reorganize(ctx, *planID)
		if err != nil {
			log.Fatalf("Failed to reorganize list: %v", err)
		}
		printList(list)
	case "metrics-cleanup":
		days := fs.Int("days", 30, "Keep records for the last N days")
		fs.Parse(args)
		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runPlan(
	ctx context.Context,
	cfg *config.Config,
	engine *grocery.Engine,
	planRepo *planner.PlanRepository,
	metricsStore *metrics.Store,
	planID, request string,
) {
	textGen, closer, err := newTextGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	mealPlanner := planner.NewPlanner(textGen)
	plan, meta, err := mealPlanner.GeneratePlan(ctx, request)
	if recErr := metricsStore.RecordMeta(meta); recErr != nil {
		log.Printf("Warning: failed to record planner metrics: %v", recErr)
	}
	if err != nil {
		log.Fatalf("Failed to generate meal plan: %v", err)
	}

	if _, err := planRepo.Save(ctx, planID, plan); err != nil {
		log.Printf("Warning: failed to save meal plan: %v", err)
	}

	list, err := engine.Regenerate(ctx, planID, plan.Meals)
	if err != nil {
		log.Fatalf("Failed to build grocery list: %v", err)
	}

	for _, meal := range plan.Meals {
		fmt.Printf("%-10s %s\n", meal.Day, meal.Name)
	}
	if plan.TotalPrep != "" {
		fmt.Printf("\nTotal prep: %s\n", plan.TotalPrep)
	}
	fmt.Println()
	printList(list)
}

// newTextGenerator prefers Groq when its key is configured, otherwise Gemini.
func newTextGenerator(ctx context.Context, cfg *config.Config) (llm.TextGenerator, llm.Closer, error) {
	if cfg.GroqAPIKey != "" {
		return llm.NewGroqClient(cfg, llm.ModelPlanner, 0.3), nil, nil
	}
	gemini, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return gemini, gemini, nil
}

func printList(list *grocery.GroceryList) {
	if list.ItemCount() == 0 {
		fmt.Println("Grocery list is empty.")
		return
	}
	for _, sec := range list.Sections {
		fmt.Printf("%s:\n", sec.Name)
		for _, item := range sec.Items {
			marker := "[ ]"
			if item.IsChecked {
				marker = "[x]"
			}
			if item.Quantity != "" {
				fmt.Printf("  %s %s (%s)  %s\n", marker, item.Name, item.Quantity, item.ID)
			} else {
				fmt.Printf("  %s %s  %s\n", marker, item.Name, item.ID)
			}
		}
		fmt.Println()
	}
}

func printUsage() {
	fmt.Println("Usage: grocery-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan             Generate a weekly meal plan and its grocery list")
	fmt.Println("  show             Print the current grocery list")
	fmt.Println("  export           Print the plain-text shopping list (unchecked items)")
	fmt.Println("  add              Add a manual item (-name, -qty, -section)")
	fmt.Println("  check            Mark an item as purchased (-id)")
	fmt.Println("  uncheck          Clear an item's purchased mark (-id)")
	fmt.Println("  remove           Delete an item (-id)")
	fmt.Println("  clear            Remove every item from the list")
	fmt.Println("  reorganize       Reclassify all unchecked items by name")
	fmt.Println("  metrics-cleanup  Remove old metric records (-days)")
}
