package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"grocery-planner/internal/config"
	"grocery-planner/internal/grocery"
	"grocery-planner/internal/importer"
	"grocery-planner/internal/metrics"
	"grocery-planner/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API, the meal planner, and the grocery engine.
type Bot struct {
	api          *tgbotapi.BotAPI
	engine       *grocery.Engine
	mealPlanner  *planner.Planner
	recipeImport *importer.Importer
	planRepo     *planner.PlanRepository
	metricsStore *metrics.Store
	cfg          *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	engine *grocery.Engine,
	mealPlanner *planner.Planner,
	recipeImport *importer.Importer,
	planRepo *planner.PlanRepository,
	metricsStore *metrics.Store,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, _ := tgbotapi.NewWebhook(webhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		engine:       engine,
		mealPlanner:  mealPlanner,
		recipeImport: recipeImport,
		planRepo:     planRepo,
		metricsStore: metricsStore,
		cfg:          cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// planIDFor maps a Telegram user to the key of their active meal plan's list.
// The list is 1:1 with the active plan, one active plan per user.
func planIDFor(userID int64) string {
	return fmt.Sprintf("tg-%d", userID)
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	planID := planIDFor(msg.From.ID)
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/metrics":
		b.handleMetricsRequest(msg)
	case text == "/list":
		b.sendList(ctx, msg.Chat.ID, planID)
	case text == "/export":
		b.handleExport(ctx, msg.Chat.ID, planID)
	case text == "/clear":
		b.handleClear(ctx, msg.Chat.ID, planID)
	case text == "/reorganize":
		b.handleReorganize(ctx, msg.Chat.ID, planID)
	case strings.HasPrefix(text, "/add "):
		b.handleAdd(ctx, msg.Chat.ID, planID, strings.TrimPrefix(text, "/add "))
	case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
		b.handleImportRequest(ctx, msg, planID)
	default:
		b.handlePlannerRequest(ctx, msg, planID)
	}
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, planID, args string) {
	// "/add Milk; 1 gallon" -> name "Milk", quantity "1 gallon"
	name, quantity := args, ""
	if idx := strings.Index(args, ";"); idx >= 0 {
		name = args[:idx]
		quantity = strings.TrimSpace(args[idx+1:])
	}

	item, err := b.engine.AddItem(ctx, planID, name, quantity, "")
	if err != nil {
		b.sendError(chatID, "adding item", err)
		return
	}

	b.send(chatID, fmt.Sprintf("➕ Added *%s* to *%s*", item.Name, item.Department))
	b.sendList(ctx, chatID, planID)
}

func (b *Bot) handleExport(ctx context.Context, chatID int64, planID string) {
	text, err := b.engine.Export(ctx, planID, grocery.ExportOptions{DepartmentHeaders: b.cfg.ExportHeaders})
	if err != nil {
		b.sendError(chatID, "exporting list", err)
		return
	}
	if text == "" {
		b.send(chatID, "🛒 Nothing left to buy!")
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	b.api.Send(msg)
}

func (b *Bot) handleClear(ctx context.Context, chatID int64, planID string) {
	if err := b.engine.ClearAll(ctx, planID); err != nil {
		b.sendError(chatID, "clearing list", err)
		return
	}
	b.send(chatID, "🗑 Grocery list cleared.")
}

func (b *Bot) handleReorganize(ctx context.Context, chatID int64, planID string) {
	list, err := b.engine.Reorganize(ctx, planID)
	if err != nil {
		b.sendError(chatID, "reorganizing list", err)
		return
	}
	b.sendListMessage(chatID, list)
}

func (b *Bot) handleImportRequest(ctx context.Context, msg *tgbotapi.Message, planID string) {
	sentMsg, err := b.sendAndReturn(msg.Chat.ID, "✂️ *Importing recipe...*")
	if err != nil {
		return
	}

	meal, meta, err := b.recipeImport.ImportURL(ctx, msg.Text)
	if recErr := b.metricsStore.RecordMeta(meta); recErr != nil {
		log.Printf("Warning: failed to record import metrics: %v", recErr)
	}
	if err != nil {
		log.Printf("Error importing recipe: %v", err)
		b.editError(msg.Chat.ID, sentMsg.MessageID, "importing recipe", err)
		return
	}

	added := 0
	for _, ingredient := range meal.Ingredients {
		if _, err := b.engine.AddItem(ctx, planID, ingredient, "", ""); err != nil {
			log.Printf("Skipping ingredient %q: %v", ingredient, err)
			continue
		}
		added++
	}

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID,
		fmt.Sprintf("✅ *%s* imported: %d ingredients added to your list.", meal.Name, added))
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
	b.sendList(ctx, msg.Chat.ID, planID)
}

func (b *Bot) handlePlannerRequest(ctx context.Context, msg *tgbotapi.Message, planID string) {
	sentMsg, err := b.sendAndReturn(msg.Chat.ID, "🧑‍🍳 *Thinking...* \n(Generating your plan and grocery list)")
	if err != nil {
		return
	}

	log.Printf("Generating plan for request: %s", msg.Text)
	userID := fmt.Sprintf("%d", msg.From.ID)

	plan, meta, err := b.mealPlanner.GeneratePlan(ctx, msg.Text)
	if recErr := b.metricsStore.RecordMeta(meta); recErr != nil {
		log.Printf("Warning: failed to record planner metrics: %v", recErr)
	}
	if meta.Usage.PromptTokens > 4000 {
		b.sendAdminAlert(fmt.Sprintf("⚠️ *Context Bloat Alert*\nAgent: Planner\nModel: %s\nPrompt Tokens: %d",
			meta.Usage.Model, meta.Usage.PromptTokens))
	}
	if err != nil {
		log.Printf("Error generating plan: %v", err)
		b.editError(msg.Chat.ID, sentMsg.MessageID, "generating plan", err)
		return
	}

	if _, err := b.planRepo.Save(ctx, userID, plan); err != nil {
		log.Printf("Warning: failed to save meal plan for user %s: %v", userID, err)
	}

	list, err := b.engine.Regenerate(ctx, planID, plan.Meals)
	if err != nil {
		b.editError(msg.Chat.ID, sentMsg.MessageID, "building grocery list", err)
		return
	}

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, formatPlanMarkdown(plan))
	edit.ParseMode = "Markdown"
	b.api.Send(edit)

	b.sendListMessage(msg.Chat.ID, list)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx := context.Background()
	planID := planIDFor(query.From.ID)

	parts := strings.Split(query.Data, "|") // "chk|<id>" or "del|<id>"
	if len(parts) != 2 {
		return
	}
	action, itemID := parts[0], parts[1]

	// Answer callback to remove spinner
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	var err error
	switch action {
	case "chk":
		err = b.toggleItem(ctx, planID, itemID)
	case "del":
		err = b.engine.RemoveItem(ctx, planID, itemID)
	default:
		return
	}
	if err != nil {
		b.sendError(query.Message.Chat.ID, "updating item", err)
		return
	}

	list, err := b.engine.List(ctx, planID)
	if err != nil {
		b.sendError(query.Message.Chat.ID, "reading list", err)
		return
	}

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, formatSectionsMarkdown(list))
	edit.ParseMode = "Markdown"
	keyboard := listKeyboard(list)
	edit.ReplyMarkup = &keyboard
	b.api.Send(edit)
}

func (b *Bot) toggleItem(ctx context.Context, planID, itemID string) error {
	list, err := b.engine.List(ctx, planID)
	if err != nil {
		return err
	}
	item, _, err := list.FindItem(itemID)
	if err != nil {
		return nil // already gone, nothing to toggle
	}
	if item.IsChecked {
		return b.engine.Uncheck(ctx, planID, itemID)
	}
	return b.engine.Check(ctx, planID, itemID)
}

func (b *Bot) sendList(ctx context.Context, chatID int64, planID string) {
	list, err := b.engine.List(ctx, planID)
	if err != nil {
		b.sendError(chatID, "reading list", err)
		return
	}
	b.sendListMessage(chatID, list)
}

func (b *Bot) sendListMessage(chatID int64, list *grocery.GroceryList) {
	msg := tgbotapi.NewMessage(chatID, formatSectionsMarkdown(list))
	msg.ParseMode = "Markdown"
	if list.ItemCount() > 0 {
		msg.ReplyMarkup = listKeyboard(list)
	}
	b.api.Send(msg)
}

// formatPlanMarkdown renders the weekly plan for Telegram.
func formatPlanMarkdown(plan *planner.MealPlan) string {
	var sb strings.Builder
	sb.WriteString("📅 *Weekly Meal Plan*\n\n")
	for _, meal := range plan.Meals {
		if meal.Day != "" {
			sb.WriteString(fmt.Sprintf("*%s*: %s\n", meal.Day, meal.Name))
		} else {
			sb.WriteString(fmt.Sprintf("• %s\n", meal.Name))
		}
	}
	if plan.TotalPrep != "" {
		sb.WriteString(fmt.Sprintf("\n⏱ *Total Prep:* %s\n", plan.TotalPrep))
	}
	return sb.String()
}

// formatSectionsMarkdown renders the sectioned grocery list for Telegram.
func formatSectionsMarkdown(list *grocery.GroceryList) string {
	if list.ItemCount() == 0 {
		return "🛒 *Grocery List*\n\n_Empty. Send a meal request or /add an item._"
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Grocery List*\n")
	for _, sec := range list.Sections {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", sec.Name))
		for _, item := range sec.Items {
			marker := "⬜"
			if item.IsChecked {
				marker = "✅"
			}
			sb.WriteString(fmt.Sprintf("%s %s", marker, item.Name))
			if item.Quantity != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", item.Quantity))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// listKeyboard builds one row per item: a toggle button and a delete button.
// Callback data stays well under Telegram's 64-byte limit with nanoid ids.
func listKeyboard(list *grocery.GroceryList) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, sec := range list.Sections {
		for _, item := range sec.Items {
			label := item.Name
			if item.IsChecked {
				label = "✅ " + label
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, "chk|"+item.ID),
				tgbotapi.NewInlineKeyboardButtonData("✖", "del|"+item.ID),
			))
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.send(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}
	b.handleMetricsCommand(msg.Chat.ID)
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.send(chatID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth("data")

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))

	b.send(chatID, sb.String())
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

func (b *Bot) sendAndReturn(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
	}
	return sent, err
}

func (b *Bot) sendError(chatID int64, action string, err error) {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	b.send(chatID, fmt.Sprintf("❌ *Error %s:*\n```\n%v\n```", action, safeErr))
}

func (b *Bot) editError(chatID int64, messageID int, action string, err error) {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	edit := tgbotapi.NewEditMessageText(chatID, messageID, fmt.Sprintf("❌ *Error %s:*\n```\n%v\n```", action, safeErr))
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) sendAdminAlert(text string) {
	if b.cfg.AdminTelegramID == 0 {
		return
	}
	b.send(b.cfg.AdminTelegramID, text)
}

// StartCleanupLoop periodically removes old metric records.
func (b *Bot) StartCleanupLoop(ctx context.Context, keepDays int) {
	ticker := time.NewTicker(24 * time.Hour)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := b.metricsStore.Cleanup(keepDays); err != nil {
					log.Printf("Warning: metrics cleanup failed: %v", err)
				} else if n > 0 {
					log.Printf("Removed %d old metric records", n)
				}
			}
		}
	}()
}
