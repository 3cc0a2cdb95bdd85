package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	// Persistence
	DatabasePath string

	// LLM providers. At least one key must be set; plan generation prefers
	// Groq and falls back to Gemini.
	GeminiAPIKey string
	GroqAPIKey   string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64

	// Grocery engine knobs
	ExportHeaders bool
	StoreTimeout  time.Duration
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "data/grocery-planner.db"
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	groqAPIKey := os.Getenv("GROQ_API_KEY")
	if geminiAPIKey == "" && groqAPIKey == "" {
		return nil, fmt.Errorf("neither GROQ_API_KEY nor GEMINI_API_KEY environment variable is set")
	}

	// Telegram Config (Optional for CLI, required for Bot)
	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	telegramWebhookURL := os.Getenv("TELEGRAM_WEBHOOK_URL")

	var allowedIDs []int64
	for _, part := range strings.Split(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
		}
		allowedIDs = append(allowedIDs, id)
	}

	var adminTelegramID int64
	if v := os.Getenv("ADMIN_TELEGRAM_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID %q: %w", v, err)
		}
		adminTelegramID = id
	}

	exportHeaders := true
	if v := os.Getenv("EXPORT_HEADERS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid EXPORT_HEADERS %q: %w", v, err)
		}
		exportHeaders = b
	}

	storeTimeout := 10 * time.Second
	if v := os.Getenv("STORE_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid STORE_TIMEOUT_SECONDS %q", v)
		}
		storeTimeout = time.Duration(secs) * time.Second
	}

	return &Config{
		DatabasePath:           databasePath,
		GeminiAPIKey:           geminiAPIKey,
		GroqAPIKey:             groqAPIKey,
		TelegramBotToken:       telegramBotToken,
		TelegramWebhookURL:     telegramWebhookURL,
		TelegramAllowedUserIDs: allowedIDs,
		AdminTelegramID:        adminTelegramID,
		ExportHeaders:          exportHeaders,
		StoreTimeout:           storeTimeout,
	}, nil
}
