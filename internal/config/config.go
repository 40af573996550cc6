package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/kitbuilder587/startbot/internal/telegram"
)

var (
	ErrMissingToken      = errors.New("TELEGRAM_BOT_TOKEN is required")
	ErrMissingChannel    = errors.New("TELEGRAM_CHANNEL_ID is required")
	ErrInvalidChannel    = errors.New("TELEGRAM_CHANNEL_ID must be a numeric chat id or @channel")
	ErrMissingWebhookURL = errors.New("WEBHOOK_URL is required in webhook mode")
)

const (
	ModePoll    = "poll"
	ModeWebhook = "webhook"
)

type Config struct {
	Telegram TelegramConfig
	Receiver ReceiverConfig
	Restart  RestartConfig
	HTTP     HTTPConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

type TelegramConfig struct {
	Token     string
	ChannelID string
	Debug     bool
}

type ReceiverConfig struct {
	Mode           string        `validate:"oneof=poll webhook"`
	WebhookURL     string        `validate:"omitempty,url"`
	PollTimeout    time.Duration `validate:"min=1s,max=50s"`
	RequestTimeout time.Duration `validate:"min=1s"`
	Workers        int           `validate:"min=1,max=64"`
}

type RestartConfig struct {
	InitialDelay time.Duration `validate:"min=1s"`
	MaxDelay     time.Duration `validate:"gtefield=InitialDelay"`
	MaxAttempts  int           `validate:"min=0"`
	ResetAfter   time.Duration `validate:"min=1s"`
}

type HTTPConfig struct {
	Port string `validate:"required,numeric"`
}

type MetricsConfig struct {
	Addr string
}

type LogConfig struct {
	Level  string
	Format string
}

// Addr is the liveness listener address.
func (c HTTPConfig) Addr() string {
	return ":" + c.Port
}

func (c MetricsConfig) Enabled() bool {
	return c.Addr != ""
}

// Load reads the configuration from the environment. A .env file (or the file
// named by ENV_FILE) is loaded first; variables already set take precedence.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			Token:     strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
			ChannelID: strings.TrimSpace(os.Getenv("TELEGRAM_CHANNEL_ID")),
			Debug:     getEnvBoolOrDefault("DEBUG", false),
		},
		Receiver: ReceiverConfig{
			Mode:           strings.ToLower(getEnvOrDefault("RECEIVER_MODE", ModePoll)),
			WebhookURL:     strings.TrimRight(strings.TrimSpace(os.Getenv("WEBHOOK_URL")), "/"),
			PollTimeout:    time.Duration(getEnvIntOrDefault("POLL_TIMEOUT_SEC", 30)) * time.Second,
			RequestTimeout: time.Duration(getEnvIntOrDefault("REQUEST_TIMEOUT_SEC", 10)) * time.Second,
			Workers:        getEnvIntOrDefault("UPDATE_WORKERS", 1),
		},
		Restart: RestartConfig{
			InitialDelay: time.Duration(getEnvIntOrDefault("RESTART_INITIAL_DELAY_SEC", 5)) * time.Second,
			MaxDelay:     time.Duration(getEnvIntOrDefault("RESTART_MAX_DELAY_SEC", 300)) * time.Second,
			MaxAttempts:  getEnvIntOrDefault("RESTART_MAX_ATTEMPTS", 0),
			ResetAfter:   time.Duration(getEnvIntOrDefault("RESTART_RESET_AFTER_SEC", 60)) * time.Second,
		},
		HTTP: HTTPConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Metrics: MetricsConfig{
			Addr: os.Getenv("METRICS_ADDR"),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", LogFormatJSON)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return ErrMissingToken
	}
	if strings.TrimSpace(c.Telegram.ChannelID) == "" {
		return ErrMissingChannel
	}
	if _, err := telegram.ParseDestination(c.Telegram.ChannelID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChannel, err)
	}
	if c.Receiver.Mode == ModeWebhook && c.Receiver.WebhookURL == "" {
		return ErrMissingWebhookURL
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadDotEnv() error {
	path := getEnvOrDefault("ENV_FILE", ".env")
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
