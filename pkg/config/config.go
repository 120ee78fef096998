// Package config provides configuration loading and validation utilities.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/granabot/grana-bot/pkg/logger"
	pkgredis "github.com/granabot/grana-bot/pkg/redis"
)

// Config holds the full runtime configuration for grana-bot.
type Config struct {
	AppEnv string `mapstructure:"-"`

	Bot          BotConfig          `mapstructure:"bot" validate:"required"`
	Supabase     SupabaseConfig     `mapstructure:"supabase" validate:"required"`
	Classifier   ClassifierConfig   `mapstructure:"classifier"`
	Redis        pkgredis.Config    `mapstructure:"redis"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Reminders    RemindersConfig    `mapstructure:"reminders"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Server       ServerConfig       `mapstructure:"server"`
	Log          logger.Config      `mapstructure:"log"`
}

// BotConfig configures the Telegram transport.
type BotConfig struct {
	Token   string        `mapstructure:"token" validate:"required"`
	Mode    string        `mapstructure:"mode" validate:"omitempty,oneof=polling webhook"`
	Timeout time.Duration `mapstructure:"timeout"`

	WebhookListen    string `mapstructure:"webhook_listen"`
	WebhookPublicURL string `mapstructure:"webhook_public_url"`
}

// SupabaseConfig configures the PostgREST storage backend.
type SupabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
	Key string `mapstructure:"key" validate:"required"`
}

// ClassifierConfig configures the intent-classifier collaborator.
type ClassifierConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ConversationConfig bounds in-flight dialog sessions.
type ConversationConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RemindersConfig drives the due-reminder scan schedule.
type RemindersConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CronSpec string `mapstructure:"cron_spec"`
}

// RateLimitConfig bounds per-user message throughput.
type RateLimitConfig struct {
	PerUserLimit  int           `mapstructure:"per_user_limit"`
	PerUserWindow time.Duration `mapstructure:"per_user_window"`
	Whitelist     []int64       `mapstructure:"whitelist"`
}

// ServerConfig configures the ops HTTP server (/healthz, /metrics).
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Load reads ./configs/<APP_ENV>.yaml plus environment overrides, validates
// the result, and returns it with the backing viper instance for hot reload.
func Load() (*Config, *viper.Viper, error) {
	if err := godotenv.Load(".env.local", ".env"); err != nil {
		// env files are optional outside local development
		_ = err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("./configs/%s.yaml", env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = env
	cfg.Log.Environment = env
	applyDefaults(&cfg)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, v, nil
}

// Watch registers a config-file change callback. Used to re-apply log.level
// without a restart.
func Watch(v *viper.Viper, onChange func(*viper.Viper, fsnotify.Event)) {
	if v == nil || onChange == nil {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		onChange(v, e)
	})
	v.WatchConfig()
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "polling"
	}
	if cfg.Bot.Timeout == 0 {
		cfg.Bot.Timeout = 10 * time.Second
	}
	if cfg.Classifier.Timeout == 0 {
		cfg.Classifier.Timeout = 8 * time.Second
	}
	if cfg.Conversation.TTL == 0 {
		cfg.Conversation.TTL = 30 * time.Minute
	}
	if cfg.Conversation.CleanupInterval == 0 {
		cfg.Conversation.CleanupInterval = 5 * time.Minute
	}
	if cfg.Reminders.CronSpec == "" {
		cfg.Reminders.CronSpec = "0 9 * * *"
	}
	if cfg.RateLimit.PerUserLimit == 0 {
		cfg.RateLimit.PerUserLimit = 20
	}
	if cfg.RateLimit.PerUserWindow == 0 {
		cfg.RateLimit.PerUserWindow = time.Minute
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
}
