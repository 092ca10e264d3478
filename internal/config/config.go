package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all server configuration, loaded from the environment
// (with optional .env file support).
type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	CORSOrigins []string `mapstructure:"-"`

	ReasoningAPIKey string `mapstructure:"REASONING_API_KEY"`
	ReasoningAPIURL string `mapstructure:"REASONING_API_URL"`
	ReasoningModel  string `mapstructure:"REASONING_MODEL"`

	ElevenLabsAPIKey  string `mapstructure:"ELEVENLABS_API_KEY"`
	ElevenLabsVoiceID string `mapstructure:"ELEVENLABS_VOICE_ID"`

	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	DispatchChatID   int64  `mapstructure:"DISPATCH_CHAT_ID"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REASONING_API_URL", "https://api.cerebras.ai/v1/chat/completions")
	v.SetDefault("REASONING_MODEL", "llama-3.3-70b")
	v.SetDefault("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("REASONING_API_KEY")
	v.BindEnv("REASONING_API_URL")
	v.BindEnv("REASONING_MODEL")
	v.BindEnv("ELEVENLABS_API_KEY")
	v.BindEnv("ELEVENLABS_VOICE_ID")
	v.BindEnv("TELEGRAM_BOT_TOKEN")
	v.BindEnv("DISPATCH_CHAT_ID")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// CORS_ORIGINS is a comma-separated list; parsed by hand since
	// mapstructure will not split a scalar into a slice.
	if origins := v.GetString("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasReasoning reports whether a usable reasoning service key is
// configured. Placeholder values from a sample .env are treated as
// unconfigured so the pipeline falls back to local checks.
func (c *Config) HasReasoning() bool {
	return hasRealKey(c.ReasoningAPIKey)
}

// HasSpeech reports whether the speech synthesis service is configured.
func (c *Config) HasSpeech() bool {
	return hasRealKey(c.ElevenLabsAPIKey)
}

// HasDispatch reports whether warning dispatch over Telegram is configured.
func (c *Config) HasDispatch() bool {
	return c.TelegramBotToken != "" && c.DispatchChatID != 0
}

func hasRealKey(value string) bool {
	if value == "" {
		return false
	}
	normalized := strings.ToLower(value)
	return !strings.Contains(normalized, "your_") && !strings.Contains(normalized, "replace_me")
}
