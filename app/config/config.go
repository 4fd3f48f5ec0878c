package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      Log      `yaml:"log"`
	Telegram Telegram `yaml:"telegram"`
	Backend  Backend  `yaml:"backend"`
	Kolosal  Kolosal  `yaml:"kolosal"`
	History  History  `yaml:"history"`
}

type Telegram struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789" validate:"required"`
	// Inbound delivery mode
	Mode string `yaml:"mode" example:"poll" validate:"oneof=poll webhook"`
	// Long-poll timeout in seconds
	PollTimeout int `yaml:"poll_timeout" example:"30"`
	// Listen address for webhook mode
	ListenAddr string `yaml:"listen_addr" example:":8443"`
}

type Backend struct {
	// Base URL of the platform REST API
	BaseURL string `yaml:"base_url" example:"https://api.imphnen.example" validate:"required"`
	// Per-request timeout in seconds
	TimeoutSeconds int `yaml:"timeout_seconds" example:"10"`
}

type Kolosal struct {
	// OpenAI-compatible base url
	BaseURL string `yaml:"base_url" example:"https://api.kolosal.ai/v1"`
	// API token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// Model name
	Model string `yaml:"model" example:"global.anthropic.claude-sonnet-4-5-20250929-v1:0" validate:"required"`
	// Completion cap for free-form replies
	MaxTokens int `yaml:"max_tokens" example:"1500"`
}

type History struct {
	// Max messages kept per chat room
	Limit int `yaml:"limit" example:"20"`
	// Inactivity TTL in minutes before a chat's history is evicted
	TTLMinutes int `yaml:"ttl_minutes" example:"240"`
	// Reaper sweep interval in minutes
	SweepMinutes int `yaml:"sweep_minutes" example:"30"`
}

type Log struct {
	// Telegram logging config (admin alert channel)
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	return load("config.yaml")
}

func load(path string) (*Config, error) {
	var result Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Telegram.Mode == "" {
		result.Telegram.Mode = "poll"
	}
	if result.Telegram.PollTimeout == 0 {
		result.Telegram.PollTimeout = 30
	}
	if result.Telegram.ListenAddr == "" {
		result.Telegram.ListenAddr = ":8443"
	}
	if result.Backend.TimeoutSeconds == 0 {
		result.Backend.TimeoutSeconds = 10
	}
	if result.Kolosal.BaseURL == "" {
		result.Kolosal.BaseURL = "https://api.kolosal.ai/v1"
	}
	if result.Kolosal.MaxTokens == 0 {
		result.Kolosal.MaxTokens = 1500
	}
	if result.History.Limit == 0 {
		result.History.Limit = 20
	}
	if result.History.TTLMinutes == 0 {
		result.History.TTLMinutes = 4 * 60
	}
	if result.History.SweepMinutes == 0 {
		result.History.SweepMinutes = 30
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
