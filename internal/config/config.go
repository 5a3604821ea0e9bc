package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
)

type SlackConfig struct {
	SigningSecret string `json:"signing_secret,omitempty"`
	BotToken      string `json:"bot_token,omitempty"`
	// AppToken 仅为 Socket Mode 预留
	// AppToken is reserved for Socket Mode; loaded but unused by the HTTP transport.
	AppToken string `json:"app_token,omitempty"`
}

type BackendConfig struct {
	BaseURL   string `json:"base_url,omitempty"`
	Model     string `json:"model"`
	APIKey    string `json:"api_key,omitempty"`
	TimeoutMS int    `json:"timeout_ms"`
	MaxTokens int    `json:"max_tokens"`
}

type NotionConfig struct {
	APIKey     string `json:"api_key,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

type BotConfig struct {
	// DefaultBackend is "gpt" or "claude".
	DefaultBackend   string `json:"default_backend"`
	Locale           string `json:"locale,omitempty"`
	MaxContextLength int    `json:"max_context_length"`
	HistoryLimit     int    `json:"history_limit"`
}

type ServerConfig struct {
	Port              int `json:"port"`
	ShutdownTimeoutMS int `json:"shutdown_timeout_ms"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

type Config struct {
	Slack     SlackConfig   `json:"slack"`
	OpenAI    BackendConfig `json:"openai"`
	Anthropic BackendConfig `json:"anthropic"`
	Notion    NotionConfig  `json:"notion"`
	Bot       BotConfig     `json:"bot"`
	Server    ServerConfig  `json:"server"`
	Log       LogConfig     `json:"log"`
}

type fileConfig struct {
	Slack     *SlackConfig   `json:"slack"`
	OpenAI    *BackendConfig `json:"openai"`
	Anthropic *BackendConfig `json:"anthropic"`
	Notion    *NotionConfig  `json:"notion"`
	Bot       *BotConfig     `json:"bot"`
	Server    *ServerConfig  `json:"server"`
	Log       *LogConfig     `json:"log"`
}

func Default() Config {
	return Config{
		OpenAI: BackendConfig{
			Model:     DefaultOpenAIModel,
			TimeoutMS: DefaultBackendTimeoutMS,
			MaxTokens: DefaultMaxTokens,
		},
		Anthropic: BackendConfig{
			BaseURL:   DefaultAnthropicBaseURL,
			Model:     DefaultAnthropicModel,
			TimeoutMS: DefaultBackendTimeoutMS,
			MaxTokens: DefaultMaxTokens,
		},
		Bot: BotConfig{
			DefaultBackend:   BackendGPT,
			MaxContextLength: DefaultMaxContextLength,
			HistoryLimit:     DefaultHistoryLimit,
		},
		Server: ServerConfig{
			Port:              DefaultPort,
			ShutdownTimeoutMS: DefaultShutdownTimeoutMS,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load 读取配置：默认值 → 全局配置 → 项目配置 → .env → 环境变量
// Load resolves configuration: defaults, then the global file, then the
// project file, then .env, then the real environment.
func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("IDEABOT_CONFIG_PATH")); envPath != "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	normalize(&cfg)
	return applyEnv(cfg)
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".ideabot", "config.json")}
}

func findProjectConfigPath() string {
	candidates := []string{
		"ideabot.config.json",
		".ideabot/config.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// loadDotEnv populates unset variables from a dotenv file; variables already
// present in the environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	var fileCfg fileConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &fileCfg); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.Slack != nil {
		cfg.Slack = mergeSlack(cfg.Slack, *fc.Slack)
	}
	if fc.OpenAI != nil {
		cfg.OpenAI = mergeBackend(cfg.OpenAI, *fc.OpenAI)
	}
	if fc.Anthropic != nil {
		cfg.Anthropic = mergeBackend(cfg.Anthropic, *fc.Anthropic)
	}
	if fc.Notion != nil {
		if strings.TrimSpace(fc.Notion.APIKey) != "" {
			cfg.Notion.APIKey = fc.Notion.APIKey
		}
		if strings.TrimSpace(fc.Notion.DatabaseID) != "" {
			cfg.Notion.DatabaseID = fc.Notion.DatabaseID
		}
	}
	if fc.Bot != nil {
		cfg.Bot = mergeBot(cfg.Bot, *fc.Bot)
	}
	if fc.Server != nil {
		if fc.Server.Port > 0 {
			cfg.Server.Port = fc.Server.Port
		}
		if fc.Server.ShutdownTimeoutMS > 0 {
			cfg.Server.ShutdownTimeoutMS = fc.Server.ShutdownTimeoutMS
		}
	}
	if fc.Log != nil {
		if strings.TrimSpace(fc.Log.Level) != "" {
			cfg.Log.Level = fc.Log.Level
		}
		if strings.TrimSpace(fc.Log.Format) != "" {
			cfg.Log.Format = fc.Log.Format
		}
	}
}

func mergeSlack(base SlackConfig, override SlackConfig) SlackConfig {
	if strings.TrimSpace(override.SigningSecret) != "" {
		base.SigningSecret = override.SigningSecret
	}
	if strings.TrimSpace(override.BotToken) != "" {
		base.BotToken = override.BotToken
	}
	if strings.TrimSpace(override.AppToken) != "" {
		base.AppToken = override.AppToken
	}
	return base
}

func mergeBackend(base BackendConfig, override BackendConfig) BackendConfig {
	if strings.TrimSpace(override.BaseURL) != "" {
		base.BaseURL = override.BaseURL
	}
	if strings.TrimSpace(override.Model) != "" {
		base.Model = override.Model
	}
	if strings.TrimSpace(override.APIKey) != "" {
		base.APIKey = override.APIKey
	}
	if override.TimeoutMS > 0 {
		base.TimeoutMS = override.TimeoutMS
	}
	if override.MaxTokens > 0 {
		base.MaxTokens = override.MaxTokens
	}
	return base
}

func mergeBot(base BotConfig, override BotConfig) BotConfig {
	if strings.TrimSpace(override.DefaultBackend) != "" {
		base.DefaultBackend = override.DefaultBackend
	}
	if strings.TrimSpace(override.Locale) != "" {
		base.Locale = override.Locale
	}
	if override.MaxContextLength > 0 {
		base.MaxContextLength = override.MaxContextLength
	}
	if override.HistoryLimit > 0 {
		base.HistoryLimit = override.HistoryLimit
	}
	return base
}

func normalize(cfg *Config) {
	def := Default()
	cfg.OpenAI = normalizeBackend(cfg.OpenAI, def.OpenAI)
	cfg.Anthropic = normalizeBackend(cfg.Anthropic, def.Anthropic)

	cfg.Slack.SigningSecret = strings.TrimSpace(cfg.Slack.SigningSecret)
	cfg.Slack.BotToken = strings.TrimSpace(cfg.Slack.BotToken)
	cfg.Slack.AppToken = strings.TrimSpace(cfg.Slack.AppToken)
	cfg.Notion.APIKey = strings.TrimSpace(cfg.Notion.APIKey)
	cfg.Notion.DatabaseID = strings.TrimSpace(cfg.Notion.DatabaseID)

	cfg.Bot.DefaultBackend = NormalizeBackendName(cfg.Bot.DefaultBackend)
	if cfg.Bot.DefaultBackend == "" {
		cfg.Bot.DefaultBackend = def.Bot.DefaultBackend
	}
	cfg.Bot.Locale = strings.TrimSpace(cfg.Bot.Locale)
	if cfg.Bot.MaxContextLength <= 0 {
		cfg.Bot.MaxContextLength = def.Bot.MaxContextLength
	}
	if cfg.Bot.HistoryLimit <= 0 {
		cfg.Bot.HistoryLimit = def.Bot.HistoryLimit
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.ShutdownTimeoutMS <= 0 {
		cfg.Server.ShutdownTimeoutMS = def.Server.ShutdownTimeoutMS
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		cfg.Log.Format = def.Log.Format
	}
}

func normalizeBackend(cfg BackendConfig, def BackendConfig) BackendConfig {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.TimeoutMS <= 0 {
		cfg.TimeoutMS = def.TimeoutMS
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	return cfg
}

// NormalizeBackendName maps accepted backend spellings to "gpt" or "claude".
// Unknown names are returned lowercased so Validate can report them.
func NormalizeBackendName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "gpt", "openai":
		return BackendGPT
	case "claude", "anthropic":
		return BackendClaude
	}
	return n
}

func applyEnv(cfg Config) (Config, error) {
	setString := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := strings.TrimSpace(os.Getenv(key)); v != "" {
				*dst = v
				return
			}
		}
	}
	setString(&cfg.Slack.SigningSecret, "SLACK_SIGNING_SECRET")
	setString(&cfg.Slack.BotToken, "SLACK_BOT_TOKEN")
	setString(&cfg.Slack.AppToken, "SLACK_APP_TOKEN")
	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "OPENAI_MODEL")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setString(&cfg.Anthropic.Model, "ANTHROPIC_MODEL")
	setString(&cfg.Anthropic.BaseURL, "ANTHROPIC_BASE_URL")
	setString(&cfg.Notion.APIKey, "NOTION_API_KEY")
	setString(&cfg.Notion.DatabaseID, "NOTION_DATABASE_ID")
	setString(&cfg.Bot.DefaultBackend, "IDEABOT_DEFAULT_BACKEND")
	setString(&cfg.Bot.Locale, "IDEABOT_LANG")
	setString(&cfg.Log.Level, "IDEABOT_LOG_LEVEL")
	setString(&cfg.Log.Format, "IDEABOT_LOG_FORMAT")

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 65535 {
			return Config{}, fmt.Errorf("invalid PORT: %q", v)
		}
		cfg.Server.Port = n
	}
	if v := strings.TrimSpace(os.Getenv("IDEABOT_MAX_CONTEXT_LENGTH")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid IDEABOT_MAX_CONTEXT_LENGTH: %q", v)
		}
		cfg.Bot.MaxContextLength = n
	}

	normalize(&cfg)
	return cfg, nil
}

// Mode names the command a configuration is validated for.
type Mode string

const (
	ModeServe   Mode = "serve"
	ModeConsole Mode = "console"
)

// Validate reports every missing setting the given mode needs, joined.
func (c Config) Validate(mode Mode) error {
	var errs []error
	if mode == ModeServe {
		if c.Slack.SigningSecret == "" {
			errs = append(errs, errors.New("SLACK_SIGNING_SECRET is required"))
		}
		if c.Slack.BotToken == "" {
			errs = append(errs, errors.New("SLACK_BOT_TOKEN is required"))
		}
	}
	switch c.Bot.DefaultBackend {
	case BackendGPT:
		if c.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the gpt backend"))
		}
	case BackendClaude:
		if c.Anthropic.APIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the claude backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown default backend %q", c.Bot.DefaultBackend))
	}
	if (c.Notion.APIKey == "") != (c.Notion.DatabaseID == "") {
		errs = append(errs, errors.New("NOTION_API_KEY and NOTION_DATABASE_ID must be set together"))
	}
	return errors.Join(errs...)
}

// TicketsEnabled reports whether ideas should be filed to Notion.
func (c Config) TicketsEnabled() bool {
	return c.Notion.APIKey != "" && c.Notion.DatabaseID != ""
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}
