// Package config loads interview-coach configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Command-line flags (applied by cmd/)
//  2. Environment variables (INTERVIEW_COACH_*, plus provider key fallbacks)
//  3. Config file
//  4. Built-in defaults
//
// Config file search order:
//  1. .interview-coach.yaml in current directory
//  2. ~/.config/interview-coach/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported providers.
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all interview-coach configuration.
type Config struct {
	// LLM settings
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	MaxTokens   int64   `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"` // Go duration string, e.g. "15s"

	// Offline serves canned payloads instead of calling a provider.
	Offline bool `yaml:"offline"`

	// Server
	Listen string `yaml:"listen"`

	// Practice client
	SessionFile string `yaml:"session_file"`
	Theme       string `yaml:"theme"` // "dark" (default) or "light"

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs, e.g. "Authorization=Basic abc123"

	// TimeoutDuration is parsed from Timeout after loading.
	TimeoutDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Provider:    ProviderGroq,
		Model:       DefaultModel(ProviderGroq),
		MaxTokens:   2048,
		Temperature: 0.3,
		Timeout:     "15s",
		Listen:      ":3001",
		Theme:       "dark",
	}
}

// Overrides are command-line values. Non-zero fields win over the
// environment and the config file.
type Overrides struct {
	Provider  string
	Model     string
	BaseURL   string
	APIKey    string
	MaxTokens int64
	Timeout   string
	Offline   bool
}

// DefaultModel returns the model used when none is configured for provider.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-sonnet-4-5"
	default:
		return "llama-3.3-70b-versatile"
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	return LoadWith(Overrides{})
}

// LoadWith is Load with command-line overrides applied last.
func LoadWith(o Overrides) (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	if err := mergeEnv(cfg); err != nil {
		return nil, err
	}
	mergeOverrides(cfg, o)
	applyFallbacks(cfg)

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve parses derived fields. Call it again after flags change Timeout.
func (c *Config) Resolve() error {
	switch c.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown provider %q (supported: groq, openai, anthropic)", c.Provider)
	}
	d, err := parseTimeout(c.Timeout, 15*time.Second)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	c.TimeoutDuration = d
	return nil
}

// HasKey reports whether a provider credential is configured.
func (c *Config) HasKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	if data, err := os.ReadFile(".interview-coach.yaml"); err == nil {
		return ".interview-coach.yaml", data, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "interview-coach", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Provider != "" {
		cfg.Provider = file.Provider
	}
	if file.Model != "" {
		cfg.Model = file.Model
	}
	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.APIKey != "" {
		cfg.APIKey = file.APIKey
	}
	if file.MaxTokens > 0 {
		cfg.MaxTokens = file.MaxTokens
	}
	if file.Temperature > 0 {
		cfg.Temperature = file.Temperature
	}
	if file.Timeout != "" {
		cfg.Timeout = file.Timeout
	}
	if file.Offline {
		cfg.Offline = true
	}
	if file.Listen != "" {
		cfg.Listen = file.Listen
	}
	if file.SessionFile != "" {
		cfg.SessionFile = file.SessionFile
	}
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) error {
	if v := os.Getenv("INTERVIEW_COACH_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("INTERVIEW_COACH_MODEL"); v != "" {
		cfg.Model = v
	} else if v := os.Getenv("GROQ_MODEL"); v != "" && cfg.Provider == ProviderGroq {
		cfg.Model = v
	}
	if v := os.Getenv("INTERVIEW_COACH_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("INTERVIEW_COACH_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("INTERVIEW_COACH_MAX_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid INTERVIEW_COACH_MAX_TOKENS %q: %w", v, err)
		}
		cfg.MaxTokens = n
	}
	if v := os.Getenv("INTERVIEW_COACH_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid INTERVIEW_COACH_TEMPERATURE %q: %w", v, err)
		}
		cfg.Temperature = f
	}
	if v := os.Getenv("INTERVIEW_COACH_TIMEOUT"); v != "" {
		cfg.Timeout = v
	}
	if v := os.Getenv("INTERVIEW_COACH_OFFLINE"); v == "true" || v == "1" {
		cfg.Offline = true
	}
	if v := os.Getenv("INTERVIEW_COACH_LISTEN"); v != "" {
		cfg.Listen = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.Listen = ":" + v
	}
	if v := os.Getenv("INTERVIEW_COACH_SESSION_FILE"); v != "" {
		cfg.SessionFile = v
	}
	if v := os.Getenv("INTERVIEW_COACH_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
	return nil
}

func mergeOverrides(cfg *Config, o Overrides) {
	if o.Provider != "" {
		cfg.Provider = o.Provider
	}
	if o.Model != "" {
		cfg.Model = o.Model
	}
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.APIKey != "" {
		cfg.APIKey = o.APIKey
	}
	if o.MaxTokens > 0 {
		cfg.MaxTokens = o.MaxTokens
	}
	if o.Timeout != "" {
		cfg.Timeout = o.Timeout
	}
	if o.Offline {
		cfg.Offline = true
	}
}

// applyFallbacks fills provider-dependent values once the provider is final.
func applyFallbacks(cfg *Config) {
	// The built-in model belongs to groq; other providers get their own.
	if cfg.Provider != ProviderGroq && cfg.Model == DefaultModel(ProviderGroq) {
		cfg.Model = DefaultModel(cfg.Provider)
	}

	// API key fallbacks, provider-specific first.
	if cfg.APIKey == "" {
		cfg.APIKey = providerKey(cfg.Provider)
	}

	// Azure base URL fallback
	if cfg.BaseURL == "" {
		if rn := os.Getenv("AZURE_RESOURCE_NAME"); rn != "" {
			switch cfg.Provider {
			case ProviderAnthropic:
				cfg.BaseURL = fmt.Sprintf("https://%s.services.ai.azure.com/anthropic/", rn)
			case ProviderOpenAI:
				cfg.BaseURL = fmt.Sprintf("https://%s.openai.azure.com/openai/v1", rn)
			}
		}
	}
}

func providerKey(provider string) string {
	var keys []string
	switch provider {
	case ProviderGroq:
		keys = []string{"GROQ_API_KEY"}
	case ProviderOpenAI:
		keys = []string{"AZURE_OPENAI_API_KEY", "OPENAI_API_KEY"}
	case ProviderAnthropic:
		keys = []string{"ANTHROPIC_API_KEY"}
	}
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// parseTimeout parses a duration string. "0", "off" and "disable" return 0,
// which leaves requests bounded only by the caller's context.
// Empty string returns the fallback value.
func parseTimeout(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration")
	}
	return d, nil
}

// IsAzureEndpoint returns true if the URL is an Azure endpoint.
func IsAzureEndpoint(url string) bool {
	return strings.Contains(url, ".azure.com") || strings.Contains(url, ".azure.us")
}
