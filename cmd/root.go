package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/interview-coach/internal/config"
	"github.com/timvw/interview-coach/internal/interview"
	"github.com/timvw/interview-coach/internal/llm"
	telem "github.com/timvw/interview-coach/internal/otel"
)

var (
	// Global flags.
	flagProvider  string
	flagModel     string
	flagBaseURL   string
	flagAPIKey    string
	flagMaxTokens int64
	flagTimeout   string
	flagOffline   bool
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "interview-coach",
	Short: "Mock interview practice backed by an LLM",
	Long: `interview-coach generates interview questions, scores answers and
infers a practice track from a free-text profile, using an LLM.

Run "serve" to expose the HTTP API used by browser clients, "practice" for a
mock interview in the terminal, or the one-shot generate, evaluate and
analyze commands for scripting.

Configuration is loaded from .interview-coach.yaml or environment variables.
Flags override both.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider: groq, openai, anthropic (default: groq)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "LLM model name (default: llama-3.3-70b-versatile for groq, gpt-4o-mini for openai, claude-sonnet-4-5 for anthropic)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "override LLM API base URL")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "override LLM API key")
	rootCmd.PersistentFlags().Int64Var(&flagMaxTokens, "max-tokens", 0, "max completion tokens (default: 2048)")
	rootCmd.PersistentFlags().StringVar(&flagTimeout, "timeout", "", `per-request LLM timeout, e.g. "15s" ("off" disables)`)
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "serve canned responses instead of calling a provider")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
}

// loadConfig resolves configuration: defaults -> config file -> env -> flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWith(config.Overrides{
		Provider:  flagProvider,
		Model:     flagModel,
		BaseURL:   flagBaseURL,
		APIKey:    flagAPIKey,
		MaxTokens: flagMaxTokens,
		Timeout:   flagTimeout,
		Offline:   flagOffline,
	})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.ConfigFile != "" {
		fmt.Fprintf(os.Stderr, "config: loaded %s\n", cfg.ConfigFile)
	}
	return cfg, nil
}

// newLogger returns the stderr logger shared by all commands.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// initTelemetry starts OTEL export. It never fails the command: without an
// endpoint, or on error, telemetry is a no-op and metrics are nil.
func initTelemetry(ctx context.Context, cfg *config.Config) (*telem.Telemetry, *telem.Metrics) {
	// Wire build version into OTEL service metadata
	telem.Version = Version

	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: otel init failed: %v\n", err)
		return nil, nil
	}
	if tel == nil {
		return nil, nil
	}
	return tel, tel.Metrics
}

// newService builds the in-process interview service for cfg.
func newService(cfg *config.Config, metrics *telem.Metrics, logger *slog.Logger) *interview.Service {
	timeout := cfg.TimeoutDuration
	if timeout == 0 {
		timeout = -1
	}
	return interview.NewService(getGateway(cfg), interview.Options{
		Timeout: timeout,
		Metrics: metrics,
		Logger:  logger,
	})
}

// getGateway returns the configured LLM gateway. It returns nil when no
// credential is configured; the service then reports "Missing API key".
func getGateway(cfg *config.Config) llm.Gateway {
	if cfg.Offline {
		return llm.NewOffline()
	}
	if !cfg.HasKey() {
		return nil
	}

	extraHeaders := map[string]string{}
	// Azure needs "api-key" next to the SDK's own auth header.
	if os.Getenv("AZURE_RESOURCE_NAME") != "" || config.IsAzureEndpoint(cfg.BaseURL) {
		extraHeaders["api-key"] = cfg.APIKey
	}

	switch cfg.Provider {
	case config.ProviderAnthropic:
		return llm.NewAnthropic(llm.AnthropicConfig{
			BaseURL:      cfg.BaseURL,
			APIKey:       cfg.APIKey,
			Model:        cfg.Model,
			MaxTokens:    cfg.MaxTokens,
			Temperature:  cfg.Temperature,
			ExtraHeaders: extraHeaders,
		})
	case config.ProviderOpenAI:
		return llm.NewOpenAI(llm.OpenAIConfig{
			Provider:     config.ProviderOpenAI,
			BaseURL:      cfg.BaseURL,
			APIKey:       cfg.APIKey,
			Model:        cfg.Model,
			MaxTokens:    cfg.MaxTokens,
			Temperature:  cfg.Temperature,
			ExtraHeaders: extraHeaders,
		})
	default:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = llm.GroqBaseURL
		}
		return llm.NewOpenAI(llm.OpenAIConfig{
			Provider:     config.ProviderGroq,
			BaseURL:      baseURL,
			APIKey:       cfg.APIKey,
			Model:        cfg.Model,
			MaxTokens:    cfg.MaxTokens,
			Temperature:  cfg.Temperature,
			ExtraHeaders: extraHeaders,
		})
	}
}
