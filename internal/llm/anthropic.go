package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/timvw/interview-coach/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

// Anthropic completes prompts using the Anthropic Messages API.
// Works with both direct Anthropic API and Azure AI Foundry.
type Anthropic struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

// AnthropicConfig holds configuration for the Anthropic gateway.
type AnthropicConfig struct {
	// BaseURL is the API endpoint (e.g., "https://resource.services.ai.azure.com/anthropic/").
	BaseURL string
	// APIKey is the API key.
	APIKey string
	// Model is the model name (e.g., "claude-haiku-4-5").
	Model string
	// MaxTokens is the maximum number of output tokens.
	MaxTokens int64
	// Temperature is the sampling temperature. Zero means DefaultTemperature.
	Temperature float64
	// ExtraHeaders are additional HTTP headers (e.g., "api-key" for Azure).
	ExtraHeaders map[string]string
}

// NewAnthropic creates a new Anthropic gateway with SDK retries disabled.
func NewAnthropic(cfg AnthropicConfig) *Anthropic {
	opts := []option.RequestOption{option.WithMaxRetries(0)}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	for k, v := range cfg.ExtraHeaders {
		opts = append(opts, option.WithHeader(k, v))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}

	return &Anthropic{
		client:      anthropic.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Provider returns "anthropic".
func (g *Anthropic) Provider() string {
	return "anthropic"
}

// Model returns the model name.
func (g *Anthropic) Model() string {
	return g.model
}

// Complete sends the prompt to the Anthropic API and returns the raw reply.
func (g *Anthropic) Complete(ctx context.Context, req Request) (*Completion, error) {
	ctx, span := startSpan(ctx, "anthropic", g.model, req, g.maxTokens, g.temperature)
	defer span.End()

	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   g.maxTokens,
		Temperature: anthropic.Float(g.temperature),
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(req.Prompt),
			),
		},
	})
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		return nil, &ProviderError{Provider: "anthropic", Model: g.model, Err: err}
	}

	if len(resp.Content) == 0 {
		span.SetAttributes(attribute.String("error.type", "empty_response"))
		return nil, &ProviderError{Provider: "anthropic", Model: g.model, Err: errors.New("no content blocks in response")}
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := b.String()

	span.SetAttributes(
		attribute.String("gen_ai.response.model", string(resp.Model)),
		attribute.String("gen_ai.response.id", resp.ID),
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.InputTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.OutputTokens),
	)
	if string(resp.StopReason) != "" {
		span.SetAttributes(attribute.StringSlice("gen_ai.response.finish_reasons", []string{string(resp.StopReason)}))
	}
	recordOutput(span, text)

	return &Completion{
		Text: text,
		Usage: model.TokenUsage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}, nil
}
