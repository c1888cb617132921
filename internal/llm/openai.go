package llm

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/timvw/interview-coach/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

var tracer = otel.Tracer("interview-coach/llm")

// OpenAI completes prompts using an OpenAI-compatible Chat Completions API.
// Works with OpenAI, Groq, Azure OpenAI, and any OpenAI-compatible endpoint.
type OpenAI struct {
	client      openai.Client
	provider    string
	model       string
	maxTokens   int64
	temperature float64
}

// OpenAIConfig holds configuration for the OpenAI-compatible gateway.
type OpenAIConfig struct {
	// Provider is reported in telemetry and /health ("openai", "groq").
	Provider string
	// BaseURL is the API endpoint.
	BaseURL string
	// APIKey is the API key.
	APIKey string
	// Model is the model name (e.g., "llama-3.3-70b-versatile").
	Model string
	// MaxTokens is the maximum number of completion tokens.
	MaxTokens int64
	// Temperature is the sampling temperature. Zero means DefaultTemperature.
	Temperature float64
	// ExtraHeaders are additional HTTP headers (e.g., "api-key" for Azure).
	ExtraHeaders map[string]string
}

// NewOpenAI creates a new OpenAI-compatible gateway. SDK retries are
// disabled: every request makes exactly one call.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
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
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}

	return &OpenAI{
		client:      openai.NewClient(opts...),
		provider:    provider,
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Provider returns the configured provider name.
func (g *OpenAI) Provider() string {
	return g.provider
}

// Model returns the model name.
func (g *OpenAI) Model() string {
	return g.model
}

// Complete sends the prompt to an OpenAI-compatible API and returns the raw reply.
func (g *OpenAI) Complete(ctx context.Context, req Request) (*Completion, error) {
	ctx, span := startSpan(ctx, g.provider, g.model, req, g.maxTokens, g.temperature)
	defer span.End()

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(req.Prompt),
		},
		MaxCompletionTokens: openai.Int(g.maxTokens),
		Temperature:         openai.Float(g.temperature),
	})
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		return nil, &ProviderError{Provider: g.provider, Model: g.model, Err: err}
	}

	if len(resp.Choices) == 0 {
		span.SetAttributes(attribute.String("error.type", "empty_response"))
		return nil, &ProviderError{Provider: g.provider, Model: g.model, Err: errors.New("no choices in response")}
	}

	text := resp.Choices[0].Message.Content

	span.SetAttributes(
		attribute.String("gen_ai.response.model", resp.Model),
		attribute.String("gen_ai.response.id", resp.ID),
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
	)
	if resp.Choices[0].FinishReason != "" {
		span.SetAttributes(attribute.StringSlice("gen_ai.response.finish_reasons", []string{string(resp.Choices[0].FinishReason)}))
	}
	recordOutput(span, text)

	return &Completion{
		Text: text,
		Usage: model.TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

// startSpan opens a GenAI client span following the OTel GenAI semantic
// conventions. Span name is "{operation} {model}".
func startSpan(ctx context.Context, provider, modelName string, req Request, maxTokens int64, temperature float64) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "chat "+modelName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "chat"),
			attribute.String("gen_ai.provider.name", provider),
			attribute.String("gen_ai.request.model", modelName),
			attribute.Int64("gen_ai.request.max_tokens", maxTokens),
			attribute.Float64("gen_ai.request.temperature", temperature),
			attribute.String("interview.action", string(req.Action)),

			// Langfuse-specific: ensure this shows as a "generation"
			attribute.String("langfuse.observation.type", "generation"),
		),
	)

	inputMessages := []map[string]string{
		{"role": "system", "content": SystemPrompt},
		{"role": "user", "content": req.Prompt},
	}
	if inputJSON, err := json.Marshal(inputMessages); err == nil {
		span.SetAttributes(attribute.String("gen_ai.input.messages", string(inputJSON)))
	}
	return ctx, span
}

func recordOutput(span trace.Span, text string) {
	outputMessages := []map[string]string{
		{"role": "assistant", "content": text},
	}
	if outputJSON, err := json.Marshal(outputMessages); err == nil {
		span.SetAttributes(attribute.String("gen_ai.output.messages", string(outputJSON)))
	}
}
