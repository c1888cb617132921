// Package llm is the gateway to the hosted completion endpoint.
//
// A Gateway makes exactly one synchronous call per request with a fixed
// system instruction asking for JSON-only output. It never interprets the
// reply: the verbatim text is handed back for extraction and validation.
package llm

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/timvw/interview-coach/internal/model"
)

// SystemPrompt is the system-level instruction sent with every completion.
// Loaded from prompts/system.md at compile time.
//
//go:embed prompts/system.md
var SystemPrompt string

// DefaultTemperature keeps output close to deterministic.
const DefaultTemperature = 0.3

// Request is a single completion request.
type Request struct {
	// Action is the interview action the prompt was built for. Gateways use
	// it for telemetry; the offline gateway uses it to pick a payload.
	Action model.Action
	// Prompt is the user message.
	Prompt string
}

// Completion is the raw reply from the completion endpoint.
type Completion struct {
	// Text is the verbatim model output. It may be empty or contain prose
	// around the JSON object.
	Text  string
	Usage model.TokenUsage
}

// Gateway sends a prompt to an LLM and returns its raw text.
type Gateway interface {
	// Complete issues one call to the completion endpoint. Transport,
	// provider and timeout failures are returned as *ProviderError.
	Complete(ctx context.Context, req Request) (*Completion, error)

	// Provider returns the provider name (e.g., "openai", "anthropic").
	Provider() string

	// Model returns the model name used for completions.
	Model() string
}

// ProviderError reports a failed call to the completion endpoint.
type ProviderError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API call failed (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
