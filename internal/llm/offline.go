package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/timvw/interview-coach/internal/model"
)

// Offline is the explicit demo-mode gateway. It never makes a network call
// and returns a fixed, valid payload for each action so the practice client
// and HTTP API can run without credentials. It is only selected by the
// offline switch in configuration.
type Offline struct{}

// NewOffline returns the offline gateway.
func NewOffline() *Offline {
	return &Offline{}
}

// Provider returns "offline".
func (*Offline) Provider() string {
	return "offline"
}

// Model returns "canned".
func (*Offline) Model() string {
	return "canned"
}

var offlineQuestions = []string{
	"Tell me about yourself and your recent projects.",
	"Explain a challenge you faced and how you solved it.",
	"How do you debug an issue when you don't know the cause?",
	"Describe a time you disagreed with a teammate and how it was resolved.",
	"How do you make sure your work is well tested?",
	"Walk me through how you would design a feature from scratch.",
	"What do you do when a deadline is at risk?",
	"How do you keep your technical skills up to date?",
	"Describe a piece of work you are especially proud of.",
	"How do you explain a technical decision to a non-technical stakeholder?",
}

// Complete returns the canned payload for req.Action.
func (*Offline) Complete(_ context.Context, req Request) (*Completion, error) {
	var payload any
	switch req.Action {
	case model.ActionGenerate:
		payload = model.Questions{Questions: offlineQuestions}
	case model.ActionEvaluate:
		payload = model.Evaluation{
			Score:    70,
			Feedback: "Offline mode: no model was consulted, so this score is a placeholder.\nConfigure an API key to get a real evaluation.",
			KeyPoints: []string{
				"State the core idea first, then support it with an example.",
				"Mention trade-offs and how you would measure success.",
			},
			ExpectedAnswer: "A strong answer names the concept, gives a concrete example from past work, and closes with the result and what was learned.",
		}
	case model.ActionAnalyze:
		payload = model.Profile{Domain: "General", Role: "Software Developer", Level: model.LevelJunior}
	default:
		return nil, &ProviderError{Provider: "offline", Model: "canned", Err: fmt.Errorf("no offline payload for action %q", req.Action)}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProviderError{Provider: "offline", Model: "canned", Err: err}
	}
	return &Completion{Text: string(data)}, nil
}
