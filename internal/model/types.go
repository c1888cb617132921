package model

import (
	"strings"
)

// Action names an interview operation addressed by ?action= on the HTTP API.
type Action string

const (
	ActionGenerate Action = "generate"
	ActionEvaluate Action = "evaluate"
	ActionAnalyze  Action = "analyze"
)

// ParseAction returns the Action for a query value, or false if unknown.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionGenerate, ActionEvaluate, ActionAnalyze:
		return Action(s), true
	default:
		return "", false
	}
}

// Level is the seniority a candidate is interviewing for.
type Level string

const (
	LevelIntern Level = "intern"
	LevelJunior Level = "junior"
	LevelMid    Level = "mid"
	LevelSenior Level = "senior"
)

// Levels lists all levels in ascending seniority.
var Levels = []Level{LevelIntern, LevelJunior, LevelMid, LevelSenior}

// ParseLevel normalizes free text such as " Senior ", "MID-LEVEL" or
// "junior level" into a Level. Returns false when the text does not name one
// of the known levels.
func ParseLevel(s string) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "level")
	s = strings.TrimRight(s, " -_")
	for _, l := range Levels {
		if s == string(l) {
			return l, true
		}
	}
	return "", false
}

// GenerateRequest asks for a set of interview questions.
type GenerateRequest struct {
	FieldLabel string `json:"fieldLabel" validate:"notblank"`
	Level      string `json:"level" validate:"notblank"`
	// Count is kept untyped so that numeric strings and out-of-range values
	// from browsers reach the clamp instead of failing JSON decoding.
	Count any `json:"count"`
}

// EvaluateRequest asks for a score and feedback on a single answer.
type EvaluateRequest struct {
	FieldLabel string `json:"fieldLabel" validate:"notblank"`
	Level      string `json:"level" validate:"notblank"`
	Question   string `json:"question" validate:"notblank"`
	Answer     string `json:"answer" validate:"notblank"`
}

// AnalyzeRequest asks the LLM to infer a track from a free-text profile.
type AnalyzeRequest struct {
	Profile string `json:"profile" validate:"notblank"`
}

// Questions is the validated result of a generate action.
type Questions struct {
	Questions []string `json:"questions"`
}

// Evaluation is the validated result of an evaluate action.
type Evaluation struct {
	// Score is in [0,100].
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
	// KeyPoints holds at most 10 non-empty entries.
	KeyPoints      []string `json:"keyPoints"`
	ExpectedAnswer string   `json:"expectedAnswer"`
}

// Profile is the validated result of an analyze action.
type Profile struct {
	Domain string `json:"domain"`
	Role   string `json:"role" validate:"notblank"`
	Level  Level  `json:"level" validate:"oneof=intern junior mid senior"`
}

// TokenUsage tracks LLM token consumption for a single completion.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// ErrorResponse is the JSON body of every failed API call. Raw carries the
// verbatim provider text for extraction and validation failures and is
// present even when that text is empty.
type ErrorResponse struct {
	Error  string  `json:"error"`
	Raw    *string `json:"raw,omitempty"`
	Detail string  `json:"detail,omitempty"`
}

// Health is the body of GET /health.
type Health struct {
	OK       bool   `json:"ok"`
	HasKey   bool   `json:"hasKey"`
	Model    string `json:"model"`
	Provider string `json:"provider"`
	Offline  bool   `json:"offline"`
}
