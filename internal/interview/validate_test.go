package interview

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/timvw/interview-coach/internal/model"
)

func TestClampInt(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want int
	}{
		{"in range", 8.0, 8},
		{"rounds half up", 92.5, 93},
		{"rounds down", 92.4, 92},
		{"above max", 137.0, 100},
		{"below min", -4.0, 0},
		{"numeric string", " 42 ", 42},
		{"non-numeric string", "many", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"NaN", math.NaN(), 0},
		{"+Inf", math.Inf(1), 0},
		{"int", 55, 55},
		{"json.Number", json.Number("99.6"), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampInt(tt.v, 0, 100); got != tt.want {
				t.Errorf("ClampInt(%v, 0, 100) = %d, want %d", tt.v, got, tt.want)
			}
		})
	}
}

func TestClampIntQuestionBounds(t *testing.T) {
	tests := []struct {
		v    any
		want int
	}{
		{1.0, MinQuestions},
		{5.0, 5},
		{50.0, MaxQuestions},
		{"abc", MinQuestions},
	}
	for _, tt := range tests {
		if got := ClampInt(tt.v, MinQuestions, MaxQuestions); got != tt.want {
			t.Errorf("ClampInt(%v, %d, %d) = %d, want %d", tt.v, MinQuestions, MaxQuestions, got, tt.want)
		}
	}
}

func mustObj(t *testing.T, s string) map[string]any {
	t.Helper()
	obj, ok := Extract(s)
	if !ok {
		t.Fatalf("test fixture is not a JSON object: %s", s)
	}
	return obj
}

func TestValidateQuestions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		count   int
		want    []string
		wantErr bool
	}{
		{
			name:  "prefix stripped and blanks dropped",
			input: `{"questions": ["1. Tell me about yourself", "", "   "]}`,
			count: 5,
			want:  []string{"Tell me about yourself"},
		},
		{
			name:  "various enumeration styles",
			input: `{"questions": ["1) What is Go?", "2 - Explain channels", "10. Describe GC", "What is a slice?"]}`,
			count: 10,
			want:  []string{"What is Go?", "Explain channels", "Describe GC", "What is a slice?"},
		},
		{
			name:  "truncated to count",
			input: `{"questions": ["Q one", "Q two", "Q three", "Q four"]}`,
			count: 3,
			want:  []string{"Q one", "Q two", "Q three"},
		},
		{
			name:  "short entries kept, non-string entries dropped",
			input: `{"questions": ["Q1", 42, null, "  Why?  ", "Why Go?"]}`,
			count: 5,
			want:  []string{"Q1", "Why?", "Why Go?"},
		},
		{
			name:    "all entries unusable",
			input:   `{"questions": ["", "  ", "3. ", false]}`,
			count:   5,
			wantErr: true,
		},
		{
			name:    "empty array",
			input:   `{"questions": []}`,
			count:   5,
			wantErr: true,
		},
		{
			name:    "missing key",
			input:   `{"items": ["Tell me about yourself"]}`,
			count:   5,
			wantErr: true,
		},
		{
			name:    "not an array",
			input:   `{"questions": "Tell me about yourself"}`,
			count:   5,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateQuestions(mustObj(t, tt.input), tt.count, tt.input)
			if tt.wantErr {
				if KindOf(err) != KindValidation {
					t.Fatalf("err = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got.Questions, tt.want) {
				t.Errorf("questions = %q, want %q", got.Questions, tt.want)
			}
		})
	}
}

func TestValidateEvaluation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.Evaluation
		wantErr bool
	}{
		{
			name:  "score clamped to 100",
			input: `{"score": 137, "feedback": "x", "keyPoints": [], "expectedAnswer": ""}`,
			want:  model.Evaluation{Score: 100, Feedback: "x", KeyPoints: []string{}},
		},
		{
			name:  "score rounded",
			input: `{"score": 92.6, "feedback": "Good", "keyPoints": ["a", "b"], "expectedAnswer": "..."}`,
			want:  model.Evaluation{Score: 93, Feedback: "Good", KeyPoints: []string{"a", "b"}, ExpectedAnswer: "..."},
		},
		{
			name:  "negative score clamped to 0",
			input: `{"score": -12}`,
			want:  model.Evaluation{Score: 0, KeyPoints: []string{}},
		},
		{
			name:  "defaults for wrong types",
			input: `{"score": 50, "feedback": 3, "keyPoints": "a, b", "expectedAnswer": ["x"]}`,
			want:  model.Evaluation{Score: 50, KeyPoints: []string{}},
		},
		{
			name:  "key points filtered and trimmed",
			input: `{"score": 70, "feedback": "  fine  ", "keyPoints": [" a ", "", 5, "   ", "b"]}`,
			want:  model.Evaluation{Score: 70, Feedback: "fine", KeyPoints: []string{"a", "b"}},
		},
		{
			name:    "score not a number",
			input:   `{"score": "not a number", "feedback": "x", "keyPoints": [], "expectedAnswer": ""}`,
			wantErr: true,
		},
		{
			name:    "score missing",
			input:   `{"feedback": "x"}`,
			wantErr: true,
		},
		{
			name:    "score null",
			input:   `{"score": null}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateEvaluation(mustObj(t, tt.input), tt.input)
			if tt.wantErr {
				if KindOf(err) != KindValidation {
					t.Fatalf("err = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("got %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestValidateEvaluationCapsKeyPoints(t *testing.T) {
	points := make([]string, 15)
	for i := range points {
		points[i] = strings.Repeat("p", i+1)
	}
	data, _ := json.Marshal(map[string]any{"score": 10, "keyPoints": points})

	got, err := ValidateEvaluation(mustObj(t, string(data)), string(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(got.KeyPoints) != MaxKeyPoints {
		t.Fatalf("len(KeyPoints) = %d, want %d", len(got.KeyPoints), MaxKeyPoints)
	}
	if got.KeyPoints[0] != "p" || got.KeyPoints[9] != strings.Repeat("p", 10) {
		t.Errorf("KeyPoints order not preserved: %q", got.KeyPoints)
	}
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.Profile
		wantErr bool
	}{
		{
			name:  "complete",
			input: `{"domain": "Engineering", "role": "Backend Developer", "level": "mid"}`,
			want:  model.Profile{Domain: "Engineering", Role: "Backend Developer", Level: model.LevelMid},
		},
		{
			name:  "domain defaults to General",
			input: `{"role": "QA Engineer", "level": "junior"}`,
			want:  model.Profile{Domain: "General", Role: "QA Engineer", Level: model.LevelJunior},
		},
		{
			name:  "level normalized",
			input: `{"domain": " ", "role": "SRE", "level": "Senior-Level"}`,
			want:  model.Profile{Domain: "General", Role: "SRE", Level: model.LevelSenior},
		},
		{
			name:    "missing role",
			input:   `{"domain": "Data", "level": "mid"}`,
			wantErr: true,
		},
		{
			name:    "missing level",
			input:   `{"role": "Data Analyst"}`,
			wantErr: true,
		},
		{
			name:    "level outside enum",
			input:   `{"role": "CTO", "level": "principal"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateProfile(mustObj(t, tt.input), tt.input)
			if tt.wantErr {
				if KindOf(err) != KindValidation {
					t.Fatalf("err = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *got != tt.want {
				t.Errorf("got %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestValidationErrorCarriesRaw(t *testing.T) {
	raw := `{"score": "high"}`
	_, err := ValidateEvaluation(mustObj(t, raw), raw)
	ie, ok := err.(*Error)
	if !ok {
		t.Fatalf("err = %T, want *Error", err)
	}
	if !ie.HasRaw || ie.Raw != raw {
		t.Errorf("Raw = %q (HasRaw %v), want %q", ie.Raw, ie.HasRaw, raw)
	}
}
