package model

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input  string
		want   Level
		wantOK bool
	}{
		{"junior", LevelJunior, true},
		{"  Senior ", LevelSenior, true},
		{"MID", LevelMid, true},
		{"mid-level", LevelMid, true},
		{"Intern level", LevelIntern, true},
		{"principal", "", false},
		{"", "", false},
		{"level", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range []string{"generate", "evaluate", "analyze"} {
		if got, ok := ParseAction(a); !ok || string(got) != a {
			t.Errorf("ParseAction(%q) = %q, %v", a, got, ok)
		}
	}
	if _, ok := ParseAction("score"); ok {
		t.Error("ParseAction(score) should fail")
	}
}

func TestGenerateRequestValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMissing []string
	}{
		{
			name: "complete",
			body: `{"fieldLabel":"Backend Developer","level":"junior","count":5}`,
		},
		{
			name: "count as string",
			body: `{"fieldLabel":"Backend Developer","level":"junior","count":"8"}`,
		},
		{
			name: "count out of range is still present",
			body: `{"fieldLabel":"Backend Developer","level":"junior","count":500}`,
		},
		{
			name:        "empty body",
			body:        `{}`,
			wantMissing: []string{"fieldLabel", "level", "count"},
		},
		{
			name:        "blank level and zero count",
			body:        `{"fieldLabel":"QA","level":"   ","count":0}`,
			wantMissing: []string{"level", "count"},
		},
		{
			name:        "null count",
			body:        `{"fieldLabel":"QA","level":"mid","count":null}`,
			wantMissing: []string{"count"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req GenerateRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			err := req.Validate()
			if tt.wantMissing == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var mf *MissingFieldsError
			if !errors.As(err, &mf) {
				t.Fatalf("Validate() = %v, want MissingFieldsError", err)
			}
			if !reflect.DeepEqual(mf.Fields, tt.wantMissing) {
				t.Errorf("missing = %v, want %v", mf.Fields, tt.wantMissing)
			}
		})
	}
}

func TestEvaluateRequestValidate(t *testing.T) {
	req := EvaluateRequest{FieldLabel: "Frontend Developer", Level: "mid", Question: "What is a closure?"}
	err := req.Validate()
	var mf *MissingFieldsError
	if !errors.As(err, &mf) {
		t.Fatalf("Validate() = %v, want MissingFieldsError", err)
	}
	if mf.Error() != "Missing answer" {
		t.Errorf("Error() = %q, want %q", mf.Error(), "Missing answer")
	}

	req.Answer = "A function that captures its lexical scope."
	if err := req.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestAnalyzeRequestValidate(t *testing.T) {
	if err := (AnalyzeRequest{Profile: "\n\t"}).Validate(); err == nil {
		t.Error("blank profile should fail validation")
	}
	if err := (AnalyzeRequest{Profile: "3 years of Go"}).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr any
	}{
		{"valid", Profile{Domain: "Engineering", Role: "Backend Developer", Level: LevelMid}, nil},
		{"missing role", Profile{Domain: "General", Level: LevelJunior}, &MissingFieldsError{}},
		{"unknown level", Profile{Role: "SRE", Level: "principal"}, &InvalidFieldError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
			case *MissingFieldsError:
				if !errors.As(err, &want) {
					t.Errorf("Validate() = %v, want MissingFieldsError", err)
				}
			case *InvalidFieldError:
				if !errors.As(err, &want) {
					t.Errorf("Validate() = %v, want InvalidFieldError", err)
				}
			}
		})
	}
}

func TestEvaluationJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Evaluation{Score: 80, KeyPoints: []string{"a"}})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"score", "feedback", "keyPoints", "expectedAnswer"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing JSON key %q in %s", key, data)
		}
	}
}
