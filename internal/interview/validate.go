package interview

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/timvw/interview-coach/internal/model"
)

// Question count bounds. Requests outside the range are clamped silently.
const (
	MinQuestions = 3
	MaxQuestions = 20
)

// MaxKeyPoints caps the key points kept from an evaluation.
const MaxKeyPoints = 10

// DefaultDomain is used when the model leaves the analyze domain empty.
const DefaultDomain = "General"

var enumerationPrefix = regexp.MustCompile(`^\d+[).\s-]+`)

// ClampInt rounds v to the nearest integer and bounds it to [lo, hi].
// Non-numeric and non-finite values yield lo.
func ClampInt(v any, lo, hi int) int {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return lo
	}
	n := math.Round(f)
	if n < float64(lo) {
		return lo
	}
	if n > float64(hi) {
		return hi
	}
	return int(n)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ValidateQuestions applies the generate contract: questions must be an
// array with at least one usable entry. Non-string and blank entries are
// dropped, enumeration prefixes such as "1) " are stripped, and the result is
// truncated to count.
func ValidateQuestions(obj map[string]any, count int, raw string) (*model.Questions, error) {
	items, ok := obj["questions"].([]any)
	if !ok {
		return nil, validationError("expected JSON with questions[]", raw)
	}

	questions := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		q := strings.TrimSpace(enumerationPrefix.ReplaceAllString(strings.TrimSpace(s), ""))
		if q == "" {
			continue
		}
		questions = append(questions, q)
		if len(questions) == count {
			break
		}
	}

	if len(questions) == 0 {
		return nil, validationError("empty questions", raw)
	}
	return &model.Questions{Questions: questions}, nil
}

// ValidateEvaluation applies the evaluate contract. A missing or
// non-numeric score fails; an out-of-range score is clamped to [0,100].
func ValidateEvaluation(obj map[string]any, raw string) (*model.Evaluation, error) {
	score, ok := obj["score"]
	if !ok {
		return nil, validationError("expected JSON with score", raw)
	}
	f, ok := score.(float64)
	if !ok {
		return nil, validationError(fmt.Sprintf("score is not a number: %v", score), raw)
	}

	return &model.Evaluation{
		Score:          ClampInt(f, 0, 100),
		Feedback:       stringField(obj, "feedback"),
		KeyPoints:      keyPoints(obj["keyPoints"]),
		ExpectedAnswer: stringField(obj, "expectedAnswer"),
	}, nil
}

// ValidateProfile applies the analyze contract. Role and level are
// required; level is normalized and must name a known level.
func ValidateProfile(obj map[string]any, raw string) (*model.Profile, error) {
	role := stringField(obj, "role")
	levelText := stringField(obj, "level")

	var missing []string
	if role == "" {
		missing = append(missing, "role")
	}
	if levelText == "" {
		missing = append(missing, "level")
	}
	if len(missing) > 0 {
		return nil, validationError("missing "+strings.Join(missing, "/"), raw)
	}

	level, ok := model.ParseLevel(levelText)
	if !ok {
		return nil, validationError(fmt.Sprintf("unknown level %q", levelText), raw)
	}

	domain := stringField(obj, "domain")
	if domain == "" {
		domain = DefaultDomain
	}

	p := &model.Profile{Domain: domain, Role: role, Level: level}
	if err := p.Validate(); err != nil {
		return nil, validationError(err.Error(), raw)
	}
	return p, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func keyPoints(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	points := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		points = append(points, s)
		if len(points) == MaxKeyPoints {
			break
		}
	}
	return points
}
