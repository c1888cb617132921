// Package prompt builds the user prompts sent to the completion endpoint.
//
// Every template embeds the literal JSON shape the response must follow so
// the model is primed to emit exactly one object of that shape.
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/timvw/interview-coach/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Generate returns the prompt for a generate action. count must already be
// clamped by the caller so the instruction matches later truncation.
func Generate(req model.GenerateRequest, count int) (string, error) {
	return render("generate.tmpl", struct {
		FieldLabel string
		Level      string
		Count      int
	}{
		FieldLabel: strings.TrimSpace(req.FieldLabel),
		Level:      strings.TrimSpace(req.Level),
		Count:      count,
	})
}

// Evaluate returns the prompt for an evaluate action.
func Evaluate(req model.EvaluateRequest) (string, error) {
	return render("evaluate.tmpl", struct {
		FieldLabel string
		Level      string
		Question   string
		Answer     string
	}{
		FieldLabel: strings.TrimSpace(req.FieldLabel),
		Level:      strings.TrimSpace(req.Level),
		Question:   strings.TrimSpace(req.Question),
		Answer:     strings.TrimSpace(req.Answer),
	})
}

// Analyze returns the prompt for an analyze action.
func Analyze(req model.AnalyzeRequest) (string, error) {
	return render("analyze.tmpl", struct{ Profile string }{
		Profile: strings.TrimSpace(req.Profile),
	})
}

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}
