package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/interview-coach/internal/interview"
	"github.com/timvw/interview-coach/internal/model"
	"github.com/timvw/interview-coach/internal/session"
)

var (
	flagAskField    string
	flagAskLevel    string
	flagAskCount    int
	flagAskQuestion string
	flagAskAnswer   string
	flagAskProfile  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate interview questions",
	Long: `Generate interview questions for a field and level and print them as JSON.

--field accepts a track key (see "tracks") or any free-text role.
The count is clamped to 3..20.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, func(iv interview.Interviewer) (any, error) {
			return iv.Generate(cmd.Context(), model.GenerateRequest{
				FieldLabel: fieldLabel(flagAskField),
				Level:      flagAskLevel,
				Count:      flagAskCount,
			})
		})
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score an answer to an interview question",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, func(iv interview.Interviewer) (any, error) {
			return iv.Evaluate(cmd.Context(), model.EvaluateRequest{
				FieldLabel: fieldLabel(flagAskField),
				Level:      flagAskLevel,
				Question:   flagAskQuestion,
				Answer:     flagAskAnswer,
			})
		})
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Infer a practice track from a free-text profile",
	Long: `Analyze a CV or background description and print the inferred
domain, role and level as JSON. Use --profile - to read from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := readProfile(flagAskProfile)
		if err != nil {
			return err
		}
		return runAction(cmd, func(iv interview.Interviewer) (any, error) {
			return iv.Analyze(cmd.Context(), model.AnalyzeRequest{Profile: profile})
		})
	},
}

func init() {
	generateCmd.Flags().StringVar(&flagAskField, "field", "", "track key or role label")
	generateCmd.Flags().StringVar(&flagAskLevel, "level", "", "intern, junior, mid or senior")
	generateCmd.Flags().IntVar(&flagAskCount, "count", session.DefaultCount, "number of questions (3-20)")

	evaluateCmd.Flags().StringVar(&flagAskField, "field", "", "track key or role label")
	evaluateCmd.Flags().StringVar(&flagAskLevel, "level", "", "intern, junior, mid or senior")
	evaluateCmd.Flags().StringVar(&flagAskQuestion, "question", "", "the interview question")
	evaluateCmd.Flags().StringVar(&flagAskAnswer, "answer", "", "the candidate's answer")

	analyzeCmd.Flags().StringVar(&flagAskProfile, "profile", "", `profile text, or "-" for stdin`)

	rootCmd.AddCommand(generateCmd, evaluateCmd, analyzeCmd)
}

// runAction runs one action in-process and prints the result as JSON.
// Failures print the same error body the HTTP API would return.
func runAction(cmd *cobra.Command, action func(interview.Interviewer) (any, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr)
	tel, metrics := initTelemetry(cmd.Context(), cfg)
	if tel != nil {
		defer tel.Shutdown(cmd.Context())
	}

	result, err := action(newService(cfg, metrics, logger))
	if err != nil {
		var ie *interview.Error
		if errors.As(err, &ie) {
			body := model.ErrorResponse{Error: ie.Message}
			if ie.HasRaw {
				raw := ie.Raw
				body.Raw = &raw
			}
			_ = writeJSON(body)
		}
		return err
	}
	return writeJSON(result)
}

// fieldLabel maps a track key to its label; other input is used verbatim.
func fieldLabel(field string) string {
	t, _ := session.LookupTrack(field)
	return t.Label
}

func readProfile(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading profile from stdin: %w", err)
	}
	return string(data), nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
