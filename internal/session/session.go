// Package session holds the practice client's interview state.
//
// A Session is a plain value: the settings chosen for the run, the
// generated questions, the current index, one evaluation slot per question
// and the unsent answer draft. Save, Load and Clear persist it as JSON at a
// path; nothing is stored server-side.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/timvw/interview-coach/internal/model"
)

// DefaultCount is the number of questions asked when none is chosen.
const DefaultCount = 8

// Settings are chosen once per run.
type Settings struct {
	Field      string      `json:"field"`
	FieldLabel string      `json:"fieldLabel"`
	Level      model.Level `json:"level"`
	Count      int         `json:"count"`
	// ProfileText is the free-text background analyzed into a track, if any.
	ProfileText string `json:"profileText,omitempty"`
}

// GenerateRequest returns the request that starts a run with these settings.
func (s Settings) GenerateRequest() model.GenerateRequest {
	return model.GenerateRequest{FieldLabel: s.FieldLabel, Level: string(s.Level), Count: s.Count}
}

// Session is the state of one mock interview.
type Session struct {
	Settings  Settings `json:"settings"`
	Questions []string `json:"questions"`
	Index     int      `json:"index"`
	// Scores has one slot per question; nil means not yet evaluated.
	Scores      []*model.Evaluation `json:"scores"`
	AnswerDraft string              `json:"answerDraft"`
	// Feedback is the evaluation of the current answer, if any.
	Feedback *model.Evaluation `json:"feedback"`
	Finished bool              `json:"finished"`
}

// New returns an empty session for settings.
func New(settings Settings) *Session {
	return &Session{Settings: settings}
}

// Start installs freshly generated questions and resets progress.
func (s *Session) Start(questions []string) {
	s.Questions = append([]string(nil), questions...)
	s.Index = 0
	s.Scores = make([]*model.Evaluation, len(questions))
	s.AnswerDraft = ""
	s.Feedback = nil
	s.Finished = false
}

// Started reports whether questions have been generated.
func (s *Session) Started() bool {
	return len(s.Questions) > 0
}

// Current returns the question being answered.
func (s *Session) Current() (string, bool) {
	if s.Index < 0 || s.Index >= len(s.Questions) {
		return "", false
	}
	return s.Questions[s.Index], true
}

// EvaluateRequest returns the request that scores the current draft.
func (s *Session) EvaluateRequest() (model.EvaluateRequest, bool) {
	q, ok := s.Current()
	if !ok || strings.TrimSpace(s.AnswerDraft) == "" {
		return model.EvaluateRequest{}, false
	}
	return model.EvaluateRequest{
		FieldLabel: s.Settings.FieldLabel,
		Level:      string(s.Settings.Level),
		Question:   q,
		Answer:     s.AnswerDraft,
	}, true
}

// Record stores the evaluation of the current question. Re-evaluating
// replaces the previous score.
func (s *Session) Record(e *model.Evaluation) {
	if s.Index < 0 || s.Index >= len(s.Questions) {
		return
	}
	for len(s.Scores) < len(s.Questions) {
		s.Scores = append(s.Scores, nil)
	}
	s.Scores[s.Index] = e
	s.Feedback = e
}

// Advance moves to the next question and clears the draft. On the last
// question it marks the session finished and returns false.
func (s *Session) Advance() bool {
	s.AnswerDraft = ""
	s.Feedback = nil
	if s.Index+1 >= len(s.Questions) {
		s.Finished = true
		return false
	}
	s.Index++
	return true
}

// Progress is the share of questions already passed, in percent.
func (s *Session) Progress() int {
	if len(s.Questions) == 0 {
		return 0
	}
	if s.Finished {
		return 100
	}
	return int(math.Round(float64(s.Index) / float64(len(s.Questions)) * 100))
}

// Answered counts evaluated questions.
func (s *Session) Answered() int {
	n := 0
	for _, e := range s.Scores {
		if e != nil {
			n++
		}
	}
	return n
}

// Average is the rounded mean score over evaluated questions, or 0.
func (s *Session) Average() int {
	n, sum := 0, 0
	for _, e := range s.Scores {
		if e == nil {
			continue
		}
		n++
		sum += e.Score
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// ScoreLabel names a score band.
func ScoreLabel(score int) string {
	switch {
	case score >= 85:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= 50:
		return "Average"
	default:
		return "Needs Work"
	}
}

// DefaultPath returns the session file location under the XDG state dir.
func DefaultPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "interview-coach", "session.json")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "interview-coach", "session.json")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("interview-coach-%d", os.Getuid()), "session.json")
}

// Load reads a session. A missing file yields an error matching
// fs.ErrNotExist.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", path, err)
	}
	if s.Index < 0 || (len(s.Questions) > 0 && s.Index >= len(s.Questions)) {
		return nil, fmt.Errorf("session %s: index %d out of range", path, s.Index)
	}
	return &s, nil
}

// Save writes the session atomically, creating parent directories.
func Save(path string, s *Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".session-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Clear removes the session file. A missing file is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
