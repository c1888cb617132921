package practice

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/timvw/interview-coach/internal/model"
	"github.com/timvw/interview-coach/internal/session"
)

// fakeInterviewer answers synchronously and counts calls.
type fakeInterviewer struct {
	questions []string
	genErr    error
	eval      *model.Evaluation
	evalErr   error

	genCalls  int
	evalCalls int
	lastEval  model.EvaluateRequest
}

func (f *fakeInterviewer) Generate(_ context.Context, _ model.GenerateRequest) (*model.Questions, error) {
	f.genCalls++
	if f.genErr != nil {
		return nil, f.genErr
	}
	return &model.Questions{Questions: f.questions}, nil
}

func (f *fakeInterviewer) Evaluate(_ context.Context, req model.EvaluateRequest) (*model.Evaluation, error) {
	f.evalCalls++
	f.lastEval = req
	if f.evalErr != nil {
		return nil, f.evalErr
	}
	return f.eval, nil
}

func (f *fakeInterviewer) Analyze(_ context.Context, _ model.AnalyzeRequest) (*model.Profile, error) {
	return nil, errors.New("not used")
}

func testSettings() session.Settings {
	return session.Settings{Field: "backend", FieldLabel: "Backend Developer", Level: model.LevelJunior, Count: 3}
}

func newTestModel(t *testing.T, iv *fakeInterviewer, sess *session.Session) (*tuiModel, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	m := newModel(context.Background(), iv, sess, path, DarkTheme())
	m.width, m.height = 100, 40
	return m, path
}

// drain runs cmd and any batched commands, returning the messages that are
// not spinner ticks. Only use it on commands that do not sleep.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	switch msg.(type) {
	case questionsMsg, evaluationMsg, advanceMsg:
		return []tea.Msg{msg}
	}
	return nil
}

// feed delivers every message produced by cmd to the model.
func feed(m *tuiModel, cmd tea.Cmd) {
	for _, msg := range drain(cmd) {
		m.Update(msg)
	}
}

func typeText(m *tuiModel, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func key(m *tuiModel, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+g":
		msg = tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func startedModel(t *testing.T, iv *fakeInterviewer) (*tuiModel, string) {
	t.Helper()
	m, path := newTestModel(t, iv, session.New(testSettings()))
	feed(m, m.Init())
	if m.phase != phaseAnswering {
		t.Fatalf("setup: phase = %v, want answering (err %v)", m.phase, m.err)
	}
	return m, path
}

func TestInit_GeneratesQuestionsAndSaves(t *testing.T) {
	iv := &fakeInterviewer{questions: []string{"Q one", "Q two", "Q three"}}
	m, path := newTestModel(t, iv, session.New(testSettings()))

	cmd := m.Init()
	if m.phase != phaseGenerating {
		t.Fatalf("phase = %v, want generating", m.phase)
	}
	feed(m, cmd)

	if iv.genCalls != 1 {
		t.Errorf("Generate calls = %d, want 1", iv.genCalls)
	}
	if m.phase != phaseAnswering {
		t.Fatalf("phase = %v, want answering", m.phase)
	}
	saved, err := session.Load(path)
	if err != nil {
		t.Fatalf("session not saved: %v", err)
	}
	if len(saved.Questions) != 3 || saved.Index != 0 {
		t.Errorf("saved session = %+v", saved)
	}
}

func TestGenerateFailure_RetryWithR(t *testing.T) {
	iv := &fakeInterviewer{genErr: errors.New("Provider error (HTTP 500)")}
	m, _ := newTestModel(t, iv, session.New(testSettings()))
	feed(m, m.Init())

	if m.phase != phaseFailed || m.failed != opGenerate {
		t.Fatalf("phase = %v failed = %v, want failed generate", m.phase, m.failed)
	}
	if !strings.Contains(m.View(), "Failed to generate questions.") {
		t.Errorf("view should report the failure:\n%s", m.View())
	}
	if m.sess.Started() {
		t.Error("no questions should be fabricated on failure")
	}

	iv.genErr = nil
	iv.questions = []string{"Q one", "Q two", "Q three"}
	feed(m, key(m, "r"))

	if iv.genCalls != 2 {
		t.Errorf("Generate calls = %d, want 2", iv.genCalls)
	}
	if m.phase != phaseAnswering {
		t.Errorf("phase = %v after retry, want answering", m.phase)
	}
}

func TestEvaluate_RequiresAnswer(t *testing.T) {
	iv := &fakeInterviewer{questions: []string{"Q one", "Q two", "Q three"}}
	m, _ := startedModel(t, iv)

	if cmd := key(m, "ctrl+s"); cmd != nil {
		t.Error("evaluate without an answer should not issue a request")
	}
	if m.message != "Write your answer first." {
		t.Errorf("message = %q", m.message)
	}
	if iv.evalCalls != 0 {
		t.Errorf("Evaluate calls = %d, want 0", iv.evalCalls)
	}
}

func TestFullInterview(t *testing.T) {
	iv := &fakeInterviewer{
		questions: []string{"Q one", "Q two", "Q three"},
		eval:      &model.Evaluation{Score: 80, Feedback: "Solid", KeyPoints: []string{"indexes"}, ExpectedAnswer: "B-trees"},
	}
	m, path := startedModel(t, iv)

	// Question 1: tab evaluates first, then advances.
	typeText(m, "my first answer")
	if m.sess.AnswerDraft != "my first answer" {
		t.Fatalf("draft = %q", m.sess.AnswerDraft)
	}
	cmd := key(m, "tab")
	if m.phase != phaseEvaluating {
		t.Fatalf("phase = %v, want evaluating", m.phase)
	}
	feed(m, cmd)
	if iv.lastEval.Question != "Q one" || iv.lastEval.Answer != "my first answer" || iv.lastEval.FieldLabel != "Backend Developer" {
		t.Errorf("evaluate request = %+v", iv.lastEval)
	}
	if m.sess.Feedback == nil || m.sess.Scores[0].Score != 80 {
		t.Fatalf("evaluation not recorded: %+v", m.sess.Scores)
	}
	view := m.View()
	for _, want := range []string{"80/100", "Good", "Solid", "indexes", "B-trees"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	key(m, "tab")
	if m.sess.Index != 1 || m.sess.AnswerDraft != "" || m.answer.Value() != "" {
		t.Fatalf("after advance: index %d draft %q", m.sess.Index, m.sess.AnswerDraft)
	}

	// Question 2: a failed evaluation is dismissed, then retried.
	iv.evalErr = errors.New("timeout")
	typeText(m, "second")
	feed(m, key(m, "ctrl+s"))
	if m.phase != phaseFailed || m.failed != opEvaluate {
		t.Fatalf("phase = %v, want failed evaluate", m.phase)
	}
	key(m, "esc")
	if m.phase != phaseAnswering {
		t.Fatalf("esc should return to the answer, phase = %v", m.phase)
	}
	if m.sess.Scores[1] != nil {
		t.Error("failed evaluation must not record a score")
	}
	iv.evalErr = nil
	key(m, "r") // plain text while answering
	if !strings.HasSuffix(m.sess.AnswerDraft, "r") {
		t.Errorf("'r' should be typed into the answer, draft = %q", m.sess.AnswerDraft)
	}
	feed(m, key(m, "ctrl+s"))
	key(m, "tab")

	// Question 3, the last one.
	typeText(m, "third")
	feed(m, key(m, "ctrl+s"))
	key(m, "tab")

	if m.phase != phaseResult {
		t.Fatalf("phase = %v, want result", m.phase)
	}
	view = m.View()
	for _, want := range []string{"Overall Score", "80/100", "Answered: 3 questions", "Q three"} {
		if !strings.Contains(view, want) {
			t.Errorf("result view missing %q:\n%s", want, view)
		}
	}

	saved, err := session.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !saved.Finished || saved.Answered() != 3 {
		t.Errorf("saved session finished=%v answered=%d", saved.Finished, saved.Answered())
	}
}

func TestAutoAdvance(t *testing.T) {
	iv := &fakeInterviewer{questions: []string{"Q one", "Q two", "Q three"}, eval: &model.Evaluation{Score: 60}}
	m, _ := startedModel(t, iv)

	key(m, "ctrl+g")
	if !m.autoAdvance {
		t.Fatal("ctrl+g should enable auto-advance")
	}
	typeText(m, "answer")
	for _, msg := range drain(key(m, "ctrl+s")) {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatal("auto-advance should schedule a move")
		}
	}
	if m.sess.Index != 0 {
		t.Fatal("advance must wait for the delay")
	}

	m.Update(advanceMsg{index: 0})
	if m.sess.Index != 1 {
		t.Errorf("Index = %d after advanceMsg, want 1", m.sess.Index)
	}

	// A stale advance is ignored.
	m.Update(advanceMsg{index: 0})
	if m.sess.Index != 1 {
		t.Errorf("stale advanceMsg moved to %d", m.sess.Index)
	}
}

func TestStaleEvaluationIgnored(t *testing.T) {
	iv := &fakeInterviewer{questions: []string{"Q one", "Q two", "Q three"}}
	m, _ := startedModel(t, iv)

	m.Update(evaluationMsg{index: 2, evaluation: &model.Evaluation{Score: 99}})
	if m.sess.Feedback != nil || m.sess.Answered() != 0 {
		t.Error("evaluation for another question should be ignored")
	}
}

func TestResumeSession(t *testing.T) {
	sess := session.New(testSettings())
	sess.Start([]string{"Q one", "Q two", "Q three"})
	sess.Record(&model.Evaluation{Score: 90})
	sess.Advance()
	sess.AnswerDraft = "half written"

	iv := &fakeInterviewer{}
	m, _ := newTestModel(t, iv, sess)
	m.Init()

	if iv.genCalls != 0 {
		t.Error("resuming must not regenerate questions")
	}
	if m.phase != phaseAnswering {
		t.Fatalf("phase = %v, want answering", m.phase)
	}
	if m.answer.Value() != "half written" {
		t.Errorf("draft = %q, want restored", m.answer.Value())
	}
	view := m.View()
	if !strings.Contains(view, "Level: junior • Question 2/3") || !strings.Contains(view, "Q two") {
		t.Errorf("view:\n%s", view)
	}
}

func TestFinishedSessionShowsResult_NewRun(t *testing.T) {
	sess := session.New(testSettings())
	sess.Start([]string{"Q one", "Q two", "Q three"})
	sess.Record(&model.Evaluation{Score: 40})
	sess.Advance()
	sess.Advance()
	sess.Advance()

	iv := &fakeInterviewer{questions: []string{"New one", "New two", "New three"}}
	m, _ := newTestModel(t, iv, sess)
	m.Init()
	if m.phase != phaseResult {
		t.Fatalf("phase = %v, want result", m.phase)
	}
	if !strings.Contains(m.View(), "Needs Work") {
		t.Errorf("result view:\n%s", m.View())
	}

	feed(m, key(m, "n"))
	if m.phase != phaseAnswering {
		t.Fatalf("phase = %v after new run", m.phase)
	}
	if q, _ := m.sess.Current(); q != "New one" {
		t.Errorf("Current = %q", q)
	}
	if m.sess.Answered() != 0 || m.sess.Settings != testSettings() {
		t.Errorf("new run should keep settings and reset scores: %+v", m.sess)
	}
}

func TestQuitKeys(t *testing.T) {
	iv := &fakeInterviewer{questions: []string{"Q one", "Q two", "Q three"}}
	m, _ := startedModel(t, iv)

	for _, k := range []string{"esc", "ctrl+c"} {
		cmd := key(m, k)
		if cmd == nil {
			t.Fatalf("%s should quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not return tea.Quit", k)
		}
	}
}

func TestThemeByName(t *testing.T) {
	if ThemeByName("light") != LightTheme() {
		t.Error("light theme not selected")
	}
	if ThemeByName("") != DarkTheme() || ThemeByName("solarized") != DarkTheme() {
		t.Error("unknown names should fall back to dark")
	}
}

func TestScoreStyleBands(t *testing.T) {
	st := newStyles(DarkTheme())
	if st.scoreStyle(90).GetForeground() != DarkTheme().Success {
		t.Error("90 should use the success color")
	}
	if st.scoreStyle(10).GetForeground() != DarkTheme().Error {
		t.Error("10 should use the error color")
	}
}
