// Package practice runs a mock interview in the terminal.
//
// The TUI owns a session.Session: it generates questions when the session
// has none, collects an answer per question, asks for an evaluation and
// moves on, and shows a summary at the end. Every state change is saved to
// the session file so an interrupted run resumes where it stopped.
package practice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/timvw/interview-coach/internal/interview"
	"github.com/timvw/interview-coach/internal/model"
	"github.com/timvw/interview-coach/internal/session"
)

// autoAdvanceDelay leaves the score on screen briefly before moving on.
const autoAdvanceDelay = 600 * time.Millisecond

type phase int

const (
	phaseGenerating phase = iota
	phaseAnswering
	phaseEvaluating
	phaseFailed
	phaseResult
)

// operation names the request a failure came from, so 'r' can repeat it.
type operation int

const (
	opGenerate operation = iota
	opEvaluate
)

// messages
type questionsMsg struct {
	questions *model.Questions
	err       error
}

type evaluationMsg struct {
	index      int
	evaluation *model.Evaluation
	err        error
}

type advanceMsg struct {
	index int
}

// TUI runs the interactive practice session.
type TUI struct {
	Interviewer interview.Interviewer
	Session     *session.Session
	// SessionPath is where progress is saved. Empty disables saving.
	SessionPath string
	Theme       Theme
	AutoAdvance bool
}

// tuiModel implements tea.Model
type tuiModel struct {
	iv   interview.Interviewer
	ctx  context.Context
	sess *session.Session
	path string
	st   styles

	phase  phase
	failed operation
	err    error

	answer   textarea.Model
	spinner  spinner.Model
	progress progress.Model

	autoAdvance bool
	message     string

	width  int
	height int
}

// Run blocks until the user quits. The final session state is saved.
func (t *TUI) Run(ctx context.Context) error {
	m := newModel(ctx, t.Interviewer, t.Session, t.SessionPath, t.Theme)
	m.autoAdvance = t.AutoAdvance
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(*tuiModel); ok {
		fm.syncDraft()
		if saveErr := fm.save(); saveErr != nil && err == nil {
			err = saveErr
		}
	}
	return err
}

func newModel(ctx context.Context, iv interview.Interviewer, sess *session.Session, path string, theme Theme) *tuiModel {
	ta := textarea.New()
	ta.Placeholder = "Type your answer..."
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(8)
	ta.SetValue(sess.AnswerDraft)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return &tuiModel{
		iv:       iv,
		ctx:      ctx,
		sess:     sess,
		path:     path,
		st:       newStyles(theme),
		answer:   ta,
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
	}
}

func (m *tuiModel) Init() tea.Cmd {
	switch {
	case m.sess.Finished:
		m.phase = phaseResult
		return nil
	case m.sess.Started():
		m.phase = phaseAnswering
		return m.answer.Focus()
	default:
		m.phase = phaseGenerating
		return tea.Batch(m.spinner.Tick, m.doGenerate())
	}
}

func (m *tuiModel) doGenerate() tea.Cmd {
	iv, ctx, req := m.iv, m.ctx, m.sess.Settings.GenerateRequest()
	return func() tea.Msg {
		qs, err := iv.Generate(ctx, req)
		return questionsMsg{questions: qs, err: err}
	}
}

func (m *tuiModel) doEvaluate(req model.EvaluateRequest) tea.Cmd {
	iv, ctx, index := m.iv, m.ctx, m.sess.Index
	return func() tea.Msg {
		ev, err := iv.Evaluate(ctx, req)
		return evaluationMsg{index: index, evaluation: ev, err: err}
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := min(max(msg.Width-4, 20), 100)
		m.answer.SetWidth(w)
		m.progress.Width = min(w, 60)
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseGenerating && m.phase != phaseEvaluating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case questionsMsg:
		if msg.err != nil {
			m.fail(opGenerate, msg.err)
			return m, nil
		}
		m.sess.Start(msg.questions.Questions)
		m.answer.Reset()
		m.phase = phaseAnswering
		m.message = ""
		m.persist()
		return m, m.answer.Focus()

	case evaluationMsg:
		if msg.index != m.sess.Index {
			return m, nil
		}
		if msg.err != nil {
			m.fail(opEvaluate, msg.err)
			return m, nil
		}
		m.sess.Record(msg.evaluation)
		m.phase = phaseAnswering
		m.message = ""
		m.persist()
		if m.autoAdvance {
			index := m.sess.Index
			return m, tea.Tick(autoAdvanceDelay, func(time.Time) tea.Msg { return advanceMsg{index: index} })
		}
		return m, m.answer.Focus()

	case advanceMsg:
		if m.phase != phaseAnswering || msg.index != m.sess.Index || m.sess.Feedback == nil {
			return m, nil
		}
		return m, m.advance()
	}

	if m.phase == phaseAnswering {
		var cmd tea.Cmd
		m.answer, cmd = m.answer.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.phase {
	case phaseAnswering:
		return m.handleAnswerKey(msg)
	case phaseFailed:
		return m.handleFailedKey(msg)
	case phaseResult:
		return m.handleResultKey(msg)
	default:
		if msg.String() == "esc" {
			return m, tea.Quit
		}
		return m, nil
	}
}

func (m *tuiModel) handleAnswerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit

	case "ctrl+s":
		return m, m.evaluate()

	case "tab":
		// Evaluate first; once evaluated, move on.
		if m.sess.Feedback == nil {
			return m, m.evaluate()
		}
		return m, m.advance()

	case "ctrl+g":
		m.autoAdvance = !m.autoAdvance
		return m, nil
	}

	var cmd tea.Cmd
	m.answer, cmd = m.answer.Update(msg)
	m.syncDraft()
	return m, cmd
}

func (m *tuiModel) handleFailedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		return m, m.retry()
	case "esc":
		if m.failed == opEvaluate {
			m.phase = phaseAnswering
			m.err = nil
			return m, m.answer.Focus()
		}
		return m, tea.Quit
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *tuiModel) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		// New run with the same settings.
		m.sess = session.New(m.sess.Settings)
		m.answer.Reset()
		m.phase = phaseGenerating
		m.persist()
		return m, tea.Batch(m.spinner.Tick, m.doGenerate())
	case "q", "esc", "enter":
		return m, tea.Quit
	}
	return m, nil
}

// evaluate submits the current draft.
func (m *tuiModel) evaluate() tea.Cmd {
	m.syncDraft()
	req, ok := m.sess.EvaluateRequest()
	if !ok {
		m.message = "Write your answer first."
		return nil
	}
	m.phase = phaseEvaluating
	m.message = ""
	m.answer.Blur()
	return tea.Batch(m.spinner.Tick, m.doEvaluate(req))
}

// advance moves to the next question, or to the result screen after the last.
func (m *tuiModel) advance() tea.Cmd {
	more := m.sess.Advance()
	m.answer.Reset()
	m.message = ""
	m.persist()
	if !more {
		m.phase = phaseResult
		m.answer.Blur()
		return nil
	}
	return m.answer.Focus()
}

func (m *tuiModel) retry() tea.Cmd {
	m.err = nil
	switch m.failed {
	case opEvaluate:
		return m.evaluate()
	default:
		m.phase = phaseGenerating
		return tea.Batch(m.spinner.Tick, m.doGenerate())
	}
}

func (m *tuiModel) fail(op operation, err error) {
	m.phase = phaseFailed
	m.failed = op
	m.err = err
}

func (m *tuiModel) syncDraft() {
	if m.sess.Started() && !m.sess.Finished {
		m.sess.AnswerDraft = m.answer.Value()
	}
}

func (m *tuiModel) persist() {
	if err := m.save(); err != nil {
		m.message = fmt.Sprintf("Could not save session: %v", err)
	}
}

func (m *tuiModel) save() error {
	if m.path == "" {
		return nil
	}
	return session.Save(m.path, m.sess)
}

func (m *tuiModel) View() string {
	switch m.phase {
	case phaseGenerating:
		return m.viewBusy("Generating questions")
	case phaseAnswering, phaseEvaluating:
		return m.viewQuestion()
	case phaseFailed:
		return m.viewFailed()
	case phaseResult:
		return m.viewResult()
	}
	return ""
}

func (m *tuiModel) viewHeader(b *strings.Builder) {
	s := m.sess.Settings
	b.WriteString(m.st.title.Render(s.FieldLabel + " Interview"))
	b.WriteString("\n")
	total := len(m.sess.Questions)
	if total == 0 {
		total = s.Count
	}
	b.WriteString(m.st.dim.Render(fmt.Sprintf("Level: %s • Question %d/%d", s.Level, m.sess.Index+1, total)))
	b.WriteString("\n")
}

func (m *tuiModel) viewBusy(what string) string {
	var b strings.Builder
	m.viewHeader(&b)
	b.WriteString("\n")
	b.WriteString(m.spinner.View() + " " + m.st.busy.Render(what+"..."))
	b.WriteString("\n\n")
	b.WriteString(m.hints("esc", "quit"))
	return b.String()
}

func (m *tuiModel) viewQuestion() string {
	var b strings.Builder
	m.viewHeader(&b)
	b.WriteString(m.progress.ViewAs(float64(m.sess.Progress()) / 100))
	b.WriteString("\n\n")

	q, _ := m.sess.Current()
	b.WriteString(m.st.question.Render(q))
	b.WriteString("\n\n")
	b.WriteString(m.answer.View())
	b.WriteString("\n")

	if m.phase == phaseEvaluating {
		b.WriteString(m.spinner.View() + " " + m.st.busy.Render("Evaluating..."))
		b.WriteString("\n")
	}
	if m.message != "" {
		b.WriteString(m.st.err.Render(m.message))
		b.WriteString("\n")
	}

	if fb := m.sess.Feedback; fb != nil {
		b.WriteString("\n")
		b.WriteString(m.scoreBadge(fb.Score))
		b.WriteString("\n")
		b.WriteString(m.st.panel.Render(m.feedbackBody(fb)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	auto := "auto-advance:OFF"
	if m.autoAdvance {
		auto = "auto-advance:ON"
	}
	next := "next (auto evaluate)"
	if m.sess.Feedback != nil {
		next = "next"
	}
	evaluate := "evaluate"
	if m.sess.Feedback != nil {
		evaluate = "re-evaluate"
	}
	b.WriteString(m.hints("ctrl+s", evaluate, "tab", next, "ctrl+g", auto, "esc", "save & quit"))
	return b.String()
}

func (m *tuiModel) feedbackBody(fb *model.Evaluation) string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("Feedback"))
	b.WriteString("\n")
	b.WriteString(m.st.text.Render(fb.Feedback))
	if len(fb.KeyPoints) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.st.title.Render("Key points to mention"))
		for _, k := range fb.KeyPoints {
			b.WriteString("\n")
			b.WriteString(m.st.point.Render("• " + k))
		}
	}
	if fb.ExpectedAnswer != "" {
		b.WriteString("\n\n")
		b.WriteString(m.st.title.Render("Expected answer"))
		b.WriteString("\n")
		b.WriteString(m.st.text.Render(fb.ExpectedAnswer))
	}
	return b.String()
}

func (m *tuiModel) scoreBadge(score int) string {
	return m.st.scoreStyle(score).Render(fmt.Sprintf("%d/100 • %s", score, session.ScoreLabel(score)))
}

func (m *tuiModel) viewFailed() string {
	var b strings.Builder
	m.viewHeader(&b)
	b.WriteString("\n")
	what := "Failed to generate questions."
	back := "quit"
	if m.failed == opEvaluate {
		what = "Failed to evaluate answer."
		back = "back to answer"
	}
	b.WriteString(m.st.err.Render(what))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.st.dim.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.hints("r", "retry", "esc", back, "q", "quit"))
	return b.String()
}

func (m *tuiModel) viewResult() string {
	var b strings.Builder
	s := m.sess.Settings
	b.WriteString(m.st.title.Render("Result"))
	b.WriteString("\n")
	b.WriteString(m.st.dim.Render(fmt.Sprintf("%s • %s", s.FieldLabel, s.Level)))
	b.WriteString("\n\n")

	avg := m.sess.Average()
	b.WriteString("Overall Score: " + m.scoreBadge(avg))
	b.WriteString("\n")
	b.WriteString(m.st.dim.Render(fmt.Sprintf("Answered: %d questions", m.sess.Answered())))
	b.WriteString("\n\n")

	for i, q := range m.sess.Questions {
		score := "-"
		if i < len(m.sess.Scores) && m.sess.Scores[i] != nil {
			score = fmt.Sprintf("%d", m.sess.Scores[i].Score)
		}
		b.WriteString(fmt.Sprintf("%2d. %s\n", i+1, m.st.dim.Render(q)))
		b.WriteString(fmt.Sprintf("    Score: %s / 100\n", score))
	}
	b.WriteString("\n")
	b.WriteString(m.hints("n", "new interview", "q", "quit"))
	return b.String()
}

// hints renders key/description pairs.
func (m *tuiModel) hints(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, m.st.hintKey.Render(pairs[i])+" "+m.st.hintDesc.Render(pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}
