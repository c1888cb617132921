package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/timvw/interview-coach/internal/client"
	"github.com/timvw/interview-coach/internal/interview"
	"github.com/timvw/interview-coach/internal/model"
	"github.com/timvw/interview-coach/internal/practice"
	"github.com/timvw/interview-coach/internal/session"
)

var (
	flagServer      string
	flagTrack       string
	flagLevel       string
	flagCount       int
	flagProfile     string
	flagReset       bool
	flagAutoAdvance bool
	flagTheme       string
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run a mock interview in the terminal",
	Long: `Run a mock interview: answer one question at a time, get a score with
feedback after each answer, and a summary at the end.

Progress is saved after every step and resumed on the next run. Pass a
different --track, --level or --count, or --reset, to start over.

By default the interview runs in-process with the configured provider.
Use --server to practice against a running "interview-coach serve".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd.Context())
	},
}

func init() {
	practiceCmd.Flags().StringVar(&flagServer, "server", "", "interview server base URL, e.g. http://localhost:3001")
	practiceCmd.Flags().StringVar(&flagTrack, "track", "", `track key or custom role (see "tracks"; default: frontend)`)
	practiceCmd.Flags().StringVar(&flagLevel, "level", "", "intern, junior, mid or senior (default: junior)")
	practiceCmd.Flags().IntVar(&flagCount, "count", 0, "number of questions, 3-20 (default: 8)")
	practiceCmd.Flags().StringVar(&flagProfile, "profile", "", `free-text background to infer track and level from, or "-" for stdin`)
	practiceCmd.Flags().BoolVar(&flagReset, "reset", false, "discard any saved session")
	practiceCmd.Flags().BoolVar(&flagAutoAdvance, "auto-advance", false, "move to the next question right after feedback")
	practiceCmd.Flags().StringVar(&flagTheme, "theme", "", "color theme: dark, light")
	rootCmd.AddCommand(practiceCmd)
}

func runPractice(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.SessionFile
	if path == "" {
		path = session.DefaultPath()
	}
	if flagReset {
		if err := session.Clear(path); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
	}

	// The TUI owns the terminal; logs go nowhere unless --verbose.
	var logOut io.Writer = io.Discard
	if flagVerbose {
		logOut = os.Stderr
	}
	logger := newLogger(logOut)

	var iv interview.Interviewer
	if flagServer != "" {
		c, err := client.New(flagServer)
		if err != nil {
			return err
		}
		if h, err := c.Health(ctx); err != nil {
			return fmt.Errorf("interview server %s: %w", flagServer, err)
		} else if !h.HasKey && !h.Offline {
			fmt.Fprintf(os.Stderr, "warning: %s has no API key configured\n", flagServer)
		}
		iv = c
	} else {
		tel, metrics := initTelemetry(ctx, cfg)
		if tel != nil {
			defer tel.Shutdown(context.Background())
		}
		svc := newService(cfg, metrics, logger)
		if !svc.Ready() {
			return fmt.Errorf("no API key configured for %s (set INTERVIEW_COACH_API_KEY or use --offline)", cfg.Provider)
		}
		iv = svc
	}

	settings, err := practiceSettings(ctx, iv)
	if err != nil {
		return err
	}
	sess, resumed, err := resumeOrNew(path, settings)
	if err != nil {
		return err
	}

	theme := cfg.Theme
	if flagTheme != "" {
		theme = flagTheme
	}

	// Ask for whatever the flags left open when starting fresh on a terminal.
	if !resumed && flagTrack == "" && flagProfile == "" && interactive() {
		s, err := practice.Setup(ctx, sess.Settings, theme)
		if errors.Is(err, practice.ErrSetupCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		sess = session.New(s)
	}

	tui := &practice.TUI{
		Interviewer: iv,
		Session:     sess,
		SessionPath: path,
		Theme:       practice.ThemeByName(theme),
		AutoAdvance: flagAutoAdvance,
	}
	return tui.Run(ctx)
}

// practiceSettings resolves the run settings from flags, analyzing the
// profile first when one is given. Unset fields are left zero so a saved
// session can fill them in.
func practiceSettings(ctx context.Context, iv interview.Interviewer) (session.Settings, error) {
	var s session.Settings

	if flagProfile != "" {
		text, err := readProfile(flagProfile)
		if err != nil {
			return s, err
		}
		fmt.Fprintln(os.Stderr, "analyzing profile...")
		p, err := iv.Analyze(ctx, model.AnalyzeRequest{Profile: text})
		if err != nil {
			return s, fmt.Errorf("analyzing profile: %w", err)
		}
		fmt.Fprintf(os.Stderr, "profile: %s / %s (%s)\n", p.Domain, p.Role, p.Level)
		s.Field = p.Role
		s.FieldLabel = p.Role
		s.Level = p.Level
		s.ProfileText = text
	}

	if flagTrack != "" {
		t, _ := session.LookupTrack(flagTrack)
		s.Field, s.FieldLabel = t.Key, t.Label
	}
	if flagLevel != "" {
		l, ok := model.ParseLevel(flagLevel)
		if !ok {
			return s, fmt.Errorf("invalid level %q (use intern, junior, mid or senior)", flagLevel)
		}
		s.Level = l
	}
	if flagCount != 0 {
		s.Count = interview.ClampInt(flagCount, interview.MinQuestions, interview.MaxQuestions)
	}
	return s, nil
}

// resumeOrNew loads the saved session when it is compatible with the
// requested settings, and starts a new one otherwise.
func resumeOrNew(path string, want session.Settings) (*session.Session, bool, error) {
	saved, err := session.Load(path)
	switch {
	case err == nil:
		if compatible(saved.Settings, want) {
			return saved, true, nil
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		fmt.Fprintf(os.Stderr, "warning: ignoring saved session: %v\n", err)
	}

	return session.New(withDefaults(want)), false, nil
}

// interactive reports whether stdin and stdout are terminals.
func interactive() bool {
	tty := func(fd uintptr) bool { return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) }
	return tty(os.Stdin.Fd()) && tty(os.Stdout.Fd())
}

// compatible reports whether every requested setting matches saved.
func compatible(saved, want session.Settings) bool {
	if want.Field != "" && want.Field != saved.Field {
		return false
	}
	if want.Level != "" && want.Level != saved.Level {
		return false
	}
	if want.Count != 0 && want.Count != saved.Count {
		return false
	}
	return true
}

func withDefaults(s session.Settings) session.Settings {
	if s.Field == "" {
		t := session.Tracks[0]
		s.Field, s.FieldLabel = t.Key, t.Label
	}
	if s.Level == "" {
		s.Level = model.LevelJunior
	}
	if s.Count == 0 {
		s.Count = session.DefaultCount
	}
	return s
}
