package practice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/timvw/interview-coach/internal/interview"
	"github.com/timvw/interview-coach/internal/model"
	"github.com/timvw/interview-coach/internal/session"
)

// ErrSetupCancelled is returned when the user leaves the setup form.
var ErrSetupCancelled = errors.New("setup cancelled")

// customTrack is the select value for a free-text role.
const customTrack = "custom"

// setupValues are the raw form fields.
type setupValues struct {
	track  string
	custom string
	level  model.Level
	count  string
}

func newSetupValues(s session.Settings) *setupValues {
	v := &setupValues{
		track: session.Tracks[0].Key,
		level: model.LevelJunior,
		count: strconv.Itoa(session.DefaultCount),
	}
	if s.Field != "" {
		if _, ok := session.LookupTrack(s.Field); ok {
			v.track = s.Field
		} else {
			v.track = customTrack
			v.custom = s.FieldLabel
		}
	}
	if s.Level != "" {
		v.level = s.Level
	}
	if s.Count != 0 {
		v.count = strconv.Itoa(s.Count)
	}
	return v
}

func (v *setupValues) settings() (session.Settings, error) {
	var s session.Settings
	if v.track == customTrack {
		role := strings.TrimSpace(v.custom)
		if role == "" {
			return s, errors.New("custom role is empty")
		}
		s.Field, s.FieldLabel = role, role
	} else {
		t, _ := session.LookupTrack(v.track)
		s.Field, s.FieldLabel = t.Key, t.Label
	}
	s.Level = v.level
	if err := validateCount(v.count); err != nil {
		return s, err
	}
	n, _ := strconv.Atoi(strings.TrimSpace(v.count))
	s.Count = n
	return s, nil
}

func validateCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a number")
	}
	if n < interview.MinQuestions || n > interview.MaxQuestions {
		return fmt.Errorf("choose between %d and %d", interview.MinQuestions, interview.MaxQuestions)
	}
	return nil
}

func validateRole(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("enter a role")
	}
	return nil
}

func newSetupForm(v *setupValues, themeName string) *huh.Form {
	tracks := make([]huh.Option[string], 0, len(session.Tracks)+1)
	for _, t := range session.Tracks {
		tracks = append(tracks, huh.NewOption(t.Label, t.Key))
	}
	tracks = append(tracks, huh.NewOption("Other role...", customTrack))

	levels := make([]huh.Option[model.Level], 0, len(model.Levels))
	for _, l := range model.Levels {
		levels = append(levels, huh.NewOption(string(l), l))
	}

	theme := huh.ThemeCharm()
	if themeName == "light" {
		theme = huh.ThemeBase()
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Track").
				Options(tracks...).
				Value(&v.track),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Role").
				Placeholder("e.g. Site Reliability Engineer").
				Value(&v.custom).
				Validate(validateRole),
		).WithHideFunc(func() bool { return v.track != customTrack }),
		huh.NewGroup(
			huh.NewSelect[model.Level]().
				Title("Level").
				Options(levels...).
				Value(&v.level),
			huh.NewInput().
				Title("Questions").
				Description(fmt.Sprintf("%d-%d", interview.MinQuestions, interview.MaxQuestions)).
				Value(&v.count).
				Validate(validateCount),
		),
	).WithTheme(theme)
}

// Setup asks for the run settings with an interactive form. Values already
// present in s are preselected.
func Setup(ctx context.Context, s session.Settings, themeName string) (session.Settings, error) {
	v := newSetupValues(s)
	if err := newSetupForm(v, themeName).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return s, ErrSetupCancelled
		}
		return s, err
	}
	out, err := v.settings()
	if err != nil {
		return s, err
	}
	out.ProfileText = s.ProfileText
	return out, nil
}
