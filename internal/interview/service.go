// Package interview turns interview requests into validated results.
//
// Each action runs the same pipeline: validate the request, build the
// prompt, make one gateway call, extract the JSON object from the reply and
// check it against the action's contract. Nothing is retried and no
// failure is turned into an empty success.
package interview

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/timvw/interview-coach/internal/llm"
	"github.com/timvw/interview-coach/internal/model"
	telem "github.com/timvw/interview-coach/internal/otel"
	"github.com/timvw/interview-coach/internal/prompt"
)

// Interviewer runs interview actions. *Service runs them in-process;
// client.Client runs them against a remote server.
type Interviewer interface {
	Generate(ctx context.Context, req model.GenerateRequest) (*model.Questions, error)
	Evaluate(ctx context.Context, req model.EvaluateRequest) (*model.Evaluation, error)
	Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.Profile, error)
}

var _ Interviewer = (*Service)(nil)

// DefaultTimeout bounds a single gateway call.
const DefaultTimeout = 15 * time.Second

// Service runs interview actions against a gateway. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	gateway llm.Gateway
	timeout time.Duration
	metrics *telem.Metrics
	logger  *slog.Logger
}

// Options configures a Service.
type Options struct {
	// Timeout bounds each gateway call. Zero means DefaultTimeout; a
	// negative value leaves calls bounded only by the caller's context.
	Timeout time.Duration
	// Metrics may be nil.
	Metrics *telem.Metrics
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewService creates a Service. A nil gateway means no credential is
// configured: every action then fails with a configuration error.
func NewService(gateway llm.Gateway, opts Options) *Service {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		gateway: gateway,
		timeout: opts.Timeout,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
}

// Ready reports whether a gateway is configured.
func (s *Service) Ready() bool {
	return s.gateway != nil
}

// Provider returns the gateway provider name, or "" when unconfigured.
func (s *Service) Provider() string {
	if s.gateway == nil {
		return ""
	}
	return s.gateway.Provider()
}

// Model returns the gateway model name, or "" when unconfigured.
func (s *Service) Model() string {
	if s.gateway == nil {
		return ""
	}
	return s.gateway.Model()
}

// Generate returns interview questions for a role and level. The requested
// count is clamped to [MinQuestions, MaxQuestions] before prompting.
func (s *Service) Generate(ctx context.Context, req model.GenerateRequest) (*model.Questions, error) {
	if err := req.Validate(); err != nil {
		return nil, requestError(err)
	}
	n := ClampInt(req.Count, MinQuestions, MaxQuestions)
	return run(ctx, s, model.ActionGenerate,
		func() (string, error) { return prompt.Generate(req, n) },
		func(obj map[string]any, raw string) (*model.Questions, error) {
			return ValidateQuestions(obj, n, raw)
		})
}

// Evaluate scores a single answer.
func (s *Service) Evaluate(ctx context.Context, req model.EvaluateRequest) (*model.Evaluation, error) {
	if err := req.Validate(); err != nil {
		return nil, requestError(err)
	}
	return run(ctx, s, model.ActionEvaluate,
		func() (string, error) { return prompt.Evaluate(req) },
		ValidateEvaluation)
}

// Analyze infers a domain, role and level from a free-text profile.
func (s *Service) Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, requestError(err)
	}
	return run(ctx, s, model.ActionAnalyze,
		func() (string, error) { return prompt.Analyze(req) },
		ValidateProfile)
}

// run executes build prompt -> complete -> extract -> validate for one action.
func run[T any](
	ctx context.Context,
	s *Service,
	action model.Action,
	build func() (string, error),
	check func(obj map[string]any, raw string) (*T, error),
) (*T, error) {
	start := time.Now()
	result, err := runStages(ctx, s, action, build, check)

	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
		attrs := []any{"action", action, "kind", outcome, "error", err}
		var ie *Error
		if errors.As(err, &ie) && ie.HasRaw {
			attrs = append(attrs, "raw", ie.Raw)
		}
		s.logger.WarnContext(ctx, "interview action failed", attrs...)
	} else {
		s.logger.DebugContext(ctx, "interview action completed", "action", action, "duration", time.Since(start))
	}
	s.metrics.RecordAction(ctx, string(action), outcome, time.Since(start))
	return result, err
}

func runStages[T any](
	ctx context.Context,
	s *Service,
	action model.Action,
	build func() (string, error),
	check func(obj map[string]any, raw string) (*T, error),
) (*T, error) {
	if s.gateway == nil {
		return nil, &Error{Kind: KindConfiguration, Message: "Missing API key", Err: ErrNoCredential}
	}

	p, err := build()
	if err != nil {
		return nil, &Error{Kind: KindRequest, Message: "Cannot build prompt", Err: err}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	completion, err := s.gateway.Complete(ctx, llm.Request{Action: action, Prompt: p})
	if err != nil {
		return nil, providerError(err)
	}
	s.metrics.RecordTokens(ctx, s.gateway.Provider(), s.gateway.Model(),
		completion.Usage.InputTokens, completion.Usage.OutputTokens)

	obj, ok := Extract(completion.Text)
	if !ok {
		return nil, extractionError(completion.Text)
	}
	return check(obj, completion.Text)
}
