package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timvw/interview-coach/internal/interview"
	"github.com/timvw/interview-coach/internal/llm"
	"github.com/timvw/interview-coach/internal/model"
	"github.com/timvw/interview-coach/internal/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// scriptedGateway answers each action with a fixed reply.
type scriptedGateway struct {
	replies map[model.Action]string
}

func (g *scriptedGateway) Complete(_ context.Context, req llm.Request) (*llm.Completion, error) {
	return &llm.Completion{Text: g.replies[req.Action]}, nil
}

func (g *scriptedGateway) Provider() string { return "groq" }
func (g *scriptedGateway) Model() string    { return "llama-3.3-70b-versatile" }

func newTestClient(t *testing.T, g llm.Gateway) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := interview.NewService(g, interview.Options{Logger: logger})
	srv := server.New(svc, server.Options{Provider: "groq", Model: "llama-3.3-70b-versatile", HasKey: true, Logger: logger})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := New(ts.URL + "/")
	require.NoError(t, err)
	return c
}

func TestClientAgainstServer(t *testing.T) {
	c := newTestClient(t, &scriptedGateway{replies: map[model.Action]string{
		model.ActionGenerate: `{"questions":["1. What is a goroutine?","2. Explain interfaces","3. How do you test HTTP handlers?"]}`,
		model.ActionEvaluate: `Sure: {"score":92.6,"feedback":"Good","keyPoints":["a","b"],"expectedAnswer":"..."}`,
		model.ActionAnalyze:  `{"role":"Backend Developer","level":"senior"}`,
	}})
	ctx := context.Background()

	qs, err := c.Generate(ctx, model.GenerateRequest{FieldLabel: "Backend Developer", Level: "mid", Count: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"What is a goroutine?", "Explain interfaces", "How do you test HTTP handlers?"}, qs.Questions)

	ev, err := c.Evaluate(ctx, model.EvaluateRequest{FieldLabel: "Backend Developer", Level: "mid", Question: "q", Answer: "a"})
	require.NoError(t, err)
	assert.Equal(t, &model.Evaluation{Score: 93, Feedback: "Good", KeyPoints: []string{"a", "b"}, ExpectedAnswer: "..."}, ev)

	p, err := c.Analyze(ctx, model.AnalyzeRequest{Profile: "Ten years of Go services"})
	require.NoError(t, err)
	assert.Equal(t, &model.Profile{Domain: "General", Role: "Backend Developer", Level: model.LevelSenior}, p)

	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.True(t, h.OK)
	assert.True(t, h.HasKey)
	assert.Equal(t, "groq", h.Provider)
}

func TestClientErrors(t *testing.T) {
	c := newTestClient(t, &scriptedGateway{replies: map[model.Action]string{
		model.ActionGenerate: "no json here",
	}})
	ctx := context.Background()

	t.Run("request error", func(t *testing.T) {
		_, err := c.Evaluate(ctx, model.EvaluateRequest{FieldLabel: "x"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr), "err = %v", err)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "Missing level/question/answer", apiErr.Message)
	})

	t.Run("extraction error carries raw", func(t *testing.T) {
		_, err := c.Generate(ctx, model.GenerateRequest{FieldLabel: "x", Level: "junior", Count: 3})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr), "err = %v", err)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		require.NotNil(t, apiErr.Raw)
		assert.Equal(t, "no json here", *apiErr.Raw)
		assert.Contains(t, apiErr.Error(), "HTTP 500")
	})
}

func TestNonJSONErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway from proxy", http.StatusBadGateway)
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), model.AnalyzeRequest{Profile: "x"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "bad gateway from proxy", apiErr.Message)
}

func TestTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()

	c, err := New(ts.URL, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), model.AnalyzeRequest{Profile: "x"})
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, u := range []string{"localhost:3001", "ftp://host", "://bad"} {
		_, err := New(u)
		assert.Error(t, err, u)
	}
}
