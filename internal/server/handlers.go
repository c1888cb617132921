package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timvw/interview-coach/internal/interview"
	"github.com/timvw/interview-coach/internal/model"
)

const invalidActionMessage = "Invalid action. Use ?action=generate, ?action=evaluate or ?action=analyze"

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, model.Health{
		OK:       true,
		HasKey:   s.opts.HasKey,
		Model:    s.opts.Model,
		Provider: s.opts.Provider,
		Offline:  s.opts.Offline,
	})
}

func (s *Server) handleInterview(c *gin.Context) {
	action, ok := model.ParseAction(c.Query("action"))
	if !ok {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: invalidActionMessage})
		return
	}

	ctx := c.Request.Context()
	switch action {
	case model.ActionGenerate:
		dispatch(c, func(req model.GenerateRequest) (any, error) {
			return s.interviewer.Generate(ctx, req)
		})
	case model.ActionEvaluate:
		dispatch(c, func(req model.EvaluateRequest) (any, error) {
			return s.interviewer.Evaluate(ctx, req)
		})
	case model.ActionAnalyze:
		dispatch(c, func(req model.AnalyzeRequest) (any, error) {
			return s.interviewer.Analyze(ctx, req)
		})
	}
}

// dispatch decodes the body into Req, runs fn and writes the outcome.
// An empty body decodes to the zero request so the missing fields are
// reported by validation.
func dispatch[Req any](c *gin.Context, fn func(Req) (any, error)) {
	var req Req
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "Request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid JSON body", Detail: err.Error()})
		return
	}

	result, err := fn(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func writeError(c *gin.Context, err error) {
	var ie *interview.Error
	if !errors.As(err, &ie) {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) {
			// Client went away; the status is never seen.
			status = 499
		}
		c.JSON(status, model.ErrorResponse{Error: "Server error", Detail: err.Error()})
		return
	}

	body := model.ErrorResponse{Error: ie.Message}
	switch {
	case ie.HasRaw:
		raw := ie.Raw
		body.Raw = &raw
	case ie.Err != nil:
		body.Detail = ie.Err.Error()
	}
	c.JSON(ie.Kind.HTTPStatus(), body)
}
