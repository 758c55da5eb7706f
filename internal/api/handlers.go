package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/devassist/internal/groq"
	"github.com/devassist/internal/ingest"
	"github.com/devassist/internal/prompts"
	"github.com/devassist/internal/workflow"
)

// analysisRequest is the payload for the audit and review endpoints.
type analysisRequest struct {
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	Content string `json:"content,omitempty"`
	RepoURL string `json:"repo_url,omitempty"`
}

// mrRequest is the payload for the merge-request endpoint.
type mrRequest struct {
	APIKey       string `json:"api_key"`
	Model        string `json:"model"`
	Diff         string `json:"diff,omitempty"`
	RepoURL      string `json:"repo_url,omitempty"`
	SourceBranch string `json:"source_branch,omitempty"`
	TargetBranch string `json:"target_branch,omitempty"`
}

// analysisResponse wraps a workflow result with its session ID so the
// response can be fetched or downloaded later.
type analysisResponse struct {
	SessionID string `json:"session_id"`
	*workflow.Result
}

func (s *Server) runAudit(c echo.Context) error {
	return s.runAnalysis(c, s.ctrl.Audit)
}

func (s *Server) runReview(c echo.Context) error {
	return s.runAnalysis(c, s.ctrl.Review)
}

func (s *Server) runAnalysis(c echo.Context, run func(ctx context.Context, sess *workflow.Session, in workflow.Input) (*workflow.Result, error)) error {
	var req analysisRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sess := workflow.NewSession(req.APIKey, req.Model)
	result, err := run(c.Request().Context(), sess, workflow.Input{
		Content: req.Content,
		RepoURL: req.RepoURL,
	})
	if err != nil {
		return workflowHTTPError(err)
	}

	s.sessions.Put(sess)
	return c.JSON(http.StatusOK, analysisResponse{SessionID: sess.ID, Result: result})
}

func (s *Server) runMergeRequest(c echo.Context) error {
	var req mrRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sess := workflow.NewSession(req.APIKey, req.Model)
	result, err := s.ctrl.MergeRequest(c.Request().Context(), sess, workflow.MRInput{
		Diff:         req.Diff,
		RepoURL:      req.RepoURL,
		SourceBranch: req.SourceBranch,
		TargetBranch: req.TargetBranch,
	})
	if err != nil {
		return workflowHTTPError(err)
	}

	s.sessions.Put(sess)
	return c.JSON(http.StatusOK, analysisResponse{SessionID: sess.ID, Result: result})
}

func (s *Server) listModels(c echo.Context) error {
	apiKey := bearerToken(c)
	if apiKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing bearer token")
	}

	models, err := s.newClient(apiKey).ListModels(c.Request().Context())
	if err != nil {
		return workflowHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"models": models})
}

func (s *Server) listBranches(c echo.Context) error {
	repoURL := c.QueryParam("repo_url")
	branches, err := s.ctrl.Branches(c.Request().Context(), repoURL)
	if err != nil {
		return workflowHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"branches": branches})
}

func (s *Server) getResponse(c echo.Context) error {
	sess := s.sessions.Get(c.Param("id"))
	if sess == nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"session_id": sess.ID,
		"response":   sess.LastResponse,
	})
}

func (s *Server) downloadResponse(c echo.Context) error {
	sess := s.sessions.Get(c.Param("id"))
	if sess == nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="response.txt"`)
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(sess.LastResponse))
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// workflowHTTPError maps workflow and client error kinds onto HTTP statuses.
func workflowHTTPError(err error) *echo.HTTPError {
	var (
		configErr  *workflow.ConfigError
		inputErr   *workflow.InputError
		authErr    *groq.AuthError
		rateErr    *groq.RateLimitError
		refErr     *ingest.RefNotFoundError
		cloneErr   *ingest.CloneError
		ingestErr  *ingest.IngestError
		networkErr *groq.NetworkError
	)
	switch {
	case errors.As(err, &configErr), errors.As(err, &inputErr):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &authErr):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.As(err, &rateErr):
		return echo.NewHTTPError(http.StatusTooManyRequests,
			err.Error()+" (wait a moment and resubmit)")
	case errors.Is(err, prompts.ErrNotFound), errors.As(err, &refErr):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &cloneErr), errors.As(err, &ingestErr), errors.As(err, &networkErr):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
