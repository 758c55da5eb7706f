// Package workflow orchestrates the three user-facing tasks: recruitment
// audit, code review, and merge-request description. Each controller method
// validates its input, obtains content (upload or repository ingestion),
// loads the matching prompt, and calls the LLM. Errors surface to the caller;
// nothing is retried or swallowed here.
package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/devassist/internal/chunk"
	"github.com/devassist/internal/groq"
	"github.com/devassist/internal/ingest"
	"github.com/devassist/internal/prompts"
	"github.com/devassist/internal/redact"
)

// LLM is the completion surface the workflows need.
type LLM interface {
	Complete(ctx context.Context, req groq.CompletionRequest) (*groq.Completion, error)
}

// Ingester turns repository URLs into text.
type Ingester interface {
	Ingest(ctx context.Context, url string) (*ingest.Result, error)
	RemoteBranches(ctx context.Context, url string) ([]string, error)
	DiffBetween(ctx context.Context, url, source, target string) (string, error)
}

// Options tunes analysis behavior.
type Options struct {
	TokenThreshold int
	ChunkTokens    int
	RedactSecrets  bool
}

// Controller runs the workflows. newLLM builds a completion client for a
// session's API key; tests inject fakes through it.
type Controller struct {
	newLLM   func(apiKey string) LLM
	ingester Ingester
	opts     Options
}

// NewController wires a controller.
func NewController(newLLM func(apiKey string) LLM, ingester Ingester, opts Options) *Controller {
	return &Controller{newLLM: newLLM, ingester: ingester, opts: opts}
}

// Input is the content source for the audit and review workflows. Exactly
// one field must be set.
type Input struct {
	Content string // uploaded or pasted text
	RepoURL string // public repository to clone and digest
}

func (in Input) validate() error {
	switch {
	case in.Content == "" && in.RepoURL == "":
		return &InputError{Reason: "provide either content or a repository URL"}
	case in.Content != "" && in.RepoURL != "":
		return &InputError{Reason: "provide content or a repository URL, not both"}
	}
	return nil
}

// MRInput is the content source for the merge-request workflow: either a
// ready-made diff, or a repository plus the two branches to compare.
type MRInput struct {
	Diff         string
	RepoURL      string
	SourceBranch string
	TargetBranch string
}

// Result is the outcome of one workflow run.
type Result struct {
	Response string        `json:"response"`
	Model    string        `json:"model"`
	Usage    groq.Usage    `json:"usage"`
	Elapsed  time.Duration `json:"elapsed"`
	// Ingest carries digest metadata when a repository was cloned.
	Ingest *ingest.Result `json:"ingest,omitempty"`
}

func checkSession(sess *Session) error {
	if sess == nil || sess.APIKey == "" {
		return &ConfigError{Missing: "API key"}
	}
	if sess.Model == "" {
		return &ConfigError{Missing: "model"}
	}
	return nil
}

// Audit runs the recruitment-style audit workflow.
func (c *Controller) Audit(ctx context.Context, sess *Session, in Input) (*Result, error) {
	return c.analyze(ctx, sess, in, prompts.RecruiterAudit)
}

// Review runs the senior code review workflow.
func (c *Controller) Review(ctx context.Context, sess *Session, in Input) (*Result, error) {
	return c.analyze(ctx, sess, in, prompts.CodeReview)
}

// analyze is the shared orchestration for the audit and review workflows.
// Validation happens before any network call.
func (c *Controller) analyze(ctx context.Context, sess *Session, in Input, promptName string) (*Result, error) {
	if err := checkSession(sess); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	template, err := prompts.Load(promptName)
	if err != nil {
		return nil, err
	}

	llm := c.newLLM(sess.APIKey)
	start := time.Now()

	var completion *groq.Completion
	var meta *ingest.Result

	if in.RepoURL != "" {
		meta, err = c.ingester.Ingest(ctx, in.RepoURL)
		if err != nil {
			return nil, err
		}

		content := meta.Content
		if c.opts.RedactSecrets {
			content = redact.Secrets(content)
		}

		completion, err = chunk.Analyze(ctx, llm, chunk.Params{
			Model:          sess.Model,
			Template:       template,
			Content:        content,
			RepoURL:        in.RepoURL,
			TokenThreshold: c.opts.TokenThreshold,
			ChunkTokens:    c.opts.ChunkTokens,
		})
	} else {
		completion, err = llm.Complete(ctx, groq.CompletionRequest{
			Model:        sess.Model,
			SystemPrompt: template,
			UserContent:  in.Content,
		})
	}
	if err != nil {
		return nil, err
	}

	return c.finish(sess, promptName, completion, meta, start), nil
}

// MergeRequest generates an MR description from a diff, either uploaded or
// computed between two remote branches.
func (c *Controller) MergeRequest(ctx context.Context, sess *Session, in MRInput) (*Result, error) {
	if err := checkSession(sess); err != nil {
		return nil, err
	}
	switch {
	case in.Diff == "" && in.RepoURL == "":
		return nil, &InputError{Reason: "provide either a diff or a repository URL"}
	case in.Diff != "" && in.RepoURL != "":
		return nil, &InputError{Reason: "provide a diff or a repository URL, not both"}
	case in.RepoURL != "" && (in.SourceBranch == "" || in.TargetBranch == ""):
		return nil, &InputError{Reason: "source and target branches are required with a repository URL"}
	}

	template, err := prompts.Load(prompts.MRDescription)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	diff := in.Diff
	if in.RepoURL != "" {
		diff, err = c.ingester.DiffBetween(ctx, in.RepoURL, in.SourceBranch, in.TargetBranch)
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(diff) == "" {
		return nil, &InputError{Reason: "diff is empty, nothing to describe"}
	}
	if c.opts.RedactSecrets {
		diff = redact.Secrets(diff)
	}

	completion, err := c.newLLM(sess.APIKey).Complete(ctx, groq.CompletionRequest{
		Model:        sess.Model,
		SystemPrompt: template,
		UserContent:  diff,
	})
	if err != nil {
		return nil, err
	}

	return c.finish(sess, prompts.MRDescription, completion, nil, start), nil
}

// Branches lists the remote branches of a repository, for the merge-request
// branch selectors.
func (c *Controller) Branches(ctx context.Context, repoURL string) ([]string, error) {
	if repoURL == "" {
		return nil, &InputError{Reason: "repository URL is required"}
	}
	return c.ingester.RemoteBranches(ctx, repoURL)
}

func (c *Controller) finish(sess *Session, workflow string, completion *groq.Completion, meta *ingest.Result, start time.Time) *Result {
	sess.LastResponse = completion.Content
	sess.UpdatedAt = time.Now()

	log.Info().
		Str("workflow", workflow).
		Str("model", completion.Model).
		Int("response_chars", len(completion.Content)).
		Dur("elapsed", time.Since(start)).
		Msg("Workflow completed")

	return &Result{
		Response: completion.Content,
		Model:    completion.Model,
		Usage:    completion.Usage,
		Elapsed:  time.Since(start),
		Ingest:   meta,
	}
}
