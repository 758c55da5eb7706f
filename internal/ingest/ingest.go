// Package ingest clones public repositories and flattens them into a single
// text digest via an external digesting tool, for use as LLM input.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/devassist/internal/chunk"
)

// Options controls cloning and digestion.
type Options struct {
	ExcludePatterns []string
	CloneDepth      int
	DigesterBin     string
	// WorkDir is the parent directory for ephemeral clones. Empty means the
	// system temp dir.
	WorkDir string
}

// Service performs ingestion with a fixed set of options.
type Service struct {
	opts Options
}

// NewService creates an ingestion service.
func NewService(opts Options) *Service {
	if opts.DigesterBin == "" {
		opts.DigesterBin = "gitingest"
	}
	if opts.CloneDepth == 0 {
		opts.CloneDepth = 1
	}
	return &Service{opts: opts}
}

// Result is a repository digest plus its metadata.
type Result struct {
	Content       string        `json:"-"`
	RepoName      string        `json:"repo_name"`
	CharCount     int           `json:"char_count"`
	LineCount     int           `json:"line_count"`
	FileCount     int           `json:"file_count"`
	TokenEstimate int           `json:"token_estimate"`
	Elapsed       time.Duration `json:"elapsed"`
}

// Ingest clones url into an ephemeral directory, digests the tree, and
// returns the flattened text. The clone directory is removed on every exit
// path.
func (s *Service) Ingest(ctx context.Context, url string) (_ *Result, err error) {
	start := time.Now()

	tmp, err := os.MkdirTemp(s.opts.WorkDir, "devassist-ingest-")
	if err != nil {
		return nil, &IngestError{Reason: "creating temp directory", Err: err}
	}
	defer os.RemoveAll(tmp)

	repoPath := filepath.Join(tmp, RepoNameFromURL(url))
	if _, err := cloneRepo(ctx, url, repoPath, s.opts.CloneDepth); err != nil {
		return nil, err
	}

	content, err := s.digest(ctx, repoPath)
	if err != nil {
		return nil, err
	}

	content += dotfileSupplement(repoPath)

	result := &Result{
		Content:       content,
		RepoName:      RepoNameFromURL(url),
		CharCount:     len(content),
		LineCount:     strings.Count(content, "\n"),
		FileCount:     countDigestFiles(content),
		TokenEstimate: chunk.EstimateTokens(content),
		Elapsed:       time.Since(start),
	}

	log.Info().
		Str("repo", result.RepoName).
		Int("chars", result.CharCount).
		Int("token_estimate", result.TokenEstimate).
		Int("files", result.FileCount).
		Dur("elapsed", result.Elapsed).
		Msg("Repository digested")

	return result, nil
}

// RemoteBranches clones url and returns the branch names on origin. The
// clone is discarded before returning.
func (s *Service) RemoteBranches(ctx context.Context, url string) (_ []string, err error) {
	tmp, err := os.MkdirTemp(s.opts.WorkDir, "devassist-branches-")
	if err != nil {
		return nil, &IngestError{Reason: "creating temp directory", Err: err}
	}
	defer os.RemoveAll(tmp)

	repoPath := filepath.Join(tmp, RepoNameFromURL(url))
	if _, err := cloneRepo(ctx, url, repoPath, s.opts.CloneDepth); err != nil {
		return nil, err
	}
	return remoteBranches(ctx, repoPath)
}

// DiffBetween clones url and returns the diff from target to source. Both
// branches must exist on the remote; the clone is discarded before returning.
func (s *Service) DiffBetween(ctx context.Context, url, source, target string) (_ string, err error) {
	tmp, err := os.MkdirTemp(s.opts.WorkDir, "devassist-diff-")
	if err != nil {
		return "", &IngestError{Reason: "creating temp directory", Err: err}
	}
	defer os.RemoveAll(tmp)

	repoPath := filepath.Join(tmp, RepoNameFromURL(url))
	if _, err := cloneRepo(ctx, url, repoPath, s.opts.CloneDepth); err != nil {
		return "", err
	}

	branches, err := remoteBranches(ctx, repoPath)
	if err != nil {
		return "", &CloneError{URL: url, Err: err}
	}
	for _, ref := range []string{source, target} {
		if !containsBranch(branches, ref) {
			return "", &RefNotFoundError{Ref: ref}
		}
	}

	diff, err := diffBranches(ctx, repoPath, source, target)
	if err != nil {
		return "", &IngestError{Reason: "computing diff", Err: err}
	}

	log.Info().
		Str("source", source).
		Str("target", target).
		Int("chars", len(diff)).
		Msg("Diff computed")

	return diff, nil
}

func containsBranch(branches []string, name string) bool {
	for _, b := range branches {
		if b == name {
			return true
		}
	}
	return false
}
