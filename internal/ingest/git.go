package ingest

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// runGit executes a git command in dir and returns its stdout.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w, stderr: %s",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

// cloneRepo clones url into destDir and returns the checkout path. The clone
// is shallow but fetches all branches so diffs between them stay possible.
func cloneRepo(ctx context.Context, url, destDir string, depth int) (string, error) {
	args := []string{"clone", "--no-single-branch"}
	if depth > 0 {
		args = append(args, "--depth", fmt.Sprint(depth))
	}
	args = append(args, url, destDir)

	log.Info().Str("url", url).Str("dest", destDir).Msg("Cloning repository")
	if _, err := runGit(ctx, "", args...); err != nil {
		return "", &CloneError{URL: url, Err: err}
	}
	return destDir, nil
}

// remoteBranches lists the branch names available on origin.
func remoteBranches(ctx context.Context, repoPath string) ([]string, error) {
	out, err := runGit(ctx, repoPath,
		"for-each-ref", "refs/remotes/origin", "--format", "%(refname:short)")
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, "/HEAD") {
			continue
		}
		branches = append(branches, strings.TrimPrefix(line, "origin/"))
	}
	return branches, nil
}

// diffBranches returns the textual diff from target to source, both resolved
// against origin.
func diffBranches(ctx context.Context, repoPath, source, target string) (string, error) {
	return runGit(ctx, repoPath, "diff", "origin/"+target, "origin/"+source)
}

// RepoNameFromURL derives a repository name from its clone URL.
func RepoNameFromURL(url string) string {
	name := strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
