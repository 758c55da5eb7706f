package ingest

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

const digestFileName = "digest.txt"

// digest runs the external digesting tool over repoPath and returns the
// flattened text it produced.
func (s *Service) digest(ctx context.Context, repoPath string) (string, error) {
	args := []string{"."}
	if len(s.opts.ExcludePatterns) > 0 {
		args = append(args, "--exclude-pattern", strings.Join(s.opts.ExcludePatterns, ","))
	}
	args = append(args, "--output", digestFileName)

	log.Debug().
		Str("bin", s.opts.DigesterBin).
		Str("repo", repoPath).
		Int("exclude_patterns", len(s.opts.ExcludePatterns)).
		Msg("Running digester")

	cmd := exec.CommandContext(ctx, s.opts.DigesterBin, args...)
	cmd.Dir = repoPath
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &IngestError{
			Reason: "digester failed: " + strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	data, err := os.ReadFile(filepath.Join(repoPath, digestFileName))
	if err != nil {
		return "", &IngestError{Reason: "reading digest output", Err: err}
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", &IngestError{Reason: "digester produced empty output"}
	}
	return string(data), nil
}

// Dotfiles worth showing to the LLM; the digester silently skips them.
var supplementDotfiles = []string{
	".gitignore",
	".env.example",
	".python-version",
	".flake8",
	".editorconfig",
	".pre-commit-config.yaml",
	".gitattributes",
	".dockerignore",
	".nvmrc",
	".tool-versions",
	".golangci.yml",
}

// dotfileSupplement appends common dotfiles and CI workflow files to the
// digest so their presence and content can be evaluated.
func dotfileSupplement(repoPath string) string {
	separator := strings.Repeat("=", 48)
	var b strings.Builder

	appendFile := func(displayPath, fullPath string) {
		data, err := os.ReadFile(fullPath)
		if err != nil {
			return
		}
		b.WriteString("\n" + separator + "\nFile: " + displayPath + "\n" + separator + "\n")
		b.Write(data)
		b.WriteString("\n")
	}

	for _, dotfile := range supplementDotfiles {
		full := filepath.Join(repoPath, dotfile)
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			appendFile(dotfile, full)
		}
	}

	workflows := filepath.Join(repoPath, ".github", "workflows")
	entries, err := os.ReadDir(workflows)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			appendFile(".github/workflows/"+entry.Name(), filepath.Join(workflows, entry.Name()))
		}
	}

	return b.String()
}

var digestSeparatorRe = regexp.MustCompile(`(?m)^={4,}$`)

// countDigestFiles estimates the number of files in a digest. The digester
// sandwiches each "File: path" header between two separator lines.
func countDigestFiles(content string) int {
	if n := len(digestSeparatorRe.FindAllStringIndex(content, -1)) / 2; n > 0 {
		return n
	}
	if n := strings.Count(content, "File: "); n > 0 {
		return n
	}
	return strings.Count(content, "\n") / 50
}
